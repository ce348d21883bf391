package engine

import (
	"errors"
	"sync"
)

// ErrNotReady is returned by Session.Run while a required dataset is missing.
var ErrNotReady = errors.New("videostats: required dataset not loaded")

// Session holds the most recently loaded datasets and gates the pipeline
// until every required one is present. Each Set call replaces the previous
// dataset wholesale. Safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	cfg       *config
	target    []RawRow
	reference []RawRow
}

// NewSession creates a session whose runs use opts.
func NewSession(opts ...Option) *Session {
	return &Session{cfg: applyOptions(opts)}
}

// SetTarget replaces the target dataset. A nil slice marks it as not loaded.
func (s *Session) SetTarget(rows []RawRow) {
	s.mu.Lock()
	s.target = rows
	s.mu.Unlock()
}

// SetReference replaces the reference dataset. A nil slice marks it as not loaded.
func (s *Session) SetReference(rows []RawRow) {
	s.mu.Lock()
	s.reference = rows
	s.mu.Unlock()
}

// Ready reports whether every required dataset is loaded.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

func (s *Session) readyLocked() bool {
	if s.target == nil {
		return false
	}
	return !s.cfg.ReferenceRequired || s.reference != nil
}

// Run executes the pipeline over the current datasets.
func (s *Session) Run() (*Summary, error) {
	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	target, reference := s.target, s.reference
	s.mu.Unlock()

	return execute(s.cfg, target, reference), nil
}
