package engine

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/TomVdv187/CircusDailyVideoStats/language"
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// VIDEOSTATS ENGINE TYPES
// ============================================================================
// RawRow      — one decoded spreadsheet row, untyped
// Row         — normalized video record (also the grouped record)
// SummaryStats, MonthlyBucket, Funnel, Leaderboard, Comparison — derived
// Summary     — the single immutable output handed to the presentation layer
//
// Everything here is derived and read-only; a run recomputes it all.
// ============================================================================

// RawRow is a decoded spreadsheet row keyed by source column name.
// Values may be missing, empty, strings, numbers, bools or nil.
type RawRow map[string]any

// Row is a normalized video record. Every numeric field is finite.
type Row struct {
	Title          string       `json:"video"`
	Catalogue      string       `json:"catalogue"`
	DateDay        *civil.Date  `json:"jour,omitempty"`
	Streams        float64      `json:"streams"`
	Comp25         float64      `json:"comp25"`
	Comp50         float64      `json:"comp50"`
	Comp75         float64      `json:"comp75"`
	Comp100        float64      `json:"comp100"`
	CompletionRate float64      `json:"completionRate"`
	ViewTime       float64      `json:"viewTime"`
	Language       language.Tag `json:"language,omitempty"`
}

// Measure returns the numeric field named by key, or 0 for unknown keys.
func (r Row) Measure(key string) float64 {
	switch key {
	case schema.MeasureStreams:
		return r.Streams
	case schema.MeasureComp25:
		return r.Comp25
	case schema.MeasureComp50:
		return r.Comp50
	case schema.MeasureComp75:
		return r.Comp75
	case schema.MeasureComp100:
		return r.Comp100
	case schema.MeasureCompletionRate:
		return r.CompletionRate
	case schema.MeasureViewTime:
		return r.ViewTime
	}
	return 0
}

func (r *Row) setMeasure(key string, v float64) {
	switch key {
	case schema.MeasureStreams:
		r.Streams = v
	case schema.MeasureComp25:
		r.Comp25 = v
	case schema.MeasureComp50:
		r.Comp50 = v
	case schema.MeasureComp75:
		r.Comp75 = v
	case schema.MeasureComp100:
		r.Comp100 = v
	case schema.MeasureCompletionRate:
		r.CompletionRate = v
	case schema.MeasureViewTime:
		r.ViewTime = v
	}
}

// Month returns the row's "YYYY-MM" key, or "" when the date is unknown.
func (r Row) Month() string {
	if r.DateDay == nil {
		return ""
	}
	return monthKey(*r.DateDay)
}

// ============================================================================
// AGGREGATES
// ============================================================================

// SummaryStats aggregates a row set. All fields are zero for an empty set.
type SummaryStats struct {
	Count              int     `json:"count"`
	TotalStreams       float64 `json:"totalStreams"`
	AvgStreamsPerVideo float64 `json:"avgStreamsPerVideo"`
	Comp25             float64 `json:"comp25"`
	Comp50             float64 `json:"comp50"`
	Comp75             float64 `json:"comp75"`
	Comp100            float64 `json:"comp100"`
	AvgCompletionRate  float64 `json:"avgCompletionRate"`
	AvgViewTime        float64 `json:"avgViewTime"`
}

// MonthlyBucket aggregates the rows of one calendar month.
type MonthlyBucket struct {
	Month              string  `json:"month"`      // "2024-02"
	Label              string  `json:"monthLabel"` // "Feb 24"
	VideoCount         int     `json:"videoCount"`
	TotalStreams       float64 `json:"totalStreams"`
	AvgStreamsPerVideo float64 `json:"avgStreamsPerVideo"`
	Comp25             float64 `json:"comp25"`
	Comp50             float64 `json:"comp50"`
	Comp75             float64 `json:"comp75"`
	Comp100            float64 `json:"comp100"`
}

// LanguageShare aggregates the target rows carrying one language tag.
type LanguageShare struct {
	Language     language.Tag `json:"language"`
	VideoCount   int          `json:"videoCount"`
	TotalStreams float64      `json:"totalStreams"`
	Stats        SummaryStats `json:"stats"`
}

// Leaderboard is a ranked prefix of one side's rows.
type Leaderboard struct {
	Name    string `json:"name"`
	Source  string `json:"source"` // SourceTarget or SourceReference
	Measure string `json:"measure"`
	Size    int    `json:"size"`
	Rows    []Row  `json:"rows"`
}

// Leaderboard sources.
const (
	SourceTarget    = "target"
	SourceReference = "reference"
)

// ============================================================================
// SUMMARY — the pipeline's only output
// ============================================================================

// Summary is everything the presentation layer consumes from one run.
type Summary struct {
	Variant     Variant   `json:"variant"`
	GeneratedAt time.Time `json:"generatedAt"`

	Target    SummaryStats  `json:"target"`
	Reference *SummaryStats `json:"reference,omitempty"`

	Languages    []LanguageShare `json:"languages,omitempty"`
	Monthly      []MonthlyBucket `json:"monthly"`
	Funnel       Funnel          `json:"funnel"`
	Leaderboards []Leaderboard   `json:"leaderboards"`
	Benchmarks   []Comparison    `json:"benchmarks"`

	TargetRows    []Row `json:"targetRows"`
	ReferenceRows []Row `json:"referenceRows,omitempty"`
}

// Leaderboard returns the named leaderboard, or nil.
func (s *Summary) Leaderboard(name string) *Leaderboard {
	for i := range s.Leaderboards {
		if s.Leaderboards[i].Name == name {
			return &s.Leaderboards[i]
		}
	}
	return nil
}
