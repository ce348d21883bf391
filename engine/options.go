package engine

import (
	"fmt"
	"time"

	"github.com/TomVdv187/CircusDailyVideoStats/language"
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute() and Session
// ============================================================================
// The dashboard shipped in four variants that differ in where top-N
// truncation happens, whether a reference source is loaded, which
// leaderboards exist and whether titles are language-tagged. Each variant is
// a preset; every knob is also exposed as its own option.
// ============================================================================

// Variant names a preset pipeline configuration.
type Variant string

const (
	// VariantTop100 groups target rows, ranks by streams and keeps 100.
	VariantTop100 Variant = "top100"
	// VariantRawTop100 keeps the first 100 target rows, then groups.
	VariantRawTop100 Variant = "raw-top100"
	// VariantComparison adds a keyword-selected reference source.
	VariantComparison Variant = "comparison"
	// VariantLanguage is VariantComparison with language tagging.
	VariantLanguage Variant = "language"
)

// Variants lists the presets in documentation order.
func Variants() []Variant {
	return []Variant{VariantTop100, VariantRawTop100, VariantComparison, VariantLanguage}
}

// ParseVariant resolves a variant name; "" selects VariantTop100.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return VariantTop100, nil
	}
	for _, v := range Variants() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q (want one of %v)", s, Variants())
}

// TruncateMode selects where the top-N cut is applied.
type TruncateMode string

const (
	// TruncateNone keeps every selected row.
	TruncateNone TruncateMode = "none"
	// TruncateRawFirstN keeps the first N selected rows in source order, before grouping.
	TruncateRawFirstN TruncateMode = "raw-first-n"
	// TruncateRankedTopN groups first, then keeps the N rows with the most streams.
	TruncateRankedTopN TruncateMode = "ranked-top-n"
)

// ParseTruncateMode resolves a truncation mode name.
func ParseTruncateMode(s string) (TruncateMode, error) {
	switch m := TruncateMode(s); m {
	case TruncateNone, TruncateRawFirstN, TruncateRankedTopN:
		return m, nil
	}
	return "", fmt.Errorf("unknown truncation mode %q", s)
}

// LeaderboardSpec declares one ranked leaderboard.
type LeaderboardSpec struct {
	Name    string `json:"name"`
	Source  string `json:"source"`  // SourceTarget or SourceReference
	Measure string `json:"measure"` // ranking key; "" ranks by streams
	Size    int    `json:"size"`
}

// DefaultTargetCatalogue is the catalogue label of the analysed publisher.
const DefaultTargetCatalogue = "Circus Daily"

// DefaultReferenceKeywords select Belgian football content from the reference export.
var DefaultReferenceKeywords = []string{
	"pro league", "jupiler", "anderlecht", "club brugge", "standard", "genk",
	"gent", "antwerp", "union", "rode duivels", "red devils", "diables rouges",
}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Variant           Variant
	Fields            schema.Fields
	TargetCatalogue   string
	ReferenceKeywords []string
	ReferenceRequired bool
	Truncation        TruncateMode
	TopN              int
	Leaderboards      []LeaderboardSpec
	Classifier        *language.Classifier // nil = no language tagging
	Benchmarks        Benchmarks
	Now               func() time.Time
}

// WithVariant applies a preset. Options after it override individual knobs.
func WithVariant(v Variant) Option {
	return func(c *config) {
		c.Variant = v
		switch v {
		case VariantRawTop100:
			c.ReferenceRequired = false
			c.Truncation = TruncateRawFirstN
			c.TopN = 100
			c.Classifier = nil
			c.Leaderboards = []LeaderboardSpec{{Name: "top10", Source: SourceTarget, Size: 10}}
		case VariantComparison, VariantLanguage:
			c.ReferenceRequired = true
			c.Truncation = TruncateRankedTopN
			c.TopN = 100
			c.Classifier = nil
			if v == VariantLanguage {
				c.Classifier = language.New()
			}
			c.Leaderboards = []LeaderboardSpec{
				{Name: "top15", Source: SourceTarget, Size: 15},
				{Name: "reference-top15", Source: SourceReference, Size: 15},
				{Name: "top100", Source: SourceTarget, Size: 100},
			}
		default:
			c.Variant = VariantTop100
			c.ReferenceRequired = false
			c.Truncation = TruncateRankedTopN
			c.TopN = 100
			c.Classifier = nil
			c.Leaderboards = []LeaderboardSpec{{Name: "top10", Source: SourceTarget, Size: 10}}
		}
	}
}

// WithFields sets the source column layout. Empty names keep their defaults.
func WithFields(f schema.Fields) Option {
	return func(c *config) {
		c.Fields = f.WithDefaults()
	}
}

// WithTargetCatalogue sets the exact catalogue label of target rows.
func WithTargetCatalogue(label string) Option {
	return func(c *config) {
		c.TargetCatalogue = label
	}
}

// WithReferenceKeywords sets the title keywords selecting reference rows.
func WithReferenceKeywords(keywords ...string) Option {
	return func(c *config) {
		c.ReferenceKeywords = append([]string(nil), keywords...)
	}
}

// WithReferenceRequired controls whether a run waits for the reference dataset.
func WithReferenceRequired(required bool) Option {
	return func(c *config) {
		c.ReferenceRequired = required
	}
}

// WithTruncation sets where the top-N cut happens and its size.
func WithTruncation(mode TruncateMode, n int) Option {
	return func(c *config) {
		c.Truncation = mode
		c.TopN = n
	}
}

// WithLeaderboards replaces the leaderboard list.
func WithLeaderboards(specs ...LeaderboardSpec) Option {
	return func(c *config) {
		c.Leaderboards = append([]LeaderboardSpec(nil), specs...)
	}
}

// WithLeaderboard appends one leaderboard.
func WithLeaderboard(name, source, measure string, size int) Option {
	return func(c *config) {
		c.Leaderboards = append(c.Leaderboards, LeaderboardSpec{
			Name:    name,
			Source:  source,
			Measure: measure,
			Size:    size,
		})
	}
}

// WithClassifier enables language tagging with cl; nil disables it.
func WithClassifier(cl *language.Classifier) Option {
	return func(c *config) {
		c.Classifier = cl
	}
}

// WithBenchmarks sets the market reference values.
func WithBenchmarks(b Benchmarks) Option {
	return func(c *config) {
		c.Benchmarks = b
	}
}

// WithClock sets the time source stamped on summaries.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.Now = now
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Fields:            schema.DefaultFields(),
		TargetCatalogue:   DefaultTargetCatalogue,
		ReferenceKeywords: DefaultReferenceKeywords,
		Benchmarks:        DefaultBenchmarks(),
		Now:               time.Now,
	}
	WithVariant(VariantTop100)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
