package engine

// ============================================================================
// BENCHMARKS — target aggregates vs market reference values
// ============================================================================
// Defaults are the Belgian sports-publisher figures the dashboard compares
// against. "Completion Rate" is compared on the 100% checkpoint, not on the
// export's average completion column.
// ============================================================================

// Benchmarks are market reference values for the summary cards.
type Benchmarks struct {
	StreamsPerVideo float64 `json:"streamsPerVideo"`
	CompletionRate  float64 `json:"completionRate"`
	ViewTime        float64 `json:"viewTime"` // minutes
	Comp25          float64 `json:"comp25"`
	Comp50          float64 `json:"comp50"`
	Comp75          float64 `json:"comp75"`
	Comp100         float64 `json:"comp100"`
}

// DefaultBenchmarks returns the Belgian sports media averages.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		StreamsPerVideo: 4200,
		CompletionRate:  68,
		ViewTime:        2.1,
		Comp25:          75,
		Comp50:          70,
		Comp75:          65,
		Comp100:         68,
	}
}

// Checkpoints returns the benchmark retention profile as aggregate stats,
// usable as the reference side of a funnel.
func (b Benchmarks) Checkpoints() SummaryStats {
	return SummaryStats{
		Comp25:  b.Comp25,
		Comp50:  b.Comp50,
		Comp75:  b.Comp75,
		Comp100: b.Comp100,
	}
}

// Comparison is one metric measured against its benchmark.
type Comparison struct {
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Benchmark   float64 `json:"benchmark"`
	Above       bool    `json:"above"`
	DiffPercent float64 `json:"diffPercent"`
}

// Compare measures stats against b. Above is strict; DiffPercent is relative
// to the benchmark and 0 when the benchmark is not positive.
func (b Benchmarks) Compare(s SummaryStats) []Comparison {
	pairs := []struct {
		label string
		value float64
		bench float64
	}{
		{"Streams/Video", s.AvgStreamsPerVideo, b.StreamsPerVideo},
		{"Completion Rate", s.Comp100, b.CompletionRate},
		{"View Time", s.AvgViewTime, b.ViewTime},
		{"25% Watched", s.Comp25, b.Comp25},
		{"50% Watched", s.Comp50, b.Comp50},
		{"75% Watched", s.Comp75, b.Comp75},
		{"100% Completed", s.Comp100, b.Comp100},
	}

	out := make([]Comparison, 0, len(pairs))
	for _, p := range pairs {
		c := Comparison{
			Label:     p.label,
			Value:     p.value,
			Benchmark: p.bench,
			Above:     p.value > p.bench,
		}
		if p.bench > 0 {
			c.DiffPercent = (p.value - p.bench) / p.bench * 100
		}
		out = append(out, c)
	}
	return out
}
