package engine

// ============================================================================
// FUNNEL — retention checkpoints and drop-offs, target vs reference
// ============================================================================
// Five points (Start, 25%, 50%, 75%, 100%) per side, Start fixed at 100.
// Drop-offs are plain differences between consecutive points. Completion
// checkpoints are not required to be monotonic, so a drop-off can be
// negative; it is reported as is.
// ============================================================================

// Funnel stage labels.
const (
	StageStart = "Start"
	Stage25    = "25%"
	Stage50    = "50%"
	Stage75    = "75%"
	Stage100   = "100%"
)

// Funnel reference labels.
const (
	ReferenceDataset   = "reference"
	ReferenceBenchmark = "benchmark"
)

// FunnelPoint is one retention checkpoint on both sides.
type FunnelPoint struct {
	Stage     string  `json:"stage"`
	Target    float64 `json:"target"`
	Reference float64 `json:"reference"`
}

// DropOff is the retention lost between two consecutive checkpoints.
type DropOff struct {
	Stage     string  `json:"stage"` // "Start→25%"
	Target    float64 `json:"target"`
	Reference float64 `json:"reference"`
}

// Funnel holds the five checkpoints and four drop-offs.
type Funnel struct {
	ReferenceLabel string        `json:"referenceLabel"`
	Points         []FunnelPoint `json:"points"`
	DropOffs       []DropOff     `json:"dropOffs"`
}

// BuildFunnel derives the funnel from two aggregates.
func BuildFunnel(target, reference SummaryStats) Funnel {
	stages := []string{StageStart, Stage25, Stage50, Stage75, Stage100}
	t := checkpoints(target)
	r := checkpoints(reference)

	f := Funnel{
		ReferenceLabel: ReferenceDataset,
		Points:         make([]FunnelPoint, len(stages)),
		DropOffs:       make([]DropOff, len(stages)-1),
	}
	for i, stage := range stages {
		f.Points[i] = FunnelPoint{Stage: stage, Target: t[i], Reference: r[i]}
	}
	for i := 1; i < len(stages); i++ {
		f.DropOffs[i-1] = DropOff{
			Stage:     stages[i-1] + "→" + stages[i],
			Target:    t[i-1] - t[i],
			Reference: r[i-1] - r[i],
		}
	}
	return f
}

func checkpoints(s SummaryStats) [5]float64 {
	return [5]float64{100, s.Comp25, s.Comp50, s.Comp75, s.Comp100}
}
