package schema

// ============================================================================
// SCHEMA — Describes which source columns feed the pipeline
// ============================================================================
// Spreadsheet exports name their columns with source-dependent punctuation and
// diacritics ("Complétion Vidéo 25%"). The engine never hardcodes those names:
// it reads them from Fields, which is either the default export layout, a
// consumer-supplied config, or the result of Detect on a header row.
// ============================================================================

// Dimension keys exposed by the engine's row views.
const (
	DimTitle     = "title"
	DimCatalogue = "catalogue"
	DimMonth     = "month"
	DimLanguage  = "language"
)

// Measure keys exposed by the engine's row views.
const (
	MeasureStreams        = "streams"
	MeasureComp25         = "comp25"
	MeasureComp50         = "comp50"
	MeasureComp75         = "comp75"
	MeasureComp100        = "comp100"
	MeasureCompletionRate = "completion_rate"
	MeasureViewTime       = "view_time"
)

// Fields maps each pipeline field to the source column that holds it.
type Fields struct {
	Title          string `json:"title"`
	Catalogue      string `json:"catalogue"`
	Date           string `json:"date"`
	Streams        string `json:"streams"`
	Comp25         string `json:"comp25"`
	Comp50         string `json:"comp50"`
	Comp75         string `json:"comp75"`
	Comp100        string `json:"comp100"`
	CompletionRate string `json:"completionRate"`
	ViewTime       string `json:"viewTime"`
}

// DefaultFields returns the column layout of the video-analytics export.
func DefaultFields() Fields {
	return Fields{
		Title:          "video",
		Catalogue:      "catalogue",
		Date:           "jour",
		Streams:        "Streams",
		Comp25:         "Complétion Vidéo 25%",
		Comp50:         "Complétion Vidéo 50%",
		Comp75:         "Complétion Vidéo 75%",
		Comp100:        "Complétion Vidéo 100%",
		CompletionRate: "Taux de complétion moyen (%)",
		ViewTime:       "Average viewing time (m)",
	}
}

// WithDefaults fills every empty column name from DefaultFields.
func (f Fields) WithDefaults() Fields {
	d := DefaultFields()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&f.Title, d.Title)
	fill(&f.Catalogue, d.Catalogue)
	fill(&f.Date, d.Date)
	fill(&f.Streams, d.Streams)
	fill(&f.Comp25, d.Comp25)
	fill(&f.Comp50, d.Comp50)
	fill(&f.Comp75, d.Comp75)
	fill(&f.Comp100, d.Comp100)
	fill(&f.CompletionRate, d.CompletionRate)
	fill(&f.ViewTime, d.ViewTime)
	return f
}

// MeasureColumns returns measure key → source column for every numeric field.
func (f Fields) MeasureColumns() map[string]string {
	return map[string]string{
		MeasureStreams:        f.Streams,
		MeasureComp25:         f.Comp25,
		MeasureComp50:         f.Comp50,
		MeasureComp75:         f.Comp75,
		MeasureComp100:        f.Comp100,
		MeasureCompletionRate: f.CompletionRate,
		MeasureViewTime:       f.ViewTime,
	}
}

// MeasureMeta describes a numeric field and how duplicates combine.
type MeasureMeta struct {
	Key                string `json:"key"`
	DisplayName        string `json:"displayName"`
	Unit               string `json:"unit,omitempty"` // "streams", "percent", "minutes"
	DefaultAggregation string `json:"defaultAggregation"`
}

// Measures lists every numeric field in display order.
// Absolute counts are summed when rows merge; rates and times are averaged.
func Measures() []MeasureMeta {
	return []MeasureMeta{
		{Key: MeasureStreams, DisplayName: "Streams", Unit: "streams", DefaultAggregation: "sum"},
		{Key: MeasureComp25, DisplayName: "25% Watched", Unit: "percent", DefaultAggregation: "avg"},
		{Key: MeasureComp50, DisplayName: "50% Watched", Unit: "percent", DefaultAggregation: "avg"},
		{Key: MeasureComp75, DisplayName: "75% Watched", Unit: "percent", DefaultAggregation: "avg"},
		{Key: MeasureComp100, DisplayName: "100% Completed", Unit: "percent", DefaultAggregation: "avg"},
		{Key: MeasureCompletionRate, DisplayName: "Completion Rate", Unit: "percent", DefaultAggregation: "avg"},
		{Key: MeasureViewTime, DisplayName: "View Time", Unit: "minutes", DefaultAggregation: "avg"},
	}
}

// MeasureKeys returns all measure keys.
func MeasureKeys() []string {
	ms := Measures()
	keys := make([]string, len(ms))
	for i, m := range ms {
		keys[i] = m.Key
	}
	return keys
}

// IsMeasure reports whether key names a numeric field.
func IsMeasure(key string) bool {
	for _, m := range Measures() {
		if m.Key == key {
			return true
		}
	}
	return false
}

// SkippedColumn records why a header was not mapped during detection.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}
