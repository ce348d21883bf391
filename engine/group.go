package engine

import (
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// TITLE GROUPER — one record per distinct trimmed title
// ============================================================================
// Exports list the same video once per day; the dashboard wants one line per
// video. Grouping is case-sensitive exact match on the (already trimmed)
// title, in first-seen order. An empty title is a valid key: untitled rows
// collapse together.
// ============================================================================

// GroupByTitle merges rows sharing a title.
// Singletons pass through unchanged. Merged groups sum absolute counts and
// average rates and times, per schema.Measures.
func GroupByTitle(view RecordView) []Row {
	rows := Rows(view)
	if len(rows) == 0 {
		return []Row{}
	}

	groups := groupBySingle(view, schema.DimTitle)
	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		sub := g.View.(*SubView)
		first := rows[sub.indices[0]]
		if g.View.Len() == 1 {
			out = append(out, first)
			continue
		}

		// Catalogue, date and language are assumed constant across duplicates
		// and taken from the first row; they are not reconciled.
		merged := Row{
			Title:     g.Key,
			Catalogue: first.Catalogue,
			DateDay:   first.DateDay,
			Language:  first.Language,
		}
		for _, m := range schema.Measures() {
			switch m.DefaultAggregation {
			case "sum":
				merged.setMeasure(m.Key, SumMeasure(g.View, m.Key))
			default:
				merged.setMeasure(m.Key, AvgMeasure(g.View, m.Key))
			}
		}
		out = append(out, merged)
	}
	return out
}
