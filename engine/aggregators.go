package engine

import (
	"fmt"
	"sort"

	"github.com/TomVdv187/CircusDailyVideoStats/language"
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// AGGREGATORS — Grouping, Statistics, Rollups and Ranking via RecordView
// ============================================================================
// All functions are pure and operate on RecordView. Grouping produces
// SubViews (index lists into the parent view). Every mean is guarded: an
// empty set aggregates to zero, never to NaN.
// ============================================================================

// Group is an intermediate grouping result.
type Group struct {
	Key   string
	Label string
	Count int
	View  RecordView // sub-view of the rows in this group (zero-copy)
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle groups rows by one dimension, preserving first-seen order.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// MEASURES
// ============================================================================

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes the unweighted mean of a named measure (0 when empty).
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// ============================================================================
// STATISTICS
// ============================================================================

// ComputeStats aggregates a row set. The result does not depend on row order
// beyond floating-point summation.
func ComputeStats(view RecordView) SummaryStats {
	count := view.Len()
	if count == 0 {
		return SummaryStats{}
	}
	total := SumMeasure(view, schema.MeasureStreams)
	return SummaryStats{
		Count:              count,
		TotalStreams:       total,
		AvgStreamsPerVideo: total / float64(count),
		Comp25:             AvgMeasure(view, schema.MeasureComp25),
		Comp50:             AvgMeasure(view, schema.MeasureComp50),
		Comp75:             AvgMeasure(view, schema.MeasureComp75),
		Comp100:            AvgMeasure(view, schema.MeasureComp100),
		AvgCompletionRate:  AvgMeasure(view, schema.MeasureCompletionRate),
		AvgViewTime:        AvgMeasure(view, schema.MeasureViewTime),
	}
}

// ============================================================================
// TEMPORAL ROLLUP
// ============================================================================

// MonthlyRollup buckets dated rows by "YYYY-MM", ascending.
// Rows without a parseable date are left out of the rollup only.
func MonthlyRollup(view RecordView) []MonthlyBucket {
	dated := SelectNonEmpty(view, schema.DimMonth)
	groups := groupBySingle(dated, schema.DimMonth)
	SortGroups(groups, "key_asc")

	buckets := make([]MonthlyBucket, 0, len(groups))
	for _, g := range groups {
		s := ComputeStats(g.View)
		buckets = append(buckets, MonthlyBucket{
			Month:              g.Key,
			Label:              monthLabel(g.Key),
			VideoCount:         s.Count,
			TotalStreams:       s.TotalStreams,
			AvgStreamsPerVideo: s.AvgStreamsPerVideo,
			Comp25:             s.Comp25,
			Comp50:             s.Comp50,
			Comp75:             s.Comp75,
			Comp100:            s.Comp100,
		})
	}
	return buckets
}

// ============================================================================
// LANGUAGE BREAKDOWN
// ============================================================================

// LanguageBreakdown aggregates rows per language tag, ordered by tag.
// Rows without a tag are skipped.
func LanguageBreakdown(view RecordView) []LanguageShare {
	groups := groupBySingle(SelectNonEmpty(view, schema.DimLanguage), schema.DimLanguage)
	SortGroups(groups, "key_asc")

	shares := make([]LanguageShare, 0, len(groups))
	for _, g := range groups {
		s := ComputeStats(g.View)
		shares = append(shares, LanguageShare{
			Language:     language.Tag(g.Key),
			VideoCount:   s.Count,
			TotalStreams: s.TotalStreams,
			Stats:        s,
		})
	}
	return shares
}

// ============================================================================
// RANKING
// ============================================================================

// TopN orders rows by measure descending and keeps the first n (n <= 0 keeps
// all). Ties keep input order. Unknown measures rank every row as 0.
func TopN(view RecordView, measure string, n int) RecordView {
	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return view.Measure(indices[a], measure) > view.Measure(indices[b], measure)
	})
	if n > 0 && len(indices) > n {
		indices = indices[:n]
	}
	return newSubView(view, indices)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups in place. Unknown modes keep grouping order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "key_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
