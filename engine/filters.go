package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Row Selection via RecordView
// ============================================================================
// Single pass per filter. Every function returns a SubView (index list into
// the parent), so selections compose without copying rows.
// ============================================================================

// SelectExact keeps rows whose dimension equals value exactly (case-sensitive).
func SelectExact(view RecordView, dimension, value string) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if view.Dimension(i, dimension) == value {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// SelectContainsAny keeps rows whose dimension contains any keyword,
// case-insensitively. No keywords selects nothing.
func SelectContainsAny(view RecordView, dimension string, keywords []string) RecordView {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(kw); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		val := strings.ToLower(view.Dimension(i, dimension))
		for _, kw := range lowered {
			if strings.Contains(val, kw) {
				indices = append(indices, i)
				break
			}
		}
	}
	return newSubView(view, indices)
}

// SelectNonEmpty keeps rows with a non-empty dimension value.
func SelectNonEmpty(view RecordView, dimension string) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if view.Dimension(i, dimension) != "" {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// FirstN keeps the first n rows in view order. n <= 0 keeps everything.
func FirstN(view RecordView, n int) RecordView {
	if n <= 0 || view.Len() <= n {
		return view
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return newSubView(view, indices)
}
