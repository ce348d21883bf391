package engine

import (
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Selection, ranking and truncation never copy rows: they return SubViews
// (index lists into a parent). Rows are materialized only when a stage must
// produce new records (title grouping) or when the Summary is assembled.
//
// Implementations:
//   DomainView[T]  — reads typed structs via accessor functions
//   SubView        — filtered / reordered subset of a parent view
// ============================================================================

// RecordView provides indexed access to a dataset.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView, in index order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — typed struct access
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView over data. Holds a reference, no copy.
func (a *DomainAdapter[T]) Bind(data []T) *DomainView[T] {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return 0
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// ============================================================================
// ROW BINDING
// ============================================================================

var rowAdapter = newRowAdapter()

func newRowAdapter() *DomainAdapter[Row] {
	a := NewDomainAdapter[Row]().
		Dimension(schema.DimTitle, func(r Row) string { return r.Title }).
		Dimension(schema.DimCatalogue, func(r Row) string { return r.Catalogue }).
		Dimension(schema.DimMonth, func(r Row) string { return r.Month() }).
		Dimension(schema.DimLanguage, func(r Row) string { return string(r.Language) })
	for _, key := range schema.MeasureKeys() {
		key := key
		a.Measure(key, func(r Row) float64 { return r.Measure(key) })
	}
	return a
}

// BindRows exposes rows as a RecordView.
func BindRows(rows []Row) RecordView {
	return rowAdapter.Bind(rows)
}

// Rows materializes the rows behind a view built from BindRows.
// Views over other record types yield nil.
func Rows(view RecordView) []Row {
	switch v := view.(type) {
	case *DomainView[Row]:
		out := make([]Row, len(v.data))
		copy(out, v.data)
		return out
	case *SubView:
		parent := Rows(v.parent)
		if parent == nil && v.parent.Len() > 0 {
			return nil
		}
		out := make([]Row, 0, len(v.indices))
		for _, idx := range v.indices {
			out = append(out, parent[idx])
		}
		return out
	}
	return nil
}
