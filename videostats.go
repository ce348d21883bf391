// Package videostats aggregates per-video analytics exports into the summary
// behind the Circus Daily performance dashboard.
//
// Usage:
//
//	import (
//	    "github.com/TomVdv187/CircusDailyVideoStats/engine"
//	    "github.com/TomVdv187/CircusDailyVideoStats/helpers"
//	)
//
//	table, err := helpers.LoadFile("circus.xlsx", "Raw data")
//	summary := engine.Execute(table.Rows, nil,
//	    engine.WithVariant(engine.VariantTop100),
//	)
//
// The engine takes decoded spreadsheet rows (column name → cell value) and
// returns one Summary: target and reference statistics, a monthly rollup,
// a retention funnel, leaderboards and benchmark comparisons.
//
// Decoding lives in helpers, persistence in store. The engine itself does no
// I/O and has no error path: malformed cells coerce to zero, empty selections
// aggregate to zero.
package videostats
