package engine

import (
	"log"

	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// EXECUTOR — the pipeline entry point
// ============================================================================
// Entry point: Execute(target, reference, opts...)
//
// Pipeline, per side:
//   1. Normalize raw rows (total, never fails)
//   2. Select: target by exact catalogue, reference by title keywords
//   3. (TruncateRawFirstN) keep the first N selected rows in source order
//   4. Group duplicate titles
//   5. (Optional) tag each grouped row with a language
//   6. (TruncateRankedTopN) rank by streams and keep the top N
//
// Then: stats, monthly rollup, language breakdown, funnel, leaderboards and
// benchmark comparisons over the selected rows.
//
// No I/O and no error path: every empty or malformed input has a defined
// zero-valued result. A nil reference means "no reference source".
// ============================================================================

// Execute runs the pipeline and returns a fresh Summary.
func Execute(target, reference []RawRow, opts ...Option) *Summary {
	cfg := applyOptions(opts)
	return execute(cfg, target, reference)
}

func execute(cfg *config, target, reference []RawRow) *Summary {
	log.Printf("🔧 VideoStats: Processing %d target rows, %d reference rows, variant=%s",
		len(target), len(reference), cfg.Variant)

	targetRows := prepareSide(cfg, target, func(v RecordView) RecordView {
		return SelectExact(v, schema.DimCatalogue, cfg.TargetCatalogue)
	})
	log.Printf("🔧 VideoStats: %d target videos after selection (catalogue=%q)", len(targetRows), cfg.TargetCatalogue)

	targetView := BindRows(targetRows)
	summary := &Summary{
		Variant:     cfg.Variant,
		GeneratedAt: cfg.Now(),
		Target:      ComputeStats(targetView),
		Monthly:     MonthlyRollup(targetView),
		TargetRows:  targetRows,
	}

	var referenceView RecordView
	if reference != nil {
		referenceRows := prepareSide(cfg, reference, func(v RecordView) RecordView {
			return SelectContainsAny(v, schema.DimTitle, cfg.ReferenceKeywords)
		})
		log.Printf("🔧 VideoStats: %d reference videos after keyword selection", len(referenceRows))

		referenceView = BindRows(referenceRows)
		stats := ComputeStats(referenceView)
		summary.Reference = &stats
		summary.ReferenceRows = referenceRows
		summary.Funnel = BuildFunnel(summary.Target, stats)
	} else {
		summary.Funnel = BuildFunnel(summary.Target, cfg.Benchmarks.Checkpoints())
		summary.Funnel.ReferenceLabel = ReferenceBenchmark
	}

	if cfg.Classifier != nil {
		summary.Languages = LanguageBreakdown(targetView)
	}

	summary.Leaderboards = buildLeaderboards(cfg.Leaderboards, targetView, referenceView)
	summary.Benchmarks = cfg.Benchmarks.Compare(summary.Target)

	log.Printf("📊 VideoStats: %d videos, %s streams, %d months, %d leaderboards",
		summary.Target.Count, FormatInt(int(summary.Target.TotalStreams)), len(summary.Monthly), len(summary.Leaderboards))

	return summary
}

// prepareSide runs normalize → select → truncate → group → classify → rank
// for one source.
func prepareSide(cfg *config, raws []RawRow, selectRows func(RecordView) RecordView) []Row {
	selected := selectRows(BindRows(NormalizeAll(raws, cfg.Fields)))

	if cfg.Truncation == TruncateRawFirstN {
		selected = FirstN(selected, cfg.TopN)
	}

	grouped := GroupByTitle(selected)

	if cfg.Classifier != nil {
		for i := range grouped {
			grouped[i].Language = cfg.Classifier.Classify(grouped[i].Title)
		}
	}

	if cfg.Truncation == TruncateRankedTopN {
		return Rows(TopN(BindRows(grouped), schema.MeasureStreams, cfg.TopN))
	}
	return grouped
}

// buildLeaderboards ranks each declared leaderboard's source. Reference
// leaderboards are omitted when there is no reference source.
func buildLeaderboards(specs []LeaderboardSpec, target, reference RecordView) []Leaderboard {
	boards := make([]Leaderboard, 0, len(specs))
	for _, spec := range specs {
		view := target
		if spec.Source == SourceReference {
			view = reference
		}
		if view == nil {
			continue
		}

		measure := spec.Measure
		if measure == "" {
			measure = schema.MeasureStreams
		}
		boards = append(boards, Leaderboard{
			Name:    spec.Name,
			Source:  spec.Source,
			Measure: measure,
			Size:    spec.Size,
			Rows:    Rows(TopN(view, measure, spec.Size)),
		})
	}
	return boards
}
