package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
)

// ============================================================================
// CSV OUTPUT — leaderboards and monthly rollup, Sheets-ready
// ============================================================================
// One section per table, separated by a blank record. Each section starts
// with a title record followed by its header.
// ============================================================================

func writeCSV(w io.Writer, s *engine.Summary) error {
	cw := csv.NewWriter(w)

	first := true
	section := func(title string, header []string) {
		if !first {
			cw.Write([]string{})
		}
		first = false
		cw.Write([]string{title})
		cw.Write(header)
	}

	for _, lb := range s.Leaderboards {
		section(fmt.Sprintf("Leaderboard %s (%s, by %s)", lb.Name, lb.Source, lb.Measure),
			[]string{"Rank", "Video", "Language", "Streams", "25%", "50%", "75%", "100%", "Completion Rate", "View Time (m)"})
		for i, r := range lb.Rows {
			cw.Write([]string{
				fmt.Sprintf("%d", i+1),
				r.Title,
				string(r.Language),
				fmtNum(r.Streams),
				fmtNum(r.Comp25),
				fmtNum(r.Comp50),
				fmtNum(r.Comp75),
				fmtNum(r.Comp100),
				fmtNum(r.CompletionRate),
				fmtNum(r.ViewTime),
			})
		}
	}

	section("Monthly", []string{"Month", "Label", "Videos", "Streams", "Streams/Video", "25%", "50%", "75%", "100%"})
	for _, b := range s.Monthly {
		cw.Write([]string{
			b.Month,
			b.Label,
			fmt.Sprintf("%d", b.VideoCount),
			fmtNum(b.TotalStreams),
			fmtNum(b.AvgStreamsPerVideo),
			fmtNum(b.Comp25),
			fmtNum(b.Comp50),
			fmtNum(b.Comp75),
			fmtNum(b.Comp100),
		})
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeText(w io.Writer, s *engine.Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Circus Daily — %s\n\n", s.Variant)
	writeCards(&b, "Target", s.Target)
	if s.Reference != nil {
		writeCards(&b, "Reference", *s.Reference)
	}

	if len(s.Languages) > 0 {
		b.WriteString("Languages\n")
		for _, l := range s.Languages {
			fmt.Fprintf(&b, "  %-3s %4d videos  %12s streams  %6.1f%% completed\n",
				l.Language, l.VideoCount, engine.FormatInt(int(l.TotalStreams)), l.Stats.Comp100)
		}
		b.WriteString("\n")
	}

	if len(s.Monthly) > 0 {
		b.WriteString("Monthly\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-7s %4d videos  %12s streams  %10s/video  %6.1f%% completed\n",
				m.Label, m.VideoCount, engine.FormatInt(int(m.TotalStreams)),
				engine.FormatInt(int(m.AvgStreamsPerVideo)), m.Comp100)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Retention funnel (vs %s)\n", s.Funnel.ReferenceLabel)
	for _, p := range s.Funnel.Points {
		fmt.Fprintf(&b, "  %-5s %6.1f%%  %6.1f%%\n", p.Stage, p.Target, p.Reference)
	}
	for _, d := range s.Funnel.DropOffs {
		fmt.Fprintf(&b, "  drop %-10s %6.1f  %6.1f\n", d.Stage, d.Target, d.Reference)
	}
	b.WriteString("\n")

	for _, lb := range s.Leaderboards {
		fmt.Fprintf(&b, "Top %d %s (%s)\n", lb.Size, lb.Source, lb.Measure)
		for i, r := range lb.Rows {
			fmt.Fprintf(&b, "  %3d. %-60s %12s\n", i+1, truncate(r.Title, 60), engine.FormatInt(int(r.Streams)))
		}
		b.WriteString("\n")
	}

	if len(s.Benchmarks) > 0 {
		b.WriteString("Benchmarks\n")
		for _, c := range s.Benchmarks {
			mark := "below"
			if c.Above {
				mark = "above"
			}
			fmt.Fprintf(&b, "  %-16s %10s  vs %10s  %+6.1f%%  %s\n",
				c.Label, fmtNum(c.Value), fmtNum(c.Benchmark), c.DiffPercent, mark)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCards(b *strings.Builder, name string, st engine.SummaryStats) {
	fmt.Fprintf(b, "%s\n", name)
	fmt.Fprintf(b, "  Videos          %s\n", engine.FormatInt(st.Count))
	fmt.Fprintf(b, "  Streams         %s\n", engine.FormatInt(int(st.TotalStreams)))
	fmt.Fprintf(b, "  Streams/Video   %s\n", engine.FormatInt(int(st.AvgStreamsPerVideo)))
	fmt.Fprintf(b, "  Completion      %.1f%% (avg rate %.1f%%)\n", st.Comp100, st.AvgCompletionRate)
	fmt.Fprintf(b, "  View Time       %.2fm\n\n", st.AvgViewTime)
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
