package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TomVdv187/CircusDailyVideoStats/config"
	"github.com/TomVdv187/CircusDailyVideoStats/engine"
	"github.com/TomVdv187/CircusDailyVideoStats/store"
)

func sampleSummary() *engine.Summary {
	raws := []engine.RawRow{
		{"video": "Goal!", "catalogue": "Circus Daily", "Streams": "100", "jour": "2024-02-10", "Complétion Vidéo 100%": "50"},
		{"video": "Goal!", "catalogue": "Circus Daily", "Streams": "50", "jour": "2024-02-11", "Complétion Vidéo 100%": "30"},
		{"video": "Save of the week", "catalogue": "Circus Daily", "Streams": "80", "jour": "2024-03-02", "Complétion Vidéo 100%": "70"},
	}
	return engine.Execute(raws, nil)
}

// ============================================================================
// 1. CSV
// ============================================================================

func TestWriteCSVSections(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, sampleSummary()); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if !strings.HasPrefix(records[0][0], "Leaderboard top10") {
		t.Errorf("first section = %q", records[0][0])
	}
	if records[2][1] != "Goal!" || records[2][3] != "150" || records[2][7] != "40" {
		t.Errorf("first leaderboard row = %q", records[2])
	}
	if records[3][1] != "Save of the week" {
		t.Errorf("second leaderboard row = %q", records[3])
	}

	var monthly int
	for i, rec := range records {
		if len(rec) == 1 && rec[0] == "Monthly" {
			monthly = i
		}
	}
	if monthly == 0 {
		t.Fatal("no Monthly section")
	}
	if got := records[monthly+2]; got[0] != "2024-02" || got[1] != "Feb 24" || got[2] != "1" {
		t.Errorf("first month row = %q", got)
	}
}

// ============================================================================
// 2. TEXT
// ============================================================================

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := writeText(&buf, sampleSummary()); err != nil {
		t.Fatalf("writeText: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Videos          2",
		"Streams         230",
		"Feb 24",
		"Mar 24",
		"Retention funnel (vs benchmark)",
		"Goal!",
		"Streams/Video",
		"below",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

// ============================================================================
// 3. JSON
// ============================================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, sampleSummary(), "pretty"); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	var decoded struct {
		Variant string `json:"variant"`
		Target  struct {
			Count        int     `json:"count"`
			TotalStreams float64 `json:"totalStreams"`
		} `json:"target"`
		TargetRows []struct {
			Video string `json:"video"`
			Jour  string `json:"jour"`
		} `json:"targetRows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Variant != "top100" || decoded.Target.Count != 2 || decoded.Target.TotalStreams != 230 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.TargetRows[0].Video != "Goal!" || decoded.TargetRows[0].Jour != "2024-02-10" {
		t.Errorf("first row = %+v", decoded.TargetRows[0])
	}
}

// ============================================================================
// 4. RUNNER
// ============================================================================

func TestRunnerCSVSourceToStore(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "circus.csv")
	data := "Video;Catalogue;Day;Views;Completion 100%\n" +
		"Goal!;Circus Daily;2024-02-10;100;50\n" +
		"Goal!;Circus Daily;2024-02-11;50;30\n"
	if err := os.WriteFile(targetPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	cfg := config.Default()
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.json")
	r := &runner{
		cfg:        cfg,
		opts:       opts,
		targetPath: targetPath,
		format:     "json",
		outFile:    outPath,
		store:      st,
	}

	if err := r.run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	run, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run.Target.Count != 1 || run.Target.TotalStreams != 150 || run.Target.Comp100 != 40 {
		t.Errorf("stored target = %+v, want headers auto-detected and rows grouped", run.Target)
	}

	written, err := os.ReadFile(outPath)
	if err != nil || !bytes.Contains(written, []byte(`"totalStreams":150`)) {
		t.Errorf("output file = %s, %v", written, err)
	}

	// A second run after the source disappears keeps the previous rows.
	if err := os.Remove(targetPath); err != nil {
		t.Fatal(err)
	}
	if err := r.run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRunnerComparisonNeedsReference(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "circus.csv")
	if err := os.WriteFile(targetPath, []byte("video,catalogue,Streams\nA,Circus Daily,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Variant = "comparison"
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	r := &runner{cfg: cfg, opts: opts, targetPath: targetPath, format: "json", outFile: filepath.Join(dir, "out.json")}

	err = r.run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "reference") {
		t.Errorf("run() error = %v, want missing reference", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Résumé", 10); got != "Résumé" {
		t.Errorf("short title changed: %q", got)
	}
	if got := truncate("Samenvatting", 5); got != "Same…" {
		t.Errorf("truncate = %q", got)
	}
}
