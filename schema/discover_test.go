package schema

import (
	"testing"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

func TestDiscoverDefaultExportHeaders(t *testing.T) {
	d := DefaultFields()
	headers := []string{
		d.Title, d.Catalogue, d.Date, d.Streams,
		d.Comp25, d.Comp50, d.Comp75, d.Comp100,
		d.CompletionRate, d.ViewTime,
	}

	res := Discover(headers)
	if res.Fields != d {
		t.Fatalf("discovered fields differ from defaults:\n got %+v\nwant %+v", res.Fields, d)
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected no missing fields, got %v", res.Missing)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("expected no skipped columns, got %v", res.Skipped)
	}
}

func TestDiscoverAlternateHeaders(t *testing.T) {
	headers := []string{
		"Title", "Publisher", "Date", "Views",
		"Video completion 25 %", "Video completion 50 %", "Video completion 75 %", "Video completion 100 %",
		"Average completion (%)", "Watch time (min)", "Thumbnail URL",
	}

	res := Discover(headers)
	f := res.Fields

	checks := map[string][2]string{
		"title":          {f.Title, "Title"},
		"catalogue":      {f.Catalogue, "Publisher"},
		"date":           {f.Date, "Date"},
		"streams":        {f.Streams, "Views"},
		"comp25":         {f.Comp25, "Video completion 25 %"},
		"comp100":        {f.Comp100, "Video completion 100 %"},
		"completionRate": {f.CompletionRate, "Average completion (%)"},
		"viewTime":       {f.ViewTime, "Watch time (min)"},
	}
	for field, pair := range checks {
		if pair[0] != pair[1] {
			t.Errorf("%s: got %q, want %q", field, pair[0], pair[1])
		}
	}

	if len(res.Skipped) != 1 || res.Skipped[0].Column != "Thumbnail URL" {
		t.Errorf("expected Thumbnail URL to be skipped, got %+v", res.Skipped)
	}
}

func TestDiscoverMissingKeepsDefault(t *testing.T) {
	res := Discover([]string{"video", "Streams"})

	if res.Fields.Comp25 != DefaultFields().Comp25 {
		t.Errorf("missing comp25 should keep default, got %q", res.Fields.Comp25)
	}
	assertContains(t, res.Missing, "comp25", "comp25 should be reported missing")
	assertContains(t, res.Missing, "date", "date should be reported missing")
}

func TestDiscoverHeaderAssignedOnce(t *testing.T) {
	// "completion rate 25%" must not feed both Comp25 and CompletionRate.
	res := Discover([]string{"completion rate 25%"})
	if res.Fields.Comp25 != "completion rate 25%" {
		t.Errorf("expected header to map to comp25, got %q", res.Fields.Comp25)
	}
	if res.Fields.CompletionRate != DefaultFields().CompletionRate {
		t.Errorf("header reused for completionRate: %q", res.Fields.CompletionRate)
	}
}

func TestFoldHeader(t *testing.T) {
	tests := map[string]string{
		"Complétion Vidéo 25%":         "completion video 25%",
		"  Taux de   complétion moyen ": "taux de completion moyen",
		"Liège":                        "liege",
		"":                             "",
	}
	for input, expected := range tests {
		if got := FoldHeader(input); got != expected {
			t.Errorf("FoldHeader(%q) = %q, want %q", input, got, expected)
		}
	}
}

// ============================================================================
// FIELD DEFAULTS
// ============================================================================

func TestWithDefaultsFillsEmpty(t *testing.T) {
	f := Fields{Title: "Titel", Streams: "Weergaven"}.WithDefaults()
	if f.Title != "Titel" || f.Streams != "Weergaven" {
		t.Errorf("explicit columns overwritten: %+v", f)
	}
	if f.Comp50 != DefaultFields().Comp50 {
		t.Errorf("empty comp50 not defaulted: %q", f.Comp50)
	}
}

func TestMeasuresAggregationRules(t *testing.T) {
	for _, m := range Measures() {
		want := "avg"
		if m.Key == MeasureStreams {
			want = "sum"
		}
		if m.DefaultAggregation != want {
			t.Errorf("%s: aggregation %q, want %q", m.Key, m.DefaultAggregation, want)
		}
	}
	if len(Fields{}.WithDefaults().MeasureColumns()) != len(Measures()) {
		t.Error("MeasureColumns and Measures disagree on field count")
	}
	if !IsMeasure(MeasureViewTime) || IsMeasure(DimTitle) {
		t.Error("IsMeasure misclassified keys")
	}
}

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
