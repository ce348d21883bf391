package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// 1. NUMERIC COERCION
// ============================================================================

func TestCoerceNumeric(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"blank string", "   ", 0},
		{"padded integer", " 42 ", 42},
		{"decimal string", "61.5", 61.5},
		{"comma decimal", "61,5", 0},
		{"text", "n/a", 0},
		{"NaN string", "NaN", 0},
		{"Inf string", "+Inf", 0},
		{"hex literal", "0x10", 16},
		{"float64", 12.25, 12.25},
		{"float NaN", math.NaN(), 0},
		{"float Inf", math.Inf(-1), 0},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"true", true, 1},
		{"false", false, 0},
		{"json number", json.Number("3.5"), 3.5},
		{"slice", []int{1, 2}, 0},
		{"map", map[string]any{"a": 1}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceNumeric(tc.in)
			if got != tc.want {
				t.Errorf("CoerceNumeric(%#v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

// ============================================================================
// 2. ROW NORMALIZATION
// ============================================================================

func TestNormalizeIsTotal(t *testing.T) {
	raws := []RawRow{
		{},
		{"video": nil, "Streams": nil},
		{"video": 12.0, "Streams": "lots", "Complétion Vidéo 25%": "", "Average viewing time (m)": math.Inf(1)},
		{"Streams": []string{"x"}, "Complétion Vidéo 100%": map[string]int{}, "jour": "not a date"},
		{"Streams": true, "Taux de complétion moyen (%)": "NaN"},
	}

	for i, raw := range raws {
		row := Normalize(raw, schema.DefaultFields())
		for _, key := range schema.MeasureKeys() {
			v := row.Measure(key)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("row %d: %s = %v, want finite", i, key, v)
			}
		}
	}

	empty := Normalize(RawRow{}, schema.DefaultFields())
	if empty.Title != "" || empty.Catalogue != "" || empty.DateDay != nil {
		t.Errorf("empty row = %+v, want zero strings and nil date", empty)
	}
	for _, key := range schema.MeasureKeys() {
		if v := empty.Measure(key); v != 0 {
			t.Errorf("empty row %s = %v, want 0", key, v)
		}
	}
}

func TestNormalizeDefaultColumns(t *testing.T) {
	raw := RawRow{
		"video":                        "  Goal! Anderlecht  ",
		"catalogue":                    "Circus Daily",
		"jour":                         "2024-02-10",
		"Streams":                      "1500",
		"Complétion Vidéo 25%":         80.0,
		"Complétion Vidéo 50%":         "60",
		"Complétion Vidéo 75%":         " 40 ",
		"Complétion Vidéo 100%":        20,
		"Taux de complétion moyen (%)": "55.5",
		"Average viewing time (m)":     "1.8",
	}

	row := Normalize(raw, schema.DefaultFields())

	if row.Title != "Goal! Anderlecht" {
		t.Errorf("Title = %q, want trimmed", row.Title)
	}
	if row.Catalogue != "Circus Daily" {
		t.Errorf("Catalogue = %q", row.Catalogue)
	}
	if row.DateDay == nil || *row.DateDay != (civil.Date{Year: 2024, Month: time.February, Day: 10}) {
		t.Errorf("DateDay = %v, want 2024-02-10", row.DateDay)
	}
	want := map[string]float64{
		schema.MeasureStreams:        1500,
		schema.MeasureComp25:         80,
		schema.MeasureComp50:         60,
		schema.MeasureComp75:         40,
		schema.MeasureComp100:        20,
		schema.MeasureCompletionRate: 55.5,
		schema.MeasureViewTime:       1.8,
	}
	for key, w := range want {
		if got := row.Measure(key); got != w {
			t.Errorf("%s = %v, want %v", key, got, w)
		}
	}
}

func TestNormalizeCustomFields(t *testing.T) {
	fields := schema.Fields{Title: "Title", Streams: "Plays"}.WithDefaults()
	row := Normalize(RawRow{"Title": "Clip", "Plays": "12", "video": "ignored"}, fields)

	if row.Title != "Clip" || row.Streams != 12 {
		t.Errorf("row = %+v, want Title=Clip Streams=12", row)
	}
}

// ============================================================================
// 3. DATES
// ============================================================================

func TestParseDay(t *testing.T) {
	feb10 := civil.Date{Year: 2024, Month: time.February, Day: 10}
	cases := []struct {
		name string
		in   any
		want *civil.Date
	}{
		{"iso", "2024-02-10", &feb10},
		{"iso padded", " 2024-02-10 ", &feb10},
		{"rfc3339 utc", "2024-02-10T08:00:00Z", &feb10},
		{"rfc3339 offset", "2024-02-11T01:30:00+02:00", &feb10},
		{"datetime", "2024-02-10 18:45:00", &feb10},
		{"day first", "10/02/2024", &feb10},
		{"serial number", 45332.0, &feb10},
		{"serial string", "45332", &feb10},
		{"time value", time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), &feb10},
		{"empty", "", nil},
		{"garbage", "yesterday", nil},
		{"nil", nil, nil},
		{"zero", 0.0, nil},
		{"bool", true, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDay(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("ParseDay(%#v) = %v, want nil", tc.in, *got)
			case tc.want != nil && got == nil:
				t.Errorf("ParseDay(%#v) = nil, want %v", tc.in, *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Errorf("ParseDay(%#v) = %v, want %v", tc.in, *got, *tc.want)
			}
		})
	}
}

func TestMonthKeyAndLabel(t *testing.T) {
	d := civil.Date{Year: 2024, Month: time.February, Day: 29}
	if got := monthKey(d); got != "2024-02" {
		t.Errorf("monthKey = %q, want 2024-02", got)
	}
	if got := monthLabel("2024-02"); got != "Feb 24" {
		t.Errorf("monthLabel = %q, want Feb 24", got)
	}
	if got := monthLabel("bogus"); got != "bogus" {
		t.Errorf("monthLabel(bogus) = %q, want passthrough", got)
	}
}
