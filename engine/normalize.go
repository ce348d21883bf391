package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// ============================================================================
// ROW NORMALIZER — RawRow → Row
// ============================================================================
// Normalization is total: every row normalizes, every metric is finite.
// A missing, empty or non-numeric metric is 0 and nothing is reported;
// the source exports are trusted, not validated.
// ============================================================================

// Normalize converts a raw spreadsheet row using the given column layout.
func Normalize(raw RawRow, fields schema.Fields) Row {
	row := Row{
		Title:     strings.TrimSpace(textOf(raw[fields.Title])),
		Catalogue: textOf(raw[fields.Catalogue]),
		DateDay:   ParseDay(raw[fields.Date]),
	}
	for key, column := range fields.MeasureColumns() {
		row.setMeasure(key, CoerceNumeric(raw[column]))
	}
	return row
}

// NormalizeAll normalizes rows in source order.
func NormalizeAll(raws []RawRow, fields schema.Fields) []Row {
	rows := make([]Row, len(raws))
	for i, raw := range raws {
		rows[i] = Normalize(raw, fields)
	}
	return rows
}

// CoerceNumeric converts any raw cell value to a finite number.
// Numbers pass through, numeric strings are parsed after trimming,
// bools are 1/0, and everything else (including NaN and ±Inf) is 0.
func CoerceNumeric(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case uint32:
		f = float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case json.Number:
		f = parseNumber(string(t))
	case string:
		f = parseNumber(t)
	case fmt.Stringer:
		f = parseNumber(t.String())
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Integer literals with an explicit base prefix.
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "0o") {
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return float64(i)
		}
	}
	return 0
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// ============================================================================
// DATES
// ============================================================================

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"02/01/2006",
}

// Largest serial excelize accepts (9999-12-31).
const maxSerialDay = 2958465

// ParseDay converts a raw date cell to a calendar day, or nil if it is not one.
// Accepts ISO dates and timestamps (read in UTC), DD/MM/YYYY, and spreadsheet
// serial day numbers.
func ParseDay(v any) *civil.Date {
	switch t := v.(type) {
	case nil:
		return nil
	case civil.Date:
		if !t.IsValid() {
			return nil
		}
		return &t
	case time.Time:
		if t.IsZero() {
			return nil
		}
		d := civil.DateOf(t.UTC())
		return &d
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range dayLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				d := civil.DateOf(ts.UTC())
				return &d
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return serialDay(f)
		}
		return nil
	case bool:
		return nil
	}
	if f := CoerceNumeric(v); f != 0 {
		return serialDay(f)
	}
	return nil
}

func serialDay(serial float64) *civil.Date {
	if serial < 1 || serial > maxSerialDay {
		return nil
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	d := civil.DateOf(ts)
	return &d
}

func monthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// monthLabel renders "2024-02" as "Feb 24".
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 06")
}
