package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
)

// ============================================================================
// 1. HEADER KEYS
// ============================================================================

func TestHeaderKeys(t *testing.T) {
	got := headerKeys([]string{"video", "", "Streams", "video", " ", "video"})
	want := []string{"video", "__EMPTY", "Streams", "video_1", "__EMPTY_1", "video_2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildRowDropsEmptyCells(t *testing.T) {
	keys := []string{"a", "b", "c"}

	row := buildRow(keys, []string{"1", "", "3", "overflow"})
	if len(row) != 2 || row["a"] != "1" || row["c"] != "3" {
		t.Errorf("row = %v", row)
	}
	if _, ok := row["b"]; ok {
		t.Error("empty cell present in row")
	}
	if buildRow(keys, []string{"", "  "}) != nil {
		t.Error("blank row not skipped")
	}
}

// ============================================================================
// 2. CSV
// ============================================================================

func TestParseCSVSemicolon(t *testing.T) {
	data := "\xef\xbb\xbfvideo;catalogue;Streams;Complétion Vidéo 100%\n" +
		"Goal!;Circus Daily;100;50,5\n" +
		";;;\n" +
		"\"Clip; part 2\";Circus Daily;7;\n"

	table, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(table.Headers) != 4 || table.Headers[0] != "video" {
		t.Fatalf("headers = %q, want BOM stripped", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Rows[0]["Complétion Vidéo 100%"] != "50,5" {
		t.Errorf("comp100 = %v", table.Rows[0]["Complétion Vidéo 100%"])
	}
	if table.Rows[1]["video"] != "Clip; part 2" {
		t.Errorf("quoted title = %v", table.Rows[1]["video"])
	}
}

func TestParseCSVComma(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("video,Streams\nA,1\nB,2,extra\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(table.Rows) != 2 || table.Rows[1]["Streams"] != "2" {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	table, err := ParseCSV(strings.NewReader("video,Streams\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if table.Rows == nil || len(table.Rows) != 0 {
		t.Errorf("rows = %#v, want empty non-nil", table.Rows)
	}
}

func TestSniffDelimiter(t *testing.T) {
	cases := map[string]rune{
		"a,b,c\n1;2":  ',',
		"a;b;c\n1,2":  ';',
		"a\tb\tc":     '\t',
		"single":      ',',
		"a;b,c;d\r\n": ';',
	}
	for in, want := range cases {
		if got := sniffDelimiter(in); got != want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}

// ============================================================================
// 3. XLSX
// ============================================================================

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Raw data"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	rows := [][]any{
		{"video", "catalogue", "jour", "Streams", "Complétion Vidéo 100%"},
		{"Goal!", "Circus Daily", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 100, 50},
		{},
		{"Goal!", "Circus Daily", "2024-02-11", 50, 30},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := r
		if err := f.SetSheetRow("Raw data", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SetCellValue("Sheet1", "A1", "cover sheet"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestParseXLSXNamedSheet(t *testing.T) {
	table, err := ParseXLSX(buildWorkbook(t), "Raw data")
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if table.Sheet != "Raw data" {
		t.Errorf("sheet = %q", table.Sheet)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row skipped)", len(table.Rows))
	}

	summary := engine.Execute(table.Rows, nil)
	if len(summary.TargetRows) != 1 {
		t.Fatalf("got %d grouped rows, want 1", len(summary.TargetRows))
	}
	row := summary.TargetRows[0]
	if row.Streams != 150 || row.Comp100 != 40 {
		t.Errorf("grouped row = %+v, want streams 150 comp100 40", row)
	}
	if row.DateDay == nil || row.DateDay.String() != "2024-02-10" {
		t.Errorf("date = %v, want 2024-02-10 from the serial cell", row.DateDay)
	}
}

func TestParseXLSXFirstSheetDefault(t *testing.T) {
	table, err := ParseXLSX(buildWorkbook(t), "")
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if table.Sheet != "Sheet1" {
		t.Errorf("sheet = %q, want Sheet1", table.Sheet)
	}
	if len(table.Headers) != 1 || len(table.Rows) != 0 {
		t.Errorf("table = %+v, want header only", table)
	}
}

func TestParseXLSXMissingSheet(t *testing.T) {
	if _, err := ParseXLSX(buildWorkbook(t), "Nope"); err == nil {
		t.Error("expected error for missing sheet")
	}
	if _, err := ParseXLSX(strings.NewReader("not a zip"), ""); err == nil {
		t.Error("expected error for invalid workbook")
	}
}

// ============================================================================
// 4. FILE LOADING
// ============================================================================

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "circus.xlsx")
	if err := os.WriteFile(xlsxPath, buildWorkbook(t).Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(xlsxPath, "Raw data")
	if err != nil || len(table.Rows) != 2 {
		t.Fatalf("LoadFile(xlsx) = %v, %v", table, err)
	}

	csvPath := filepath.Join(dir, "reference.CSV")
	if err := os.WriteFile(csvPath, []byte("video,Streams\nA,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err = LoadFile(csvPath, "ignored")
	if err != nil || len(table.Rows) != 1 {
		t.Fatalf("LoadFile(csv) = %v, %v", table, err)
	}

	if _, err := LoadFile(filepath.Join(dir, "notes.pdf"), ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.xlsx"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}
