package helpers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
)

// ============================================================================
// SPREADSHEET DECODING — files → []engine.RawRow
// ============================================================================
// The engine never reads files. These helpers turn an export (xlsx or csv)
// into RawRows keyed by header text, the way a browser spreadsheet reader
// hands rows to the dashboard:
//   - the first row is the header row
//   - blank headers become "__EMPTY", "__EMPTY_1", ...
//   - repeated headers get a "_1", "_2", ... suffix
//   - empty cells are absent from the row, blank rows are skipped
// ============================================================================

// Table is one decoded sheet.
type Table struct {
	Sheet   string          `json:"sheet,omitempty"`
	Headers []string        `json:"headers"`
	Rows    []engine.RawRow `json:"-"`
}

// Format identifies a source file encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a decoder from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
}

// Decode reads one table from r. sheet is ignored for csv; for xlsx an
// empty sheet selects the first one.
func Decode(r io.Reader, format Format, sheet string) (*Table, error) {
	switch format {
	case FormatXLSX:
		return ParseXLSX(r, sheet)
	case FormatCSV:
		return ParseCSV(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// LoadFile opens and decodes path.
func LoadFile(path, sheet string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Decode(f, format, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return table, nil
}

// headerKeys names columns the way rows are keyed.
func headerKeys(headers []string) []string {
	keys := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		base := strings.TrimSpace(h)
		if base == "" {
			base = "__EMPTY"
		}
		key := base
		if n, ok := seen[base]; ok {
			key = fmt.Sprintf("%s_%d", base, n)
		}
		seen[base]++
		keys[i] = key
	}
	return keys
}

// buildRow keys cells by header, dropping empty cells. Returns nil for a
// blank row.
func buildRow(keys []string, cells []string) engine.RawRow {
	var row engine.RawRow
	for i, cell := range cells {
		if i >= len(keys) || strings.TrimSpace(cell) == "" {
			continue
		}
		if row == nil {
			row = make(engine.RawRow, len(keys))
		}
		row[keys[i]] = cell
	}
	return row
}
