package helpers

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV exports into []engine.RawRow
// ============================================================================
// European exports are often ';'-separated because ',' is the decimal mark.
// The delimiter is picked from the header line (';', tab or ','). Cell
// values stay strings; numeric coercion belongs to the engine.
// ============================================================================

// ParseCSV decodes a CSV stream with a header row.
func ParseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == "\xef\xbb\xbf" {
		br.Discard(3) // UTF-8 BOM
	}

	head, _ := br.Peek(4096)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(head))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Read header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV has no header row")
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	keys := headerKeys(headers)

	table := &Table{Headers: headers, Rows: []engine.RawRow{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if row := buildRow(keys, record); row != nil {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// sniffDelimiter counts candidate separators on the first line.
func sniffDelimiter(sample string) rune {
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', strings.Count(sample, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(sample, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
