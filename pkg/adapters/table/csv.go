// Package table loads the review dataset from CSV exports.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/litbook/pkg/core"
)

// missing lists the cell values spreadsheet exports use for empty cells.
var missing = map[string]bool{
	"":     true,
	"nan":  true,
	"NaN":  true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"<NA>": true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
}

// Row is one CSV record addressed by column name.
type Row struct {
	Line   int
	values map[string]string
}

// Get returns the trimmed value of column, empty when missing.
func (r Row) Get(column string) string {
	v := strings.TrimSpace(r.values[column])
	if missing[v] {
		return ""
	}
	return v
}

// readRows parses a CSV stream with a header line. Every name in required
// must be a header, otherwise the error wraps core.ErrMissingColumn.
// Short rows are padded with empty values.
func readRows(r io.Reader, required ...string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty table: %w", core.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = h
	}
	for _, col := range required {
		if !slices.Contains(headers, col) {
			return nil, fmt.Errorf("column %q: %w", col, core.ErrMissingColumn)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		row := Row{Line: line, values: make(map[string]string, len(headers))}
		for i, h := range headers {
			if i < len(record) {
				row.values[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Year normalizes numeric years exported as floats ("2021.0" -> "2021").
func Year(v string) string {
	v = strings.TrimSpace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return v
	}
	return strconv.FormatInt(int64(f), 10)
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
