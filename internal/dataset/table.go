// Package dataset turns raw Steam review exports into the canonical review
// schema and the derived artifacts built from it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInputNotFound is returned when the input CSV does not exist
var ErrInputNotFound = errors.New("input file not found")

// Table is a fully loaded CSV file. Missing cells are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadTable reads a whole CSV file into memory
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return ReadTable(f)
}

// ReadTable parses CSV content with a header row. Ragged rows are padded or
// cut to the header width.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}

		row := make([]string, len(header))
		copy(row, record)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Index returns the position of column name, or -1
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column. A missing column yields nil.
func (t *Table) Column(name string) []string {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
