package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMissingHeader is returned for an empty file.
	ErrMissingHeader = errors.New("csv file has no header row")
	// ErrMissingIdentifier is returned when none of the required columns exist.
	ErrMissingIdentifier = errors.New("csv header must contain a uuid or _id column")
)

// Row is one data line: cells in header order plus the 1-based source line.
type Row struct {
	Line  int
	Cells []string
}

// Table is a parsed CSV file.
type Table struct {
	Header []string
	Rows   []Row
}

// Parse reads a comma separated file with a header row. Fields may be quoted
// with double quotes, which allows embedded commas; a doubled double quote
// inside a quoted field is a literal quote. If requiredAny is not empty the
// header must contain at least one of those names (case-insensitive), checked
// before any data row is read.
func Parse(r io.Reader, requiredAny ...string) (*Table, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	if len(requiredAny) > 0 && !hasAnyColumn(header, requiredAny) {
		return nil, ErrMissingIdentifier
	}

	table := &Table{Header: header}
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isBlank(cells) {
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, Row{Line: line, Cells: cells})
	}
	return table, nil
}

// ParseLine splits a single CSV line into its fields.
func ParseLine(line string) ([]string, error) {
	cells, err := newReader(strings.NewReader(line)).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv line: %w", err)
	}
	return cells, nil
}

// Column returns the index of name in the header (case-insensitive) or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Get returns the cell of row under column name, or "" when absent.
func (t *Table) Get(row Row, name string) string {
	idx := t.Column(name)
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return row.Cells[idx]
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	// Short and long rows are tolerated; missing cells read as empty.
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	return reader
}

func hasAnyColumn(header, names []string) bool {
	for _, h := range header {
		for _, n := range names {
			if strings.EqualFold(h, n) {
				return true
			}
		}
	}
	return false
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
