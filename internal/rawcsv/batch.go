package rawcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Batch is one raw CSV file held in memory: a header and its data rows.
type Batch struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// New builds a Batch from a header and rows. Rows are not copied.
func New(header []string, rows [][]string) *Batch {
	b := &Batch{Header: header, Rows: rows}
	b.buildIndex()
	return b
}

func (b *Batch) buildIndex() {
	b.index = make(map[string]int, len(b.Header))
	for i, name := range b.Header {
		name = strings.TrimSpace(name)
		// First occurrence wins for duplicated header names.
		if _, ok := b.index[name]; !ok {
			b.index[name] = i
		}
	}
}

// Col returns the position of a column by name.
func (b *Batch) Col(name string) (int, bool) {
	if b.index == nil {
		b.buildIndex()
	}
	i, ok := b.index[name]
	return i, ok
}

// Has reports whether the header contains name.
func (b *Batch) Has(name string) bool {
	_, ok := b.Col(name)
	return ok
}

// Len returns the number of data rows.
func (b *Batch) Len() int { return len(b.Rows) }

// Read parses a CSV stream whose first record is the header. Every row
// must have as many fields as the header. An input without even a
// header is an error.
func Read(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("reading raw CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading raw CSV header: %w", err)
	}
	// Excel and pandas may emit a UTF-8 BOM before the first column name.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading raw CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	return New(header, rows), nil
}

// ReadFile opens path and reads it as a Batch.
func ReadFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	b, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Write writes the header followed by all rows.
func Write(w io.Writer, b *Batch) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(b.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range b.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
