package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardguard-dev/cardguard/internal/model"
)

// WriteCSV writes fb with its header. Output is a pure function of fb, so
// writing the same batch twice yields identical bytes.
func WriteCSV(w io.Writer, fb *FeatureBatch) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(fb.Columns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, v := range fb.Rows {
		if err := cw.Write(v.Record(fb.Labeled)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes fb to path, creating parent directories. The file is
// written to a temporary name first and renamed into place.
func WriteFile(path string, fb *FeatureBatch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if err := WriteCSV(f, fb); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// ReadVectors reads a serving-time CSV of already-encoded features. The
// header and every row must have exactly NumFeatures columns, taken to be
// in the fixed feature order; header names are not checked.
func ReadVectors(r io.Reader) (*FeatureBatch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("reading features CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading features CSV header: %w", err)
	}
	if len(header) != model.NumFeatures {
		return nil, &ShapeError{Row: 1, Want: model.NumFeatures, Got: len(header)}
	}

	fb := &FeatureBatch{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading features CSV: %w", err)
		}
		if len(rec) != model.NumFeatures {
			return nil, &ShapeError{Row: line, Want: model.NumFeatures, Got: len(rec)}
		}
		v, err := parseVector(rec, line)
		if err != nil {
			return nil, err
		}
		fb.Rows = append(fb.Rows, v)
	}
	return fb, nil
}

func parseVector(rec []string, line int) (model.FeatureVector, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(rec[0]))
	if err != nil {
		return model.FeatureVector{}, &ParseError{Row: line, Column: model.ColAmount, Value: rec[0], Err: err}
	}

	ints := make([]int, model.NumFeatures-1)
	for i := range ints {
		col := model.FeatureColumns[i+1]
		n, err := parseIntCell(rec[i+1])
		if err != nil {
			return model.FeatureVector{}, &ParseError{Row: line, Column: col, Value: rec[i+1], Err: err}
		}
		ints[i] = n
	}

	v := model.FeatureVector{
		Amount:      amt,
		Age:         ints[0],
		Gender:      ints[1],
		Hour:        ints[2],
		DayOfWeek:   ints[3],
		GroceryPOS:  ints[4],
		ShoppingNet: ints[5],
		MiscNet:     ints[6],
	}
	if err := checkDomain(v); err != nil {
		err.Row = line
		return model.FeatureVector{}, err
	}
	return v, nil
}

// parseIntCell accepts integers, integral decimals such as "1.0", and the
// boolean spellings written for one-hot columns.
func parseIntCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("not an integer")
	}
	return int(d.IntPart()), nil
}
