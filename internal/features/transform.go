package features

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardguard-dev/cardguard/internal/model"
	"github.com/cardguard-dev/cardguard/internal/rawcsv"
)

// Raw column names read by Transform.
const (
	rawColTransTime = "trans_date_trans_time"
	rawColCategory  = "category"
	rawColAmount    = "amt"
	rawColDOB       = "dob"
	rawColGender    = "gender"
)

// ErrMissingColumn is returned when a raw batch lacks a column Transform reads.
var ErrMissingColumn = errors.New("missing column")

var errNull = errors.New("missing value")

// FeatureBatch is the output of Transform: rows in input order.
type FeatureBatch struct {
	Labeled bool
	Rows    []model.FeatureVector
}

// Columns returns the header for the batch.
func (fb *FeatureBatch) Columns() []string {
	return model.Columns(fb.Labeled)
}

// Matrix returns the classifier input, one row per vector, in the fixed
// feature order. Labels are never included.
func (fb *FeatureBatch) Matrix() [][]float64 {
	x := make([][]float64, len(fb.Rows))
	for i, v := range fb.Rows {
		x[i] = v.Values()
	}
	return x
}

type rawColumns struct {
	transTime, category, amount, dob, gender, label int
}

func locate(b *rawcsv.Batch, hasLabel bool) (rawColumns, error) {
	var c rawColumns
	targets := []struct {
		name string
		dst  *int
	}{
		{rawColTransTime, &c.transTime},
		{rawColCategory, &c.category},
		{rawColAmount, &c.amount},
		{rawColDOB, &c.dob},
		{rawColGender, &c.gender},
	}
	if hasLabel {
		targets = append(targets, struct {
			name string
			dst  *int
		}{model.LabelColumn, &c.label})
	}
	for _, t := range targets {
		idx, ok := b.Col(t.name)
		if !ok {
			return c, fmt.Errorf("%w %q", ErrMissingColumn, t.name)
		}
		*t.dst = idx
	}
	return c, nil
}

// Transform derives the feature vector for every row of b. When hasLabel
// is true the is_fraud column is parsed and carried as the last column.
// The first unparseable row aborts the batch.
func Transform(b *rawcsv.Batch, hasLabel bool) (*FeatureBatch, error) {
	if b == nil {
		return nil, errors.New("transform: nil batch")
	}
	cols, err := locate(b, hasLabel)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	fb := &FeatureBatch{
		Labeled: hasLabel,
		Rows:    make([]model.FeatureVector, 0, len(b.Rows)),
	}
	for i, rec := range b.Rows {
		line := i + 2
		txn, err := parseRow(rec, cols, hasLabel, line)
		if err != nil {
			return nil, err
		}
		v, err := vectorOf(txn)
		if err != nil {
			var ug *UnknownGenderError
			if errors.As(err, &ug) {
				ug.Row = line
			}
			return nil, err
		}
		fb.Rows = append(fb.Rows, v)
	}
	return fb, nil
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parseRow(rec []string, cols rawColumns, hasLabel bool, line int) (model.RawTransaction, error) {
	var txn model.RawTransaction

	raw := cell(rec, cols.transTime)
	ts, err := ParseTransTime(raw)
	if err != nil {
		return txn, &ParseError{Row: line, Column: rawColTransTime, Value: raw, Err: err}
	}

	raw = cell(rec, cols.dob)
	dob, err := ParseDOB(raw)
	if err != nil {
		return txn, &ParseError{Row: line, Column: rawColDOB, Value: raw, Err: err}
	}

	raw = cell(rec, cols.amount)
	amt, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return txn, &ParseError{Row: line, Column: rawColAmount, Value: raw, Err: err}
	}

	raw = cell(rec, cols.category)
	if rawcsv.IsNull(raw) {
		return txn, &ParseError{Row: line, Column: rawColCategory, Value: raw, Err: errNull}
	}

	txn = model.RawTransaction{
		TransTime:   ts,
		Category:    strings.TrimSpace(raw),
		Amount:      amt,
		DateOfBirth: dob,
		Gender:      cell(rec, cols.gender),
	}

	if hasLabel {
		raw = cell(rec, cols.label)
		label, err := parseLabel(raw)
		if err != nil {
			return txn, &ParseError{Row: line, Column: model.LabelColumn, Value: raw, Err: err}
		}
		txn.IsFraud = &label
	}
	return txn, nil
}

func parseLabel(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n != 0 && n != 1 {
		return 0, fmt.Errorf("label must be 0 or 1")
	}
	return n, nil
}

func vectorOf(txn model.RawTransaction) (model.FeatureVector, error) {
	gender, err := GenderFlag(txn.Gender)
	if err != nil {
		return model.FeatureVector{}, err
	}
	grocery, shopping, misc := CategoryFlags(txn.Category)
	return model.FeatureVector{
		Amount:      txn.Amount,
		Age:         Age(txn.DateOfBirth, txn.TransTime),
		Gender:      gender,
		Hour:        txn.TransTime.Hour(),
		DayOfWeek:   DayOfWeek(txn.TransTime),
		GroceryPOS:  grocery,
		ShoppingNet: shopping,
		MiscNet:     misc,
		Label:       txn.IsFraud,
	}, nil
}
