package schema

import (
	"fmt"

	"github.com/cardguard-dev/cardguard/internal/model"
	"github.com/cardguard-dev/cardguard/internal/rawcsv"
)

// SourceColumns are the raw columns every training export must carry.
var SourceColumns = []string{
	"trans_date_trans_time", "cc_num", "merchant", "category", "amt",
	"first", "last", "gender", "street", "city", "state", "zip",
	"lat", "long", "city_pop", "job", "dob", "trans_num",
	"unix_time", "merch_lat", "merch_long",
}

// RequiredColumns is SourceColumns plus the fraud label.
var RequiredColumns = append(append([]string(nil), SourceColumns...), model.LabelColumn)

// SchemaError describes one schema violation in a raw batch.
type SchemaError struct {
	Column string
	Row    int // 1-based CSV line, header is line 1; 0 for a missing column
	Reason string
}

func (e SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("column %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("line %d column %s: %s", e.Row, e.Column, e.Reason)
}

// Validate reports whether b has every required column and no nulls in
// them. An empty batch with the right header is valid.
func Validate(b *rawcsv.Batch) bool {
	return len(Check(b)) == 0
}

// Check returns every violation found in b. Missing columns are reported
// first; null scanning only runs when the header is complete.
func Check(b *rawcsv.Batch) []SchemaError {
	if b == nil {
		return []SchemaError{{Reason: "no batch"}}
	}

	var errs []SchemaError
	cols := make([]int, len(RequiredColumns))
	for i, name := range RequiredColumns {
		idx, ok := b.Col(name)
		if !ok {
			errs = append(errs, SchemaError{Column: name, Reason: "missing required column"})
			continue
		}
		cols[i] = idx
	}
	if len(errs) > 0 {
		return errs
	}

	for r, row := range b.Rows {
		for i, idx := range cols {
			if idx >= len(row) || rawcsv.IsNull(row[idx]) {
				errs = append(errs, SchemaError{
					Column: RequiredColumns[i],
					Row:    r + 2,
					Reason: "null value in required column",
				})
			}
		}
	}
	return errs
}
