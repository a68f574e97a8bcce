package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardguard-dev/cardguard/internal/model"
)

// weekdays maps a weekday name to its Monday = 0 index.
var weekdays = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// WeekdayIndex returns the Monday = 0 index of a weekday name.
func WeekdayIndex(name string) (int, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// SingleInput is one transaction described the way an operator enters it
// by hand: already-derived age, a weekday name and the categories to flag.
type SingleInput struct {
	Amount     decimal.Decimal
	Age        int
	Gender     string
	Hour       int
	Weekday    string
	Categories []string
}

// FromInputs encodes a hand-entered transaction with the same helpers
// Transform uses.
func FromInputs(in SingleInput) (model.FeatureVector, error) {
	gender, err := GenderFlag(in.Gender)
	if err != nil {
		return model.FeatureVector{}, err
	}
	day, err := WeekdayIndex(in.Weekday)
	if err != nil {
		return model.FeatureVector{}, err
	}
	// Flags are independent; each category sets its own.
	var grocery, shopping, misc int
	for _, c := range in.Categories {
		g, s, m := CategoryFlags(strings.TrimSpace(c))
		grocery, shopping, misc = max(grocery, g), max(shopping, s), max(misc, m)
	}
	v := model.FeatureVector{
		Amount:      in.Amount,
		Age:         in.Age,
		Gender:      gender,
		Hour:        in.Hour,
		DayOfWeek:   day,
		GroceryPOS:  grocery,
		ShoppingNet: shopping,
		MiscNet:     misc,
	}
	if err := checkDomain(v); err != nil {
		return model.FeatureVector{}, err
	}
	return v, nil
}

// Assemble builds a vector from values already in the fixed feature
// order. The length and every column's domain are checked so that a
// misordered vector is caught before it reaches the classifier.
func Assemble(values []float64) (model.FeatureVector, error) {
	if len(values) != model.NumFeatures {
		return model.FeatureVector{}, &ShapeError{Want: model.NumFeatures, Got: len(values)}
	}
	ints := make([]int, model.NumFeatures-1)
	for i, f := range values[1:] {
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return model.FeatureVector{}, &ShapeError{
				Want:   model.NumFeatures,
				Got:    len(values),
				Detail: fmt.Sprintf("%s must be an integer, got %v", model.FeatureColumns[i+1], f),
			}
		}
		ints[i] = int(f)
	}
	if math.IsNaN(values[0]) || math.IsInf(values[0], 0) {
		return model.FeatureVector{}, &ShapeError{
			Want:   model.NumFeatures,
			Got:    len(values),
			Detail: fmt.Sprintf("%s must be finite, got %v", model.ColAmount, values[0]),
		}
	}
	v := model.FeatureVector{
		Amount:      decimal.NewFromFloat(values[0]),
		Age:         ints[0],
		Gender:      ints[1],
		Hour:        ints[2],
		DayOfWeek:   ints[3],
		GroceryPOS:  ints[4],
		ShoppingNet: ints[5],
		MiscNet:     ints[6],
	}
	if err := checkDomain(v); err != nil {
		return model.FeatureVector{}, err
	}
	return v, nil
}

func checkDomain(v model.FeatureVector) *ShapeError {
	bad := func(col string, got any, want string) *ShapeError {
		return &ShapeError{
			Want:   model.NumFeatures,
			Got:    model.NumFeatures,
			Detail: fmt.Sprintf("%s out of range: %v (want %s)", col, got, want),
		}
	}
	// amt and age carry no sign check: Transform passes refunds and
	// post-dated births through, and served vectors must match.
	switch {
	case v.Gender != 0 && v.Gender != 1:
		return bad(model.ColGender, v.Gender, "0 or 1")
	case v.Hour < 0 || v.Hour > 23:
		return bad(model.ColHour, v.Hour, "0-23")
	case v.DayOfWeek < 0 || v.DayOfWeek > 6:
		return bad(model.ColDayOfWeek, v.DayOfWeek, "0-6")
	case v.GroceryPOS != 0 && v.GroceryPOS != 1:
		return bad(model.ColGroceryPOS, v.GroceryPOS, "0 or 1")
	case v.ShoppingNet != 0 && v.ShoppingNet != 1:
		return bad(model.ColShoppingNet, v.ShoppingNet, "0 or 1")
	case v.MiscNet != 0 && v.MiscNet != 1:
		return bad(model.ColMiscNet, v.MiscNet, "0 or 1")
	}
	return nil
}
