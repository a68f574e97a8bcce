package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Column names of the feature vector. The order of FeatureColumns is the
// order the classifier was trained on and must never change.
const (
	ColAmount      = "amt"
	ColAge         = "age"
	ColGender      = "gender"
	ColHour        = "trans_hour"
	ColDayOfWeek   = "trans_day_of_week"
	ColGroceryPOS  = "category_grocery_pos"
	ColShoppingNet = "category_shopping_net"
	ColMiscNet     = "category_misc_net"

	LabelColumn = "is_fraud"
)

// FeatureColumns is the fixed classifier input order.
var FeatureColumns = []string{
	ColAmount,
	ColAge,
	ColGender,
	ColHour,
	ColDayOfWeek,
	ColGroceryPOS,
	ColShoppingNet,
	ColMiscNet,
}

// NumFeatures is the width of a feature vector without the label.
const NumFeatures = 8

// FeatureVector is one transformed transaction.
type FeatureVector struct {
	Amount      decimal.Decimal
	Age         int
	Gender      int // 1 = female, 0 = male
	Hour        int // 0-23
	DayOfWeek   int // Monday = 0 ... Sunday = 6
	GroceryPOS  int
	ShoppingNet int
	MiscNet     int
	Label       *int // nil when unlabeled
}

// Columns returns the output header for a batch, with the label last
// when labeled is true.
func Columns(labeled bool) []string {
	cols := make([]string, 0, NumFeatures+1)
	cols = append(cols, FeatureColumns...)
	if labeled {
		cols = append(cols, LabelColumn)
	}
	return cols
}

// Values returns the classifier input in FeatureColumns order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.Amount.InexactFloat64(),
		float64(v.Age),
		float64(v.Gender),
		float64(v.Hour),
		float64(v.DayOfWeek),
		float64(v.GroceryPOS),
		float64(v.ShoppingNet),
		float64(v.MiscNet),
	}
}

// Record returns the CSV row for the vector. The label is appended only
// when labeled is true; a labeled record with a nil Label gets an empty
// cell.
func (v FeatureVector) Record(labeled bool) []string {
	row := make([]string, 0, NumFeatures+1)
	row = append(row,
		v.Amount.String(),
		strconv.Itoa(v.Age),
		strconv.Itoa(v.Gender),
		strconv.Itoa(v.Hour),
		strconv.Itoa(v.DayOfWeek),
		strconv.Itoa(v.GroceryPOS),
		strconv.Itoa(v.ShoppingNet),
		strconv.Itoa(v.MiscNet),
	)
	if labeled {
		if v.Label != nil {
			row = append(row, strconv.Itoa(*v.Label))
		} else {
			row = append(row, "")
		}
	}
	return row
}
