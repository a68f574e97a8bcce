package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender values accepted in the raw gender column.
const (
	GenderFemale = "Female"
	GenderMale   = "Male"
)

// Canonical category labels that get their own feature flag.
const (
	CategoryGroceryPOS  = "grocery_pos"
	CategoryShoppingNet = "shopping_net"
	CategoryMiscNet     = "misc_net"
)

// RawTransaction is the typed view of the raw columns the feature
// transform reads. The remaining source columns are carried through
// validation only.
type RawTransaction struct {
	TransTime   time.Time
	Category    string
	Amount      decimal.Decimal
	DateOfBirth time.Time
	Gender      string
	IsFraud     *int // nil for unlabeled data
}
