package features

import (
	"strings"
	"time"

	"github.com/cardguard-dev/cardguard/internal/model"
)

const (
	transTimeLayout = "2006-01-02 15:04:05"
	dobLayout       = "2006-01-02"
)

// ParseTransTime parses a trans_date_trans_time cell.
func ParseTransTime(s string) (time.Time, error) {
	return time.Parse(transTimeLayout, strings.TrimSpace(s))
}

// ParseDOB parses a dob cell.
func ParseDOB(s string) (time.Time, error) {
	return time.Parse(dobLayout, strings.TrimSpace(s))
}

// Age returns the cardholder's age in whole years on the day of the
// transaction. The year only counts once the birthday has been reached.
func Age(dob, trans time.Time) int {
	age := trans.Year() - dob.Year()
	if trans.Month() < dob.Month() || (trans.Month() == dob.Month() && trans.Day() < dob.Day()) {
		age--
	}
	return age
}

// DayOfWeek returns the weekday with Monday = 0 and Sunday = 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// categoryLabels is the fixed, ordered set of categories with a flag.
var categoryLabels = [3]string{
	model.CategoryGroceryPOS,
	model.CategoryShoppingNet,
	model.CategoryMiscNet,
}

// CategoryFlags one-hot encodes category against the canonical labels.
// Any other category, including one never seen before, yields all zeros.
func CategoryFlags(category string) (grocery, shopping, misc int) {
	var flags [3]int
	for i, label := range categoryLabels {
		if category == label {
			flags[i] = 1
		}
	}
	return flags[0], flags[1], flags[2]
}

// genderFlags accepts the full names and the single-letter codes used by
// the card exports.
var genderFlags = map[string]int{
	model.GenderFemale: 1,
	"F":                1,
	model.GenderMale:   0,
	"M":                0,
}

// GenderFlag maps female to 1 and male to 0. Any other value is rejected.
func GenderFlag(gender string) (int, error) {
	flag, ok := genderFlags[strings.TrimSpace(gender)]
	if !ok {
		return 0, &UnknownGenderError{Value: gender}
	}
	return flag, nil
}
