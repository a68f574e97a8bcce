package rawcsv

// naTokens are the strings read as missing values, matching the default
// NA set of the dataframe tooling the raw exports come from.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNull reports whether a raw cell counts as a missing value. Cells are
// compared as read, so " " and " NA" are values.
func IsNull(cell string) bool {
	return naTokens[cell]
}
