package domain

import (
	"math"
	"strconv"
	"strings"
)

// priceReplacer strips currency prefixes and grouping separators from raw
// catalog prices. The catalog stores prices as display strings ("Rs. 1,999.00",
// "₹1,999"), not numbers.
var priceReplacer = strings.NewReplacer("Rs.", "", "₹", "", ",", "")

// NormalizePrice parses a currency-formatted catalog price into a non-negative
// float. Accepted shapes include "Rs. 1,999.00", "₹1,999", "1,999.00", "1999",
// and whitespace-padded variants. Catalog data is not guaranteed to be
// well-formed, so anything that does not parse degrades to 0 instead of
// surfacing an error.
func NormalizePrice(raw string) float64 {
	s := priceReplacer.Replace(raw)
	// Drop all remaining whitespace, interior padding included.
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	// ParseFloat accepts "NaN" and "Inf"; neither is a price. Non-finite
	// values degrade to 0 like any other malformed input so a single bad
	// entry cannot poison cart and order totals.
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
