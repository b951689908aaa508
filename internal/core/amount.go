// Package core holds the invoice domain model and the amount parsing
// rules shared by the extraction pipeline and the store.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a textual monetary amount into a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// tolerates currency symbols and grouping spaces around the digits.
// Anything that still fails to parse, and any negative value, is coerced
// to zero: aggregation must survive a malformed field on one record
// rather than fail a report covering hundreds of good ones.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer("€", "", "$", "", "£", "", " ", "", " ", "").Replace(s)
	// A comma is a decimal separator only when no dot is present;
	// otherwise it is thousands grouping (1,234.56).
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
