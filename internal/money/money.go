// Package money converts between the engine's integer minor units and
// the decimal strings used on the wire. This is the only place currency
// values exist in decimal form; everything past this boundary is int64
// cents.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorDigits is the minor-unit exponent. Fixed at 2 (cent-based
// currencies); zero-decimal currencies would need a per-currency table.
const minorDigits = 2

// FormatMinor renders minor units as a fixed two-decimal string,
// e.g. 1050 -> "10.50".
func FormatMinor(amount int64) string {
	return decimal.New(amount, -minorDigits).StringFixed(minorDigits)
}

// ParseToMinor parses a decimal amount string into minor units,
// e.g. "10.50" -> 1050. Amounts with sub-cent precision are rejected
// rather than rounded; the caller sent a value the currency cannot
// represent.
func ParseToMinor(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	shifted := d.Shift(minorDigits)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", s, minorDigits)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return shifted.IntPart(), nil
}
