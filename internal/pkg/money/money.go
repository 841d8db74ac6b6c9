// Package money converts between integer minor units (paise) and the decimal
// rupee amounts used on the wire by carriers and clients.
package money

import (
	"order-tracker/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errs.New("invalid amount")

// FromMajor rounds half away from zero to the nearest minor unit.
func FromMajor(v float64) int64 {
	return decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
}

func FromString(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errs.Mark(errs.Wrapf(err, "parse amount %q", s), ErrInvalidAmount)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

func Format(minor int64) string {
	return ToDecimal(minor).StringFixed(2)
}

// FromDecimal rounds half away from zero to the nearest minor unit.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
