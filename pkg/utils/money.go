package utils

import (
	"github.com/shopspring/decimal"
)

// Monetary amounts are compared at cent precision everywhere. A pair of
// amounts whose rounded difference is within one cent counts as equal,
// which absorbs the drift that per-share rounding introduces.
var centTolerance = decimal.New(1, -2)

// Round2 rounds an amount to two decimal places, halves rounding up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApproxEqual reports whether two amounts agree to within one cent
// after rounding.
func ApproxEqual(a, b decimal.Decimal) bool {
	diff := Round2(a).Sub(Round2(b)).Abs()
	return diff.LessThanOrEqual(centTolerance)
}

// PercentOf returns part/total expressed as a percentage rounded to two
// decimal places. A zero total yields zero rather than a division error.
func PercentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return Round2(part.Div(total).Mul(decimal.NewFromInt(100)))
}
