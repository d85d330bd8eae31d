package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Precision is the number of decimal places results are rounded to.
const Precision = 8

// Round rounds v half-up to Precision decimal places. Values too large to
// carry a fractional part are returned unchanged.
func Round(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	const scale = 1e8
	return math.Floor(v*scale+0.5) / scale
}

// FormatResult rounds v and formats it for the display.
func FormatResult(v float64) string {
	return FormatNumber(Round(v))
}

// FormatNumber formats v in its shortest decimal form. Magnitudes outside
// [1e-6, 1e21) use exponent notation ("1e-7", "1.5e+21"). Negative zero
// prints as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return ZeroSentinel
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
