package reports

import "math"

// safeDivide returns num/den, or def when the denominator is zero. Ratio
// and percentage computations use this uniformly so that empty periods
// produce stable zeros instead of NaN or Inf in report payloads.
func safeDivide(num, den, def float64) float64 {
	if den == 0 {
		return def
	}
	return num / den
}

// roundQty rounds a fractional quantity to the nearest whole unit.
func roundQty(v float64) float64 {
	return math.Round(v)
}
