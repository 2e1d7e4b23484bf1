package risk

import "strconv"

// Precision is the number of decimal places kept in scores and factors.
const Precision = 4

// Round rounds x to Precision decimal places. The decision is made on the
// exact binary value of x, ties going to even.
func Round(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', Precision, 64), 64)
	if err != nil {
		return x
	}
	return r
}
