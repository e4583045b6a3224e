package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// ulps is the largest distance in units of last place for which two floats of
// the same sign are considered equal.
const ulps = 3

// EqualsBinary reports whether a and b are equal or adjacent within a few
// representable doubles. Numbers of different signs are only equal if they
// compare equal, i.e. +0 and -0.
func EqualsBinary(a, b float64) bool {
	if math.Signbit(a) != math.Signbit(b) {
		return a == b
	}
	return scalar.EqualWithinULP(a, b, ulps)
}
