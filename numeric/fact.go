package numeric

import (
	"math"
	"math/big"
)

// MaxFactorial is the largest n for which n! is finite as a float64.
const MaxFactorial = 170

var factorials = func() [MaxFactorial + 1]float64 {
	var r [MaxFactorial + 1]float64
	var n, f big.Int
	f.SetInt64(1)
	r[0] = 1
	for i := 1; i <= MaxFactorial; i++ {
		f.Mul(&f, n.SetInt64(int64(i)))
		r[i], _ = new(big.Float).SetInt(&f).Float64()
	}
	return r
}()

// Fact returns x! for x a real integer in [0, MaxFactorial].
func Fact(x Complex) (float64, error) {
	if !x.IsReal() {
		return math.NaN(), &DomainError{Func: "n!", X: x, Err: ErrFactorialComplex}
	}
	return RealFact(x.Re)
}

// RealFact returns x! for x an integer in [0, MaxFactorial].
func RealFact(x float64) (float64, error) {
	if !(x >= 0 && x <= MaxFactorial) {
		return math.NaN(), &DomainError{Func: "n!", X: FromReal(x), Err: ErrFactorialRange}
	}
	i := int(x)
	if float64(i) != x {
		return math.NaN(), &DomainError{Func: "n!", X: FromReal(x), Err: ErrFactorialInteger}
	}
	return factorials[i], nil
}

// AsInt64 converts an integral float to its magnitude as an int64.
func AsInt64(x float64) (int64, error) {
	a := math.Abs(x)
	if !(a < math.MaxInt64) || a != math.Trunc(a) {
		return 0, &DomainError{Func: "gcd", X: FromReal(x), Err: ErrNotInteger}
	}
	return int64(a), nil
}

// Gcd is the binary greatest common divisor of non-negative integers.
func Gcd(a, b int64) int64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	k := 0
	for (a|b)&1 == 0 {
		a >>= 1
		b >>= 1
		k++
	}
	for a&1 == 0 {
		a >>= 1
	}
	for b != 0 {
		for b&1 == 0 {
			b >>= 1
		}
		if a > b {
			a, b = b, a
		}
		b -= a
	}
	return a << k
}
