// Package numeric implements the scalar core of the calculator: a complex
// number type which classifies itself as real, imaginary, or complex with a
// tolerance for round-off, and the library of elementary functions over it.
package numeric

import (
	"math"
	"strconv"
)

// Complex is an immutable complex number.
type Complex struct {
	Re, Im float64
}

// Kind is the classification of a complex number.
type Kind int8

const (
	Real Kind = 1 + iota
	Imaginary
	Mixed
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Imaginary:
		return "imaginary"
	case Mixed:
		return "complex"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// eps is the relative magnitude under which one part of a number is
// considered round-off from computations with the other.
const eps = 1e-12

var (
	Zero             = Complex{}
	One              = Complex{Re: 1}
	I                = Complex{Im: 1}
	NaN              = Complex{Re: math.NaN()}
	ComplexInfinity  = Complex{Re: math.Inf(1), Im: math.Inf(1)}
	PositiveInfinity = Complex{Re: math.Inf(1)}
)

// FromReal creates a real number.
func FromReal(x float64) Complex {
	return Complex{Re: x}
}

// Classify returns the kind of the number a+bi.
func Classify(a, b float64) Kind {
	if b == 0 {
		return Real
	}
	if a == 0 {
		return Imaginary
	}
	re := math.Abs(a)
	im := math.Abs(b)
	d := (re + im) * eps
	if im < d {
		return Real
	}
	if re < d {
		return Imaginary
	}
	return Mixed
}

// Kind classifies z.
func (z Complex) Kind() Kind { return Classify(z.Re, z.Im) }

// String formats z with the shortest representation of each part, omitting a
// zero imaginary or real part.
func (z Complex) String() string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	switch {
	case z.Im == 0:
		return f(z.Re)
	case z.Re == 0:
		return f(z.Im) + "i"
	case z.Im < 0:
		return f(z.Re) + " - " + f(-z.Im) + "i"
	}
	return f(z.Re) + " + " + f(z.Im) + "i"
}

// IsReal reports whether z is real, up to round-off in the imaginary part.
func (z Complex) IsReal() bool { return z.Kind() == Real }

// IsImaginary reports whether z is purely imaginary.
func (z Complex) IsImaginary() bool { return z.Kind() == Imaginary }

// IsComplex reports whether z has significant real and imaginary parts.
func (z Complex) IsComplex() bool { return z.Kind() == Mixed }

// IsNaN reports whether either part of z is NaN.
func (z Complex) IsNaN() bool { return math.IsNaN(z.Re) || math.IsNaN(z.Im) }

// IsInf reports whether either part of z is infinite.
func (z Complex) IsInf() bool { return math.IsInf(z.Re, 0) || math.IsInf(z.Im, 0) }

// Phase returns the argument of z in (-π, π]. Real numbers have phase 0 or π.
func (z Complex) Phase() float64 {
	if z.Im == 0 {
		if z.Re >= 0 {
			return 0
		}
		return math.Pi
	}
	return math.Atan2(z.Im, z.Re)
}

// NormalPhase returns the argument of z in [0, 2π).
func (z Complex) NormalPhase() float64 {
	phi := math.Atan2(z.Im, z.Re)
	if phi < 0 {
		return phi + 2*math.Pi
	}
	return phi
}

// Conj returns the complex conjugate of z.
func (z Complex) Conj() Complex { return Complex{z.Re, -z.Im} }

// Neg returns -z.
func (z Complex) Neg() Complex { return Complex{-z.Re, -z.Im} }

func (z Complex) Add(w Complex) Complex { return Complex{z.Re + w.Re, z.Im + w.Im} }
func (z Complex) Sub(w Complex) Complex { return Complex{z.Re - w.Re, z.Im - w.Im} }

func (z Complex) Mul(w Complex) Complex {
	return Complex{
		z.Re*w.Re - z.Im*w.Im,
		z.Im*w.Re + z.Re*w.Im,
	}
}

// Scale returns z·x.
func (z Complex) Scale(x float64) Complex { return Complex{z.Re * x, z.Im * x} }

// Div returns z/w using Smith's algorithm. A nonzero number divided by zero
// is ComplexInfinity, and a finite number divided by an infinite one is zero.
func (z Complex) Div(w Complex) Complex {
	a, b, c, d := z.Re, z.Im, w.Re, w.Im
	if d == 0 {
		if c == 0 && (a != 0 || b != 0) {
			return ComplexInfinity
		}
		return Complex{a / c, b / c}
	}
	if (math.IsInf(c, 0) || math.IsInf(d, 0)) && !(math.IsInf(a, 0) || math.IsInf(b, 0)) {
		return Zero
	}
	if math.Abs(d) < math.Abs(c) {
		e := d / c
		f := 1 / (c + d*e)
		return Complex{(a + b*e) * f, (b - a*e) * f}
	}
	e := c / d
	f := 1 / (d + c*e)
	return Complex{(b + a*e) * f, (-a + b*e) * f}
}

// Inv returns 1/z.
func (z Complex) Inv() Complex {
	a, b := z.Re, z.Im
	if b == 0 {
		if a == 0 {
			return PositiveInfinity
		}
		return Complex{Re: 1 / a}
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return Zero
	}
	if math.Abs(b) < math.Abs(a) {
		e := b / a
		f := 1 / (a + b*e)
		return Complex{f, -e * f}
	}
	e := a / b
	f := 1 / (b + a*e)
	return Complex{e * f, -f}
}

// IntDiv truncates each part of z/w. The divisor must be real and nonzero.
func (z Complex) IntDiv(w Complex) Complex {
	if !w.IsReal() || w.Re == 0 {
		return NaN
	}
	return Complex{math.Trunc(z.Re / w.Re), math.Trunc(z.Im / w.Re)}
}

// Mod is the remainder of each part of z divided by the real w.
func (z Complex) Mod(w Complex) Complex {
	if !w.IsReal() {
		return NaN
	}
	return Complex{math.Mod(z.Re, w.Re), math.Mod(z.Im, w.Re)}
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// AlmostEqual reports whether z and w are equal up to a few ULP in each
// significant part.
func AlmostEqual(z, w Complex) bool {
	zk, wk := z.Kind(), w.Kind()
	switch {
	case zk == Real && wk == Real:
		return EqualsBinary(z.Re, w.Re)
	case zk == Imaginary && wk == Imaginary:
		return EqualsBinary(z.Im, w.Im)
	}
	return EqualsBinary(z.Re, w.Re) && EqualsBinary(z.Im, w.Im)
}

// Eq returns 1 if z and w are almost equal and 0 otherwise.
func (z Complex) Eq(w Complex) float64 { return truth(AlmostEqual(z, w)) }

// Ne returns 0 if z and w are almost equal and 1 otherwise.
func (z Complex) Ne(w Complex) float64 { return truth(!AlmostEqual(z, w)) }

// Lt returns 1 if z < w, 0 if not, and NaN if either is not real. The
// ordering comparisons all treat almost equal numbers as equal.
func (z Complex) Lt(w Complex) float64 {
	if !z.IsReal() || !w.IsReal() {
		return math.NaN()
	}
	return truth(z.Re < w.Re && !EqualsBinary(z.Re, w.Re))
}

func (z Complex) Gt(w Complex) float64 {
	if !z.IsReal() || !w.IsReal() {
		return math.NaN()
	}
	return truth(z.Re > w.Re && !EqualsBinary(z.Re, w.Re))
}

func (z Complex) Le(w Complex) float64 {
	if !z.IsReal() || !w.IsReal() {
		return math.NaN()
	}
	return truth(z.Re <= w.Re || EqualsBinary(z.Re, w.Re))
}

func (z Complex) Ge(w Complex) float64 {
	if !z.IsReal() || !w.IsReal() {
		return math.NaN()
	}
	return truth(z.Re >= w.Re || EqualsBinary(z.Re, w.Re))
}

// Abs returns |z| without intermediate overflow.
func (z Complex) Abs() float64 { return Hypot(z.Re, z.Im) }

// Hypot returns sqrt(a²+b²); it is infinite if either part is.
func Hypot(a, b float64) float64 {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return math.Inf(1)
	}
	c := math.Abs(a)
	if b == 0 {
		return c
	}
	d := math.Abs(b)
	if c > d {
		r := d / c
		return c * math.Sqrt(1+r*r)
	}
	r := c / d
	return d * math.Sqrt(1+r*r)
}
