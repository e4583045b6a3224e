package numeric

import (
	"math"
	"math/rand/v2"
)

// Bounds on the arguments of periodic functions. Beyond these, the spacing of
// floats exceeds the period's resolution.
const (
	TrigMin = -1e8
	TrigMax = 1e8
)

var (
	log2Inv  = 1 / math.Ln2
	log10Inv = 1 / math.Ln10
)

func checkTrig(x float64, name string) error {
	if x < TrigMin || x > TrigMax {
		return &DomainError{Func: name, X: FromReal(x), Err: ErrArgumentRange}
	}
	return nil
}

// RealSin is sin over the reals with the argument range check.
func RealSin(x float64) (float64, error) {
	if err := checkTrig(x, "sin"); err != nil {
		return math.NaN(), err
	}
	return math.Sin(x), nil
}

// RealCos is cos over the reals with the argument range check.
func RealCos(x float64) (float64, error) {
	if err := checkTrig(x, "cos"); err != nil {
		return math.NaN(), err
	}
	return math.Cos(x), nil
}

func Sin(z Complex) (Complex, error) {
	if err := checkTrig(z.Re, "sin"); err != nil {
		return NaN, err
	}
	s, c := math.Sincos(z.Re)
	return Complex{s * math.Cosh(z.Im), c * math.Sinh(z.Im)}, nil
}

func Cos(z Complex) (Complex, error) {
	if err := checkTrig(z.Re, "cos"); err != nil {
		return NaN, err
	}
	s, c := math.Sincos(z.Re)
	return Complex{c * math.Cosh(z.Im), -s * math.Sinh(z.Im)}, nil
}

func Tan(z Complex) Complex {
	ta := math.Tan(z.Re)
	if z.Im == 0 {
		return FromReal(ta)
	}
	thb := math.Tanh(z.Im)
	return Complex{ta, thb}.Div(Complex{1, -ta * thb})
}

func Cot(z Complex) Complex {
	ta := math.Tan(z.Re)
	if z.Im == 0 {
		return FromReal(1 / ta)
	}
	thb := math.Tanh(z.Im)
	return Complex{1, -ta * thb}.Div(Complex{ta, thb})
}

func Sinh(z Complex) (Complex, error) {
	if err := checkTrig(z.Im, "sinh"); err != nil {
		return NaN, err
	}
	s, c := math.Sincos(z.Im)
	return Complex{math.Sinh(z.Re) * c, math.Cosh(z.Re) * s}, nil
}

func Cosh(z Complex) (Complex, error) {
	if err := checkTrig(z.Im, "cosh"); err != nil {
		return NaN, err
	}
	s, c := math.Sincos(z.Im)
	return Complex{math.Cosh(z.Re) * c, math.Sinh(z.Re) * s}, nil
}

func Tanh(z Complex) Complex {
	tha := math.Tanh(z.Re)
	tb := math.Tan(z.Im)
	if tb == 0 {
		return FromReal(tha)
	}
	return Complex{tha, tb}.Div(Complex{1, tha * tb})
}

func Coth(z Complex) Complex {
	tha := math.Tanh(z.Re)
	tb := math.Tan(z.Im)
	if tb == 0 {
		return FromReal(1 / tha)
	}
	return Complex{1, tha * tb}.Div(Complex{tha, tb})
}

// The inverse functions are all expressed through Log and Sqrt so that they
// share branch cuts.

func Asin(z Complex) Complex {
	return I.Neg().Mul(Log(I.Mul(z).Add(Sqrt(One.Sub(z.Mul(z))))))
}

func Acos(z Complex) Complex {
	return I.Neg().Mul(Log(z.Add(I.Mul(Sqrt(One.Sub(z.Mul(z)))))))
}

func Atan(z Complex) Complex {
	switch z {
	case I:
		return Complex{0, math.Inf(1)}
	case I.Neg():
		return Complex{0, math.Inf(-1)}
	}
	return I.Neg().Scale(0.5).Mul(Log(I.Sub(z).Div(I.Add(z))))
}

func Acot(z Complex) Complex {
	switch z {
	case I:
		return Complex{0, math.Inf(-1)}
	case I.Neg():
		return Complex{0, math.Inf(1)}
	}
	return I.Neg().Scale(0.5).Mul(Log(z.Add(I).Div(z.Sub(I))))
}

func Asinh(z Complex) Complex {
	return Log(z.Add(Sqrt(z.Mul(z).Add(One))))
}

func Acosh(z Complex) Complex {
	return Log(z.Add(Sqrt(z.Sub(One)).Mul(Sqrt(z.Add(One)))))
}

func Atanh(z Complex) Complex {
	return Log(One.Add(z).Div(One.Sub(z))).Scale(0.5)
}

func Acoth(z Complex) Complex {
	return Log(z.Add(One).Div(z.Sub(One))).Scale(0.5)
}

// Pow returns z^p for real p. Positive real bases and integer powers of real
// bases stay on the real line.
func Pow(z Complex, p float64) Complex {
	if p == 0 {
		return One
	}
	isInt := p == math.Trunc(p)
	if z.Im == 0 && (z.Re > 0 || isInt) {
		if z.Re == 0 {
			return Zero
		}
		return FromReal(math.Pow(z.Re, p))
	}
	if p == 2 {
		return z.Mul(z)
	}
	if isInt && p > 0 && p < 6 {
		r := z
		for i := 1; i < int(p); i++ {
			r = r.Mul(z)
		}
		return r
	}
	r := Hypot(z.Re, z.Im)
	theta := p * z.NormalPhase()
	t := math.Pow(r, p)
	return Complex{t * math.Cos(theta), t * math.Sin(theta)}
}

// CPow returns z^w for complex w.
func CPow(z, w Complex) Complex {
	c, d := w.Re, w.Im
	if d == 0 {
		return Pow(z, c)
	}
	if z.Re == 0 && z.Im == 0 {
		return Zero
	}
	r := Hypot(z.Re, z.Im)
	phi := z.NormalPhase()
	theta := c*phi + d*math.Log(r)
	t := math.Pow(r, c) * math.Exp(-d*phi)
	return Complex{t * math.Cos(theta), t * math.Sin(theta)}
}

func Log(z Complex) Complex {
	return Complex{math.Log(Hypot(z.Re, z.Im)), z.Phase()}
}

func Log10(z Complex) Complex {
	return Complex{math.Log(Hypot(z.Re, z.Im)) * log10Inv, z.Phase() * log10Inv}
}

func Log2(z Complex) Complex {
	return Complex{math.Log(Hypot(z.Re, z.Im)) * log2Inv, z.Phase() * log2Inv}
}

func Exp(z Complex) Complex {
	r := math.Exp(z.Re)
	return Complex{r * math.Cos(z.Im), r * math.Sin(z.Im)}
}

func Sqrt(z Complex) Complex {
	r := math.Sqrt(Hypot(z.Re, z.Im))
	theta := z.NormalPhase() / 2
	return Complex{r * math.Cos(theta), r * math.Sin(theta)}
}

func Cbrt(z Complex) Complex {
	r := math.Cbrt(Hypot(z.Re, z.Im))
	theta := z.NormalPhase() / 3
	return Complex{r * math.Cos(theta), r * math.Sin(theta)}
}

// Root returns the principal nth root of z.
func Root(z Complex, n int) Complex {
	r := math.Pow(Hypot(z.Re, z.Im), 1/float64(n))
	theta := z.NormalPhase() / float64(n)
	return Complex{r * math.Cos(theta), r * math.Sin(theta)}
}

// Round rounds each part half away from zero.
func Round(z Complex) Complex { return Complex{math.Round(z.Re), math.Round(z.Im)} }

func Floor(z Complex) Complex   { return Complex{math.Floor(z.Re), math.Floor(z.Im)} }
func Ceiling(z Complex) Complex { return Complex{math.Ceil(z.Re), math.Ceil(z.Im)} }
func Trunc(z Complex) Complex   { return Complex{math.Trunc(z.Re), math.Trunc(z.Im)} }

// Sign is the sign of a real number; it is NaN for anything else.
func Sign(z Complex) Complex {
	if !z.IsReal() {
		return NaN
	}
	return FromReal(RealSign(z.Re))
}

// RealSign returns -1, 0, or 1. The sign of NaN is NaN.
func RealSign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	}
	return math.NaN()
}

// RealRandom returns a uniformly distributed number in [0, x).
func RealRandom(x float64) float64 {
	return rand.Float64() * x
}

// Random returns a number with each part uniformly distributed, scaled by z.
func Random(z Complex) Complex {
	return Complex{rand.Float64(), rand.Float64()}.Mul(z)
}

// Atan2 is the angle of the point (x, y); both must be real.
func Atan2(y, x Complex) Complex {
	if !y.IsReal() || !x.IsReal() {
		return NaN
	}
	return FromReal(math.Atan2(y.Re, x.Re))
}
