package numeric_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/zephyrtronium/unitcalc/numeric"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		z    numeric.Complex
		k    numeric.Kind
	}{
		{"zero", numeric.Zero, numeric.Real},
		{"real", numeric.Complex{Re: 2}, numeric.Real},
		{"imag", numeric.Complex{Im: -3}, numeric.Imaginary},
		{"both", numeric.Complex{Re: 1, Im: 1}, numeric.Mixed},
		{"residual-im", numeric.Complex{Re: 1, Im: 1e-16}, numeric.Real},
		{"residual-re", numeric.Complex{Re: 1e-16, Im: 5}, numeric.Imaginary},
		{"small-both", numeric.Complex{Re: 1e-16, Im: 1e-16}, numeric.Mixed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if k := c.z.Kind(); k != c.k {
				t.Errorf("%v classified as %v, want %v", c.z, k, c.k)
			}
		})
	}
}

func TestEqualsBinary(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		eq   bool
	}{
		{"same", 1, 1, true},
		{"zeros", 0, math.Copysign(0, -1), true},
		{"next", 1, math.Nextafter(1, 2), true},
		{"three", 1, math.Nextafter(math.Nextafter(math.Nextafter(1, 2), 2), 2), true},
		{"four", 1, math.Nextafter(math.Nextafter(math.Nextafter(math.Nextafter(1, 2), 2), 2), 2), false},
		{"signs", 1e-300, -1e-300, false},
		{"tenth", 0.1 + 0.2, 0.3, true},
		{"far", 1, 1.0001, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if eq := numeric.EqualsBinary(c.a, c.b); eq != c.eq {
				t.Errorf("EqualsBinary(%g, %g) = %t, want %t", c.a, c.b, eq, c.eq)
			}
		})
	}
}

func TestDiv(t *testing.T) {
	cases := []struct {
		name string
		a, b numeric.Complex
		r    numeric.Complex
	}{
		{"real", numeric.FromReal(6), numeric.FromReal(3), numeric.FromReal(2)},
		{"by-i", numeric.FromReal(1), numeric.I, numeric.Complex{Im: -1}},
		{"mixed", numeric.Complex{Re: 1, Im: 2}, numeric.Complex{Re: 3, Im: 4}, numeric.Complex{Re: 0.44, Im: 0.08}},
		{"by-zero", numeric.FromReal(1), numeric.Zero, numeric.ComplexInfinity},
		{"by-inf", numeric.FromReal(1), numeric.Complex{Re: 1, Im: math.Inf(1)}, numeric.Zero},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := c.a.Div(c.b)
			if !scalar.EqualWithinAbsOrRel(r.Re, c.r.Re, 1e-15, 1e-15) && r.Re != c.r.Re ||
				!scalar.EqualWithinAbsOrRel(r.Im, c.r.Im, 1e-15, 1e-15) && r.Im != c.r.Im {
				t.Errorf("%v / %v = %v, want %v", c.a, c.b, r, c.r)
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	a := numeric.FromReal(0.1 + 0.2)
	b := numeric.FromReal(0.3)
	if a.Lt(b) != 0 || a.Gt(b) != 0 {
		t.Errorf("0.1+0.2 and 0.3 compare as ordered")
	}
	if a.Le(b) != 1 || a.Ge(b) != 1 || a.Eq(b) != 1 || a.Ne(b) != 0 {
		t.Errorf("0.1+0.2 and 0.3 do not compare equal")
	}
	if r := numeric.I.Lt(numeric.One); !math.IsNaN(r) {
		t.Errorf("i < 1 gave %g, want NaN", r)
	}
}

func TestTrigRange(t *testing.T) {
	_, err := numeric.Sin(numeric.FromReal(2e8))
	if !errors.Is(err, numeric.ErrArgumentRange) {
		t.Errorf("sin(2e8) gave %v, want range error", err)
	}
	_, err = numeric.Cosh(numeric.Complex{Re: 1, Im: -2e8})
	if !errors.Is(err, numeric.ErrArgumentRange) {
		t.Errorf("cosh(1-2e8i) gave %v, want range error", err)
	}
	r, err := numeric.Sinh(numeric.Complex{Re: 2e8})
	if err != nil || !math.IsInf(r.Re, 1) {
		t.Errorf("sinh(2e8) gave %v, %v", r, err)
	}
}

func TestInverses(t *testing.T) {
	cases := []struct {
		name string
		f, g func(numeric.Complex) numeric.Complex
	}{
		{"asin", numeric.Asin, func(z numeric.Complex) numeric.Complex { r, _ := numeric.Sin(z); return r }},
		{"acos", numeric.Acos, func(z numeric.Complex) numeric.Complex { r, _ := numeric.Cos(z); return r }},
		{"atan", numeric.Atan, numeric.Tan},
		{"asinh", numeric.Asinh, func(z numeric.Complex) numeric.Complex { r, _ := numeric.Sinh(z); return r }},
		{"atanh", numeric.Atanh, numeric.Tanh},
		{"exp", numeric.Log, numeric.Exp},
	}
	points := []numeric.Complex{{Re: 0.3}, {Re: 0.25, Im: 0.5}, {Re: -0.4, Im: -0.1}}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, z := range points {
				r := c.g(c.f(z))
				if !scalar.EqualWithinAbs(r.Re, z.Re, 1e-12) || !scalar.EqualWithinAbs(r.Im, z.Im, 1e-12) {
					t.Errorf("%s round trip of %v gave %v", c.name, z, r)
				}
			}
		})
	}
}

func TestPow(t *testing.T) {
	cases := []struct {
		name string
		z    numeric.Complex
		p    float64
		r    numeric.Complex
	}{
		{"zero-power", numeric.FromReal(0), 0, numeric.One},
		{"zero-base", numeric.FromReal(0), 3, numeric.Zero},
		{"neg-int", numeric.FromReal(-2), 3, numeric.FromReal(-8)},
		{"square", numeric.I, 2, numeric.FromReal(-1)},
		{"cube", numeric.Complex{Re: 1, Im: 1}, 3, numeric.Complex{Re: -2, Im: 2}},
		{"half", numeric.FromReal(-4), 0.5, numeric.Complex{Im: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := numeric.Pow(c.z, c.p)
			if !scalar.EqualWithinAbs(r.Re, c.r.Re, 1e-14) || !scalar.EqualWithinAbs(r.Im, c.r.Im, 1e-14) {
				t.Errorf("%v^%g = %v, want %v", c.z, c.p, r, c.r)
			}
		})
	}
}

func TestFact(t *testing.T) {
	cases := []struct {
		name string
		x    numeric.Complex
		r    float64
		err  error
	}{
		{"zero", numeric.FromReal(0), 1, nil},
		{"five", numeric.FromReal(5), 120, nil},
		{"max", numeric.FromReal(170), 7.257415615307999e306, nil},
		{"over", numeric.FromReal(171), 0, numeric.ErrFactorialRange},
		{"negative", numeric.FromReal(-1), 0, numeric.ErrFactorialRange},
		{"nan", numeric.NaN, 0, numeric.ErrFactorialRange},
		{"fraction", numeric.FromReal(3.5), 0, numeric.ErrFactorialInteger},
		{"complex", numeric.Complex{Re: 3, Im: 1}, 0, numeric.ErrFactorialComplex},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := numeric.Fact(c.x)
			if !errors.Is(err, c.err) {
				t.Fatalf("%v! gave error %v, want %v", c.x, err, c.err)
			}
			if c.err == nil && !scalar.EqualWithinRel(r, c.r, 1e-14) {
				t.Errorf("%v! = %g, want %g", c.x, r, c.r)
			}
		})
	}
}

func TestDomainErrorText(t *testing.T) {
	cases := []struct {
		name string
		x    numeric.Complex
		want string
	}{
		{"imaginary", numeric.Complex{Im: 3}, "(n! of 3i)"},
		{"complex", numeric.Complex{Re: 2, Im: -1}, "(n! of 2 - 1i)"},
		{"fraction", numeric.FromReal(3.5), "(n! of 3.5)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := numeric.Fact(c.x)
			if err == nil {
				t.Fatalf("%v! should fail", c.x)
			}
			if !strings.HasSuffix(err.Error(), c.want) {
				t.Errorf("%v! error %q should end with %q", c.x, err.Error(), c.want)
			}
		})
	}
}

func TestMandelbrot(t *testing.T) {
	if r := numeric.Mandelbrot(0, 0); !math.IsNaN(r) {
		t.Errorf("origin escaped with %g", r)
	}
	if r := numeric.Mandelbrot(-1, 0.1); !math.IsNaN(r) {
		t.Errorf("period-2 bulb escaped with %g", r)
	}
	if r := numeric.Mandelbrot(2, 2); math.IsNaN(r) {
		t.Errorf("(2, 2) did not escape")
	}
}

func TestGcd(t *testing.T) {
	cases := []struct{ a, b, r int64 }{
		{0, 5, 5},
		{12, 18, 6},
		{17, 5, 1},
		{48, 180, 12},
	}
	for _, c := range cases {
		if r := numeric.Gcd(c.a, c.b); r != c.r {
			t.Errorf("gcd(%d, %d) = %d, want %d", c.a, c.b, r, c.r)
		}
	}
	if _, err := numeric.AsInt64(2.5); !errors.Is(err, numeric.ErrNotInteger) {
		t.Errorf("AsInt64(2.5) gave %v", err)
	}
}
