package unitcalc_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/zephyrtronium/unitcalc"
	"github.com/zephyrtronium/unitcalc/units"
)

func TestSolvers(t *testing.T) {
	cases := []struct {
		name string
		opts []unitcalc.Option
		src  string
		r    float64
		tol  float64
	}{
		{"root", nil, "$root{x^2 - 4 @ x = 0 : 5}", 2, 1e-12},
		{"root-target", nil, "$root{x^2 = 9 @ x = 0 : 5}", 3, 1e-12},
		{"root-cos", nil, "$Root{cos(x) - x @ x = 0 : 1}", 0.7390851332151607, 1e-12},
		{"find", nil, "$find{x^3 - 8 @ x = 0 : 5}", 2, 1e-12},
		{"sup", nil, "$sup{sin(x) @ x = 0 : 3}", 1, 1e-12},
		{"inf", nil, "$inf{(x - 1)^2 + 2 @ x = -3 : 4}", 2, 1e-12},
		{"area-lobatto", nil, "$area{x^2 @ x = 0 : 3}", 9, 1e-12},
		{"area-reversed", nil, "$area{x^2 @ x = 3 : 0}", -9, 1e-12},
		{"area-tanhsinh", []unitcalc.Option{unitcalc.Quadrature(unitcalc.TanhSinh)}, "$area{x^2 @ x = 0 : 3}", 9, 1e-10},
		{"integral", nil, "$integral{1/sqrt(x) @ x = 0 : 1}", 2, 1e-8},
		{"area-sin", nil, "$area{sin(x) @ x = 0 : π}", 2, 1e-12},
		{"slope", nil, "$slope{x^3 @ x = 2}", 12, 1e-8},
		{"slope-exp", nil, "$slope{exp(x) @ x = 1}", math.E, 1e-8},
		{"sum", nil, "$sum{1/k^2 @ k = 1 : 1000}", 1.6439345666815597, 1e-12},
		{"sum-rounded", nil, "$sum{k @ k = 0.6 : 3.4}", 6, 0},
		{"product", nil, "$product{k @ k = 1 : 5}", 120, 0},
		{"repeat", nil, "$repeat{k^2 @ k = 1 : 4}", 16, 0},
		{"nested", nil, "$sum{$sum{j @ j = 1 : k} @ k = 1 : 4}", 20, 0},
		{"in-expression", nil, "2*$sum{k @ k = 1 : 10} + 1", 111, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := unitcalc.NewParser(c.opts...)
			r := calc(t, p, c.src)
			if !scalar.EqualWithinAbsOrRel(r.Re(), c.r, c.tol, c.tol) {
				t.Errorf("%q gave wrong result: want %.17g, got %.17g", c.src, c.r, r.Re())
			}
		})
	}
}

func TestSolverUnits(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
		text string
	}{
		{"sum", "$sum{k*1 m @ k = 1 : 3}", 6, "m"},
		{"area", "$area{2 N @ x = 0 m : 3 m}", 6, "J"},
		{"slope", "$slope{x^2 @ x = 3 s}", 6, "s"},
		{"root", "$root{x^2 - 4 m^2 @ x = 0 m : 5 m}", 2, "m"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := unitcalc.NewParser()
			r := calc(t, p, c.src)
			want := unitsOf(t, p, c.text)
			if !units.Consistent(r.Units, want) {
				t.Fatalf("%q gave wrong units: want %s, got %v", c.src, c.text, r.Units)
			}
			if got := r.Re() * r.Units.ConvertTo(want); !scalar.EqualWithinAbsOrRel(got, c.r, 1e-9, 1e-9) {
				t.Errorf("%q gave wrong result: want %g %s, got %g", c.src, c.r, c.text, got)
			}
		})
	}
}

func TestSupVariable(t *testing.T) {
	p := unitcalc.NewParser()
	calc(t, p, "$sup{sin(x) @ x = 0 : 3}")
	v, ok := p.Variable("x_sup")
	if !ok {
		t.Fatal("x_sup isn't set")
	}
	if !scalar.EqualWithinAbs(v.Re(), math.Pi/2, 1e-6) {
		t.Errorf("x_sup should be π/2, got %g", v.Re())
	}
	calc(t, p, "$inf{x^2 - 2*x @ x = -5 : 5}")
	if v, _ := p.Variable("x_inf"); !scalar.EqualWithinAbs(v.Re(), 1, 1e-6) {
		t.Errorf("x_inf should be 1, got %g", v.Re())
	}
}

func TestRepeatAssign(t *testing.T) {
	p := unitcalc.NewParser(unitcalc.SetVar("acc", unitcalc.Real(1)))
	r := calc(t, p, "$repeat{acc = acc*2 @ i = 1 : 10}")
	if r.Re() != 1024 {
		t.Errorf("repeat should give 1024, got %g", r.Re())
	}
	if v, _ := p.Variable("acc"); v.Re() != 1024 {
		t.Errorf("acc should be 1024, got %g", v.Re())
	}
}

func TestSolverErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind unitcalc.ErrorKind
	}{
		{"no-root", "$root{x^2 + 1 @ x = 0 : 5}", unitcalc.ErrNoSolution},
		{"bounds-units", "$root{x - 1 @ x = 0 m : 5 s}", unitcalc.ErrInconsistentUnits},
		{"nonconstant-target", "$root{x = x/2 + 1 @ x = 0 : 5}", unitcalc.ErrSolver},
		{"domain", "$area{1/x @ x = -1 : 1}", unitcalc.ErrDomain},
		{"limits", "$product{k @ k = -2000000 : 1}", unitcalc.ErrLimits},
		{"sum-units", "$sum{if(k > 1; 1 m; 1 s) @ k = 1 : 3}", unitcalc.ErrInconsistentUnits},
		{"two-targets", "$root{x = 1 = 2 @ x = 0 : 5}", unitcalc.ErrSolver},
		{"definition", "$repeat{f(x) = x @ k = 1 : 2}", unitcalc.ErrSolver},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := unitcalc.NewParser()
			err := p.Parse(c.src)
			if err == nil {
				err = p.Calculate()
			}
			if !errors.Is(err, c.kind) {
				t.Errorf("%q should fail with %v, got %v", c.src, c.kind, err)
			}
		})
	}
}

func TestPlottingNaN(t *testing.T) {
	p := unitcalc.NewParser()
	p.SetPlotting(true)
	r := calc(t, p, "$root{x^2 + 1 @ x = 0 : 5}")
	if !math.IsNaN(r.Re()) {
		t.Errorf("unsolvable root while plotting should be NaN, got %g", r.Re())
	}
}

func TestPrecision(t *testing.T) {
	p := unitcalc.NewParser()
	if got := p.Precision(); got != 1e-14 {
		t.Errorf("default precision should be 1e-14, got %g", got)
	}
	p.SetVariable("Precision", unitcalc.Real(1))
	if got := p.Precision(); got != 1e-2 {
		t.Errorf("precision should be limited to 1e-2, got %g", got)
	}
	p.SetVariable("Precision", unitcalc.Real(0))
	if got := p.Precision(); got != 1e-16 {
		t.Errorf("precision should be limited to 1e-16, got %g", got)
	}
	p.SetVariable("Precision", unitcalc.Real(1e-6))
	r := calc(t, p, "$root{x^2 - 2 @ x = 0 : 2}")
	if !scalar.EqualWithinAbs(r.Re(), math.Sqrt2, 1e-5) {
		t.Errorf("coarse root of 2 should be near √2, got %g", r.Re())
	}
}

func TestSolverString(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"$root{x^2 - 4 @ x = 0 : 5}", "$Root{x^2 - 4 = 0; x ∈ [0; 5]}"},
		{"$root{x^2 = 9 @ x = 0 : 5}", "$Root{x^2 = 9; x ∈ [0; 5]}"},
		{"$sum{k @ k = 1 : 10}", "∑{k = 1...10}(k)"},
		{"$slope{x^2 @ x = 1}", "$Slope{x^2; x = 1}"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			p := unitcalc.NewParser()
			if err := p.Parse(c.src); err != nil {
				t.Fatal(err)
			}
			if got := p.String(); got != c.want {
				t.Errorf("wrong text: want %q, got %q", c.want, got)
			}
		})
	}
}

// unitsOf evaluates units by name.
func unitsOf(t *testing.T, p *unitcalc.Parser, name string) *units.Unit {
	t.Helper()
	return calc(t, p, "1 "+name).Units
}
