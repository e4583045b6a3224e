package unitcalc_test

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/zephyrtronium/unitcalc"
	"github.com/zephyrtronium/unitcalc/units"
)

func TestCompileMatchesCalculate(t *testing.T) {
	exprs := []string{
		"x^2 + 3*x - 1",
		"sqrt(x) + sin(x)",
		"max(x; 2; 3)",
		"if(x > 2; x; -x)",
		"atan2(x; 1)",
		"x % 3",
		"(x + 1)/(x - 0.5)",
		"-x^2",
		"$sum{k*x @ k = 1 : 4}",
		"2*pi*x",
	}
	xs := []float64{1, 2.5, 4}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			p := unitcalc.NewParser()
			x := unitcalc.NewParameter("x")
			fn, err := p.Compile(expr, x)
			if err != nil {
				t.Fatalf("%q failed to compile: %v", expr, err)
			}
			for _, v := range xs {
				x.SetReal(v)
				got, err := fn()
				if err != nil {
					t.Errorf("%q failed at x = %g: %v", expr, v, err)
					continue
				}
				q := unitcalc.NewParser()
				q.SetVariable("x", unitcalc.Real(v))
				want := calc(t, q, expr)
				if !scalar.EqualWithinAbsOrRel(got.Re(), want.Re(), 1e-12, 1e-12) {
					t.Errorf("%q at x = %g: compiled %.17g, calculated %.17g", expr, v, got.Re(), want.Re())
				}
			}
		})
	}
}

func TestCompileTwoParameters(t *testing.T) {
	p := unitcalc.NewParser()
	x, y := unitcalc.NewParameter("x"), unitcalc.NewParameter("y")
	fn, err := p.Compile("x*y + y", x, y)
	if err != nil {
		t.Fatal(err)
	}
	x.SetReal(3)
	y.SetReal(2)
	if r, err := fn(); err != nil || r.Re() != 8 {
		t.Errorf("x*y + y should be 8, got %v (%v)", r.Re(), err)
	}
	y.SetReal(-1)
	if r, err := fn(); err != nil || r.Re() != -4 {
		t.Errorf("x*y + y should be -4, got %v (%v)", r.Re(), err)
	}
}

func TestCompileUnits(t *testing.T) {
	m := units.Default(units.UK).Must("m")
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("x*2 | cm", x)
	if err != nil {
		t.Fatal(err)
	}
	x.Set(unitcalc.Quantity(3, m))
	r, err := fn()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbsOrRel(r.Re(), 600, 1e-9, 1e-9) {
		t.Errorf("2*(3 m) should be 600 cm, got %g", r.Re())
	}
	if r.Units.Text() != "cm" {
		t.Errorf("result should be in cm, got %v", r.Units)
	}
	x.SetReal(3)
	if _, err := fn(); !errors.Is(err, unitcalc.ErrInconsistentUnits) {
		t.Errorf("unitless x should be inconsistent with cm, got %v", err)
	}
}

func TestCompileFollowsVariables(t *testing.T) {
	p := unitcalc.NewParser(unitcalc.SetVar("a", unitcalc.Real(2)))
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("a*x", x)
	if err != nil {
		t.Fatal(err)
	}
	x.SetReal(5)
	if r, _ := fn(); r.Re() != 10 {
		t.Errorf("a*x should be 10, got %g", r.Re())
	}
	p.SetVariable("a", unitcalc.Real(3))
	if r, _ := fn(); r.Re() != 15 {
		t.Errorf("a*x should follow a = 3 and give 15, got %g", r.Re())
	}
}

func TestCompileAssign(t *testing.T) {
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("y = 2*x", x)
	if err != nil {
		t.Fatal(err)
	}
	x.SetReal(4)
	if _, err := fn(); err != nil {
		t.Fatal(err)
	}
	if v, ok := p.Variable("y"); !ok || v.Re() != 8 {
		t.Errorf("y should be 8, got %v (set: %t)", v.Re(), ok)
	}
}

func TestCompileAssignTarget(t *testing.T) {
	m := units.Default(units.UK).Must("m")
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("y = 2*x | cm", x)
	if err != nil {
		t.Fatal(err)
	}
	x.Set(unitcalc.Quantity(1, m))
	r, err := fn()
	if err != nil {
		t.Fatal(err)
	}
	q := unitcalc.NewParser(unitcalc.SetVar("x", unitcalc.Quantity(1, m)))
	calc(t, q, "y = 2*x | cm")
	want, _ := q.Variable("y")
	got, ok := p.Variable("y")
	if !ok {
		t.Fatal("y should be assigned")
	}
	for _, v := range []unitcalc.Value{r, got, want} {
		if !scalar.EqualWithinAbsOrRel(v.Re(), 200, 1e-9, 1e-9) || v.Units.Text() != "cm" {
			t.Errorf("y should be 200 cm, got %g %v", v.Re(), v.Units)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind unitcalc.ErrorKind
	}{
		{"definition", "f(x) = x", unitcalc.ErrInvalidFunction},
		{"incomplete", "1 +", unitcalc.ErrIncomplete},
		{"undefined", "qq + 1", unitcalc.ErrUndefined},
		{"assignment", "1 = x", unitcalc.ErrAssignment},
		{"empty", "", unitcalc.ErrEmpty},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := unitcalc.NewParser()
			_, err := p.Compile(c.src, unitcalc.NewParameter("x"))
			if !errors.Is(err, c.kind) {
				t.Errorf("%q should fail with %v, got %v", c.src, c.kind, err)
			}
		})
	}
}

func TestCompileCancel(t *testing.T) {
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("x + 1", x)
	if err != nil {
		t.Fatal(err)
	}
	p.Cancel()
	if _, err := fn(); !errors.Is(err, unitcalc.ErrInterrupted) {
		t.Errorf("canceled function should fail with ErrInterrupted, got %v", err)
	}
	p.Resume()
	if r, err := fn(); err != nil || r.Re() != 1 {
		t.Errorf("resumed function should give 1, got %g (%v)", r.Re(), err)
	}
}

func BenchmarkCompiled(b *testing.B) {
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("sin(x)^2 + cos(x)^2 + x/3", x)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; b.Loop(); i++ {
		x.SetReal(float64(i))
		fn()
	}
}

func BenchmarkCalculate(b *testing.B) {
	p := unitcalc.NewParser()
	if err := p.Parse("sin(1.5)^2 + cos(1.5)^2 + 1.5/3"); err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		p.Calculate()
	}
}

func ExampleParser_Compile() {
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("x^2 - 1", x)
	if err != nil {
		panic(err)
	}
	for i := range 4 {
		x.SetReal(float64(i))
		r, _ := fn()
		fmt.Println(unitcalc.FormatValue(r, 6))
	}
	// Output:
	// -1
	// 0
	// 3
	// 8
}
