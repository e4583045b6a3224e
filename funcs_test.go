package unitcalc

import (
	"errors"
	"testing"
)

func mustCalc(t *testing.T, p *Parser, expr string) Value {
	t.Helper()
	if err := p.Parse(expr); err != nil {
		t.Fatalf("%q failed to parse: %v", expr, err)
	}
	if err := p.Calculate(); err != nil {
		t.Fatalf("%q failed to calculate: %v", expr, err)
	}
	return p.Result()
}

func TestCustomFunctions(t *testing.T) {
	cases := []struct {
		name string
		defs []string
		src  string
		r    float64
	}{
		{"square", []string{"f(x) = x^2 + 1"}, "f(3)", 10},
		{"implicit", []string{"f(x) = 2x"}, "f(4)", 8},
		{"two", []string{"f(x; y) = x - y"}, "f(5; 3)", 2},
		{"three", []string{"f(x; y; z) = x*y + z"}, "f(2; 3; 4)", 10},
		{"nested", []string{"f(x) = x + 1", "g(x) = f(x)*2"}, "g(3)", 8},
		{"call-expr", []string{"f(x) = x^2"}, "f(1 + 2) + f(4)", 25},
		{"redefine", []string{"f(x) = x", "f(x) = 3x"}, "f(2)", 6},
		{"solver", []string{"f(a) = $sum{k*a @ k = 1 : 3}"}, "f(2)", 12},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewParser()
			for _, d := range c.defs {
				mustCalc(t, p, d)
				if !p.IsDefinition() {
					t.Fatalf("%q isn't a definition", d)
				}
			}
			if r := mustCalc(t, p, c.src); r.Re() != c.r {
				t.Errorf("%q gave wrong result: want %g, got %g", c.src, c.r, r.Re())
			}
		})
	}
}

func TestFunctionUnits(t *testing.T) {
	p := NewParser()
	mustCalc(t, p, "area(w; h) = w*h | m^2")
	r := mustCalc(t, p, "area(20 cm; 3 m)")
	if r.Re() < 0.6-1e-12 || r.Re() > 0.6+1e-12 {
		t.Errorf("area(20 cm; 3 m) should be 0.6 m^2, got %g", r.Re())
	}
	if r.Units.Text() != "m^2" {
		t.Errorf("area should have units m^2, got %v", r.Units)
	}
}

func TestMemoize(t *testing.T) {
	p := NewParser()
	p.SetVariable("a", Real(1))
	mustCalc(t, p, "h(x) = x + a")
	cf := p.funcs[p.funcIndex["h"]]
	if r := mustCalc(t, p, "h(2)"); r.Re() != 3 {
		t.Fatalf("h(2) should be 3, got %g", r.Re())
	}
	if len(cf.cache1) != 1 {
		t.Errorf("h should have one cached result, has %d", len(cf.cache1))
	}
	mustCalc(t, p, "h(2) + h(3)")
	if len(cf.cache1) != 2 {
		t.Errorf("h should have two cached results, has %d", len(cf.cache1))
	}
	p.SetVariable("a", Real(5))
	if len(cf.cache1) != 0 {
		t.Errorf("changing a should clear the cache of h, has %d", len(cf.cache1))
	}
	if r := mustCalc(t, p, "h(2)"); r.Re() != 7 {
		t.Errorf("h(2) should be 7 after a = 5, got %g", r.Re())
	}
}

func TestInvalidateTransitive(t *testing.T) {
	p := NewParser()
	p.SetVariable("a", Real(1))
	mustCalc(t, p, "f(x) = x*a")
	mustCalc(t, p, "g(x) = f(x) + 1")
	if r := mustCalc(t, p, "g(2)"); r.Re() != 3 {
		t.Fatalf("g(2) should be 3, got %g", r.Re())
	}
	mustCalc(t, p, "a = 10")
	if r := mustCalc(t, p, "g(2)"); r.Re() != 21 {
		t.Errorf("g(2) should be 21 after a = 10, got %g", r.Re())
	}
	// Redefining f clears g.
	mustCalc(t, p, "f(x) = x")
	if r := mustCalc(t, p, "g(2)"); r.Re() != 3 {
		t.Errorf("g(2) should be 3 after redefining f, got %g", r.Re())
	}
}

func TestCachePurge(t *testing.T) {
	p := NewParser()
	mustCalc(t, p, "f(x) = x")
	cf := p.funcs[0]
	for i := range maxCacheSize {
		cf.cache1[cacheKey{re: float64(i)}] = Real(float64(i))
	}
	if err := p.Parse("1"); err != nil {
		t.Fatal(err)
	}
	if len(cf.cache1) != 0 {
		t.Errorf("full cache should be purged on parse, has %d", len(cf.cache1))
	}
	mustCalc(t, p, "f(1)")
	p.ClearCache()
	if len(cf.cache1) != 0 {
		t.Errorf("ClearCache left %d results", len(cf.cache1))
	}
}

func TestCircular(t *testing.T) {
	p := NewParser()
	mustCalc(t, p, "f(x) = x + 1")
	mustCalc(t, p, "g(x) = f(x)*2")
	err := p.Parse("f(x) = g(x)")
	if !errors.Is(err, ErrCircular) {
		t.Fatalf("circular definition should fail with ErrCircular, got %v", err)
	}
	if r := mustCalc(t, p, "f(1)"); r.Re() != 2 {
		t.Errorf("failed redefinition should keep f, but f(1) = %g", r.Re())
	}
	err = p.Parse("f(x) = f(x) + 1")
	if !errors.Is(err, ErrCircular) {
		t.Errorf("recursive definition should fail with ErrCircular, got %v", err)
	}
}

func TestDefinitionErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{"parameter", "f(2) = 1", ErrInvalidFunction},
		{"missing-parameter", "f(x; ) = 1", ErrSyntax},
		{"empty-body", "f(x) =", ErrIncomplete},
		{"unknown-call", "f(x) = nope(x)", ErrInvalidFunction},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewParser()
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
