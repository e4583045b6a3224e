package unitcalc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/unitcalc"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"1 + 2*3",
		"5 m/2 s",
		"1 kg + 500 g | g",
		"36 km/h | m/s",
		"f(x) = x^2 + 1",
		"sqrt(2)^2 - 2",
		"max(1; 2; 3)!",
		"$sum{k @ k = 1 : 10}",
		"$root{x^2 - 2 @ x = 0 : 2}",
		"((1 + 2)",
		"a = b = 1",
		"2 kg!",
		"'comment",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, expr string) {
		p := unitcalc.NewParser()
		err := p.Parse(expr)
		if err == nil {
			err = p.Calculate()
		}
		if err == nil {
			return
		}
		var e *unitcalc.Error
		if !errors.As(err, &e) {
			t.Fatalf("%q gave %T, not *Error: %v", expr, err, err)
		}
		if e.Message() == "" {
			t.Errorf("%q gave an error with no message", expr)
		}
	})
}
