package unitcalc

import (
	"math"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// Value is a number with optional units. IsUnit marks a bare unit literal such
// as the kg in 5 kg, whose text is preserved through multiplication so that
// e.g. N·m is not collapsed to J.
type Value struct {
	Number numeric.Complex
	Units  *units.Unit
	IsUnit bool
}

// Real creates a unitless real value.
func Real(x float64) Value {
	return Value{Number: numeric.FromReal(x)}
}

// Quantity creates a real value with units.
func Quantity(x float64, u *units.Unit) Value {
	return Value{Number: numeric.FromReal(x), Units: u}
}

// NewValue creates a complex value with units.
func NewValue(z numeric.Complex, u *units.Unit) Value {
	return Value{Number: z, Units: u}
}

// unitValue is the value of a unit literal.
func unitValue(u *units.Unit) Value {
	return Value{Number: numeric.One, Units: u, IsUnit: true}
}

var nanValue = Real(math.NaN())

// Re returns the real part of the value.
func (v Value) Re() float64 { return v.Number.Re }

// Im returns the imaginary part of the value.
func (v Value) Im() float64 { return v.Number.Im }

// IsReal reports whether the value is real within round-off.
func (v Value) IsReal() bool { return v.Number.IsReal() }

// Equal reports whether v and w have identical numbers and equal units.
func (v Value) Equal(w Value) bool {
	if v.Number != w.Number {
		return false
	}
	if v.Units == nil || w.Units == nil {
		return v.Units == w.Units
	}
	return v.Units.Equal(w.Units)
}

// convert is the factor to express a quantity in b as one in a.
func convert(a, b *units.Unit, op rune) float64 {
	d, err := units.Convert(a, b, op)
	check(err)
	return d
}

func (v Value) scale(x float64) Value {
	return Value{Number: v.Number.Scale(x), Units: v.Units}
}

func (v Value) neg() Value {
	return Value{Number: v.Number.Neg(), Units: v.Units, IsUnit: v.IsUnit}
}

func (v Value) add(w Value) Value {
	d := convert(v.Units, w.Units, '+')
	return Value{Number: v.Number.Add(w.Number.Scale(d)), Units: v.Units}
}

func (v Value) sub(w Value) Value {
	d := convert(v.Units, w.Units, '-')
	return Value{Number: v.Number.Sub(w.Number.Scale(d)), Units: v.Units}
}

func (v Value) mul(w Value) Value { return v.product(w, v.Number.Mul(w.Number)) }

// realMul multiplies the real parts only, so that infinities do not produce a
// NaN imaginary part.
func (v Value) realMul(w Value) Value {
	return v.product(w, numeric.FromReal(v.Number.Re*w.Number.Re))
}

func (v Value) product(w Value, z numeric.Complex) Value {
	if v.Units == nil && w.IsUnit {
		return Value{Number: z, Units: w.Units}
	}
	u, d := units.Multiply(v.Units, w.Units, w.IsUnit)
	return Value{
		Number: z.Scale(d),
		Units:  u,
		IsUnit: v.IsUnit && w.IsUnit && u != nil,
	}
}

func (v Value) div(w Value) Value { return v.quotient(w, v.Number.Div(w.Number)) }

// realDiv divides the real parts only, so that x/0 is a signed infinity.
func (v Value) realDiv(w Value) Value {
	return v.quotient(w, numeric.FromReal(v.Number.Re/w.Number.Re))
}

func (v Value) quotient(w Value, z numeric.Complex) Value {
	u, d := units.Divide(v.Units, w.Units, w.IsUnit)
	return Value{
		Number: z.Scale(d),
		Units:  u,
		IsUnit: v.IsUnit && w.IsUnit && u != nil,
	}
}

func (v Value) mod(w Value) Value {
	if w.Units != nil {
		fail(ErrUnits, "Cannot evaluate remainder: "+quoteUnits(v.Units, '%', w.Units)+". The denominator must be unitless.")
	}
	return Value{Number: v.Number.Mod(w.Number), Units: v.Units}
}

func (v Value) intDiv(w Value) Value {
	u, d := units.Divide(v.Units, w.Units, false)
	return Value{
		Number: v.Number.Scale(d).IntDiv(w.Number),
		Units:  u,
		IsUnit: v.IsUnit && w.IsUnit && u != nil,
	}
}

// compare applies a comparison after expressing w in v's units. The result is
// unitless 1 or 0.
func (v Value) compare(w Value, op rune, cmp func(a, b numeric.Complex) float64) Value {
	d := convert(v.Units, w.Units, op)
	return Real(cmp(v.Number, w.Number.Scale(d)))
}

func (v Value) eq(w Value) Value { return v.compare(w, '≡', numeric.Complex.Eq) }
func (v Value) ne(w Value) Value { return v.compare(w, '≠', numeric.Complex.Ne) }
func (v Value) lt(w Value) Value { return v.compare(w, '<', numeric.Complex.Lt) }
func (v Value) gt(w Value) Value { return v.compare(w, '>', numeric.Complex.Gt) }
func (v Value) le(w Value) Value { return v.compare(w, '≤', numeric.Complex.Le) }
func (v Value) ge(w Value) Value { return v.compare(w, '≥', numeric.Complex.Ge) }

// unitPow raises u to the power p, which must be unitless, and real unless u
// is nil.
func unitPow(u *units.Unit, p Value, updateText bool) *units.Unit {
	if p.Units != nil {
		fail(ErrUnits, "Power must be unitless.")
	}
	if u == nil {
		return nil
	}
	if !p.Number.IsReal() {
		fail(ErrUnits, "Units cannot be raised to complex power.")
	}
	return units.Pow(u, p.Number.Re, updateText)
}

// rootIndex validates the index n of root(x; n).
func rootIndex(n Value) int {
	if n.Units != nil {
		fail(ErrUnits, "Root index must be unitless.")
	}
	if !n.Number.IsReal() {
		fail(ErrNotReal, "Root index cannot be complex.")
	}
	k := int(n.Number.Re)
	if k < 2 || float64(k) != n.Number.Re {
		fail(ErrDomain, "Root index must be integer > 1.")
	}
	return k
}

func quoteUnits(a *units.Unit, op rune, b *units.Unit) string {
	return `"` + units.TextOf(a) + " " + string(op) + " " + units.TextOf(b) + `"`
}
