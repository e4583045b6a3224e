// Package units implements dimensional analysis for the calculator. A Unit is
// a vector of exponents over up to eight base dimensions, each with its own
// scale factor, so that e.g. grams and pounds share the mass dimension.
package units

import (
	"math"
	"slices"
	"strings"
)

// Dimension indices.
const (
	Mass = iota
	Length
	Time
	Current
	Temperature
	Substance
	Luminosity
	Angle

	// NumDims is the number of base dimensions.
	NumDims
)

// Unit is a physical unit. The zero-length unit is dimensionless; most code
// represents dimensionless quantities with a nil *Unit instead. Units are not
// modified after construction, apart from caching their text.
type Unit struct {
	// name is the explicit text of the unit, e.g. "kg" or "N·m". It is empty
	// for units derived by arithmetic, which render their text from powers.
	name string
	// text caches the rendered text for units without names.
	text     string
	tempChar byte
	powers   []float64
	factors  []float64
}

// New creates a unit with the given exponents in dimension order. The mass
// factor is 1000 so that the base unit of mass is the kilogram.
func New(name string, powers ...float64) *Unit {
	n := len(powers)
	for n > 1 && powers[n-1] == 0 {
		n--
	}
	if n == 0 {
		n = 1
	}
	u := newN(n)
	u.name = name
	copy(u.powers, powers)
	u.factors[0] = 1000
	return u
}

func newN(n int) *Unit {
	u := &Unit{
		tempChar: 'C',
		powers:   make([]float64, n),
		factors:  make([]float64, n),
	}
	for i := range u.factors {
		u.factors[i] = 1
	}
	return u
}

// clone copies u with its own factors. The powers are shared, which
// consistency checks use as a fast path.
func (u *Unit) clone() *Unit {
	return &Unit{
		name:     u.name,
		text:     u.text,
		tempChar: u.tempChar,
		powers:   u.powers,
		factors:  slices.Clone(u.factors),
	}
}

// Alias returns a unit identical to u under a different name.
func (u *Unit) Alias(name string) *Unit {
	return &Unit{
		name:     name,
		tempChar: u.tempChar,
		powers:   u.powers,
		factors:  u.factors,
	}
}

func (u *Unit) len() int { return len(u.powers) }

// Powers returns a copy of the exponent vector.
func (u *Unit) Powers() []float64 { return slices.Clone(u.powers) }

// Factors returns a copy of the per-dimension scale factors.
func (u *Unit) Factors() []float64 { return slices.Clone(u.factors) }

// scale multiplies the unit by f, attributing the whole factor to the first
// dimension with a nonzero exponent. Only valid during construction.
func (u *Unit) scale(f float64) {
	for i, p := range u.powers {
		if p != 0 {
			u.factors[i] *= math.Pow(f, 1/p)
			return
		}
	}
}

// Scaled returns a new unit named name which is f times u.
func (u *Unit) Scaled(name string, f float64) *Unit {
	r := u.clone()
	r.name = name
	r.text = ""
	if f != 1 {
		r.scale(f)
	}
	return r
}

// Shift returns u with the SI prefix for 10^n.
func (u *Unit) Shift(n int) *Unit {
	return u.Scaled(Prefix(n)+u.name, PrefixScale(n))
}

// Raise returns u with every exponent multiplied by x. The result has no
// name.
func (u *Unit) Raise(x float64) *Unit {
	r := newN(u.len())
	r.tempChar = u.tempChar
	copy(r.factors, u.factors)
	for i, p := range u.powers {
		r.powers[i] = p * x
	}
	return r
}

func (u *Unit) hasTemp() bool {
	return u.len() > Temperature && u.powers[Temperature] != 0
}

// only reports whether u is exactly the first power of dimension d.
func (u *Unit) only(d int) bool {
	if u.len() != d+1 || u.powers[d] != 1 {
		return false
	}
	for _, p := range u.powers[:d] {
		if p != 0 {
			return false
		}
	}
	return true
}

// IsTemp reports whether u is a plain temperature unit.
func (u *Unit) IsTemp() bool { return u != nil && u.only(Temperature) }

// IsAngle reports whether u is a plain angle unit.
func (u *Unit) IsAngle() bool { return u != nil && u.only(Angle) }

// IsDimensionless reports whether u has no dimensions.
func (u *Unit) IsDimensionless() bool { return u == nil || u.len() == 0 }

// HasName reports whether u has explicit text rather than text generated from
// its dimensions.
func (u *Unit) HasName() bool { return u.name != "" }

// Consistent reports whether a and b measure the same kind of quantity, i.e.
// have equal exponent vectors. A nil unit is consistent only with nil.
func Consistent(a, b *Unit) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.consistent(b)
}

func (u *Unit) consistent(v *Unit) bool {
	if len(u.powers) > 0 && len(v.powers) > 0 && &u.powers[0] == &v.powers[0] {
		return true
	}
	return slices.Equal(u.powers, v.powers)
}

// Equal reports whether u and v are consistent and have the same scale.
func (u *Unit) Equal(v *Unit) bool {
	if u == v {
		return true
	}
	if u == nil || v == nil {
		return false
	}
	return u.consistent(v) && slices.Equal(u.factors, v.factors)
}

// IsMultiple reports whether v is u raised to some power, dimension by
// dimension, e.g. m and m^3.
func (u *Unit) IsMultiple(v *Unit) bool {
	n := u.len()
	if n != v.len() {
		return false
	}
	var d1 float64
	for i := range n {
		p1, p2 := u.powers[i], v.powers[i]
		if p1 == p2 {
			continue
		}
		if p1 == 0 || p2 == 0 {
			return false
		}
		if d1 == 0 {
			d1 = p2 - p1
		} else if p2-p1 != d1 {
			return false
		}
	}
	return true
}

// pow is math.Pow with fast paths for small integer exponents.
func pow(x, y float64) float64 {
	switch y {
	case -3:
		return 1 / (x * x * x)
	case -2:
		return 1 / (x * x)
	case -1:
		return 1 / x
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	case 3:
		return x * x * x
	}
	return math.Pow(x, y)
}

// ConvertTo returns the factor by which a quantity in u is multiplied to
// express it in v. u and v must be consistent.
func (u *Unit) ConvertTo(v *Unit) float64 {
	f := 1.0
	for i, p := range u.powers {
		if p != 0 {
			f *= pow(u.factors[i]/v.factors[i], p)
		}
	}
	return f
}

// Convert returns the factor by which a quantity in b is multiplied to express
// it in a. It returns an *InconsistentError naming op if the units differ in
// dimension.
func Convert(a, b *Unit, op rune) (float64, error) {
	if a == b {
		return 1, nil
	}
	if a == nil || b == nil || !a.consistent(b) {
		return 0, &InconsistentError{A: a, B: b, Op: op}
	}
	return b.ConvertTo(a), nil
}

// combine multiplies or divides exponent vectors. The result is nil when all
// exponents cancel.
func combine(u1, u2 *Unit, divide bool) *Unit {
	if u1 == u2 || u1.len() > 0 && u2.len() > 0 && &u1.powers[0] == &u2.powers[0] {
		if divide {
			return nil
		}
		return u1.Raise(2)
	}
	n1, n2 := u1.len(), u2.len()
	n := max(n1, n2)
	if n1 == n2 {
		for {
			n--
			if n < 0 {
				return nil
			}
			p1, p2 := u1.powers[n], u2.powers[n]
			if divide && p1 != p2 || !divide && p1 != -p2 {
				break
			}
		}
		n++
	}
	r := newN(n)
	switch {
	case u1.hasTemp():
		r.tempChar = u1.tempChar
	case u2.hasTemp():
		r.tempChar = u2.tempChar
	}
	n1, n2 = min(n1, n), min(n2, n)
	for i := range n1 {
		p1 := u1.powers[i]
		if i < n2 {
			p2 := u2.powers[i]
			if divide {
				r.powers[i] = p1 - p2
			} else {
				r.powers[i] = p1 + p2
			}
			switch {
			case p1 != 0:
				r.factors[i] = u1.factors[i]
			case p2 != 0:
				r.factors[i] = u2.factors[i]
			}
		} else {
			r.powers[i] = p1
			if p1 != 0 {
				r.factors[i] = u1.factors[i]
			}
		}
	}
	for i := n1; i < n2; i++ {
		r.factors[i] = u2.factors[i]
		if divide {
			r.powers[i] = -u2.powers[i]
		} else {
			r.powers[i] = u2.powers[i]
		}
	}
	return r
}

// productFactor is the correction for the magnitude of a product or quotient
// when u2 uses different scales than u1 in shared dimensions.
func productFactor(u1, u2 *Unit, divide bool) float64 {
	if u1 == u2 {
		return 1
	}
	n := min(u1.len(), u2.len())
	f := 1.0
	for i := range n {
		p1, p2 := u1.powers[i], u2.powers[i]
		if p1 == 0 || p2 == 0 {
			continue
		}
		if divide {
			f *= pow(u1.factors[i]/u2.factors[i], p2)
		} else {
			f *= pow(u2.factors[i]/u1.factors[i], p2)
		}
	}
	return f
}

// ProductFactor is the magnitude correction for multiplying by u2 when the
// product is expressed in the scales of u1.
func ProductFactor(u1, u2 *Unit) float64 { return productFactor(u1, u2, false) }

// Multiply returns the product of two units and the factor by which the
// product of magnitudes must be multiplied. nil units are dimensionless. If
// updateText is set and the units are not powers of each other, the factor is
// folded into the result, which is named "a·b".
func Multiply(a, b *Unit, updateText bool) (*Unit, float64) {
	if a == nil {
		return b, 1
	}
	if b == nil {
		return a, 1
	}
	d := productFactor(a, b, false)
	c := combine(a, b, false)
	if c == nil {
		return nil, d
	}
	if updateText && !a.IsMultiple(b) {
		c.scale(d)
		d = 1
		c.name = a.Text() + "·" + b.Text()
	}
	return c, d
}

// Divide returns the quotient of two units and the magnitude correction, like
// Multiply. The named form is "a/b", or "a/(b)" if b is itself a product.
func Divide(a, b *Unit, updateText bool) (*Unit, float64) {
	if b == nil {
		return a, 1
	}
	if a == nil {
		return b.Raise(-1), 1
	}
	d := productFactor(a, b, true)
	c := combine(a, b, true)
	if c == nil {
		return nil, d
	}
	if updateText && !a.IsMultiple(b) {
		c.scale(d)
		d = 1
		bt := b.Text()
		if strings.ContainsRune(bt, '·') {
			c.name = a.Text() + "/(" + bt + ")"
		} else {
			c.name = a.Text() + "/" + bt
		}
	}
	return c, d
}

// compositeChars mark unit text that needs brackets before raising to a power.
const compositeChars = "‐/^"

// Pow raises u to the real power p. With updateText, the result is named
// "u^p" unless u's text already contains a power.
func Pow(u *Unit, p float64, updateText bool) *Unit {
	if u == nil {
		return nil
	}
	r := u.Raise(p)
	if updateText {
		s := u.Text()
		if !strings.ContainsRune(s, '^') {
			ps := FormatNumber(p, 2)
			if p < 0 {
				ps = "(" + ps + ")"
			}
			if strings.ContainsAny(s, compositeChars) {
				s = "(" + s + ")"
			}
			r.name = s + "^" + ps
		}
	}
	return r
}

// Root returns the nth root of u.
func Root(u *Unit, n int, updateText bool) *Unit {
	if u == nil {
		return nil
	}
	r := u.Raise(1 / float64(n))
	if updateText && (n > 1 || n < -1) {
		s := u.Text()
		if !strings.ContainsRune(s, '^') {
			if strings.ContainsAny(s, compositeChars) {
				s = "(" + s + ")"
			}
			r.name = s + "^1⁄" + FormatNumber(float64(n), 0)
		}
	}
	return r
}

// Scale returns u multiplied by the pure number f, without a name.
func (u *Unit) Scale(f float64) *Unit {
	r := u.clone()
	r.name = ""
	r.text = ""
	r.scale(f)
	return r
}

// Named returns u with its text replaced.
func (u *Unit) Named(name string) *Unit {
	r := u.clone()
	r.name = name
	return r
}
