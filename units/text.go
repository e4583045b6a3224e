package units

import (
	"math"
	"strconv"
	"strings"
)

var dimNames = [NumDims]string{"g", "m", "s", "A", "°C", "mol", "cd", "rad"}

// Text returns the display text of u. A nil unit has empty text.
func (u *Unit) Text() string {
	if u == nil {
		return ""
	}
	if u.name != "" {
		return u.name
	}
	if u.text == "" {
		u.text = u.render()
	}
	return u.text
}

func (u *Unit) String() string {
	if u == nil {
		return "unitless"
	}
	return u.Text()
}

// TextOf is the text of u, or "unitless" if u is nil.
func TextOf(u *Unit) string { return u.String() }

func (u *Unit) dimName(i int) string {
	if i == Temperature {
		switch u.tempChar {
		case 'K':
			return "K"
		case 'F':
			return "°F"
		case 'R':
			return "°R"
		}
	}
	return dimNames[i]
}

func toDelta(s string) string {
	switch {
	case strings.HasPrefix(s, "°"):
		return "Δ" + s
	case strings.HasPrefix(s, "K"):
		return "Δ°C"
	case strings.HasPrefix(s, "R"):
		return "Δ°F"
	}
	return s
}

func (u *Unit) render() string {
	var b strings.Builder
	first := true
	for i, p := range u.powers {
		if p == 0 {
			continue
		}
		ap := p
		if !first {
			ap = math.Abs(p)
		}
		s := dimText(u.dimName(i), u.factors[i], ap)
		if i == Temperature && b.Len() > 0 {
			s = toDelta(s)
		}
		if first {
			first = false
		} else if p > 0 {
			b.WriteString("·")
		} else {
			b.WriteByte('/')
		}
		b.WriteString(s)
	}
	return b.String()
}

// near reports whether x is within 1e-12 of an integer, and returns the
// integer.
func near(x float64) (float64, bool) {
	r := math.Round(x)
	return r, math.Abs(x-r) < 1e-12
}

// dimText renders one dimension of a unit, recognizing the named imperial and
// angle scales.
func dimText(name string, factor, power float64) string {
	if factor != 1 {
		name, factor = namedScale(name, factor)
		n := powerOf10(factor)
		name = Prefix(n) + name
		factor /= PrefixScale(n)
		if math.Abs(factor-1) > 1e-12 {
			name = "(" + FormatNumber(factor, 6) + "·" + name + ")"
		}
	}
	if power == 1 {
		return name
	}
	sp := FormatNumber(power, 1)
	if power < 0 {
		sp = "(" + sp + ")"
	}
	return name + "^" + sp
}

func namedScale(name string, factor float64) (string, float64) {
	switch name {
	case "s":
		switch factor {
		case 60:
			return "min", 1
		case 3600:
			return "h", 1
		case 86400:
			return "d", 1
		}
	case "g":
		if _, ok := near(factor / 14.59390294); ok {
			return "slug", factor / 14.59390294
		}
		a2 := factor / 453.59237
		if a2 < 1 {
			if a3, ok := near(1 / a2); ok {
				switch a3 {
				case 7000:
					return "gr", 1
				case 256:
					return "dr", 1
				case 16:
					return "oz", 1
				}
				return "lb", a3
			}
			break
		}
		if a2, ok := near(a2); ok {
			switch a2 {
			case 14:
				return "st", 1
			case 28:
				return "qr", 1
			case 100:
				return "cwt_US", 1
			case 112:
				return "cwt_UK", 1
			case 1000:
				return "kip_m", 1
			case 2000:
				return "ton_US", 1
			case 2240:
				return "ton_UK", 1
			}
			return "lb", a2
		}
		switch {
		case factor >= 1e6:
			return "t", factor / 1e6
		case factor >= 1000:
			return "kg", factor / 1000
		}
	case "m":
		if factor == 1852 {
			return "nmi", 1
		}
		if a, ok := near(factor / 2.54e-5); ok {
			switch a {
			case 1:
				return "th", 1
			case 1000:
				return "in", 1
			case 36000:
				return "yd", 1
			case 792000:
				return "ch", 1
			case 7920000:
				return "fur", 1
			case 63360000:
				return "mi", 1
			}
			return "ft", a / 12000
		}
	case "rad":
		if math.Abs(factor-2*math.Pi) < 1e-12 {
			return "rev", 1
		}
		a := math.Pi / factor
		if b, ok := near(a); ok {
			switch b {
			case 180:
				return "deg", 1
			case 200:
				return "grad", 1
			case 10800:
				return "′", 1
			case 648000:
				return "″", 1
			}
			return "rad", a * math.Pi
		}
	}
	return name, factor
}

func powerOf10(factor float64) int {
	switch factor {
	case 1e-6:
		return -6
	case 1e-5:
		return -5
	case 1e-4:
		return -4
	case 1e-3:
		return -3
	case 1e-2:
		return -2
	case 0.1:
		return -1
	case 1:
		return 0
	case 10:
		return 1
	case 1e2:
		return 2
	case 1e3:
		return 3
	case 1e4:
		return 4
	case 1e5:
		return 5
	case 1e6:
		return 6
	}
	d := math.Log10(factor)
	n := int(d)
	if math.Abs(float64(n)-d) < 1e-12 {
		return n
	}
	return 0
}

// Prefix returns the SI prefix for 10^n, or the empty string if there is none.
func Prefix(n int) string {
	switch n {
	case -24:
		return "y"
	case -21:
		return "z"
	case -18:
		return "a"
	case -15:
		return "f"
	case -12:
		return "p"
	case -9:
		return "n"
	case -6:
		return "μ"
	case -3:
		return "m"
	case -2:
		return "c"
	case -1:
		return "d"
	case 1:
		return "da"
	case 2:
		return "h"
	case 3:
		return "k"
	case 6:
		return "M"
	case 9:
		return "G"
	case 12:
		return "T"
	case 15:
		return "P"
	case 18:
		return "E"
	case 21:
		return "Z"
	case 24:
		return "Y"
	}
	return ""
}

var prefixScales = map[int]float64{
	-24: 1e-24, -21: 1e-21, -18: 1e-18, -15: 1e-15, -12: 1e-12, -9: 1e-9,
	-6: 1e-6, -3: 1e-3, -2: 1e-2, -1: 0.1, 0: 1, 1: 10, 2: 100,
	3: 1e3, 6: 1e6, 9: 1e9, 12: 1e12, 15: 1e15, 18: 1e18, 21: 1e21, 24: 1e24,
}

// PrefixScale returns 10^n, exact for the SI prefixes.
func PrefixScale(n int) float64 {
	if s, ok := prefixScales[n]; ok {
		return s
	}
	return math.Pow(10, float64(n))
}

// FormatNumber formats x rounded to at most decimals places, without trailing
// zeros.
func FormatNumber(x float64, decimals int) string {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	s := strconv.FormatFloat(x, 'f', decimals, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
