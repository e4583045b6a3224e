package unitcalc

import (
	"math"
	"strconv"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// iterationLimit bounds the integer loops of $repeat, $sum, and $product.
const iterationLimit = 1e6

// solver holds the state of one numerical method: the variable it varies, the
// function of that variable, and the units of the latest function value.
type solver struct {
	p  *Parser
	x  *Parameter
	u  *units.Unit
	fn func() Value
	// units are the units of the result.
	units     *units.Unit
	precision float64
	complex   bool
	// fname and vname are the texts of the function and variable for errors.
	fname, vname string
	// eps is the working tolerance of quadrature.
	eps float64
}

func (s *solver) call(x numeric.Complex) Value {
	s.p.checkCanceled()
	s.x.value = Value{Number: x, Units: s.u}
	v := s.fn()
	s.units = v.Units
	return v
}

// fd evaluates the function at a real point. The result must be a finite real
// number.
func (s *solver) fd(x float64) float64 {
	v := s.call(numeric.FromReal(x))
	if s.complex && !v.Number.IsReal() {
		fail(ErrNotReal, "Cannot evaluate the function "+s.fname+" for "+s.vname+" = "+formatFloat(x)+".")
	}
	if math.IsNaN(v.Number.Re) || math.IsInf(v.Number.Re, 0) {
		fail(ErrDomain, "The function "+s.fname+" is not defined for "+s.vname+" = "+formatFloat(x)+".")
	}
	return v.Number.Re
}

// fc evaluates the function at a complex point.
func (s *solver) fc(x numeric.Complex) numeric.Complex {
	v := s.call(x)
	if math.IsNaN(v.Number.Re) && math.IsNaN(v.Number.Im) {
		fail(ErrDomain, "Cannot evaluate the function "+s.fname+" for "+s.vname+" = "+formatComplex(x, -1)+".")
	}
	return v.Number
}

// fi evaluates the function at an integer for $repeat, allowing any value.
func (s *solver) fi(n int) Value {
	return s.call(numeric.FromReal(float64(n)))
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// modAB finds x in [left, right] where f(x) = target by a combination of
// bisection and regula falsi with Illinois weighting. It returns NaN if the
// function has the same sign at both bounds. err is the residual at the
// returned point.
func (s *solver) modAB(left, right, target float64) (x, err float64) {
	defer func() { s.units = s.u }()
	prec := s.precision
	x1, x2 := min(left, right), max(left, right)
	y1 := s.fd(x1) - target
	if math.Abs(y1) <= prec {
		return x1, 0
	}
	y2 := s.fd(x2) - target
	if math.Abs(y2) <= prec {
		return x2, 0
	}
	if math.Signbit(y1) == math.Signbit(y2) {
		return math.NaN(), math.Abs(y1)
	}
	nMax := -int(math.Log2(prec)/2) + 1
	eps1 := prec / 4
	if math.Abs(target) > 1 {
		eps1 *= math.Abs(target)
	}
	eps := prec * (x2 - x1) / 2
	const (
		k = 0.25
		n = 100
	)
	side := 0
	ans := x1
	bisection := true
	for i := 1; i <= n; i++ {
		var x3, y3 float64
		if bisection {
			x3 = (x1 + x2) / 2
			y3 = s.fd(x3) - target
			ym := (y1 + y2) / 2
			// Close to a straight line: switch to the secant.
			if math.Abs(ym-y3) < k*(math.Abs(y3)+math.Abs(ym)) {
				bisection = false
			}
		} else {
			x3 = (x1*y2 - y1*x2) / (y2 - y1)
			if x3 < x1-eps || x3 > x2+eps {
				return math.NaN(), 1
			}
			y3 = s.fd(x3) - target
		}
		err = math.Abs(y3)
		if err < eps1 || math.Abs(x3-ans) < eps {
			return x3, err
		}
		ans = x3
		if math.Signbit(y1) == math.Signbit(y3) {
			if side == 1 {
				if m := 1 - y3/y1; m <= 0 {
					y2 /= 2
				} else {
					y2 *= m
				}
			} else if !bisection {
				side = 1
			}
			x1, y1 = x3, y3
		} else {
			if side == -1 {
				if m := 1 - y3/y2; m <= 0 {
					y1 /= 2
				} else {
					y1 *= m
				}
			} else if !bisection {
				side = -1
			}
			x2, y2 = x3, y3
		}
		if i%nMax == 0 {
			bisection = true
		}
	}
	return ans, err
}

func (s *solver) find(left, right float64) float64 {
	x, _ := s.modAB(left, right, 0)
	return x
}

// root solves f(x) = target and checks that the residual is small relative
// to the target.
func (s *solver) root(left, right, target float64) float64 {
	x, err := s.modAB(left, right, target)
	eps := math.Sqrt(s.precision)
	if target != 0 {
		eps *= math.Abs(target)
	}
	if err > eps {
		return math.NaN()
	}
	return x
}

// extremum finds the maximum or minimum of f over [left, right] by golden
// section search and returns the function value there. The variable is left
// at the extremum.
func (s *solver) extremum(left, right float64, isMin bool) float64 {
	const k = 0.6180339887498948482
	x1, x2 := min(left, right), max(left, right)
	d := x2 - x1
	d0 := 0.1 * d
	x3 := x2 - k*d
	x4 := x1 + k*d
	eps := s.precision * (math.Abs(x3) + math.Abs(x4)) / 2
	tol2 := max(s.precision*s.precision, 1e-30)
	y3 := s.fd(x3)
	y4 := s.fd(x4)
	for d > eps {
		if y3 == y4 && d < d0 {
			break
		}
		if isMin == (y3 < y4) {
			x2, x4, y4 = x4, x3, y3
			d = x2 - x1
			x3 = x2 - k*d
			y3 = s.fd(x3)
		} else {
			x1, x3, y3 = x3, x4, y4
			d = x2 - x1
			x4 = x1 + k*d
			y4 = s.fd(x4)
		}
		eps = max(s.precision*(math.Abs(x3)+math.Abs(x4)), tol2)
	}
	switch {
	case x1 == min(left, right):
		return s.fd(x1)
	case x2 == max(left, right):
		return s.fd(x2)
	}
	return s.fd((x1 + x2) / 2)
}

// area integrates f over [left, right]. The units of the result are the
// function's units times the variable's.
func (s *solver) area(left, right float64, method QuadratureMethod) float64 {
	k := 1.0
	if left > right {
		left, right = right, left
		k = -1
	}
	var a float64
	switch {
	case right-left <= 1e-14*(math.Abs(left)+math.Abs(right)):
		a = (right - left) * s.fd((left+right)/2) * k
	case method == TanhSinh:
		a = s.tanhSinh(left, right) * k
	default:
		a = s.adaptiveLobatto(left, right) * k
	}
	if s.u == nil {
		return a
	}
	u, f := units.Multiply(s.units, s.u, false)
	s.units = u
	return a * f
}

func (s *solver) adaptiveLobatto(left, right float64) float64 {
	s.eps = min(max(s.precision, 1e-14), 1e-4) / 2
	return s.lobatto(left, right, s.fd(left), s.fd(right), 1)
}

var (
	lobattoAlpha = math.Sqrt(2.0 / 3)
	lobattoBeta  = math.Sqrt(1.0 / 5)
)

// lobatto applies the 7-point Gauss-Lobatto rule to [x1, x3] and subdivides
// until it agrees with the 4-point rule.
func (s *solver) lobatto(x1, x3, y1, y3 float64, depth int) float64 {
	const (
		k1 = 1.0 / 1470
		k2 = 1.0 / 6
	)
	h := (x3 - x1) / 2
	x2 := (x1 + x3) / 2
	ah, bh := lobattoAlpha*h, lobattoBeta*h
	x4, x5, x6, x7 := x2-ah, x2-bh, x2+bh, x2+ah
	y4, y5, y2, y6, y7 := s.fd(x4), s.fd(x5), s.fd(x2), s.fd(x6), s.fd(x7)
	a1 := h * k1 * (77*(y1+y3) + 432*(y4+y7) + 625*(y5+y6) + 672*y2)
	a2 := h * k2 * (y1 + y3 + 5*(y5+y6))
	if depth == 1 {
		if !math.IsInf(a1, 0) && !math.IsNaN(a1) && a1 > 1 {
			s.eps *= a1
		}
	} else if math.Abs(a1-a2) < s.eps || depth > 15 {
		return a1
	}
	depth++
	return s.lobatto(x1, x4, y1, y4, depth) +
		s.lobatto(x4, x5, y4, y5, depth) +
		s.lobatto(x5, x2, y5, y2, depth) +
		s.lobatto(x2, x6, y2, y6, depth) +
		s.lobatto(x6, x7, y6, y7, depth) +
		s.lobatto(x7, x3, y7, y3, depth)
}

func (s *solver) tanhSinh(left, right float64) float64 {
	tab := tanhSinhTables()
	c := (left + right) / 2
	d := (right - left) / 2
	sum := s.fd(c)
	s.eps = min(max(s.precision*0.1, 1e-15), 1e-8)
	tol := 10 * s.precision
	var err float64
	i := 0
	for {
		var q, p, fp, fm float64
		for j := 0; ; {
			x := tab.r[i][j] * d
			if left+x > left {
				if y := s.fd(left + x); !math.IsInf(y, 0) {
					fp = y
				}
			}
			if right-x < right {
				if y := s.fd(right - x); !math.IsInf(y, 0) {
					fm = y
				}
			}
			q = tab.w[i][j] * (fp + fm)
			p += q
			j++
			if math.Abs(q) <= s.eps*math.Abs(p) || j >= len(tab.r[i]) {
				break
			}
		}
		err = 2 * sum
		sum += p
		err = math.Abs(err - sum)
		i++
		if err <= tol*math.Abs(sum) || i >= tanhSinhDepth {
			break
		}
	}
	if math.Abs(sum) > 1 {
		err /= math.Abs(sum)
	}
	if err > 10*tol {
		return math.NaN()
	}
	return d * sum * math.Ldexp(1, 1-i)
}

// slope differentiates f at x by Richardson extrapolation of central
// differences. The units of the result are the function's units divided by
// the variable's.
func (s *solver) slope(x float64) float64 {
	delta := min(math.Sqrt(s.precision), 1e-3)
	maxErr := max(50*s.precision, 1e-3)
	const n = 7
	a := x
	if math.Abs(x) < 1 {
		a = 1
	}
	eps := math.Cbrt(math.Nextafter(a, math.Inf(1)) - a)
	h := math.Ldexp(eps, n)
	h2 := 2 * h
	var r [n]float64
	err := delta / 2
	for i := 0; i < n; i++ {
		x1 := x - h
		x2 := x1 + h2
		d := 1.0
		r0 := r[0]
		r[i] = (s.fd(x2) - s.fd(x1)) / h2
		for k := i - 1; k >= 0; k-- {
			d *= 4
			r[k] = r[k+1] + (r[k+1]-r[k])/(d-1)
		}
		if i >= 1 {
			if math.Abs(r[0]) <= delta {
				err = math.Abs(r[0] - r0)
			} else {
				err = math.Abs((r[0] - r0) / r[0])
			}
			if err < delta {
				break
			}
		}
		h2 = h
		h = h2 / 2
	}
	slope := r[0]
	if err > maxErr {
		slope = math.NaN()
	}
	if s.u == nil {
		return slope
	}
	u, f := units.Divide(s.units, s.u, false)
	s.units = u
	return slope * f
}

// bounds rounds the limits of an integer loop.
func bounds(start, end float64) (int, int) {
	if math.Abs(start) > iterationLimit || math.Abs(end) > iterationLimit {
		fail(ErrLimits, "Iteration limits out of range [-1000000; 1000000].")
	}
	return int(math.Round(start)), int(math.Round(end))
}

func isInf(z numeric.Complex) bool {
	return math.IsInf(z.Re, 0) || math.IsInf(z.Im, 0)
}

// repeat evaluates f for each integer in the range and returns the last
// value.
func (s *solver) repeat(start, end float64) numeric.Complex {
	n1, n2 := bounds(start, end)
	r := numeric.NaN
	for i := n1; i <= n2; i++ {
		r = s.fi(i).Number
		if isInf(r) {
			break
		}
	}
	return r
}

// term evaluates f at an integer in the numeric mode of the solver.
func (s *solver) term(i int) numeric.Complex {
	if s.complex {
		return s.fc(numeric.FromReal(float64(i)))
	}
	return numeric.FromReal(s.fd(float64(i)))
}

// sum adds f over an integer range with compensated summation. Every term
// must have units consistent with the first.
func (s *solver) sum(start, end float64) numeric.Complex {
	n1, n2 := bounds(start, end)
	sum := s.term(n1)
	u := s.units
	var c numeric.Complex
	for i := n1 + 1; i <= n2; i++ {
		d := s.term(i)
		if s.units != u {
			if !units.Consistent(u, s.units) {
				fail(ErrInconsistentUnits, `Inconsistent units: "`+units.TextOf(u)+`" and "`+units.TextOf(s.units)+`".`)
			}
			d = d.Scale(s.units.ConvertTo(u))
		}
		y := d.Sub(c)
		t := sum.Add(y)
		c = t.Sub(sum).Sub(y)
		sum = t
		if isInf(sum) {
			break
		}
	}
	s.units = u
	return sum
}

// product multiplies f over an integer range. The units of the result are the
// product of the units of all terms.
func (s *solver) product(start, end float64) numeric.Complex {
	n1, n2 := bounds(start, end)
	r := s.term(n1)
	u := s.units
	for i := n1 + 1; i <= n2; i++ {
		d := s.term(i)
		if s.complex {
			r = r.Mul(d)
		} else {
			r = numeric.FromReal(r.Re * d.Re)
		}
		var f float64
		u, f = units.Multiply(u, s.units, false)
		r = r.Scale(f)
		if isInf(r) {
			break
		}
	}
	s.units = u
	return r
}
