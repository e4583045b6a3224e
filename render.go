package unitcalc

import (
	"strconv"
	"strings"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// formatComplex formats a number rounded to decimals places. Negative decimals
// give the shortest exact representation.
func formatComplex(z numeric.Complex, decimals int) string {
	f := func(x float64) string {
		if decimals < 0 {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return units.FormatNumber(x, decimals)
	}
	switch z.Kind() {
	case numeric.Real:
		return f(z.Re)
	case numeric.Imaginary:
		return f(z.Im) + "i"
	}
	re, im := f(z.Re), f(z.Im)
	if strings.HasPrefix(im, "-") {
		return re + " - " + im[1:] + "i"
	}
	return re + " + " + im + "i"
}

// FormatValue formats a value with its units.
func FormatValue(v Value, decimals int) string {
	s := formatComplex(v.Number, decimals)
	if v.Units == nil {
		return s
	}
	return s + " " + v.Units.Text()
}

// String renders the last parsed expression in infix form.
func (p *Parser) String() string {
	if p.defIndex >= 0 {
		cf := p.funcs[p.defIndex]
		names := make([]string, len(cf.params))
		for i, q := range cf.params {
			names[i] = q.Name
		}
		return cf.name + "(" + strings.Join(names, "; ") + ") = " + p.render(cf.rpn)
	}
	s := p.render(p.program)
	if p.target != nil {
		s += " | " + p.target.Text()
	}
	return s
}

// render converts a program in postfix order back to infix text, adding
// brackets where the binding order requires them.
func (p *Parser) render(rpn []*token) string {
	type term struct {
		s string
		// order is the binding order of the term's outermost operator, or
		// defaultOrder for terms that never need brackets.
		order int8
	}
	var st []term
	popN := func(n int) []term {
		if len(st) < n {
			return nil
		}
		r := append([]term(nil), st[len(st)-n:]...)
		st = st[:len(st)-n]
		return r
	}
	wrap := func(t term, brackets bool) string {
		if brackets {
			return "(" + t.s + ")"
		}
		return t.s
	}
	call := func(name string, args []term) string {
		s := make([]string, len(args))
		for i, a := range args {
			s[i] = a.s
		}
		return name + "(" + strings.Join(s, "; ") + ")"
	}
	for _, t := range rpn {
		switch t.kind {
		case tokenConstant, tokenUnit, tokenVariable, tokenInput, tokenSolver:
			st = append(st, term{s: t.text, order: defaultOrder})
		case tokenOperator, tokenFunction2:
			if t.isNegate() {
				a := popN(1)
				if a == nil {
					return ""
				}
				st = append(st, term{s: "-" + wrap(a[0], a[0].order >= negateOrder), order: negateOrder})
				continue
			}
			ab := popN(2)
			if ab == nil {
				return ""
			}
			if t.kind == tokenFunction2 {
				st = append(st, term{s: call(t.text, ab), order: defaultOrder})
				continue
			}
			a, b := ab[0], ab[1]
			var l, r string
			if t.is('^') {
				l, r = wrap(a, a.order >= t.order), wrap(b, b.order > t.order)
			} else {
				l, r = wrap(a, a.order > t.order), wrap(b, b.order >= t.order)
			}
			var s string
			switch {
			case t.is('*') && t.order == unitMulOrder:
				s = l + " " + r
			case t.order < operatorOrder[opSub]:
				s = l + t.text + r
			default:
				s = l + " " + t.text + " " + r
			}
			st = append(st, term{s: s, order: t.order})
		case tokenFunction:
			a := popN(1)
			if a == nil {
				return ""
			}
			if t.text == "!" {
				st = append(st, term{s: wrap(a[0], a[0].order >= 0) + "!", order: defaultOrder})
				continue
			}
			st = append(st, term{s: call(t.text, a), order: defaultOrder})
		case tokenIf:
			args := popN(3)
			if args == nil {
				return ""
			}
			st = append(st, term{s: call(ifName, args), order: defaultOrder})
		case tokenMulti:
			args := popN(t.argc)
			if args == nil {
				return ""
			}
			st = append(st, term{s: call(t.text, args), order: defaultOrder})
		case tokenCustom:
			n := 1
			if t.index >= 0 && t.index < len(p.funcs) {
				n = len(p.funcs[t.index].params)
			}
			args := popN(n)
			if args == nil {
				return ""
			}
			st = append(st, term{s: call(t.text, args), order: defaultOrder})
		}
	}
	if len(st) != 1 {
		return ""
	}
	return st[0].s
}
