package unitcalc

import (
	"strconv"
	"strings"

	"github.com/zephyrtronium/unitcalc/units"
)

// stack is the evaluation stack shared by nested evaluations. Each evaluation
// works in its own frame, so an error anywhere unwinds only the frames above.
type stack struct {
	buf []Value
}

type frame struct {
	s    *stack
	base int
}

func (s *stack) enter() frame {
	return frame{s: s, base: len(s.buf)}
}

func (s *stack) reset() {
	clear(s.buf)
	s.buf = s.buf[:0]
}

// leave discards the frame's values.
func (f frame) leave() {
	if len(f.s.buf) > f.base {
		f.s.buf = f.s.buf[:f.base]
	}
}

func (f frame) push(v Value) {
	f.s.buf = append(f.s.buf, v)
}

func (f frame) pop() Value {
	n := len(f.s.buf) - 1
	if n < f.base {
		fail(ErrStack, "Stack empty. Invalid expression.")
	}
	v := f.s.buf[n]
	f.s.buf = f.s.buf[:n]
	return v
}

// popN pops n values and returns them in the order they were pushed.
func (f frame) popN(n int) []Value {
	k := len(f.s.buf) - n
	if k < f.base {
		fail(ErrStack, "Stack empty. Invalid expression.")
	}
	r := make([]Value, n)
	copy(r, f.s.buf[k:])
	f.s.buf = f.s.buf[:k]
	return r
}

func (f frame) depth() int {
	return len(f.s.buf) - f.base
}

// evaluate interprets a program in postfix order and converts the result to
// the target units. An assignment stores the converted result in the
// variable.
func (p *Parser) evaluate(rpn []*token, target *units.Unit) Value {
	if len(rpn) == 0 {
		fail(ErrEmpty, "Expression is empty.")
	}
	f := p.stack.enter()
	defer f.leave()
	i0 := 0
	if rpn[0].kind == tokenVariable && rpn[len(rpn)-1].is('=') {
		i0 = 1
	}
	for _, t := range rpn[i0:] {
		switch t.kind {
		case tokenConstant:
			f.push(t.val)
		case tokenUnit, tokenVariable, tokenInput:
			f.push(p.operand(t))
		case tokenOperator, tokenFunction, tokenFunction2:
			if t.kind == tokenFunction || t.isNegate() {
				f.push(p.calc.functions[t.index](f.pop()))
				continue
			}
			if f.depth() == 0 {
				fail(ErrMissingOperand, "Missing operand.")
			}
			b := f.pop()
			if t.is('=') {
				b = p.applyUnits(b, target)
				rpn[0].v.assign(b)
				p.defined[rpn[0].text] = true
				return b
			}
			if f.depth() == 0 {
				if !t.is('-') {
					fail(ErrMissingOperand, "Missing operand.")
				}
				f.push(b.neg())
				continue
			}
			a := f.pop()
			if t.kind == tokenFunction2 {
				f.push(p.calc.functions2[t.index](a, b))
			} else {
				f.push(p.calc.operators[t.index](a, b))
			}
		case tokenIf:
			v := f.popN(3)
			f.push(ifThen(v[0], v[1], v[2]))
		case tokenMulti:
			f.push(p.calc.multi[t.index](f.popN(t.argc)))
		case tokenCustom:
			cf := p.function(t)
			f.push(p.call(cf, f.popN(len(cf.params))))
		case tokenSolver:
			f.push(p.blocks[t.index].calculate(p))
		default:
			fail(ErrSyntax, `Cannot evaluate "`+t.text+`" as "`+t.kind.String()+`".`)
		}
	}
	if f.depth() == 0 {
		return Value{}
	}
	v := f.pop()
	if f.depth() > 0 {
		fail(ErrStack, "Stack memory leak. Invalid expression.")
	}
	return p.applyUnits(v, target)
}

// function returns the custom function a call token refers to.
func (p *Parser) function(t *token) *customFunc {
	if t.index < 0 || t.index >= len(p.funcs) {
		fail(ErrInvalidFunction, `Invalid function: "`+t.text+`".`)
	}
	return p.funcs[t.index]
}

// operand is the value of a leaf token. A variable which was never assigned
// is read as units if possible.
func (p *Parser) operand(t *token) Value {
	switch t.kind {
	case tokenVariable:
		if t.v != nil && t.v.set {
			return t.v.value
		}
		u, ok := p.lookupUnit(t.text)
		if !ok {
			fail(ErrUndefined, `Undefined variable or units: "`+t.text+`".`)
		}
		t.kind = tokenUnit
		t.val = unitValue(u)
	case tokenInput:
		if t.text == "?" {
			fail(ErrInput, "Undefined input field.")
		}
	}
	return t.val
}

// applyUnits converts v to the target units u. Without target units, forces
// and electrical quantities are shown in their conventional units.
func (p *Parser) applyUnits(v Value, u *units.Unit) Value {
	vu := v.Units
	if u == nil {
		if vu == nil {
			return v
		}
		switch vu.Field() {
		case units.Mechanical:
			u = p.reg.ForceUnit(vu)
		case units.Electrical:
			u = p.reg.ElectricalUnit(vu)
		default:
			return v
		}
		if u == vu {
			return v
		}
		return Value{Number: v.Number.Scale(vu.ConvertTo(u)), Units: u}
	}
	if !units.Consistent(vu, u) {
		fail(ErrInconsistentUnits, `The calculated units "`+units.TextOf(vu)+`" are inconsistent with the target units "`+units.TextOf(u)+`".`)
	}
	z := v.Number.Scale(vu.ConvertTo(u))
	if u.IsTemp() {
		z.Re += units.TempDelta(vu.Text(), u.Text())
	}
	return Value{Number: z, Units: u}
}

// inputToken reads the next input field. Fields left as ? stay undefined and
// fail when evaluated.
func (p *Parser) inputToken(t *token) *token {
	if p.input == nil {
		return t
	}
	s := strings.TrimSpace(p.input())
	if s == "?" || s == "" {
		return &token{kind: tokenInput, text: "?", col: t.col}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		failAt(ErrInput, t.col, `Cannot parse "`+s+`" as number.`)
	}
	return &token{kind: tokenInput, text: s, col: t.col, val: Real(x)}
}
