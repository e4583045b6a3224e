package units

import (
	"strconv"
	"strings"
	"unicode"
)

type targetKind int8

const (
	tkNone targetKind = iota
	tkNumber
	tkUnit
	tkOperator
	tkLeft
	tkRight
)

// adjacent[prev][cur] reports whether a token of kind cur may follow prev.
var adjacent = [6][6]bool{
	tkNone:     {true, true, true, true, true, true},
	tkNumber:   {true, false, false, true, false, true},
	tkUnit:     {true, false, false, true, false, true},
	tkOperator: {true, true, true, false, true, false},
	tkLeft:     {true, true, true, false, true, false},
	tkRight:    {true, false, false, true, false, true},
}

type targetToken struct {
	kind targetKind
	col  int
	text string
	num  float64
	unit *Unit
}

// operatorOrder is the binding order of target operators; lower binds tighter.
func operatorOrder(op string) int {
	switch op {
	case "^":
		return 0
	case "/":
		return 1
	case "*":
		return 2
	}
	return -1
}

func isUnitRune(r rune) bool {
	return unicode.IsLetter(r) || strings.ContainsRune("_°′″‴⁗℧", r)
}

func isNumberRune(r rune) bool {
	return r == '-' || r == '.' || '0' <= r && r <= '9'
}

// ParseTarget parses the target units written after | in an expression. The
// grammar consists of unit names resolved through lookup, numbers, the
// operators ^ / * and ·, and brackets. ^ binds tightest, then /, then *. The
// resulting unit is named after the text as written.
func ParseTarget(text string, lookup func(name string) (*Unit, bool)) (*Unit, error) {
	toks, err := lexTarget(text, lookup)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(toks); err != nil {
		return nil, err
	}
	return evalTarget(rpnTarget(toks))
}

func lexTarget(text string, lookup func(string) (*Unit, bool)) ([]targetToken, error) {
	var toks []targetToken
	var lit strings.Builder
	litCol := 0
	prev := tkNone
	flush := func() error {
		if lit.Len() == 0 {
			return nil
		}
		s := lit.String()
		lit.Reset()
		if prev == tkUnit {
			u, ok := lookup(s)
			if !ok {
				return &TargetError{Col: litCol, Text: s, Err: ErrInvalidUnits}
			}
			toks = append(toks, targetToken{kind: tkUnit, col: litCol, text: s, unit: u})
			return nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &TargetError{Col: litCol, Text: s, Err: ErrInvalidNumber}
		}
		toks = append(toks, targetToken{kind: tkNumber, col: litCol, text: s, num: x})
		return nil
	}
	for i, r := range text + " " {
		var k targetKind
		switch {
		case isUnitRune(r):
			k = tkUnit
		case isNumberRune(r):
			k = tkNumber
		case r == '*' || r == '/' || r == '^' || r == '·':
			k = tkOperator
		case r == '(':
			k = tkLeft
		case r == ')':
			k = tkRight
		case unicode.IsSpace(r):
			k = tkNone
		default:
			return nil, &TargetError{Col: i, Text: string(r), Err: ErrInvalidSymbol}
		}
		if k == tkNumber || k == tkUnit {
			if lit.Len() == 0 {
				litCol = i
			} else if prev != k || r == '-' {
				return nil, &TargetError{Col: i, Text: string(r), Err: ErrInvalidSymbol}
			}
			lit.WriteRune(r)
		} else {
			if err := flush(); err != nil {
				return nil, err
			}
			if k != tkNone {
				s := string(r)
				if r == '·' {
					s = "*"
				}
				toks = append(toks, targetToken{kind: k, col: i, text: s})
			}
		}
		prev = k
	}
	return toks, nil
}

func checkTarget(toks []targetToken) error {
	depth := 0
	prev := targetToken{kind: tkNone}
	for _, t := range toks {
		switch t.kind {
		case tkLeft:
			depth++
		case tkRight:
			depth--
			if depth < 0 {
				return &TargetError{Col: t.col, Text: ")", Err: ErrBracket}
			}
		}
		if !adjacent[prev.kind][t.kind] {
			return &TargetError{Col: t.col, Text: prev.text + " " + t.text, Err: ErrInvalidSyntax}
		}
		prev = t
	}
	if prev.kind == tkOperator || prev.kind == tkLeft {
		return &TargetError{Col: prev.col, Err: ErrIncomplete}
	}
	if depth > 0 {
		return &TargetError{Col: prev.col, Text: "(", Err: ErrBracket}
	}
	return nil
}

func rpnTarget(toks []targetToken) []targetToken {
	out := make([]targetToken, 0, len(toks))
	var stack []targetToken
	for _, t := range toks {
		switch t.kind {
		case tkNumber, tkUnit:
			out = append(out, t)
		case tkOperator:
			o := operatorOrder(t.text)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind == tkLeft || operatorOrder(top.text) > o {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		case tkLeft:
			stack = append(stack, t)
		case tkRight:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tkLeft {
					break
				}
				out = append(out, top)
			}
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return out
}

// targetOperand is a value on the evaluation stack of target units. Exactly
// one of the number or the unit is meaningful, according to isUnit.
type targetOperand struct {
	isUnit bool
	num    float64
	unit   *Unit
	// text and order track the rendering of the operand.
	text  string
	order int
}

func evalTarget(rpn []targetToken) (*Unit, error) {
	var stack []targetOperand
	for _, t := range rpn {
		switch t.kind {
		case tkNumber:
			stack = append(stack, targetOperand{num: t.num, text: FormatNumber(t.num, 2), order: -1})
		case tkUnit:
			stack = append(stack, targetOperand{isUnit: true, unit: t.unit, text: t.text, order: -1})
		case tkOperator:
			if len(stack) < 2 {
				return nil, &TargetError{Col: t.col, Err: ErrMissingOperand}
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			c, err := applyTarget(t, a, b)
			if err != nil {
				return nil, err
			}
			stack = append(stack[:len(stack)-2], c)
		}
	}
	if len(stack) == 0 {
		return nil, nil
	}
	r := stack[len(stack)-1]
	if !r.isUnit || r.unit == nil {
		return nil, &TargetError{Err: ErrNotUnits}
	}
	return r.unit.Named(r.text), nil
}

func applyTarget(t targetToken, a, b targetOperand) (targetOperand, error) {
	c := targetOperand{isUnit: a.isUnit || b.isUnit, order: operatorOrder(t.text)}
	switch {
	case a.isUnit && b.isUnit:
		switch t.text {
		case "*":
			c.unit = scaleBy(Multiply(a.unit, b.unit, false))
		case "/":
			c.unit = scaleBy(Divide(a.unit, b.unit, false))
		default:
			return c, &TargetError{Col: t.col, Err: ErrPowerUnits}
		}
	case a.isUnit:
		switch t.text {
		case "*":
			c.unit = scaleBy(a.unit, b.num)
		case "/":
			c.unit = scaleBy(a.unit, 1/b.num)
		default:
			if a.unit != nil {
				c.unit = a.unit.Raise(b.num)
			}
		}
	case b.isUnit:
		switch t.text {
		case "*":
			c.unit = scaleBy(b.unit, a.num)
		case "/":
			if b.unit != nil {
				c.unit = b.unit.Raise(-1).Scale(a.num)
			}
		default:
			return c, &TargetError{Col: t.col, Err: ErrPowerUnits}
		}
	default:
		switch t.text {
		case "*":
			c.num = a.num * b.num
		case "/":
			c.num = a.num / b.num
		default:
			c.num = pow(a.num, b.num)
		}
	}
	c.text = renderTarget(t.text, a, b, c.order)
	return c, nil
}

func scaleBy(u *Unit, f float64) *Unit {
	if u == nil || f == 1 {
		return u
	}
	return u.Scale(f)
}

func negative(x targetOperand) bool {
	return x.order == -1 && strings.HasPrefix(x.text, "-")
}

func renderTarget(op string, a, b targetOperand, order int) string {
	at, bt := a.text, b.text
	if a.order > order {
		at = "(" + at + ")"
	}
	if op == "^" {
		if negative(a) {
			at = "(" + at + ")"
		}
		if negative(b) || b.order != -1 {
			bt = "(" + bt + ")"
		}
		return at + "^" + bt
	}
	if b.order > order || b.order == order && op == "/" || negative(b) {
		bt = "(" + bt + ")"
	}
	if op == "*" {
		op = "·"
	}
	return at + op + bt
}
