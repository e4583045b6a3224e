package unitcalc

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

type solverKind int8

const (
	solverNone solverKind = iota
	solverFind
	solverRoot
	solverSup
	solverInf
	solverArea
	solverIntegral
	solverSlope
	solverRepeat
	solverSum
	solverProduct
)

// solverKinds maps the lowercase keywords of solve blocks to their kinds.
var solverKinds = map[string]solverKind{
	"$find":     solverFind,
	"$root":     solverRoot,
	"$sup":      solverSup,
	"$inf":      solverInf,
	"$area":     solverArea,
	"$integral": solverIntegral,
	"$slope":    solverSlope,
	"$repeat":   solverRepeat,
	"$sum":      solverSum,
	"$product":  solverProduct,
}

var solverNames = [...]string{
	solverNone:     "",
	solverFind:     "$Find",
	solverRoot:     "$Root",
	solverSup:      "$Sup",
	solverInf:      "$Inf",
	solverArea:     "∫",
	solverIntegral: "∫",
	solverSlope:    "$Slope",
	solverRepeat:   "$Repeat",
	solverSum:      "∑",
	solverProduct:  "∏",
}

func (k solverKind) String() string {
	if k < 0 || int(k) >= len(solverNames) {
		return "$Error"
	}
	return solverNames[k]
}

// nary reports whether the block is written as an operator over a range.
func (k solverKind) nary() bool {
	switch k {
	case solverSum, solverProduct, solverArea, solverIntegral, solverRepeat:
		return true
	}
	return false
}

// Solve block items. The function is item 0, the variable item 1, the bounds
// items 2 and 3, and the target value of $root item 4.
const (
	itemFunc = iota
	itemVar
	itemLower
	itemUpper
	itemTarget
)

type solveItem struct {
	text string
	rpn  []*token
}

// solveBlock is one numerical method applied to an expression, such as
// $root{x^2 - 4 @ x = 0 : 5}.
type solveBlock struct {
	kind   solverKind
	script string
	col    int
	items  [5]solveItem
	// param is the cell of the block's variable, bound into the function and
	// target items when the block is compiled.
	param *Parameter
	fn    func() Value
	// result is the value of the last calculation.
	result Value
}

// addSolveBlock parses a solve block and returns its index.
func (p *Parser) addSolveBlock(script string, kind solverKind, col int) int {
	b := &solveBlock{kind: kind, script: script, col: col}
	b.parse(p)
	p.blocks = append(p.blocks, b)
	return len(p.blocks) - 1
}

func (b *solveBlock) parse(p *Parser) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok && e.Col > 0 {
				e.Col = b.col
			}
			panic(r)
		}
	}()
	const delimiters = "@=:"
	n := 3
	if b.kind == solverSlope {
		n = 2
	}
	var sb strings.Builder
	cur, depth := 0, 0
	for _, c := range b.script {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 && cur < n && c == rune(delimiters[cur]) {
			b.items[cur].text = sb.String()
			sb.Reset()
			cur++
			continue
		}
		sb.WriteRune(c)
	}
	b.items[cur].text = sb.String()
	assign := b.kind == solverRepeat || b.kind == solverRoot
	for i := 0; i <= n; i++ {
		s := strings.TrimSpace(b.items[i].text)
		if s == "" {
			d := delimiters[min(i, n-1)]
			failAt(ErrSolver, b.col, `Missing delimiter "`+string(d)+`" in solver command {`+b.script+`}.`)
		}
		if i == itemFunc && b.kind == solverRoot {
			lhs, rhs, ok := strings.Cut(s, "=")
			if ok {
				if strings.Contains(rhs, "=") {
					failAt(ErrSolver, b.col, "More than one operators '=' in '"+s+"'.")
				}
				s = strings.TrimSpace(lhs)
				t := &b.items[itemTarget]
				t.text = strings.TrimSpace(rhs)
				t.rpn = p.parseItem(t.text, b.col, false)
			}
		}
		b.items[i].text = s
		b.items[i].rpn = p.parseItem(s, b.col, i == itemFunc && assign)
	}
	v := b.items[itemVar].rpn
	if len(v) != 1 || v[0].kind != tokenVariable {
		failAt(ErrSolver, b.col, `Invalid variable in solver command: "`+b.items[itemVar].text+`".`)
	}
	switch b.kind {
	case solverSup:
		p.SetVariable(b.items[itemVar].text+"_sup", nanValue)
	case solverInf:
		p.SetVariable(b.items[itemVar].text+"_inf", nanValue)
	}
}

// bind binds the parameters of a function definition inside the block.
func (b *solveBlock) bind(p *Parser, params []*Parameter) {
	for i, it := range b.items {
		if i != itemVar {
			p.bind(it.rpn, params)
		}
	}
}

// compile binds the block's variable and compiles its function.
func (b *solveBlock) compile(p *Parser) {
	if b.fn != nil {
		return
	}
	b.param = NewParameter(b.items[itemVar].text)
	params := []*Parameter{b.param}
	p.bind(b.items[itemFunc].rpn, params)
	p.bind(b.items[itemTarget].rpn, params)
	b.fn = p.compile(b.items[itemFunc].rpn, nil)
}

// bound evaluates a bound of the block to a real number.
func (b *solveBlock) bound(p *Parser, i int) Value {
	v := p.evaluate(b.items[i].rpn, nil)
	p.checkReal(v)
	return v
}

// calculate runs the block's method and returns the result.
func (b *solveBlock) calculate(p *Parser) Value {
	p.checkCanceled()
	b.compile(p)
	lo := b.bound(p, itemLower)
	x1, ux := lo.Number.Re, lo.Units
	var x2, y float64
	if b.kind != solverSlope {
		hi := b.bound(p, itemUpper)
		if !units.Consistent(ux, hi.Units) {
			fail(ErrInconsistentUnits, "Inconsistent units for "+b.items[itemFunc].text+` = "`+units.TextOf(ux)+`" : "`+units.TextOf(hi.Units)+`".`)
		}
		x2 = hi.Number.Re
		if hi.Units != nil {
			x2 *= hi.Units.ConvertTo(ux)
		}
	}
	b.param.value = Quantity(x1, ux)
	if b.kind == solverRoot && b.items[itemTarget].rpn != nil {
		y = b.target(p, x1, x2, ux)
	}
	s := &solver{
		p:         p,
		x:         b.param,
		u:         ux,
		fn:        b.fn,
		precision: p.Precision(),
		complex:   p.complex,
		fname:     b.items[itemFunc].text,
		vname:     b.items[itemVar].text,
	}
	r := numeric.NaN
	switch b.kind {
	case solverFind:
		r = numeric.FromReal(s.find(x1, x2))
	case solverRoot:
		r = numeric.FromReal(s.root(x1, x2, y))
	case solverSup:
		r = numeric.FromReal(s.extremum(x1, x2, false))
	case solverInf:
		r = numeric.FromReal(s.extremum(x1, x2, true))
	case solverArea:
		r = numeric.FromReal(s.area(x1, x2, p.quad))
	case solverIntegral:
		r = numeric.FromReal(s.area(x1, x2, TanhSinh))
	case solverSlope:
		r = numeric.FromReal(s.slope(x1))
	case solverRepeat:
		r = s.repeat(x1, x2)
	case solverSum:
		r = s.sum(x1, x2)
	case solverProduct:
		r = s.product(x1, x2)
	}
	switch b.kind {
	case solverSup:
		p.SetVariable(b.items[itemVar].text+"_sup", b.param.value)
	case solverInf:
		p.SetVariable(b.items[itemVar].text+"_inf", b.param.value)
	}
	if math.IsNaN(r.Re) && !p.plotting {
		fail(ErrNoSolution, "No solution for: "+b.String()+".")
	}
	b.result = Value{Number: r, Units: s.units}
	p.log.WithFields(logrus.Fields{"solver": b.kind.String(), "result": r.Re}).Debug("solve")
	return b.result
}

// target evaluates the right side of $root{f(x) = y}, which must not depend
// on x, and returns it in the units of the function.
func (b *solveBlock) target(p *Parser, x1, x2 float64, ux *units.Unit) float64 {
	f := b.fn()
	y1 := b.bound(p, itemTarget)
	b.param.value = Quantity(x2, ux)
	y2 := b.bound(p, itemTarget)
	if math.Abs(y2.Number.Re-y1.Number.Re) > 1e-14 {
		fail(ErrSolver, `The expression on the right side must be constant: "`+b.items[itemTarget].text+`".`)
	}
	b.param.value = Quantity(x1, ux)
	if !units.Consistent(f.Units, y2.Units) {
		fail(ErrInconsistentUnits, `Inconsistent units for "`+b.items[itemFunc].text+" = "+b.items[itemTarget].text+`".`)
	}
	y := y1.Number.Re
	if y2.Units != nil {
		y *= y2.Units.ConvertTo(f.Units)
	}
	return y
}

// String renders the block in text form.
func (b *solveBlock) String() string {
	var sb strings.Builder
	it := func(i int) string { return b.items[i].text }
	sb.WriteString(b.kind.String())
	if b.kind.nary() {
		sb.WriteString("{" + it(itemVar) + " = " + it(itemLower) + "..." + it(itemUpper) + "}")
		sb.WriteString("(" + it(itemFunc) + ")")
		return sb.String()
	}
	sb.WriteString("{" + it(itemFunc))
	if b.kind == solverRoot {
		if b.items[itemTarget].rpn != nil {
			sb.WriteString(" = " + it(itemTarget))
		} else {
			sb.WriteString(" = 0")
		}
	}
	sb.WriteString("; " + it(itemVar))
	if b.kind == solverSlope {
		sb.WriteString(" = " + it(itemLower) + "}")
	} else {
		sb.WriteString(" ∈ [" + it(itemLower) + "; " + it(itemUpper) + "]}")
	}
	return sb.String()
}
