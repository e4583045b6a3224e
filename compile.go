package unitcalc

import "github.com/zephyrtronium/unitcalc/units"

// cnode is a compiled subexpression. Constant subexpressions are folded, so
// that val holds their value and fn is nil.
type cnode struct {
	fn  func() Value
	val Value
	// v is set for variable leaves, which may be assigned.
	v *variable
}

func constNode(v Value) cnode { return cnode{val: v} }

func (n cnode) isConst() bool { return n.fn == nil }

func (n cnode) eval() Value {
	if n.fn == nil {
		return n.val
	}
	return n.fn()
}

// compile converts a program in postfix order into a closure. Variables are
// read when the closure is called, so a compiled function follows later
// assignments to its variables and parameters. An assignment stores its value
// converted to target, as Calculate does.
func (p *Parser) compile(rpn []*token, target *units.Unit) func() Value {
	if len(rpn) == 0 {
		fail(ErrEmpty, "Expression is empty.")
	}
	var st []cnode
	pop := func() cnode {
		if len(st) == 0 {
			fail(ErrStack, "Stack empty. Invalid expression.")
		}
		n := st[len(st)-1]
		st = st[:len(st)-1]
		return n
	}
	popN := func(k int) []cnode {
		if len(st) < k {
			fail(ErrStack, "Stack empty. Invalid expression.")
		}
		r := make([]cnode, k)
		copy(r, st[len(st)-k:])
		st = st[:len(st)-k]
		return r
	}
	for _, t := range rpn {
		switch t.kind {
		case tokenConstant:
			st = append(st, constNode(t.val))
		case tokenUnit, tokenVariable, tokenInput:
			st = append(st, p.compileLeaf(t))
		case tokenOperator, tokenFunction, tokenFunction2:
			if t.kind == tokenFunction || t.isNegate() {
				st = append(st, p.compileUnary(t, pop()))
				continue
			}
			if len(st) == 0 {
				fail(ErrMissingOperand, "Missing operand.")
			}
			b := pop()
			if len(st) == 0 {
				if !t.is('-') {
					fail(ErrMissingOperand, "Missing operand.")
				}
				st = append(st, apply1(Value.neg, b))
				continue
			}
			a := pop()
			st = append(st, p.compileBinary(t, a, b, target))
		case tokenIf:
			v := popN(3)
			st = append(st, cnode{fn: func() Value {
				return ifThen(v[0].eval(), v[1].eval(), v[2].eval())
			}})
		case tokenMulti:
			st = append(st, applyN(p.calc.multi[t.index], popN(t.argc)))
		case tokenCustom:
			cf := p.function(t)
			args := popN(len(cf.params))
			st = append(st, cnode{fn: func() Value {
				v := make([]Value, len(args))
				for i, a := range args {
					v[i] = a.eval()
				}
				return p.call(cf, v)
			}})
		case tokenSolver:
			b := p.blocks[t.index]
			st = append(st, cnode{fn: func() Value { return b.calculate(p) }})
		default:
			fail(ErrSyntax, `Cannot evaluate "`+t.text+`" as "`+t.kind.String()+`".`)
		}
	}
	if len(st) != 1 {
		fail(ErrStack, "Stack memory leak. Invalid expression.")
	}
	return st[0].eval
}

// compileLeaf compiles a leaf token. A variable which was never assigned is
// read as units if possible.
func (p *Parser) compileLeaf(t *token) cnode {
	switch t.kind {
	case tokenVariable:
		v := t.v
		if v != nil && (v.set || p.defined[t.text]) {
			return cnode{fn: func() Value {
				if !v.set {
					fail(ErrUndefined, `Undefined variable or units: "`+t.text+`".`)
				}
				return v.value
			}, v: v}
		}
		return constNode(p.operand(t))
	case tokenInput:
		return constNode(p.operand(t))
	}
	return constNode(t.val)
}

func (p *Parser) compileUnary(t *token, a cnode) cnode {
	f := p.calc.functions[t.index]
	if t.index == fnRandom {
		return cnode{fn: func() Value { return f(a.eval()) }}
	}
	return apply1(f, a)
}

func (p *Parser) compileBinary(t *token, a, b cnode, target *units.Unit) cnode {
	if t.is('=') {
		v := a.v
		if v == nil {
			fail(ErrAssignment, "Only custom function or variable definitions are allowed before the assignment operator '='.")
		}
		return cnode{fn: func() Value {
			x := p.applyUnits(b.eval(), target)
			v.assign(x)
			return x
		}}
	}
	f := p.calc.operators[t.index]
	if t.kind == tokenFunction2 {
		f = p.calc.functions2[t.index]
	}
	if a.isConst() && b.isConst() {
		return constNode(f(a.val, b.val))
	}
	return cnode{fn: func() Value { return f(a.eval(), b.eval()) }}
}

func apply1(f unaryFunc, a cnode) cnode {
	if a.isConst() {
		return constNode(f(a.val))
	}
	return cnode{fn: func() Value { return f(a.fn()) }}
}

func applyN(f multiFunc, args []cnode) cnode {
	konst := true
	for _, a := range args {
		konst = konst && a.isConst()
	}
	eval := func() Value {
		v := make([]Value, len(args))
		for i, a := range args {
			v[i] = a.eval()
		}
		return f(v)
	}
	if konst {
		return constNode(eval())
	}
	return cnode{fn: eval}
}
