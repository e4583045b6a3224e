package unitcalc

// order resolves the binding order of operators and the meaning of names. In
// expressions that are not definitions, names after the assignment which are
// not defined variables are read as units. A multiplication joining a number to
// its units binds tighter than division, and so do the operators inside a
// chain of units, so that 6 kg/2 m is 6 kg/(2 m).
func (p *Parser) order(toks []*token, isDefinition bool, assign int) {
	isUnit := false
	var pt *token
	for i, t := range toks {
		if t.isNegate() {
			t.order = negateOrder
		}
		if !isDefinition && i >= assign && t.kind == tokenVariable && !p.defined[t.text] {
			u, ok := p.lookupUnit(t.text)
			if !ok {
				failAt(ErrUndefined, t.col, `Undefined variable or units: "`+t.text+`".`)
			}
			t.kind = tokenUnit
			t.val = unitValue(u)
		}
		switch {
		case t.kind == tokenUnit && pt != nil:
			if isUnit {
				if pt.is('*') || pt.is('/') || pt.is('÷') {
					pt.order = unitOrder
				}
			} else {
				if pt.is('*') {
					pt.order = unitMulOrder
				}
				isUnit = true
			}
		case t.kind == tokenUnit:
			isUnit = true
		case isUnit && (t.kind != tokenConstant || !pt.is('^')):
			if !t.is('*') && !t.is('/') && !t.is('^') {
				isUnit = false
			}
		}
		pt = t
	}
}

// rpn converts tokens in infix order to postfix order.
func (p *Parser) rpn(toks []*token) []*token {
	out := make([]*token, 0, len(toks))
	var stack []*token
	pop := func() *token {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}
	for _, t := range toks {
		switch t.kind {
		case tokenConstant, tokenUnit, tokenVariable, tokenSolver:
			out = append(out, t)
		case tokenInput:
			out = append(out, p.inputToken(t))
		case tokenOperator:
			if !t.isNegate() {
				for len(stack) > 0 {
					top := stack[len(stack)-1]
					if top.kind == tokenLeft {
						break
					}
					if top.kind == tokenOperator && (top.order > t.order || top.order == t.order && t.is('^')) {
						break
					}
					out = append(out, pop())
				}
			}
			stack = append(stack, t)
		case tokenFunction:
			if t.text != "!" {
				stack = append(stack, t)
				break
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind == tokenOperator || top.kind == tokenLeft {
					break
				}
				out = append(out, pop())
			}
			out = append(out, t)
		case tokenFunction2, tokenMulti, tokenIf, tokenCustom, tokenLeft:
			stack = append(stack, t)
		case tokenRight, tokenDivisor:
			for len(stack) > 0 {
				if stack[len(stack)-1].kind == tokenLeft {
					if t.kind == tokenRight {
						pop()
					}
					break
				}
				out = append(out, pop())
			}
		}
	}
	for len(stack) > 0 {
		out = append(out, pop())
	}
	return out
}
