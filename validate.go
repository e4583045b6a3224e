package unitcalc

// Token classes for the adjacency table.
const (
	classNone = iota
	classValue
	classOperator
	classFunction
	classLeft
	classRight
	classDivisor
)

var tokenClass = [...]int8{
	tokenNone:      classNone,
	tokenConstant:  classValue,
	tokenVariable:  classValue,
	tokenUnit:      classValue,
	tokenInput:     classValue,
	tokenOperator:  classOperator,
	tokenFunction:  classFunction,
	tokenFunction2: classFunction,
	tokenMulti:     classFunction,
	tokenIf:        classFunction,
	tokenCustom:    classFunction,
	tokenLeft:      classLeft,
	tokenRight:     classRight,
	tokenDivisor:   classDivisor,
	tokenSolver:    classValue,
	tokenComment:   classNone,
}

// adjacency[prev][cur] reports whether a token of class cur may follow one of
// class prev.
var adjacency = [7][7]bool{
	classNone:     {true, true, true, true, true, true, true},
	classValue:    {true, false, true, false, false, true, true},
	classOperator: {true, true, false, true, true, false, false},
	classFunction: {true, true, false, false, true, false, false},
	classLeft:     {true, true, false, true, true, false, false},
	classRight:    {true, false, true, false, false, true, true},
	classDivisor:  {true, true, false, true, true, false, false},
}

// classOf is the class of t for adjacency. Unary minus follows like an
// operator and precedes like a function, and factorial is the reverse.
func classOf(t *token, prev bool) int8 {
	switch {
	case t.isNegate():
		if prev {
			return classOperator
		}
		return classFunction
	case t.kind == tokenFunction && t.text == "!":
		if prev {
			return classValue
		}
		return classOperator
	}
	return tokenClass[t.kind]
}

// argFrame tracks the arguments of a multi-argument function.
type argFrame struct {
	t        *token
	brackets int
	divisors int
}

// validate checks the order of tokens, counts brackets and arguments, and sets
// the argument count of each multi-argument function. It reports whether the
// expression defines a custom function.
func (p *Parser) validate(toks []*token) bool {
	if len(toks) == 0 {
		return false
	}
	var (
		def       bool
		brackets  int
		operators int
		divisors  int
		frames    []argFrame
	)
	first := toks[0]
	pt := &token{kind: tokenNone}
	for _, t := range toks {
		switch t.kind {
		case tokenFunction2:
			divisors--
		case tokenIf:
			divisors -= 2
		case tokenMulti:
			frames = append(frames, argFrame{t: t, brackets: brackets, divisors: divisors})
		case tokenCustom:
			if def && t.text == first.text {
				failAt(ErrCircular, t.col, `Recursion is not allowed in function definition: "`+t.text+`".`)
			}
			if t.index >= 0 {
				divisors -= len(p.funcs[t.index].params) - 1
			}
		case tokenLeft:
			brackets++
		case tokenRight:
			brackets--
			if brackets < 0 {
				failAt(ErrBracket, t.col, "Missing left bracket '('.")
			}
			if n := len(frames) - 1; n >= 0 && frames[n].brackets == brackets {
				frames[n].t.argc = divisors - frames[n].divisors + 1
				divisors = frames[n].divisors
				frames = frames[:n]
			}
		case tokenDivisor:
			divisors++
		case tokenOperator:
			operators++
			if t.text != "=" {
				break
			}
			switch {
			case first.kind == tokenCustom:
				divisors = 0
				def = true
			case pt.kind != tokenVariable:
				failAt(ErrAssignment, t.col, "Only custom function or variable definitions are allowed before the assignment operator '='.")
			case operators != 1:
				failAt(ErrAssignment, t.col, "Assignment '=' must be the first operator in the expression.")
			}
		}
		if !adjacency[classOf(pt, true)][classOf(t, false)] {
			failAt(ErrSyntax, t.col, `Invalid syntax: "`+pt.text+" "+t.text+`".`)
		}
		pt = t
	}
	switch pt.kind {
	case tokenOperator, tokenFunction2, tokenMulti, tokenIf, tokenCustom, tokenLeft:
		failAt(ErrIncomplete, pt.col, "Incomplete expression.")
	case tokenFunction:
		if pt.text != "!" {
			failAt(ErrIncomplete, pt.col, "Incomplete expression.")
		}
	}
	if first.kind == tokenCustom && first.index < 0 && !def {
		failAt(ErrInvalidFunction, first.col, `Invalid function: "`+first.text+`".`)
	}
	if brackets > 0 {
		failAt(ErrBracket, pt.col, "Missing right bracket ')'.")
	}
	if divisors > 0 {
		failAt(ErrArgumentCount, pt.col, "Unexpected delimiter ';'.")
	}
	if divisors < 0 {
		failAt(ErrArgumentCount, pt.col, "Invalid number of function arguments.")
	}
	return def
}
