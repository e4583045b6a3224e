package unitcalc

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// lexer holds the state of scanning one expression. Solve blocks parse their
// contents recursively while the outer expression is being scanned, so none of
// this state lives on the Parser.
type lexer struct {
	p    *Parser
	toks []*token
	// target is the unit after |, or nil.
	target *units.Unit
	// assign is the number of tokens before the =, and allowAssign reports
	// whether an assignment may appear.
	assign      int
	allowAssign bool

	// lit is the name or number being scanned, and ulit is the unit suffix
	// of a number.
	lit, ulit strings.Builder
	litCol    int
	// pc is the kind of the previous character.
	pc tokenKind
	// isDivision is set after / and ÷. isUnitDivision is set while a
	// synthetic bracket around a number and its units is open.
	isDivision, isUnitDivision bool

	// Solve block scanning.
	inSolver bool
	depth    int
	kind     solverKind
	block    strings.Builder
	blockCol int
}

// lex splits an expression into tokens. Errors are raised as panics.
func (p *Parser) lex(expr string, allowAssign bool) *lexer {
	l := &lexer{p: p, allowAssign: allowAssign}
	body, target, ok := strings.Cut(expr, "|")
	if ok {
		l.target = p.parseTarget(target, utf8.RuneCountInString(body)+1)
	}
	rs := []rune(body)
	rs = append(rs, ' ')
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		col := i + 1
		if c == '$' && !l.inSolver {
			l.inSolver = true
			l.block.Reset()
			l.blockCol = col
		}
		if l.inSolver {
			l.solverRune(c)
			l.pc = tokenNone
			continue
		}
		if d, ok := digraphs[c]; ok && i+1 < len(rs) && rs[i+1] == '=' {
			c = d
			i++
		}
		tt, ok := charKind(c)
		if !ok {
			failAt(ErrInvalidSymbol, col, "Invalid symbol '"+string(c)+"'.")
		}
		if tt == tokenConstant && l.ulit.Len() == 0 || tt == tokenUnit || tt == tokenVariable {
			l.pc = l.scan(c, tt, col)
			continue
		}
		l.flush(tt)
		if tt == tokenComment {
			break
		}
		if tt == tokenConstant {
			// A digit directly after a unit suffix begins a new number.
			l.litCol = col
			l.lit.WriteRune(c)
			l.pc = tokenConstant
			continue
		}
		if tt != tokenNone {
			l.symbol(c, tt, col)
		}
		l.pc = tt
	}
	if l.isUnitDivision {
		l.push(&token{kind: tokenRight, text: ")", col: len(rs)})
	}
	if l.inSolver {
		if l.kind == solverNone {
			failAt(ErrBracket, l.blockCol, "Missing left bracket '{' in solver command.")
		}
		failAt(ErrBracket, l.blockCol, "Missing right bracket '}' in solver command.")
	}
	return l
}

// parseTarget parses target units. off is the number of runes preceding them.
func (p *Parser) parseTarget(text string, off int) *units.Unit {
	u, err := units.ParseTarget(text, p.lookupUnit)
	if err != nil {
		e := wrap(err)
		var te *units.TargetError
		if errors.As(err, &te) && te.Col <= len(text) {
			e.Col = off + utf8.RuneCountInString(text[:te.Col]) + 1
		}
		panic(e)
	}
	return u
}

func (l *lexer) last() *token {
	if len(l.toks) == 0 {
		return nil
	}
	return l.toks[len(l.toks)-1]
}

func (l *lexer) lastKind() tokenKind {
	if t := l.last(); t != nil {
		return t.kind
	}
	return tokenNone
}

func (l *lexer) push(t *token) {
	if t.kind != tokenOperator {
		t.order = defaultOrder
	}
	l.toks = append(l.toks, t)
}

// scan adds a character to the current literal and returns the kind under
// which the literal continues.
func (l *lexer) scan(c rune, tt tokenKind, col int) tokenKind {
	switch {
	case l.pc == tokenUnit || l.pc == tokenVariable:
		if l.lit.Len() == 0 {
			l.litCol = col
		}
		l.lit.WriteRune(c)
		return tokenVariable
	case l.p.complex && l.pc == tokenConstant && l.ulit.Len() == 0 && c == 'i':
		l.push(&token{kind: tokenConstant, text: l.lit.String() + "i", col: l.litCol, val: l.number(l.lit.String(), true)})
		l.lit.Reset()
		return tokenUnit
	case l.pc == tokenConstant && tt == tokenUnit:
		l.ulit.WriteRune(c)
		return tokenConstant
	}
	if tt == tokenVariable {
		failAt(ErrInvalidSymbol, col, "Invalid character: '"+string(c)+"'. Variables, functions and units must begin with letter or '°'.")
	}
	if l.lit.Len() == 0 {
		l.litCol = col
	}
	l.lit.WriteRune(c)
	return tt
}

// number parses a number literal.
func (l *lexer) number(s string, imag bool) Value {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		failAt(ErrSyntax, l.litCol, `Error parsing "`+s+`" as number.`)
	}
	if imag {
		return Value{Number: numeric.Complex{Im: x}}
	}
	return Real(x)
}

// operand creates the token for a name written directly after a number: a
// unit if one exists by that name, otherwise an existing variable or, in a
// function definition, a parameter.
func (l *lexer) operand(name string, col int) *token {
	if u, ok := l.p.lookupUnit(name); ok {
		return &token{kind: tokenUnit, text: name, col: col, val: unitValue(u)}
	}
	_, ok := l.p.vars[name]
	if ok || len(l.toks) > 0 && l.toks[0].kind == tokenCustom {
		return &token{kind: tokenVariable, text: name, col: col, v: l.p.variable(name)}
	}
	failAt(ErrUnits, col, `Error parsing "`+name+`" as units.`)
	panic("unreachable")
}

func (l *lexer) mulToken(col int) *token {
	return &token{kind: tokenOperator, text: "*", col: col, index: opMul, order: operatorOrder[opMul]}
}

// flush emits the tokens for the current literal. tt is the kind of the
// character which ended it.
func (l *lexer) flush(tt tokenKind) {
	if l.lit.Len() == 0 && l.ulit.Len() == 0 {
		return
	}
	s, col := l.lit.String(), l.litCol
	l.lit.Reset()
	switch {
	case l.pc == tokenConstant:
		us := l.ulit.String()
		l.ulit.Reset()
		if l.isDivision && us != "" {
			l.isUnitDivision = true
			l.push(&token{kind: tokenLeft, text: "(", col: col})
		}
		l.push(&token{kind: tokenConstant, text: s, col: col, val: l.number(s, false)})
		if us != "" {
			ucol := col + utf8.RuneCountInString(s)
			l.push(l.mulToken(ucol))
			l.push(l.operand(us, ucol))
		}
	case tt == tokenLeft:
		l.push(l.function(s, col))
	case l.lastKind() == tokenConstant || l.lastKind() == tokenInput:
		if l.isDivision {
			n := len(l.toks) - 1
			t := l.toks[n]
			l.toks[n] = &token{kind: tokenLeft, text: "(", col: t.col, order: defaultOrder}
			l.toks = append(l.toks, t)
			l.isUnitDivision = true
		}
		l.push(l.mulToken(col))
		l.push(l.operand(s, col))
	default:
		l.push(&token{kind: tokenVariable, text: s, col: col, v: l.p.variable(s)})
	}
}

// function creates the token for a name followed by an opening bracket.
func (l *lexer) function(name string, col int) *token {
	if i, ok := functionIndex[name]; ok {
		return &token{kind: tokenFunction, text: name, col: col, index: i}
	}
	if i, ok := function2Index[name]; ok {
		return &token{kind: tokenFunction2, text: name, col: col, index: i}
	}
	if i, ok := multiIndex[name]; ok {
		return &token{kind: tokenMulti, text: name, col: col, index: i}
	}
	if name == ifName {
		return &token{kind: tokenIf, text: name, col: col}
	}
	i, ok := l.p.funcIndex[name]
	if !ok {
		if len(l.toks) > 0 {
			failAt(ErrInvalidFunction, col, `Invalid function: "`+name+`".`)
		}
		// The name of a new function definition.
		i = -1
	}
	return &token{kind: tokenCustom, text: name, col: col, index: i}
}

// symbol emits the token for a character that is not part of a literal.
func (l *lexer) symbol(c rune, tt tokenKind, col int) {
	pt := l.lastKind()
	switch {
	case c == '-' && (pt == tokenNone || pt == tokenOperator || pt == tokenLeft || pt == tokenDivisor):
		l.push(&token{kind: tokenOperator, text: negChar, col: col, index: fnNeg})
	case c == '!':
		// ! after anything other than a term is reported by the validator.
		l.push(&token{kind: tokenFunction, text: "!", col: col, index: fnFact})
	case tt == tokenInput:
		l.push(&token{kind: tokenInput, text: "?", col: col, val: Real(0)})
	default:
		if l.isUnitDivision && (tt == tokenOperator && c != '^' || tt == tokenRight || tt == tokenDivisor) {
			l.isUnitDivision = false
			l.push(&token{kind: tokenRight, text: ")", col: col})
		}
		t := &token{kind: tt, text: string(c), col: col}
		if tt == tokenOperator {
			l.isDivision = c == '/' || c == '÷'
			if c == '=' {
				if !l.allowAssign || l.assign > 0 {
					failAt(ErrAssignment, col, "Improper use of the assignment operator '='.")
				}
				if len(l.toks) == 1 {
					l.p.defined[l.toks[0].text] = true
				}
				l.assign = len(l.toks)
			}
			t.index = operatorIndex[c]
			t.order = operatorOrder[t.index]
		}
		l.push(t)
	}
}

// solverRune adds a character to the solve block being scanned.
func (l *lexer) solverRune(c rune) {
	switch c {
	case '{':
		if l.depth == 0 {
			kw := l.block.String()
			k, ok := solverKinds[strings.ToLower(strings.TrimSpace(kw))]
			if !ok {
				failAt(ErrSolver, l.blockCol, `Invalid solver command definition "`+kw+`".`)
			}
			l.kind = k
			l.block.Reset()
		} else {
			l.block.WriteRune(c)
		}
		l.depth++
	case '}':
		l.depth--
		if l.depth > 0 {
			l.block.WriteRune(c)
			return
		}
		if l.depth < 0 {
			failAt(ErrBracket, l.blockCol, "Missing left bracket '{' in solver command.")
		}
		i := l.p.addSolveBlock(l.block.String(), l.kind, l.blockCol)
		l.push(&token{kind: tokenSolver, text: l.p.blocks[i].String(), col: l.blockCol, index: i})
		l.kind = solverNone
		l.inSolver = false
	default:
		l.block.WriteRune(c)
	}
}
