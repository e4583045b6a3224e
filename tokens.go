package unitcalc

import (
	"strconv"
	"unicode"
)

type tokenKind int8

const (
	// tokenNone is whitespace, or the absence of a previous token.
	tokenNone tokenKind = iota
	// tokenConstant is a number literal.
	tokenConstant
	// tokenVariable is a name which is not followed by an opening bracket.
	tokenVariable
	// tokenUnit is a unit literal.
	tokenUnit
	// tokenInput is an input field, written as ?.
	tokenInput
	// tokenOperator is a binary operator or unary minus.
	tokenOperator
	// tokenFunction is a built-in function of one argument, including the
	// postfix factorial !.
	tokenFunction
	// tokenFunction2 is a built-in function of two arguments.
	tokenFunction2
	// tokenMulti is a built-in function of any number of arguments.
	tokenMulti
	// tokenIf is the conditional.
	tokenIf
	// tokenCustom is a call to a user-defined function.
	tokenCustom
	// tokenLeft is an opening bracket.
	tokenLeft
	// tokenRight is a closing bracket.
	tokenRight
	// tokenDivisor separates function arguments.
	tokenDivisor
	// tokenSolver is a solve block.
	tokenSolver
	// tokenComment starts a comment, which ends the expression.
	tokenComment
)

var tokenKindNames = [...]string{
	tokenNone:      "none",
	tokenConstant:  "constant",
	tokenVariable:  "variable",
	tokenUnit:      "unit",
	tokenInput:     "input",
	tokenOperator:  "operator",
	tokenFunction:  "function",
	tokenFunction2: "function2",
	tokenMulti:     "multi",
	tokenIf:        "if",
	tokenCustom:    "custom",
	tokenLeft:      "left",
	tokenRight:     "right",
	tokenDivisor:   "divisor",
	tokenSolver:    "solver",
	tokenComment:   "comment",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// defaultOrder is the order of tokens that are not operators.
const defaultOrder = -1

// token is an element of an expression, first in infix order as scanned and
// then in postfix order.
type token struct {
	kind tokenKind
	text string
	// col is the 1-based rune position of the token in the expression.
	col int
	// index is the operator or function index into the calculator tables, the
	// index of a custom function, or the index of a solve block.
	index int
	// order is the binding order of operators.
	order int8
	// argc is the argument count of multi-argument functions.
	argc int
	// val is the value of constants, units, and inputs.
	val Value
	// v is the cell of a variable, bound on creation or to a parameter.
	v *variable
}

func (t *token) String() string {
	return "(" + t.kind.String() + " " + strconv.Quote(t.text) + " @ " + strconv.Itoa(t.col) + ")"
}

// is reports whether t is the single-character token r.
func (t *token) is(r rune) bool {
	return t != nil && t.text == string(r)
}

// isNegate reports whether t is unary minus.
func (t *token) isNegate() bool {
	return t != nil && t.kind == tokenOperator && t.text == negChar
}

// charKind classifies a character of an expression. Letters begin unit or
// variable names, while the comma may continue a name but not begin one.
func charKind(r rune) (tokenKind, bool) {
	switch {
	case '0' <= r && r <= '9', r == '.':
		return tokenConstant, true
	case r == '_', r == '°', unicode.IsLetter(r):
		return tokenUnit, true
	case r == ',':
		return tokenVariable, true
	case r == ' ', r == '\t':
		return tokenNone, true
	}
	switch r {
	case '$':
		return tokenSolver, true
	case '?':
		return tokenInput, true
	case ';':
		return tokenDivisor, true
	case '(':
		return tokenLeft, true
	case ')':
		return tokenRight, true
	case '\'', '"':
		return tokenComment, true
	case '!':
		return tokenFunction, true
	}
	if _, ok := operatorIndex[r]; ok {
		return tokenOperator, true
	}
	return tokenNone, false
}

// digraphs are the ASCII spellings of comparison operators.
var digraphs = map[rune]rune{
	'=': '≡',
	'!': '≠',
	'<': '≤',
	'>': '≥',
}
