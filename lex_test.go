package unitcalc

import (
	"errors"
	"testing"
)

type lexToken struct {
	kind tokenKind
	text string
	col  int
}

func TestLex(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		tokens []lexToken
	}{
		{"empty", "", nil},
		{"spaces", " \t ", nil},
		{"number", "12.5", []lexToken{{tokenConstant, "12.5", 1}}},
		{"sum", "1 + 2", []lexToken{{tokenConstant, "1", 1}, {tokenOperator, "+", 3}, {tokenConstant, "2", 5}}},
		{"negate", "-x", []lexToken{{tokenOperator, negChar, 1}, {tokenVariable, "x", 2}}},
		{"subtract", "x - 1", []lexToken{{tokenVariable, "x", 1}, {tokenOperator, "-", 3}, {tokenConstant, "1", 5}}},
		{"units", "2 kg", []lexToken{{tokenConstant, "2", 1}, {tokenOperator, "*", 3}, {tokenUnit, "kg", 3}}},
		{"suffix", "3kg", []lexToken{{tokenConstant, "3", 1}, {tokenOperator, "*", 2}, {tokenUnit, "kg", 2}}},
		{"unit-division", "6 kg/2 m", []lexToken{
			{tokenConstant, "6", 1}, {tokenOperator, "*", 3}, {tokenUnit, "kg", 3},
			{tokenOperator, "/", 5},
			{tokenLeft, "(", 6}, {tokenConstant, "2", 6}, {tokenOperator, "*", 8}, {tokenUnit, "m", 8},
			{tokenRight, ")", 9},
		}},
		{"function", "sqrt(4)", []lexToken{{tokenFunction, "sqrt", 1}, {tokenLeft, "(", 5}, {tokenConstant, "4", 6}, {tokenRight, ")", 7}}},
		{"function2", "atan2(1; 2)", []lexToken{
			{tokenFunction2, "atan2", 1}, {tokenLeft, "(", 6}, {tokenConstant, "1", 7},
			{tokenDivisor, ";", 8}, {tokenConstant, "2", 10}, {tokenRight, ")", 11},
		}},
		{"multi", "max(1)", []lexToken{{tokenMulti, "max", 1}, {tokenLeft, "(", 4}, {tokenConstant, "1", 5}, {tokenRight, ")", 6}}},
		{"if", "if(1; 2; 3)", []lexToken{
			{tokenIf, "if", 1}, {tokenLeft, "(", 3}, {tokenConstant, "1", 4}, {tokenDivisor, ";", 5},
			{tokenConstant, "2", 7}, {tokenDivisor, ";", 8}, {tokenConstant, "3", 10}, {tokenRight, ")", 11},
		}},
		{"factorial", "5!", []lexToken{{tokenConstant, "5", 1}, {tokenFunction, "!", 2}}},
		{"digraph", "x >= 1", []lexToken{{tokenVariable, "x", 1}, {tokenOperator, "≥", 3}, {tokenConstant, "1", 6}}},
		{"not-equal", "x != 1", []lexToken{{tokenVariable, "x", 1}, {tokenOperator, "≠", 3}, {tokenConstant, "1", 6}}},
		{"assign", "y = 2", []lexToken{{tokenVariable, "y", 1}, {tokenOperator, "=", 3}, {tokenConstant, "2", 5}}},
		{"comment", "1 'one", []lexToken{{tokenConstant, "1", 1}}},
		{"input", "? + 1", []lexToken{{tokenInput, "?", 1}, {tokenOperator, "+", 3}, {tokenConstant, "1", 5}}},
		{"greek", "π", []lexToken{{tokenVariable, "π", 1}}},
		{"comma-name", "a,b", []lexToken{{tokenVariable, "a,b", 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var l *lexer
			var err error
			func() {
				defer catch(&err)
				l = NewParser().lex(c.src, true)
			}()
			if err != nil {
				t.Fatalf("%q failed to lex: %v", c.src, err)
			}
			if len(l.toks) != len(c.tokens) {
				t.Fatalf("%q gave wrong number of tokens: want %v, got %v", c.src, c.tokens, l.toks)
			}
			for i, tok := range l.toks {
				got := lexToken{tok.kind, tok.text, tok.col}
				if got != c.tokens[i] {
					t.Errorf("%q token %d: want %v, got %v", c.src, i, c.tokens[i], got)
				}
			}
		})
	}
}

func TestLexComplex(t *testing.T) {
	var l *lexer
	var err error
	func() {
		defer catch(&err)
		l = NewParser(Complex(true)).lex("2 + 3i", true)
	}()
	if err != nil {
		t.Fatal(err)
	}
	if len(l.toks) != 3 {
		t.Fatalf("wrong tokens: %v", l.toks)
	}
	if tok := l.toks[2]; tok.kind != tokenConstant || tok.text != "3i" || tok.val.Number.Im != 3 {
		t.Errorf("imaginary literal lexed as %v with value %v", tok, tok.val)
	}
}

func TestLexSolver(t *testing.T) {
	p := NewParser()
	var l *lexer
	var err error
	func() {
		defer catch(&err)
		l = p.lex("1 + $Sum{k @ k = 1 : $sum{j @ j = 1 : 2}}", true)
	}()
	if err != nil {
		t.Fatal(err)
	}
	if len(l.toks) != 3 {
		t.Fatalf("wrong tokens: %v", l.toks)
	}
	tok := l.toks[2]
	if tok.kind != tokenSolver || tok.col != 5 {
		t.Fatalf("wrong solver token %v", tok)
	}
	b := p.blocks[tok.index]
	if b.kind != solverSum {
		t.Errorf("wrong solver kind %v", b.kind)
	}
	want := [...]string{"k", "k", "1", "$sum{j @ j = 1 : 2}"}
	for i, s := range want {
		if b.items[i].text != s {
			t.Errorf("item %d: want %q, got %q", i, s, b.items[i].text)
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
		col  int
	}{
		{"symbol", "1 & 2", ErrInvalidSymbol, 3},
		{"comma", ",a", ErrInvalidSymbol, 1},
		{"unit", "2 qq", ErrUnits, 3},
		{"number", "1.2.3", ErrSyntax, 1},
		{"function", "2 + nope(1)", ErrInvalidFunction, 5},
		{"assign", "a = b = 1", ErrAssignment, 7},
		{"solver", "$nope{x}", ErrSolver, 1},
		{"solver-open", "$root", ErrBracket, 1},
		{"solver-close", "$root{x @ x = 1 : 2", ErrBracket, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var err error
			func() {
				defer catch(&err)
				NewParser().lex(c.src, true)
			}()
			if err == nil {
				t.Fatalf("%q gave no error", c.src)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("%#v is not *Error", err)
			}
			if e.Kind != c.kind || e.Col != c.col {
				t.Errorf("%q gave wrong error: want %v at %d, got %v at %d (%v)", c.src, c.kind, c.col, e.Kind, e.Col, err)
			}
		})
	}
}

func TestLexChainedDivision(t *testing.T) {
	// Only the last quotient takes the unit.
	var l *lexer
	var err error
	func() {
		defer catch(&err)
		l = NewParser().lex("6/2/3 kg", true)
	}()
	if err != nil {
		t.Fatal(err)
	}
	want := []lexToken{
		{tokenConstant, "6", 1}, {tokenOperator, "/", 2}, {tokenConstant, "2", 3}, {tokenOperator, "/", 4},
		{tokenLeft, "(", 5}, {tokenConstant, "3", 5}, {tokenOperator, "*", 7}, {tokenUnit, "kg", 7},
		{tokenRight, ")", 9},
	}
	if len(l.toks) != len(want) {
		t.Fatalf("wrong tokens: want %v, got %v", want, l.toks)
	}
	for i, tok := range l.toks {
		if got := (lexToken{tok.kind, tok.text, tok.col}); got != want[i] {
			t.Errorf("token %d: want %v, got %v", i, want[i], got)
		}
	}
	r := mustCalc(t, NewParser(), "6/2/3 kg")
	if r.Re() != 1 || r.Units == nil || r.Units.Powers()[0] != -1 {
		t.Errorf("6/2/3 kg should be 1 kg^-1, got %g %v", r.Re(), r.Units)
	}
}
