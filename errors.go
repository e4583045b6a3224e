package unitcalc

import (
	"errors"
	"strconv"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// ErrorKind classifies the errors the engine reports. Every *Error matches its
// kind with errors.Is, e.g. errors.Is(err, unitcalc.ErrInconsistentUnits).
type ErrorKind int8

const (
	errNone ErrorKind = iota
	// ErrInvalidSymbol is a character which cannot appear in an expression.
	ErrInvalidSymbol
	// ErrSyntax is an illegal sequence of tokens.
	ErrSyntax
	// ErrBracket is an unmatched bracket or brace.
	ErrBracket
	// ErrMissingOperand is an operator without enough operands.
	ErrMissingOperand
	// ErrIncomplete is an expression which ends where a term is expected.
	ErrIncomplete
	// ErrEmpty is an empty expression.
	ErrEmpty
	// ErrUndefined is a name which is neither a variable nor a unit.
	ErrUndefined
	// ErrInvalidFunction is a call to an unknown function or a malformed
	// function definition.
	ErrInvalidFunction
	// ErrArgumentCount is a call with the wrong number of arguments.
	ErrArgumentCount
	// ErrInconsistentUnits is an operation between quantities of different
	// dimensions.
	ErrInconsistentUnits
	// ErrUnits is a unit where a unitless value is required, or a unit which
	// cannot be parsed.
	ErrUnits
	// ErrNotReal is a complex value where a real one is required.
	ErrNotReal
	// ErrDomain is a function argument outside the function's domain.
	ErrDomain
	// ErrCircular is a function definition which refers to itself.
	ErrCircular
	// ErrAssignment is a misplaced assignment operator.
	ErrAssignment
	// ErrSolver is a malformed solver block.
	ErrSolver
	// ErrNoSolution is a solver block which did not find a result.
	ErrNoSolution
	// ErrLimits is a solver loop whose bounds are too large.
	ErrLimits
	// ErrInterrupted is an evaluation canceled by the host.
	ErrInterrupted
	// ErrDisabled is an evaluation requested while calculations are disabled.
	ErrDisabled
	// ErrStack is an expression which leaves the evaluation stack unbalanced.
	ErrStack
	// ErrInput is an input field that was not filled or cannot be parsed.
	ErrInput
)

func (k ErrorKind) String() string {
	switch k {
	case errNone:
		return "none"
	case ErrInvalidSymbol:
		return "invalid symbol"
	case ErrSyntax:
		return "invalid syntax"
	case ErrBracket:
		return "mismatched bracket"
	case ErrMissingOperand:
		return "missing operand"
	case ErrIncomplete:
		return "incomplete expression"
	case ErrEmpty:
		return "empty expression"
	case ErrUndefined:
		return "undefined name"
	case ErrInvalidFunction:
		return "invalid function"
	case ErrArgumentCount:
		return "wrong argument count"
	case ErrInconsistentUnits:
		return "inconsistent units"
	case ErrUnits:
		return "invalid units"
	case ErrNotReal:
		return "not a real number"
	case ErrDomain:
		return "argument outside domain"
	case ErrCircular:
		return "circular reference"
	case ErrAssignment:
		return "invalid assignment"
	case ErrSolver:
		return "invalid solver block"
	case ErrNoSolution:
		return "no solution"
	case ErrLimits:
		return "limits out of range"
	case ErrInterrupted:
		return "interrupted"
	case ErrDisabled:
		return "calculations disabled"
	case ErrStack:
		return "unbalanced stack"
	case ErrInput:
		return "invalid input"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error returns the kind's description, so that kinds can be used as targets
// for errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is the error type of every failure in parsing or evaluating an
// expression. It implements InputError.
type Error struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Col is the 1-based rune position in the expression of the token that
	// caused the error, or 0 if the error arose during evaluation.
	Col int
	msg string
	err error
}

func (err *Error) Error() string {
	if err.Col > 0 {
		return errpos(err.Col, err.msg)
	}
	return err.msg
}

// Message returns the error message without position information.
func (err *Error) Message() string {
	return err.msg
}

func (err *Error) Pos() int {
	return err.Col
}

// Is reports whether target is the error's kind.
func (err *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == err.Kind
}

// Unwrap returns the numeric or units error which caused err, if any.
func (err *Error) Unwrap() error {
	return err.err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error, or 0 if the
	// position is not known.
	Pos() int
}

var (
	_ InputError = (*Error)(nil)
	_ InputError = (*units.TargetError)(nil)
)

// fail aborts parsing or evaluation. The panic is recovered by the public
// method which started the work.
func fail(kind ErrorKind, msg string) {
	panic(&Error{Kind: kind, msg: msg})
}

// failAt is fail with a position.
func failAt(kind ErrorKind, col int, msg string) {
	panic(&Error{Kind: kind, Col: col, msg: msg})
}

// check converts an error from the numeric or units packages into an *Error
// panic.
func check(err error) {
	if err == nil {
		return
	}
	panic(wrap(err))
}

func wrap(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	r := &Error{msg: err.Error(), err: err}
	var te *units.TargetError
	var ie *units.InconsistentError
	var de *numeric.DomainError
	switch {
	case errors.As(err, &ie):
		r.Kind = ErrInconsistentUnits
	case errors.As(err, &te):
		r.Kind = ErrUnits
		if te.Err == units.ErrBracket {
			r.Kind = ErrBracket
		}
	case errors.As(err, &de):
		r.Kind = ErrDomain
	default:
		r.Kind = ErrSyntax
	}
	return r
}

// catch recovers an *Error panic into *err. Any other panic continues.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(*Error)
	if !ok {
		panic(r)
	}
	*err = e
}
