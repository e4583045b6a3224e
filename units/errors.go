package units

import (
	"errors"
	"strconv"
)

// InconsistentError is an error indicating an operation between quantities
// with different dimensions.
type InconsistentError struct {
	A, B *Unit
	// Op is the operator which combined the units.
	Op rune
}

func (err *InconsistentError) Error() string {
	return "Inconsistent units: " + strconv.Quote(TextOf(err.A)+" "+string(err.Op)+" "+TextOf(err.B)) + "."
}

// Target unit parsing errors.
var (
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrInvalidUnits   = errors.New("invalid units")
	ErrInvalidSyntax  = errors.New("invalid syntax")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrMissingOperand = errors.New("missing operand")
	ErrIncomplete     = errors.New("incomplete expression")
	ErrBracket        = errors.New("mismatched bracket")
	ErrPowerUnits     = errors.New("power must be unitless")
	ErrNotUnits       = errors.New("expression does not evaluate to units")
)

// TargetError is an error in the text of target units.
type TargetError struct {
	// Col is the byte offset of the error in the units text.
	Col int
	// Text is the symbol, literal, or token pair at fault, if any.
	Text string
	Err  error
}

func (err *TargetError) Error() string {
	switch err.Err {
	case ErrInvalidSymbol:
		return "Invalid symbol " + strconv.QuoteRune([]rune(err.Text)[0]) + "."
	case ErrInvalidUnits:
		return "Invalid units: " + strconv.Quote(err.Text) + "."
	case ErrInvalidSyntax:
		return "Invalid syntax: " + strconv.Quote(err.Text) + "."
	case ErrInvalidNumber:
		return "Cannot evaluate " + strconv.Quote(err.Text) + " as number."
	case ErrMissingOperand:
		return "Missing operand."
	case ErrIncomplete:
		return "Incomplete expression."
	case ErrBracket:
		if err.Text == ")" {
			return "Missing left bracket '('."
		}
		return "Missing right bracket ')'."
	case ErrPowerUnits:
		return "Power must be unitless."
	case ErrNotUnits:
		return "This expression does not evaluate to units."
	}
	return err.Err.Error()
}

func (err *TargetError) Unwrap() error { return err.Err }

func (err *TargetError) Pos() int { return err.Col }
