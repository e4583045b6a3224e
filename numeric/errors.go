package numeric

import "errors"

var (
	// ErrArgumentRange is the cause of a DomainError for a trigonometric or
	// hyperbolic function whose argument has too large a magnitude for the
	// result to be meaningful.
	ErrArgumentRange = errors.New("argument out of range")
	// ErrFactorialComplex is the cause of a DomainError for n! with n complex.
	ErrFactorialComplex = errors.New("the argument of the n! function cannot be complex")
	// ErrFactorialRange is the cause of a DomainError for n! with n outside
	// [0, 170].
	ErrFactorialRange = errors.New("argument out of range for n!")
	// ErrFactorialInteger is the cause of a DomainError for n! with n not an
	// integer.
	ErrFactorialInteger = errors.New("the argument of the n! function must be a positive integer")
	// ErrNotInteger is the cause of a DomainError for gcd and lcm of
	// non-integers.
	ErrNotInteger = errors.New("both values must be integers")
)

// DomainError is an error returned when a function is called on an argument
// outside its domain. It unwraps to one of the sentinel errors of this
// package.
type DomainError struct {
	// Func is the function name.
	Func string
	// X is the argument.
	X Complex
	// Err is the reason.
	Err error
}

func (err *DomainError) Error() string {
	if err.Err == ErrArgumentRange {
		return "Argument out of range for " + err.Func + "(x)."
	}
	return err.Err.Error() + " (" + err.Func + " of " + err.X.String() + ")"
}

func (err *DomainError) Unwrap() error {
	return err.Err
}
