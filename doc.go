// Package unitcalc implements a calculator for engineering expressions with
// physical units.
//
// The syntax is intended to be similar to math you'd write in your notes.
// "5 m/2 s" is 2.5 m/s, because a number and its units bind tighter than
// division. "1 kg + 500 g" is 1.5 kg. Units after | convert the result, as in
// "3 ft | m". Names that are not variables are read as units.
//
// A Parser holds the state of one document: variables, custom functions such
// as "f(x; y) = x^2 + y", and the solve blocks in expressions, which apply a
// numerical method to an expression of one variable:
//
//	$root{x^2 - 4 @ x = 0 : 5}
//	$sum{1/k^2 @ k = 1 : 1000}
//	$area{sin(x) @ x = 0 : π}
//
// Parse an expression once and Calculate it as often as needed, or Compile it
// into a function of Parameters to evaluate it for many inputs.
package unitcalc
