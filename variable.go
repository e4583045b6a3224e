package unitcalc

// variable is the cell holding the value of a named variable. Tokens naming
// the variable share its cell, so assignments are seen by parsed expressions
// and compiled functions alike.
type variable struct {
	value Value
	set   bool
	// g and node locate the variable in the dependency graph. g is nil for
	// parameters, which do not invalidate caches.
	g    *graph
	node int
}

func (v *variable) assign(x Value) {
	v.value = x
	v.set = true
	if v.g != nil {
		v.g.invalidate(v.node)
	}
}

// Parameter is a named input to a function created by Compile.
type Parameter struct {
	Name string
	variable
}

// NewParameter creates a parameter with the given name. Its value is zero
// until set.
func NewParameter(name string) *Parameter {
	return &Parameter{Name: name, variable: variable{set: true}}
}

// Set sets the value of the parameter.
func (p *Parameter) Set(v Value) {
	p.value = v
}

// SetReal sets the parameter to a unitless real value.
func (p *Parameter) SetReal(x float64) {
	p.value = Real(x)
}

// Value returns the value of the parameter.
func (p *Parameter) Value() Value {
	return p.value
}
