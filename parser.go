package unitcalc

import (
	"io"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// Parser parses and evaluates expressions. A Parser holds the variables,
// custom functions, and solve blocks of one document. It is not safe to use a
// Parser concurrently, except that Cancel may be called at any time.
type Parser struct {
	reg      *units.Registry
	calc     *calculator
	complex  bool
	degrees  bool
	decimals int
	quad     QuadratureMethod
	log      logrus.FieldLogger
	input    InputSource
	enabled  bool
	plotting bool
	canceled atomic.Bool

	vars      map[string]*variable
	defined   map[string]bool
	custom    map[string]*units.Unit
	funcs     []*customFunc
	funcIndex map[string]int
	blocks    []*solveBlock
	deps      graph
	stack     stack

	// program is the postfix form of the last parsed expression, and target
	// is its target units.
	program []*token
	target  *units.Unit
	// defIndex is the index of the function defined by the last parsed
	// expression, or -1 if it was not a definition.
	defIndex int

	result     numeric.Complex
	units      *units.Unit
	calculated bool
}

// InputSource supplies the text of input fields, written as ? in expressions,
// in the order they appear. Returning "?" leaves the field undefined.
type InputSource func() string

// QuadratureMethod selects the numerical integration used by $area.
type QuadratureMethod int8

const (
	// Lobatto is adaptive Gauss-Lobatto quadrature.
	Lobatto QuadratureMethod = iota
	// TanhSinh is tanh-sinh quadrature.
	TanhSinh
)

func (m QuadratureMethod) String() string {
	switch m {
	case Lobatto:
		return "lobatto"
	case TanhSinh:
		return "tanhsinh"
	default:
		return "QuadratureMethod(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseQuadrature parses the name of a quadrature method.
func ParseQuadrature(s string) (QuadratureMethod, bool) {
	switch strings.ToLower(s) {
	case "lobatto", "adaptivelobatto":
		return Lobatto, true
	case "tanhsinh", "tanh-sinh":
		return TanhSinh, true
	}
	return Lobatto, false
}

// Option is an option used when creating a parser.
type Option interface {
	parserOption()
}

type (
	complexopt  bool
	degreesopt  bool
	registryopt struct{ reg *units.Registry }
	decimalsopt int
	quadopt     QuadratureMethod
	loggeropt   struct{ log logrus.FieldLogger }
	varopt      struct {
		name string
		val  Value
	}
	inputopt   InputSource
	enabledopt bool
)

func (complexopt) parserOption()  {}
func (degreesopt) parserOption()  {}
func (registryopt) parserOption() {}
func (decimalsopt) parserOption() {}
func (quadopt) parserOption()     {}
func (loggeropt) parserOption()   {}
func (varopt) parserOption()      {}
func (inputopt) parserOption()    {}
func (enabledopt) parserOption()  {}

// Complex selects complex arithmetic. By default, arithmetic is real.
func Complex(on bool) Option { return complexopt(on) }

// Degrees selects degrees as the unit of unitless angles. By default, angles
// are in radians.
func Degrees(on bool) Option { return degreesopt(on) }

// Registry sets the table of named units. The default is the UK registry.
func Registry(reg *units.Registry) Option { return registryopt{reg} }

// Decimals sets the number of decimal places in formatted results. The
// default is 6.
func Decimals(n int) Option { return decimalsopt(n) }

// Quadrature selects the method of numerical integration.
func Quadrature(m QuadratureMethod) Option { return quadopt(m) }

// Logger sets the logger for debug events. By default, nothing is logged.
func Logger(log logrus.FieldLogger) Option { return loggeropt{log} }

// SetVar sets the value of a variable.
func SetVar(name string, val Value) Option { return varopt{name, val} }

// Input sets the source of input fields.
func Input(src InputSource) Option { return inputopt(src) }

// Enabled controls whether calculations are active. A disabled parser still
// parses expressions and defines functions, but Calculate fails.
func Enabled(on bool) Option { return enabledopt(on) }

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		reg:       units.Default(units.UK),
		decimals:  6,
		enabled:   true,
		vars:      make(map[string]*variable),
		defined:   make(map[string]bool),
		custom:    make(map[string]*units.Unit),
		funcIndex: make(map[string]int),
		defIndex:  -1,
	}
	var vars []varopt
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case complexopt:
			p.complex = bool(opt)
		case degreesopt:
			p.degrees = bool(opt)
		case registryopt:
			p.reg = opt.reg
		case decimalsopt:
			p.decimals = int(opt)
		case quadopt:
			p.quad = QuadratureMethod(opt)
		case loggeropt:
			p.log = opt.log
		case varopt:
			vars = append(vars, opt)
		case inputopt:
			p.input = InputSource(opt)
		case enabledopt:
			p.enabled = bool(opt)
		default:
			panic("unitcalc: unknown option type")
		}
	}
	if p.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.log = l
	}
	p.calc = calculatorFor(p.complex, p.degrees)
	p.predefine()
	for _, v := range vars {
		p.SetVariable(v.name, v.val)
	}
	return p
}

func (p *Parser) predefine() {
	p.SetVariable("e", Real(math.E))
	p.SetVariable("pi", Real(math.Pi))
	p.SetVariable("π", Real(math.Pi))
	p.SetVariable("g", Real(9.80665))
	if p.complex {
		p.SetVariable("i", NewValue(numeric.I, nil))
		p.SetVariable("ei", NewValue(numeric.Complex{Im: math.E}, nil))
		p.SetVariable("πi", NewValue(numeric.Complex{Im: math.Pi}, nil))
	}
}

// Parse parses an expression. If the expression defines a custom function,
// the function is added or replaced; otherwise the expression becomes the
// program for Calculate.
func (p *Parser) Parse(expr string) (err error) {
	defer catch(&err)
	p.result, p.units = numeric.Zero, nil
	p.calculated = false
	p.defIndex = -1
	l := p.lex(expr, true)
	def := p.validate(l.toks)
	p.order(l.toks, def || p.plotting, l.assign)
	if def {
		p.addFunction(l.toks, l.target)
		return nil
	}
	p.program = p.rpn(l.toks)
	p.target = l.target
	p.purgeCache()
	return nil
}

// parseItem parses an expression which is part of a solve block.
func (p *Parser) parseItem(expr string, col int, allowAssign bool) []*token {
	l := p.lex(expr, allowAssign)
	if p.validate(l.toks) {
		failAt(ErrSolver, col, "Function definitions are not allowed in solver commands.")
	}
	p.order(l.toks, true, l.assign)
	return p.rpn(l.toks)
}

// Calculate evaluates the last parsed expression. The result is available
// through Result and ResultAsString. If the expression defined a function,
// Calculate does nothing.
func (p *Parser) Calculate() (err error) {
	defer catch(&err)
	if !p.enabled {
		fail(ErrDisabled, "Calculations are not active.")
	}
	p.checkCanceled()
	if p.defIndex < 0 {
		v := p.evaluate(p.program, p.target)
		p.result, p.units = v.Number, v.Units
	}
	p.calculated = true
	return nil
}

// CalculateReal evaluates the last parsed expression and returns its real
// value. In complex mode, the result must be real. A definition gives 0.
func (p *Parser) CalculateReal() (x float64, err error) {
	defer catch(&err)
	if !p.enabled {
		fail(ErrDisabled, "Calculations are not active.")
	}
	p.checkCanceled()
	if p.defIndex < 0 {
		v := p.evaluate(p.program, p.target)
		p.checkReal(v)
		p.result, p.units = v.Number, v.Units
	}
	p.calculated = true
	return p.result.Re, nil
}

// Compile parses an expression into a function which evaluates it. Names in
// the expression matching the names of params refer to the parameters, so the
// function may be evaluated for many inputs by setting them. An expression
// such as "y = 2*x" assigns y each time the function is called.
func (p *Parser) Compile(expr string, params ...*Parameter) (fn func() (Value, error), err error) {
	defer catch(&err)
	l := p.lex(expr, true)
	if p.validate(l.toks) {
		fail(ErrInvalidFunction, "Cannot compile a function definition.")
	}
	p.order(l.toks, true, l.assign)
	rpn := p.rpn(l.toks)
	p.bind(rpn, params)
	f := p.compile(rpn, l.target)
	target := l.target
	fn = func() (v Value, err error) {
		defer catch(&err)
		p.checkCanceled()
		return p.applyUnits(f(), target), nil
	}
	return fn, nil
}

func (p *Parser) checkCanceled() {
	if p.canceled.Load() {
		fail(ErrInterrupted, "Interrupted by user.")
	}
}

func (p *Parser) checkReal(v Value) {
	if p.complex && !v.Number.IsReal() {
		fail(ErrNotReal, `The result is not a real number: "`+formatComplex(v.Number, p.decimals)+`".`)
	}
}

// Result returns the result of the last calculation.
func (p *Parser) Result() Value {
	return Value{Number: p.result, Units: p.units}
}

// Units returns the units of the last result.
func (p *Parser) Units() *units.Unit {
	return p.units
}

// Calculated reports whether the last parsed expression has been calculated.
func (p *Parser) Calculated() bool {
	return p.calculated
}

// IsDefinition reports whether the last parsed expression defined a function.
func (p *Parser) IsDefinition() bool {
	return p.defIndex >= 0
}

// ResultAsString formats the last result with its units.
func (p *Parser) ResultAsString() string {
	return FormatValue(p.Result(), p.decimals)
}

// SetVariable sets the value of a variable, defining it if needed.
func (p *Parser) SetVariable(name string, v Value) {
	p.variable(name).assign(v)
	p.defined[name] = true
}

// Variable returns the value of a variable.
func (p *Parser) Variable(name string) (Value, bool) {
	v, ok := p.vars[name]
	if !ok || !v.set {
		return Value{}, false
	}
	return v.value, true
}

// DefineCustomUnits makes u available under name wherever units are
// expected. Custom units take precedence over units of the registry.
func (p *Parser) DefineCustomUnits(name string, u *units.Unit) {
	p.custom[name] = u.Named(name)
}

// ClearCache drops all memoized results of custom functions.
func (p *Parser) ClearCache() {
	for _, cf := range p.funcs {
		cf.clear()
	}
}

// Cancel interrupts the current and future calculations until Resume is
// called. It is safe to call Cancel concurrently with other methods.
func (p *Parser) Cancel() {
	p.canceled.Store(true)
}

// Resume allows calculations after Cancel.
func (p *Parser) Resume() {
	p.canceled.Store(false)
}

// ResetStack discards any values left on the evaluation stack.
func (p *Parser) ResetStack() {
	p.stack.reset()
}

// SetPlotting marks whether the parser is evaluating points of a plot. While
// plotting, solve blocks without a solution give NaN instead of failing, and
// undefined names in parsed expressions are not checked until evaluation.
func (p *Parser) SetPlotting(on bool) {
	p.plotting = on
}

// Precision is the relative precision of solvers, taken from the variable
// Precision and limited to [1e-16, 1e-2].
func (p *Parser) Precision() float64 {
	v, ok := p.vars["Precision"]
	if !ok || !v.set {
		return 1e-14
	}
	return math.Min(math.Max(v.value.Number.Re, 1e-16), 1e-2)
}

// variable returns the cell of a variable, creating it if needed.
func (p *Parser) variable(name string) *variable {
	v := p.vars[name]
	if v == nil {
		v = &variable{g: &p.deps}
		v.node = p.deps.add(nil)
		p.vars[name] = v
	}
	return v
}

// lookupUnit finds custom units or units of the registry by name.
func (p *Parser) lookupUnit(name string) (*units.Unit, bool) {
	if u, ok := p.custom[name]; ok {
		return u, true
	}
	return p.reg.Get(name)
}
