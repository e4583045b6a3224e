package unitcalc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/zephyrtronium/unitcalc/numeric"
	"github.com/zephyrtronium/unitcalc/units"
)

// Operator indices. Division has two spellings, / and ÷, which share an
// index.
const (
	opPow = iota
	opDiv
	opIntDiv
	opMod
	opMul
	opSub
	opAdd
	opLt
	opGt
	opLe
	opGe
	opEq
	opNe
	opAssign
	numOperators
)

var operatorIndex = map[rune]int{
	'^':  opPow,
	'/':  opDiv,
	'÷':  opDiv,
	'\\': opIntDiv,
	'%':  opMod,
	'*':  opMul,
	'-':  opSub,
	'+':  opAdd,
	'<':  opLt,
	'>':  opGt,
	'≤':  opLe,
	'≥':  opGe,
	'≡':  opEq,
	'≠':  opNe,
	'=':  opAssign,
}

// operatorOrder is the binding order of each operator. Lower binds tighter.
var operatorOrder = [numOperators]int8{0, 3, 3, 3, 3, 4, 5, 6, 6, 6, 6, 6, 6, 7}

const (
	// negateOrder is the order of unary minus.
	negateOrder = 1
	// unitOrder is the order of * and / between units in a chain of units.
	unitOrder = 1
	// unitMulOrder is the order of a multiplication joining a number to its
	// units.
	unitMulOrder = 2
)

// Function indices.
const (
	fnSin = iota
	fnCos
	fnTan
	fnCsc
	fnSec
	fnCot
	fnAsin
	fnAcos
	fnAtan
	fnAcsc
	fnAsec
	fnAcot
	fnSinh
	fnCosh
	fnTanh
	fnCsch
	fnSech
	fnCoth
	fnAsinh
	fnAcosh
	fnAtanh
	fnAcsch
	fnAsech
	fnAcoth
	fnLog
	fnLn
	fnLog2
	fnAbs
	fnSign
	fnSqr
	fnSqrt
	fnCbrt
	fnRound
	fnFloor
	fnCeiling
	fnTrunc
	fnRe
	fnIm
	fnPhase
	fnRandom
	fnFact
	fnNeg
	fnExp
	fnConj
	fnNot
	numFunctions
)

var functionNames = [numFunctions]string{
	"sin", "cos", "tan", "csc", "sec", "cot",
	"asin", "acos", "atan", "acsc", "asec", "acot",
	"sinh", "cosh", "tanh", "csch", "sech", "coth",
	"asinh", "acosh", "atanh", "acsch", "asech", "acoth",
	"log", "ln", "log_2", "abs", "sign", "sqr", "sqrt", "cbrt",
	"round", "floor", "ceiling", "trunc", "re", "im", "phase", "random",
	"fact", negChar, "exp", "conj", "not",
}

// negChar is the name of the unary minus function. It is a hyphen, not a
// minus sign.
const negChar = "‐"

// Two-argument function indices.
const (
	fn2Atan2 = iota
	fn2Root
	fn2Mandelbrot
	fn2Mod
	numFunctions2
)

var function2Names = [numFunctions2]string{"atan2", "root", "mandelbrot", "mod"}

// Multi-argument function indices.
const (
	mfMin = iota
	mfMax
	mfSum
	mfSumSq
	mfSrss
	mfAverage
	mfProduct
	mfMean
	mfSwitch
	mfTake
	mfLine
	mfSpline
	mfAnd
	mfOr
	mfXor
	mfGcd
	mfLcm
	numMulti
)

var multiNames = [numMulti]string{
	"min", "max", "sum", "sumsq", "srss", "average", "product", "mean",
	"switch", "take", "line", "spline", "and", "or", "xor", "gcd", "lcm",
}

// ifName is the conditional, the only three-argument function.
const ifName = "if"

var (
	functionIndex  = indexOf(functionNames[:])
	function2Index = indexOf(function2Names[:])
	multiIndex     = indexOf(multiNames[:])
)

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, s := range names {
		m[s] = i
	}
	return m
}

const (
	// logicalZero is the magnitude under which a value is false.
	logicalZero = 1e-12
	// deltaPlus and deltaMinus widen the index range of take, line, and
	// spline by round-off.
	deltaPlus  = 1 + 1e-14
	deltaMinus = 1 - 1e-14
)

var radians = units.Default(units.UK).Must("rad")

type (
	unaryFunc  func(Value) Value
	binaryFunc func(a, b Value) Value
	multiFunc  func([]Value) Value
)

// calculator is a set of dispatch tables for one numeric mode and angle unit.
type calculator struct {
	operators  [numOperators]binaryFunc
	functions  [numFunctions]unaryFunc
	functions2 [numFunctions2]binaryFunc
	multi      [numMulti]multiFunc

	complex bool
	// toRad and fromRad convert unitless angles.
	toRad, fromRad float64
}

// calculators holds the tables for each combination of complex and degrees.
var calculators = [2][2]*calculator{
	{newCalculator(false, false), newCalculator(false, true)},
	{newCalculator(true, false), newCalculator(true, true)},
}

func calculatorFor(complex, degrees bool) *calculator {
	return calculators[b2i(complex)][b2i(degrees)]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func newCalculator(complex, degrees bool) *calculator {
	c := &calculator{complex: complex, toRad: 1, fromRad: 1}
	if degrees {
		c.toRad, c.fromRad = math.Pi/180, 180/math.Pi
	}
	c.operators = [numOperators]binaryFunc{
		opPow:    c.pow,
		opDiv:    Value.div,
		opIntDiv: Value.intDiv,
		opMod:    Value.mod,
		opMul:    Value.mul,
		opSub:    Value.sub,
		opAdd:    Value.add,
		opLt:     Value.lt,
		opGt:     Value.gt,
		opLe:     Value.le,
		opGe:     Value.ge,
		opEq:     Value.eq,
		opNe:     Value.ne,
		opAssign: func(_, b Value) Value { return b },
	}
	if complex {
		c.complexFunctions()
	} else {
		c.operators[opMul] = Value.realMul
		c.operators[opDiv] = Value.realDiv
		c.realFunctions()
	}
	c.functions2 = [numFunctions2]binaryFunc{
		fn2Atan2:      c.atan2,
		fn2Root:       c.root,
		fn2Mandelbrot: mandelbrot,
		fn2Mod:        Value.mod,
	}
	c.multi = [numMulti]multiFunc{
		mfMin:     c.min,
		mfMax:     c.max,
		mfSum:     c.sum,
		mfSumSq:   c.sumSq,
		mfSrss:    c.srss,
		mfAverage: c.average,
		mfProduct: c.product,
		mfMean:    c.mean,
		mfSwitch:  switchCase,
		mfTake:    take,
		mfLine:    c.line,
		mfSpline:  spline,
		mfAnd:     and,
		mfOr:      or,
		mfXor:     xor,
		mfGcd:     c.gcd,
		mfLcm:     c.lcm,
	}
	return c
}

// checkFunctionUnits fails unless v is unitless or an angle.
func checkFunctionUnits(name string, v Value) {
	if v.Units != nil && !v.Units.IsAngle() {
		fail(ErrUnits, `Invalid units for function: "`+name+"("+units.TextOf(v.Units)+`)".`)
	}
}

// angle converts the argument of a circular function to radians.
func (c *calculator) angle(v Value) numeric.Complex {
	if v.Units != nil {
		return v.Number.Scale(v.Units.ConvertTo(radians))
	}
	return v.Number.Scale(c.toRad)
}

func must(f func(numeric.Complex) (numeric.Complex, error)) func(numeric.Complex) numeric.Complex {
	return func(z numeric.Complex) numeric.Complex {
		r, err := f(z)
		check(err)
		return r
	}
}

func mustReal(f func(float64) (float64, error)) func(float64) float64 {
	return func(x float64) float64 {
		r, err := f(x)
		check(err)
		return r
	}
}

func (c *calculator) realFunctions() {
	trig := func(name string, f func(float64) float64) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Real(f(c.angle(v).Re))
		}
	}
	inverse := func(name string, f func(float64) float64) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Real(f(v.Number.Re) * c.fromRad)
		}
	}
	plain := func(name string, f func(float64) float64) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Real(f(v.Number.Re))
		}
	}
	keep := func(f func(float64) float64) unaryFunc {
		return func(v Value) Value {
			return Value{Number: numeric.FromReal(f(v.Number.Re)), Units: v.Units}
		}
	}
	sin, cos := mustReal(numeric.RealSin), mustReal(numeric.RealCos)
	c.functions = [numFunctions]unaryFunc{
		fnSin:     trig("sin", sin),
		fnCos:     trig("cos", cos),
		fnTan:     trig("tan", math.Tan),
		fnCsc:     trig("csc", func(x float64) float64 { return 1 / sin(x) }),
		fnSec:     trig("sec", func(x float64) float64 { return 1 / cos(x) }),
		fnCot:     trig("cot", func(x float64) float64 { return 1 / math.Tan(x) }),
		fnAsin:    inverse("asin", math.Asin),
		fnAcos:    inverse("acos", math.Acos),
		fnAtan:    inverse("atan", math.Atan),
		fnAcsc:    inverse("acsc", func(x float64) float64 { return math.Asin(1 / x) }),
		fnAsec:    inverse("asec", func(x float64) float64 { return math.Acos(1 / x) }),
		fnAcot:    inverse("acot", func(x float64) float64 { return math.Atan(1 / x) }),
		fnSinh:    plain("sinh", math.Sinh),
		fnCosh:    plain("cosh", math.Cosh),
		fnTanh:    plain("tanh", math.Tanh),
		fnCsch:    plain("csch", func(x float64) float64 { return 1 / math.Sinh(x) }),
		fnSech:    plain("sech", func(x float64) float64 { return 1 / math.Cosh(x) }),
		fnCoth:    plain("coth", func(x float64) float64 { return 1 / math.Tanh(x) }),
		fnAsinh:   plain("asinh", math.Asinh),
		fnAcosh:   plain("acosh", math.Acosh),
		fnAtanh:   plain("atanh", math.Atanh),
		fnAcsch:   plain("acsch", func(x float64) float64 { return math.Asinh(1 / x) }),
		fnAsech:   plain("asech", func(x float64) float64 { return math.Acosh(1 / x) }),
		fnAcoth:   plain("acoth", func(x float64) float64 { return math.Atanh(1 / x) }),
		fnLog:     plain("log", math.Log10),
		fnLn:      plain("ln", math.Log),
		fnLog2:    plain("log_2", math.Log2),
		fnAbs:     keep(math.Abs),
		fnSign:    func(v Value) Value { return Real(numeric.RealSign(v.Number.Re)) },
		fnSqr:     func(v Value) Value { return realRoot(v, 2) },
		fnSqrt:    func(v Value) Value { return realRoot(v, 2) },
		fnCbrt:    func(v Value) Value { return realRoot(v, 3) },
		fnRound:   keep(math.Round),
		fnFloor:   keep(math.Floor),
		fnCeiling: keep(math.Ceil),
		fnTrunc:   keep(math.Trunc),
		fnRe:      func(v Value) Value { return Value{Number: numeric.FromReal(v.Number.Re), Units: v.Units} },
		fnIm:      func(Value) Value { return Real(0) },
		fnPhase:   func(v Value) Value { return Real(v.Number.Phase() * c.fromRad) },
		fnRandom:  keep(numeric.RealRandom),
		fnFact:    fact,
		fnNeg:     Value.neg,
		fnExp:     plain("exp", math.Exp),
		fnConj:    func(v Value) Value { return v },
		fnNot:     not,
	}
}

func (c *calculator) complexFunctions() {
	trig := func(name string, f func(numeric.Complex) numeric.Complex) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Value{Number: f(c.angle(v))}
		}
	}
	inverse := func(name string, f func(numeric.Complex) numeric.Complex) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Value{Number: f(v.Number).Scale(c.fromRad)}
		}
	}
	plain := func(name string, f func(numeric.Complex) numeric.Complex) unaryFunc {
		return func(v Value) Value {
			checkFunctionUnits(name, v)
			return Value{Number: f(v.Number)}
		}
	}
	keep := func(f func(numeric.Complex) numeric.Complex) unaryFunc {
		return func(v Value) Value {
			return Value{Number: f(v.Number), Units: v.Units}
		}
	}
	// reciprocal is f(1/z), infinite at zero.
	reciprocal := func(f func(numeric.Complex) numeric.Complex) func(numeric.Complex) numeric.Complex {
		return func(z numeric.Complex) numeric.Complex {
			if z == numeric.Zero {
				return numeric.ComplexInfinity
			}
			return f(z.Inv())
		}
	}
	inv := func(f func(numeric.Complex) numeric.Complex) func(numeric.Complex) numeric.Complex {
		return func(z numeric.Complex) numeric.Complex { return f(z).Inv() }
	}
	sin, cos := must(numeric.Sin), must(numeric.Cos)
	sinh, cosh := must(numeric.Sinh), must(numeric.Cosh)
	c.functions = [numFunctions]unaryFunc{
		fnSin:   trig("sin", sin),
		fnCos:   trig("cos", cos),
		fnTan:   trig("tan", numeric.Tan),
		fnCsc:   trig("csc", inv(sin)),
		fnSec:   trig("sec", inv(cos)),
		fnCot:   trig("cot", numeric.Cot),
		fnAsin:  inverse("asin", numeric.Asin),
		fnAcos:  inverse("acos", numeric.Acos),
		fnAtan:  inverse("atan", numeric.Atan),
		fnAcsc:  inverse("acsc", reciprocal(numeric.Asin)),
		fnAsec:  inverse("asec", reciprocal(numeric.Acos)),
		fnAcot:  inverse("acot", numeric.Acot),
		fnSinh:  plain("sinh", sinh),
		fnCosh:  plain("cosh", cosh),
		fnTanh:  plain("tanh", numeric.Tanh),
		fnCsch:  plain("csch", inv(sinh)),
		fnSech:  plain("sech", inv(cosh)),
		fnCoth:  plain("coth", numeric.Coth),
		fnAsinh: plain("asinh", numeric.Asinh),
		fnAcosh: plain("acosh", numeric.Acosh),
		fnAtanh: plain("atanh", numeric.Atanh),
		fnAcsch: plain("acsch", reciprocal(numeric.Asinh)),
		fnAsech: plain("asech", func(z numeric.Complex) numeric.Complex { return numeric.Acosh(z.Inv()) }),
		fnAcoth: plain("acoth", numeric.Acoth),
		fnLog:   plain("log", numeric.Log10),
		fnLn:    plain("ln", numeric.Log),
		fnLog2:  plain("log_2", numeric.Log2),
		fnAbs: func(v Value) Value {
			return Value{Number: numeric.FromReal(v.Number.Abs()), Units: v.Units}
		},
		fnSign:    func(v Value) Value { return Value{Number: numeric.Sign(v.Number)} },
		fnSqr:     func(v Value) Value { return complexRoot(v, 2) },
		fnSqrt:    func(v Value) Value { return complexRoot(v, 2) },
		fnCbrt:    func(v Value) Value { return complexRoot(v, 3) },
		fnRound:   keep(numeric.Round),
		fnFloor:   keep(numeric.Floor),
		fnCeiling: keep(numeric.Ceiling),
		fnTrunc:   keep(numeric.Trunc),
		fnRe:      func(v Value) Value { return Value{Number: numeric.FromReal(v.Number.Re), Units: v.Units} },
		fnIm:      func(v Value) Value { return Value{Number: numeric.FromReal(v.Number.Im), Units: v.Units} },
		fnPhase:   func(v Value) Value { return Real(v.Number.Phase() * c.fromRad) },
		fnRandom:  keep(numeric.Random),
		fnFact:    fact,
		fnNeg:     Value.neg,
		fnExp:     plain("exp", numeric.Exp),
		fnConj:    keep(numeric.Complex.Conj),
		fnNot:     not,
	}
}

func (c *calculator) pow(a, b Value) Value {
	u := unitPow(a.Units, b, a.IsUnit)
	var z numeric.Complex
	if c.complex {
		z = numeric.CPow(a.Number, b.Number)
	} else {
		z = numeric.FromReal(math.Pow(a.Number.Re, b.Number.Re))
	}
	return Value{Number: z, Units: u, IsUnit: a.IsUnit && u != nil}
}

// realRoot is the real nth root. Odd roots of negative numbers are negative.
func realRoot(v Value, n int) Value {
	x := v.Number.Re
	var r float64
	switch {
	case n == 2:
		r = math.Sqrt(x)
	case n == 3:
		r = math.Cbrt(x)
	case x < 0 && n%2 == 1:
		r = -math.Pow(-x, 1/float64(n))
	default:
		r = math.Pow(x, 1/float64(n))
	}
	return rootUnits(numeric.FromReal(r), v, n)
}

func complexRoot(v Value, n int) Value {
	var z numeric.Complex
	switch n {
	case 2:
		z = numeric.Sqrt(v.Number)
	case 3:
		z = numeric.Cbrt(v.Number)
	default:
		z = numeric.Root(v.Number, n)
	}
	return rootUnits(z, v, n)
}

func rootUnits(z numeric.Complex, v Value, n int) Value {
	if v.Units == nil {
		return Value{Number: z}
	}
	return Value{Number: z, Units: units.Root(v.Units, n, v.IsUnit), IsUnit: v.IsUnit}
}

func (c *calculator) root(v, n Value) Value {
	k := rootIndex(n)
	if c.complex {
		return complexRoot(v, k)
	}
	return realRoot(v, k)
}

func fact(v Value) Value {
	if v.Units != nil {
		fail(ErrUnits, "The argument of the n! function must be unitless.")
	}
	x, err := numeric.Fact(v.Number)
	check(err)
	return Real(x)
}

func not(v Value) Value {
	if math.Abs(v.Number.Re) < logicalZero {
		return Real(1)
	}
	return Real(0)
}

// atan2(x; y) is the angle of the point (x, y).
func (c *calculator) atan2(x, y Value) Value {
	d := convert(x.Units, y.Units, ',')
	return Value{Number: numeric.Atan2(y.Number.Scale(d), x.Number).Scale(c.fromRad)}
}

func mandelbrot(x, y Value) Value {
	d := convert(x.Units, y.Units, ',')
	return Value{Number: numeric.FromReal(numeric.Mandelbrot(x.Number.Re, y.Number.Re*d)), Units: x.Units}
}

// ifThen is the conditional if(cond; a; b).
func ifThen(cond, a, b Value) Value {
	if math.Abs(cond.Number.Re) < logicalZero {
		return b
	}
	return a
}

// reals converts the real parts of v to the units of v[0].
func reals(v []Value) []float64 {
	r := make([]float64, len(v))
	u := v[0].Units
	for i, w := range v {
		r[i] = w.Number.Re * convert(u, w.Units, ',')
	}
	return r
}

// complexes converts v to the units of v[0].
func complexes(v []Value) []numeric.Complex {
	r := make([]numeric.Complex, len(v))
	u := v[0].Units
	for i, w := range v {
		r[i] = w.Number.Scale(convert(u, w.Units, ','))
	}
	return r
}

func allReal(v []Value) bool {
	for _, w := range v {
		if !w.Number.IsReal() {
			return false
		}
	}
	return true
}

func (c *calculator) min(v []Value) Value {
	if c.complex && !allReal(v) {
		return Value{Number: numeric.NaN, Units: v[0].Units}
	}
	return Quantity(floats.Min(reals(v)), v[0].Units)
}

func (c *calculator) max(v []Value) Value {
	if c.complex && !allReal(v) {
		return Value{Number: numeric.NaN, Units: v[0].Units}
	}
	return Quantity(floats.Max(reals(v)), v[0].Units)
}

func (c *calculator) sum(v []Value) Value {
	if !c.complex {
		return Quantity(floats.Sum(reals(v)), v[0].Units)
	}
	var z numeric.Complex
	for _, w := range complexes(v) {
		z = z.Add(w)
	}
	return Value{Number: z, Units: v[0].Units}
}

// sumSquares is the sum of the squares of v in the units of v[0].
func (c *calculator) sumSquares(v []Value) numeric.Complex {
	if !c.complex {
		x := reals(v)
		return numeric.FromReal(floats.Dot(x, x))
	}
	var z numeric.Complex
	for _, w := range complexes(v) {
		z = z.Add(w.Mul(w))
	}
	return z
}

func (c *calculator) sumSq(v []Value) Value {
	z := c.sumSquares(v)
	u := v[0].Units
	if u == nil {
		return Value{Number: z}
	}
	u2, d := units.Multiply(u, u, false)
	return Value{Number: z.Scale(d), Units: u2}
}

func (c *calculator) srss(v []Value) Value {
	z := c.sumSquares(v)
	if c.complex {
		z = numeric.Sqrt(z)
	} else {
		z = numeric.FromReal(math.Sqrt(z.Re))
	}
	return Value{Number: z, Units: v[0].Units}
}

func (c *calculator) average(v []Value) Value {
	if !c.complex {
		return Quantity(stat.Mean(reals(v), nil), v[0].Units)
	}
	s := c.sum(v)
	return Value{Number: s.Number.Scale(1 / float64(len(v))), Units: s.Units}
}

func (c *calculator) product(v []Value) Value {
	mul := Value.mul
	if !c.complex {
		mul = Value.realMul
	}
	r := Value{Number: v[0].Number, Units: v[0].Units}
	for _, w := range v[1:] {
		r = mul(r, Value{Number: w.Number, Units: w.Units})
	}
	return r
}

// mean is the geometric mean.
func (c *calculator) mean(v []Value) Value {
	p := c.product(v)
	n := len(v)
	var z numeric.Complex
	if c.complex {
		z = numeric.Pow(p.Number, 1/float64(n))
	} else {
		z = numeric.FromReal(math.Pow(p.Number.Re, 1/float64(n)))
	}
	return Value{Number: z, Units: units.Root(p.Units, n, false)}
}

func truthy(v Value) bool {
	return math.Abs(v.Number.Re) >= logicalZero
}

// switchCase is switch(c1; v1; c2; v2; ...; default).
func switchCase(v []Value) Value {
	for i := 0; i+1 < len(v); i += 2 {
		if truthy(v[i]) {
			return v[i+1]
		}
	}
	if len(v)%2 != 0 {
		return v[len(v)-1]
	}
	return nanValue
}

func and(v []Value) Value {
	for _, w := range v {
		if !truthy(w) {
			return Real(0)
		}
	}
	return Real(1)
}

func or(v []Value) Value {
	for _, w := range v {
		if truthy(w) {
			return Real(1)
		}
	}
	return Real(0)
}

func xor(v []Value) Value {
	b := truthy(v[0])
	for _, w := range v[1:] {
		b = b != truthy(w)
	}
	if b {
		return Real(1)
	}
	return Real(0)
}

// isNormal reports whether x is a finite, nonzero, normal float.
func isNormal(x float64) bool {
	a := math.Abs(x)
	return a >= 0x1p-1022 && a <= math.MaxFloat64
}

// position is the 1-based position x into n items, or false if it is out of
// range.
func position(x Value, n int) (float64, bool) {
	d := x.Number.Re
	if !isNormal(d) || d < deltaMinus || d > float64(n)*deltaPlus {
		return 0, false
	}
	return min(max(d, 1), float64(n)), true
}

// take(n; y1; y2; ...) is the nth y.
func take(v []Value) Value {
	y := v[1:]
	d, ok := position(Real(math.Round(v[0].Number.Re)), len(y))
	if !ok {
		return nanValue
	}
	return y[int(d)-1]
}

// line(x; y1; y2; ...) interpolates linearly between the ys at positions 1,
// 2, and so on.
func (c *calculator) line(v []Value) Value {
	y := v[1:]
	d, ok := position(v[0], len(y))
	if !ok {
		return nanValue
	}
	i := int(d)
	if float64(i) == d || d >= float64(len(y)) {
		return y[i-1]
	}
	if c.complex {
		y1 := y[i-1]
		return y1.add(y[i].sub(y1).scale(d - float64(i)))
	}
	xs := make([]float64, len(y))
	for k := range xs {
		xs[k] = float64(k + 1)
	}
	var pl interp.PiecewiseLinear
	check(pl.Fit(xs, reals(y)))
	return Quantity(pl.Predict(d), y[0].Units)
}

// spline(x; y1; y2; ...) interpolates between the ys with a monotone cubic
// Hermite spline.
func spline(v []Value) Value {
	y := v[1:]
	d, ok := position(v[0], len(y))
	if !ok {
		return nanValue
	}
	i := int(math.Floor(d)) - 1
	if d >= float64(len(y)) {
		return y[i]
	}
	u := y[i].Units
	y0 := y[i].Number.Re
	y1 := y[i+1].Number.Re * convert(u, y[i+1].Units, ',')
	dy := y1 - y0
	a, b := dy, dy
	sign := numeric.RealSign(dy)
	if i > 0 {
		y2 := y[i-1].Number.Re * convert(u, y[i-1].Units, ',')
		a = (y1 - y2) * slopeWeight(numeric.RealSign(y0-y2) == sign)
	}
	if i < len(y)-2 {
		y2 := y[i+2].Number.Re * convert(u, y[i+2].Units, ',')
		b = (y2 - y0) * slopeWeight(numeric.RealSign(y2-y1) == sign)
	}
	if i == 0 {
		a += (a - b) / 2
	}
	if i == len(y)-2 {
		b += (b - a) / 2
	}
	t := d - float64(i) - 1
	r := y0 + ((y1-y0)*(3-2*t)*t+((a+b)*t-a)*(t-1))*t
	return Quantity(r, u)
}

func slopeWeight(monotone bool) float64 {
	if monotone {
		return 0.5
	}
	return 0.25
}

// integers converts v to integers in the units of v[0].
func integers(v []Value) []int64 {
	r := make([]int64, len(v))
	for i, x := range reals(v) {
		n, err := numeric.AsInt64(x)
		check(err)
		r[i] = n
	}
	return r
}

func (c *calculator) gcd(v []Value) Value {
	if c.complex && !allReal(v) {
		return Value{Number: numeric.NaN, Units: v[0].Units}
	}
	n := integers(v)
	a := n[0]
	for _, b := range n[1:] {
		a = numeric.Gcd(a, b)
	}
	return Real(float64(a))
}

func (c *calculator) lcm(v []Value) Value {
	if c.complex && !allReal(v) {
		return Value{Number: numeric.NaN, Units: v[0].Units}
	}
	n := integers(v)
	a := n[0]
	for _, b := range n[1:] {
		if a == 0 && b == 0 {
			return nanValue
		}
		a = a * b / numeric.Gcd(a, b)
	}
	return Real(float64(a))
}
