package unitcalc

import (
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/unitcalc/units"
)

// maxCacheSize is the number of memoized results above which a function's
// cache is dropped when a new expression is parsed.
const maxCacheSize = 100

// customFunc is a user-defined function such as f(x; y) = x^2 + y.
type customFunc struct {
	name   string
	params []*Parameter
	rpn    []*token
	// units are the target units of the definition, or nil.
	units *units.Unit
	// fn is the compiled body, built on first call.
	fn func() Value
	// node is the function's index in the dependency graph.
	node int
	// active is set while the body is evaluating.
	active bool
	// callees are the indices of the functions the body calls.
	callees []int

	cache1 map[cacheKey]Value
	cache2 map[[2]cacheKey]Value
}

// cacheKey identifies an argument value.
type cacheKey struct {
	re, im float64
	u      *units.Unit
}

func keyOf(v Value) cacheKey {
	return cacheKey{re: v.Number.Re, im: v.Number.Im, u: v.Units}
}

func (cf *customFunc) clear() {
	clear(cf.cache1)
	clear(cf.cache2)
}

// purge drops the cache if it has grown too large.
func (cf *customFunc) purge() {
	if len(cf.cache1) >= maxCacheSize {
		clear(cf.cache1)
	}
	if len(cf.cache2) >= maxCacheSize {
		clear(cf.cache2)
	}
}

// calculate evaluates the function, using memoized results for functions of
// one or two parameters.
func (cf *customFunc) calculate(args []Value) Value {
	switch len(args) {
	case 1:
		k := keyOf(args[0])
		if z, ok := cf.cache1[k]; ok {
			return z
		}
		z := cf.eval(args)
		cf.cache1[k] = z
		return z
	case 2:
		k := [2]cacheKey{keyOf(args[0]), keyOf(args[1])}
		if z, ok := cf.cache2[k]; ok {
			return z
		}
		z := cf.eval(args)
		cf.cache2[k] = z
		return z
	}
	return cf.eval(args)
}

func (cf *customFunc) eval(args []Value) Value {
	for i, a := range args {
		cf.params[i].value = a
	}
	cf.active = true
	defer func() { cf.active = false }()
	return cf.fn()
}

// call evaluates a custom function for arguments and converts the result to
// the function's target units.
func (p *Parser) call(cf *customFunc, args []Value) Value {
	if cf.active {
		return nanValue
	}
	if cf.fn == nil {
		cf.fn = p.compile(cf.rpn, nil)
	}
	p.checkCanceled()
	return p.applyUnits(cf.calculate(args), cf.units)
}

func (p *Parser) purgeCache() {
	for _, cf := range p.funcs {
		cf.purge()
	}
}

// addFunction defines or redefines a custom function from the tokens of a
// definition, in infix order.
func (p *Parser) addFunction(toks []*token, target *units.Unit) {
	name := toks[0].text
	names, body := functionParams(toks)
	rpn := p.rpn(body)
	i, exists := p.funcIndex[name]
	callees := p.callees(rpn)
	if exists && p.reaches(callees, i) {
		failAt(ErrCircular, toks[0].col, `Circular reference detected for function "`+name+`".`)
	}
	params := make([]*Parameter, len(names))
	for k, s := range names {
		params[k] = NewParameter(s)
	}
	var cf *customFunc
	if exists {
		cf = p.funcs[i]
	} else {
		cf = &customFunc{name: name}
		cf.node = p.deps.add(cf.clear)
		i = len(p.funcs)
		p.funcs = append(p.funcs, cf)
		p.funcIndex[name] = i
	}
	cf.params = params
	cf.rpn = rpn
	cf.units = target
	cf.fn = nil
	cf.callees = callees
	cf.cache1, cf.cache2 = nil, nil
	switch len(params) {
	case 1:
		cf.cache1 = make(map[cacheKey]Value)
	case 2:
		cf.cache2 = make(map[[2]cacheKey]Value)
	}
	p.bind(rpn, params)
	p.deps.link(cf.node, p.dependencies(rpn, nil))
	if exists {
		p.deps.invalidate(cf.node)
	}
	p.defIndex = i
	p.log.WithFields(logrus.Fields{"function": name, "params": names, "redefined": exists}).Debug("define function")
}

// functionParams splits a definition f(x; y) = body into its parameter names
// and the tokens of the body.
func functionParams(toks []*token) ([]string, []*token) {
	const pattern = `Invalid function definition. It has to match the pattern: "f(x; y; z...) =".`
	col := toks[0].col
	if len(toks) < 2 || toks[1].kind != tokenLeft {
		failAt(ErrInvalidFunction, col, pattern)
	}
	var names []string
	pt := toks[1]
	k := 2
	for ; k < len(toks); k++ {
		t := toks[k]
		if t.kind == tokenRight {
			if pt.kind != tokenVariable {
				failAt(ErrInvalidFunction, t.col, "Missing parameter in function definition.")
			}
			break
		}
		switch t.kind {
		case tokenVariable:
			names = append(names, t.text)
		case tokenDivisor:
		default:
			failAt(ErrInvalidFunction, t.col, `Invalid token in function definition: "`+t.text+`".`)
		}
		if pt.kind == t.kind || pt.kind == tokenLeft && t.kind == tokenDivisor {
			if t.kind == tokenDivisor {
				failAt(ErrInvalidFunction, t.col, "Missing parameter in function definition.")
			}
			failAt(ErrInvalidFunction, t.col, "Missing delimiter in function definition.")
		}
		pt = t
	}
	if k+1 >= len(toks) || !toks[k+1].is('=') {
		failAt(ErrInvalidFunction, col, pattern)
	}
	return names, toks[k+2:]
}

// bind points the variable tokens of a program which name parameters at the
// parameters' cells, including inside solve blocks.
func (p *Parser) bind(rpn []*token, params []*Parameter) {
	for _, t := range rpn {
		switch t.kind {
		case tokenVariable:
			for _, q := range params {
				if t.text == q.Name {
					t.v = &q.variable
					break
				}
			}
		case tokenSolver:
			p.blocks[t.index].bind(p, params)
		}
	}
}

// callees lists the custom functions a program calls, including calls inside
// solve blocks.
func (p *Parser) callees(rpn []*token) []int {
	var r []int
	for _, t := range rpn {
		switch t.kind {
		case tokenCustom:
			if t.index >= 0 {
				r = append(r, t.index)
			}
		case tokenSolver:
			for _, it := range p.blocks[t.index].items {
				r = append(r, p.callees(it.rpn)...)
			}
		}
	}
	return r
}

// reaches reports whether any of the functions in from calls function i,
// directly or indirectly.
func (p *Parser) reaches(from []int, i int) bool {
	seen := make(map[int]bool)
	stack := append([]int(nil), from...)
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if k == i {
			return true
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		stack = append(stack, p.funcs[k].callees...)
	}
	return false
}

// dependencies lists the graph nodes of the global variables and functions a
// program reads.
func (p *Parser) dependencies(rpn []*token, deps []int) []int {
	for _, t := range rpn {
		switch t.kind {
		case tokenVariable:
			if t.v != nil && t.v.g != nil {
				deps = append(deps, t.v.node)
			}
		case tokenCustom:
			if t.index >= 0 {
				deps = append(deps, p.funcs[t.index].node)
			}
		case tokenSolver:
			for _, it := range p.blocks[t.index].items {
				deps = p.dependencies(it.rpn, deps)
			}
		}
	}
	return deps
}
