package unitcalc

import (
	"math/big"
	"sync"

	"github.com/zephyrtronium/bigfloat"
)

// tanhSinhDepth is the number of refinement levels of tanh-sinh quadrature.
const tanhSinhDepth = 11

// tanhSinhCounts is the number of nodes at each level.
var tanhSinhCounts = [tanhSinhDepth]int{6, 7, 13, 26, 53, 106, 212, 423, 846, 1693, 3385}

// tanhSinhTable holds the distances of the nodes from the ends of the
// interval, relative to its half width, and their weights.
type tanhSinhTable struct {
	r, w [tanhSinhDepth][]float64
}

// tanhSinhTables computes the node tables once, on first use. Each level
// halves the step h, and its nodes are the odd multiples of h, so the levels
// together form the nodes of the finest step.
var tanhSinhTables = sync.OnceValue(func() *tanhSinhTable {
	const prec = 128
	newFloat := func() *big.Float { return new(big.Float).SetPrec(prec) }
	one := newFloat().SetInt64(1)
	two := newFloat().SetInt64(2)
	var tab tanhSinhTable
	for i := range tanhSinhDepth {
		h := newFloat().SetMantExp(one, -i)
		eh := bigfloat.Exp(newFloat(), h)
		t := newFloat().Set(eh)
		if i > 0 {
			eh.Mul(eh, eh)
		}
		n := tanhSinhCounts[i]
		tab.r[i] = make([]float64, n)
		tab.w[i] = make([]float64, n)
		for j := range n {
			inv := newFloat().Quo(one, t)
			u := bigfloat.Exp(newFloat(), newFloat().Sub(inv, t))
			u1 := newFloat().Add(one, u)
			d := newFloat().Mul(two, u)
			d.Quo(d, u1)
			tab.r[i][j], _ = d.Float64()
			w := newFloat().Add(inv, t)
			w.Mul(w, d)
			w.Quo(w, u1)
			tab.w[i][j], _ = w.Float64()
			t.Mul(t, eh)
		}
	}
	return &tab
})
