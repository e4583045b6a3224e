package units

import (
	"math"
	"sync"
)

// System selects between the US customary and British imperial definitions of
// units which share a name, such as gal and ton.
type System int8

const (
	UK System = iota
	US
)

func (s System) String() string {
	if s == US {
		return "US"
	}
	return "UK"
}

func (s System) suffix() string {
	if s == US {
		return "_US"
	}
	return "_UK"
}

// variantNames are the units defined differently in the US and UK systems.
var variantNames = []string{
	"therm", "cwt", "ton", "fl_oz", "gi", "pt", "qt", "gal", "bbl", "pk", "bu", "tonf",
}

// Registry is a table of named units. A Registry is not modified after
// construction and is safe for concurrent use.
type Registry struct {
	sys        System
	units      map[string]*Unit
	force      [9]*Unit
	forceUS    [9]*Unit
	electrical []*Unit
}

var defaults = [...]func() *Registry{
	UK: sync.OnceValue(func() *Registry { return NewRegistry(UK) }),
	US: sync.OnceValue(func() *Registry { return NewRegistry(US) }),
}

// Default returns a shared registry for a unit system.
func Default(sys System) *Registry {
	return defaults[sys]()
}

// System returns the unit system of the registry.
func (r *Registry) System() System { return r.sys }

// Get looks up a unit by name. Names are case sensitive.
func (r *Registry) Get(name string) (*Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Must is like Get but panics if the unit does not exist.
func (r *Registry) Must(name string) *Unit {
	u, ok := r.units[name]
	if !ok {
		panic("units: no unit named " + name)
	}
	return u
}

// Len returns the number of named units.
func (r *Registry) Len() int { return len(r.units) }

// NewRegistry builds the table of named units for a system.
func NewRegistry(sys System) *Registry {
	r := &Registry{sys: sys}

	g := New("kg", 1).Scaled("g", 0.001)
	m := New("m", 0, 1)
	mi := m.Scaled("mi", 1609.344)
	nmi := m.Scaled("nmi", 1852)
	m2 := m.Raise(2)
	a := m2.Scaled("a", 100)
	L := m.Shift(-1).Raise(3).Named("L")
	s := New("s", 0, 0, 1)
	h := s.Scaled("h", 3600)
	deg := New("°C", 0, 0, 0, 0, 1)
	A := New("A", 0, 0, 0, 1)
	N := New("N", 1, 1, -2)
	kN := N.Shift(3)
	Nm := New("Nm", 1, 2, -2)
	kNm := Nm.Shift(3)
	Hz := New("Hz", 0, 0, -1)
	Pa := New("Pa", 1, -1, -2)
	kPa := Pa.Shift(3)
	J := New("J", 1, 2, -2)
	W := New("W", 1, 2, -3)
	C := New("C", 0, 0, 1, 1)
	V := New("V", 1, 2, -3, -1)
	F := New("F", -1, -2, 4, 2)
	Ohm := New("Ω", 1, 2, -3, -2)
	S := New("S", -1, -2, 3, 2)
	Wb := New("Wb", 1, 2, -2, -1)
	T := New("T", 1, 0, -2, -1)
	H := New("H", 1, 2, -2, -2)
	Bq := New("Bq", 0, 0, -1)
	Gy := New("Gy", 0, 2, -2)
	Sv := New("Sv", 0, 2, -2)

	lbm := g.Scaled("lb", 453.59237)
	kipm := g.Scaled("kipm", 453592.37)
	lbf := N.Scaled("lbf", 4.4482216153)
	kipf := N.Scaled("kip", 4448.2216153)
	ksi := Pa.Scaled("ksi", 6894757.29322959)

	mul := func(a, b *Unit) *Unit { u, _ := Multiply(a, b, false); return u }
	div := func(a, b *Unit) *Unit { u, _ := Divide(a, b, false); return u }

	r.force = [9]*Unit{
		mul(kN, m.Raise(-4)).Named("kN/m^4"),
		mul(kN, m.Raise(-3)).Named("kN/m^3"),
		kPa,
		mul(kN, m.Raise(-1)).Named("kN/m"),
		kN,
		kNm,
		mul(kN, m.Raise(2)).Named("kN·m^2"),
		mul(kN, m.Raise(3)).Named("kN·m^3"),
		mul(kN, m.Raise(4)).Named("kN·m^4"),
	}
	r.forceUS = [9]*Unit{
		mul(kipf, m.Raise(-4)).Scaled("kip/in^4", 1/4.162314256e-7),
		mul(kipf, m.Raise(-3)).Scaled("kip/in^3", 1/0.000016387064),
		ksi,
		mul(kipf, m.Raise(-1)).Scaled("kip/ft", 1/0.3048),
		kipf,
		mul(kipf, m).Scaled("kip·ft", 0.3048),
		mul(kipf, m.Raise(2)).Scaled("kip·ft^2", 0.09290304),
		mul(kipf, m.Raise(3)).Scaled("kip·ft^3", 0.028316846592),
		mul(kipf, m.Raise(4)).Scaled("kip·ft^4", 0.0086309748412416),
	}
	r.electrical = []*Unit{S, F, C, T, Ohm, V, W, H, Wb}

	u := make(map[string]*Unit, 512)
	add := func(units ...*Unit) {
		for _, x := range units {
			u[x.name] = x
		}
	}
	// prefixed adds a unit with the prefixes in ns.
	prefixed := func(x *Unit, ns ...int) {
		add(x)
		for _, n := range ns {
			add(x.Shift(n))
		}
	}
	si := []int{3, 6, 9, 12, -3, -6, -9, -12}

	// mass
	add(g, g.Shift(1), g.Shift(2), g.Shift(3),
		g.Scaled("t", 1e6), g.Scaled("kt", 1e9), g.Scaled("Mt", 1e12), g.Scaled("Gt", 1e15),
		g.Shift(-1), g.Shift(-2), g.Shift(-3), g.Shift(-6), g.Shift(-9), g.Shift(-12),
		g.Scaled("Da", 1.6605390666050505e-24), g.Scaled("u", 1.6605390666050505e-24),
		g.Scaled("gr", 0.06479891), g.Scaled("dr", 1.7718451953125), g.Scaled("oz", 28.349523125),
		lbm, lbm.Alias("lbm"), lbm.Alias("lb_m"),
		kipm, kipm.Alias("kip_m"), kipm.Alias("klb"),
		g.Scaled("st", 6350.29318), g.Scaled("qr", 12700.58636),
		g.Scaled("cwt_US", 45359.237), g.Scaled("cwt_UK", 50802.34544),
		g.Scaled("ton_US", 907184.74), g.Scaled("ton_UK", 1016046.9088),
		g.Scaled("slug", 14593.90294),
	)

	// length
	add(m, m.Shift(3), m.Shift(-1), m.Shift(-2), m.Shift(-3), m.Shift(-6), m.Shift(-9), m.Shift(-12),
		m.Scaled("AU", 149597870700), m.Scaled("ly", 9460730472580800),
		m.Scaled("th", 2.54e-05), m.Scaled("in", 0.0254), m.Scaled("ft", 0.3048),
		m.Scaled("yd", 0.9144), m.Scaled("ch", 20.1168), m.Scaled("fur", 201.168), mi,
		m.Scaled("ftm", 1.8288), m.Scaled("ftm_UK", 1.852), m.Scaled("ftm_US", 1.8288),
		m.Scaled("cable", 182.88), m.Scaled("cable_UK", 185.2), m.Scaled("cable_US", 219.456),
		nmi, m.Scaled("li", 0.201168), m.Scaled("rod", 5.0292), m.Scaled("pole", 5.0292),
		m.Scaled("perch", 5.0292), m.Scaled("lea", 4828.032),
	)

	// area and volume
	add(a, a.Scaled("daa", 10), a.Scaled("ha", 100),
		L, L.Shift(-1), L.Shift(-2), L.Shift(-3), L.Shift(-6), L.Shift(-9), L.Shift(-12),
		L.Scaled("daL", 10), L.Scaled("hL", 100),
		m2.Scaled("rood", 1011.7141056), m2.Scaled("ac", 4046.8564224),
		L.Scaled("fl_dr_UK", 3.5516328125e-3), L.Scaled("fl_oz_UK", 0.0284130625),
		L.Scaled("gi_UK", 0.1420653125), L.Scaled("pt_UK", 0.56826125),
		L.Scaled("qt_UK", 1.1365225), L.Scaled("gal_UK", 4.54609),
		L.Scaled("bbl_UK", 163.65924), L.Scaled("pk_UK", 9.09218), L.Scaled("bu_UK", 36.36872),
		L.Scaled("fl_dr_US", 3.6966911953125e-3), L.Scaled("fl_oz_US", 0.0295735295625),
		L.Scaled("gi_US", 0.11829411825), L.Scaled("pt_US", 0.473176473),
		L.Scaled("qt_US", 0.946352946), L.Scaled("gal_US", 3.785411784),
		L.Scaled("bbl_US", 119.240471196),
		L.Scaled("pt_dry", 0.5506104713575), L.Scaled("qt_dry", 1.101220942715),
		L.Scaled("gal_dry", 4.40488377086), L.Scaled("bbl_dry", 115.628198985075),
		L.Scaled("pk_US", 8.80976754172), L.Scaled("bu_US", 35.23907016688),
	)

	// time, speed and frequency
	add(s, s.Shift(-3), s.Shift(-6), s.Shift(-9), s.Shift(-12),
		s.Scaled("min", 60), h, h.Scaled("d", 24), h.Scaled("w", 7*24), h.Scaled("y", 365*24),
		div(m.Shift(3), h).Named("kmh"), div(mi, h).Named("mph"), div(nmi, h).Named("knot"),
		Hz.Scaled("rpm", 1.0/60),
	)
	prefixed(Hz, si...)

	// current
	prefixed(A, si...)
	add(mul(A, h).Named("Ah"), mul(A.Shift(-3), h).Named("mAh"))

	// temperature
	K := deg.Scaled("K", 1)
	K.tempChar = 'K'
	degF := deg.Scaled("°F", 5.0/9)
	degF.tempChar = 'F'
	dF := deg.Scaled("Δ°F", 5.0/9)
	dF.tempChar = 'F'
	degR := deg.Scaled("°R", 5.0/9)
	degR.tempChar = 'R'
	add(deg.Scaled("°C", 1), deg.Scaled("Δ°C", 1), K, degF, dF, degR)

	add(New("mol", 0, 0, 0, 0, 0, 1), New("cd", 0, 0, 0, 0, 0, 0, 1))

	// force
	add(N, N.Shift(1), N.Shift(2), kN, N.Shift(6), N.Shift(9), N.Shift(12), Nm, kNm,
		N.Scaled("gf", 0.00980665), N.Scaled("kgf", 9.80665), N.Scaled("tf", 9806.65),
		N.Scaled("dyn", 1e-5), N.Scaled("ozf", 0.278013851), lbf, kipf, kipf.Alias("kipf"),
		N.Scaled("tonf_US", 8896.443230521), N.Scaled("tonf_UK", 9964.01641818352),
		N.Scaled("pdl", 0.138254954376),
		N.Scaled("oz_f", 0.278013851), lbf.Alias("lb_f"), kipf.Alias("kip_f"),
	)

	// pressure and viscosity
	add(Pa, Pa.Shift(1), Pa.Shift(2), kPa, Pa.Shift(6), Pa.Shift(9), Pa.Shift(12),
		Pa.Shift(-1), Pa.Shift(-2), Pa.Shift(-3), Pa.Shift(-6), Pa.Shift(-9), Pa.Shift(-12),
		Pa.Scaled("bar", 100000), Pa.Scaled("mbar", 100), Pa.Scaled("μbar", 0.1),
		Pa.Scaled("atm", 101325), Pa.Scaled("mmHg", 133.322387415),
		Pa.Scaled("at", 98066.5), Pa.Scaled("Torr", 133.32236842),
		Pa.Scaled("osi", 430.922330894662), Pa.Scaled("osf", 2.99251618676848),
		Pa.Scaled("psi", 6894.75729322959), ksi, Pa.Scaled("tsi", 15444256.3366971),
		Pa.Scaled("psf", 47.880258980761), Pa.Scaled("ksf", 47880.258980761),
		Pa.Scaled("tsf", 107251.780115952), Pa.Scaled("inHg", 3386.389),
		mul(Pa, s).Scaled("P", 0.1), mul(Pa, s).Scaled("cP", 0.001),
		div(m2, s).Scaled("St", 0.0001), div(m2, s).Scaled("cSt", 0.000001),
	)

	// energy
	prefixed(J, si...)
	for _, n := range []int{0, 3, 6, 9, 12, -3, -6, -9, -12} {
		add(J.Scaled(Prefix(n)+"Wh", 3.6e3*PrefixScale(n)))
	}
	const eV = 1.6021773300241367e-19
	for _, n := range []int{0, 3, 6, 9, 12, 15, 18} {
		add(J.Scaled(Prefix(n)+"eV", eV*PrefixScale(n)))
	}
	add(J.Scaled("erg", 1e-7), J.Scaled("BTU", 1055.05585262),
		J.Scaled("therm_US", 1054.804e+5), J.Scaled("therm_UK", 1055.05585262e+5),
		J.Scaled("quad", 1055.05585262e+15), J.Scaled("cal", 4.1868), J.Scaled("kcal", 4186.8),
	)

	// power
	prefixed(W, si...)
	for _, n := range []int{0, 3, 6, 9, 12, -3, -6, -9, -12} {
		add(W.Scaled(Prefix(n)+"VA", PrefixScale(n)), W.Scaled(Prefix(n)+"VAR", PrefixScale(n)))
	}
	add(W.Scaled("hp", 745.69987158227022), W.Scaled("hp_M", 735.49875), W.Scaled("ks", 735.49875),
		W.Scaled("hp_E", 746), W.Scaled("hp_S", 9812.5))

	// electromagnetism
	for _, x := range []*Unit{C, V, F, Ohm, S, Wb, T, H} {
		prefixed(x, si...)
	}
	for _, n := range []int{0, 3, 6, 9, 12, -3, -6, -9, -12} {
		add(S.Scaled(Prefix(n)+"℧", PrefixScale(n)))
	}

	// radiation
	prefixed(Bq, si...)
	add(Bq.Scaled("Ci", 3.7e10), Bq.Scaled("Rd", 1e6))
	prefixed(Gy, si...)
	prefixed(Sv, si...)

	// light and catalysis
	add(New("lm", 0, 0, 0, 0, 0, 0, 1), New("lx", 0, -2, 0, 0, 0, 0, 1), New("kat", 0, 0, -1, 0, 0, 1))

	// angles
	rad := New("rad", 0, 0, 0, 0, 0, 0, 0, 1)
	degree := rad.Scaled("°", math.Pi/180)
	add(rad, degree, degree.Alias("deg"),
		rad.Scaled("′", math.Pi/10800), rad.Scaled("″", math.Pi/648000),
		rad.Scaled("grad", math.Pi/200), rad.Scaled("rev", 2*math.Pi),
	)

	for _, name := range variantNames {
		add(u[name+sys.suffix()].Alias(name))
	}
	add(u["tonf"].Alias("ton_f"))

	r.units = u
	return r
}

// Field is the family of quantities a unit belongs to, used to choose a
// display unit for results without explicit units.
type Field int8

const (
	Other Field = iota
	Mechanical
	Electrical
)

// Field classifies u. A force-like unit (kg·m^k/s^2) is mechanical only if its
// text was not chosen explicitly, or if the text involves seconds.
func (u *Unit) Field() Field {
	switch u.len() {
	case 3:
		if u.powers[Mass] != 1 {
			break
		}
		switch u.powers[Time] {
		case -2:
			if u.name == "" || containsByte(u.name, 's') {
				return Mechanical
			}
		case -3:
			if u.powers[Length] == 2 {
				return Electrical
			}
		}
	case 4:
		if u.powers[Current] != 0 {
			return Electrical
		}
	}
	return Other
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

// ForceUnit returns the conventional force unit for u, which must be
// mechanical: kN-based if u's mass scale is metric, otherwise kip-based. Units
// with length exponents outside [-3, 5] are returned unchanged.
func (r *Registry) ForceUnit(u *Unit) *Unit {
	i := int(u.powers[Length]) + 3
	if i < 0 || i >= len(r.force) {
		return u
	}
	if math.Mod(u.factors[Mass], 1) == 0 {
		return r.force[i]
	}
	return r.forceUS[i]
}

// ElectricalUnit returns the named electrical unit equal to u, if there is one.
// Units explicitly written as volt-amperes keep their names.
func (r *Registry) ElectricalUnit(u *Unit) *Unit {
	if len(u.name) >= 2 && u.name[:2] == "VA" {
		return u
	}
	for _, e := range r.electrical {
		if u.Equal(e) {
			return e
		}
	}
	return u
}
