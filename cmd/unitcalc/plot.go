package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/zephyrtronium/unitcalc"
	"github.com/zephyrtronium/unitcalc/units"
)

type plotOptions struct {
	name     string
	from, to string
	samples  int
	out      string
	width    string
	height   string
	title    string
}

func newPlotCmd(a *app) *cobra.Command {
	var o plotOptions
	cmd := &cobra.Command{
		Use:   "plot expression",
		Short: "Plot an expression of one variable",
		Long: `plot draws an expression of one variable over an interval and saves the
image. The format follows the extension of the output file, e.g. png, svg, or
pdf. The bounds are expressions too and may carry units, as in
--from "0 m" --to "2 km".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plot(args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.name, "var", "x", "name of the variable")
	f.StringVar(&o.from, "from", "0", "start of the interval")
	f.StringVar(&o.to, "to", "1", "end of the interval")
	f.IntVar(&o.samples, "samples", 200, "number of points")
	f.StringVarP(&o.out, "out", "O", "plot.png", "output file")
	f.StringVar(&o.width, "width", "16cm", "image width")
	f.StringVar(&o.height, "height", "10cm", "image height")
	f.StringVar(&o.title, "title", "", "plot title (default the expression)")
	return cmd
}

func (a *app) plot(expr string, o plotOptions) error {
	if o.samples < 2 {
		return fmt.Errorf("samples (%d) must be at least 2", o.samples)
	}
	w, err := vg.ParseLength(o.width)
	if err != nil {
		return fmt.Errorf("bad width: %w", err)
	}
	h, err := vg.ParseLength(o.height)
	if err != nil {
		return fmt.Errorf("bad height: %w", err)
	}
	p, err := newParser(a.cfg, a.log.WithField("file", "plot"))
	if err != nil {
		return err
	}
	lo, err := evalBound(p, o.from)
	if err != nil {
		return fmt.Errorf("bad start %q: %w", o.from, err)
	}
	hi, err := evalBound(p, o.to)
	if err != nil {
		return fmt.Errorf("bad end %q: %w", o.to, err)
	}
	if !units.Consistent(lo.Units, hi.Units) {
		return fmt.Errorf("bounds %s and %s have inconsistent units", units.TextOf(lo.Units), units.TextOf(hi.Units))
	}
	x1, x2 := lo.Re(), hi.Re()
	if hi.Units != nil {
		x2 *= hi.Units.ConvertTo(lo.Units)
	}

	param := unitcalc.NewParameter(o.name)
	p.SetPlotting(true)
	fn, err := p.Compile(expr, param)
	if err != nil {
		return err
	}
	s := sample(fn, param, lo.Units, x1, x2, o.samples)
	a.log.WithField("points", len(s.pts)).WithField("segments", len(s.segments())).Debug("sampled expression")

	pl := plot.New()
	pl.Title.Text = o.title
	if pl.Title.Text == "" {
		pl.Title.Text = expr
	}
	pl.X.Label.Text = axisLabel(o.name, lo.Units)
	pl.Y.Label.Text = axisLabel("", s.units)
	pl.Add(plotter.NewGrid())
	for _, seg := range s.segments() {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		pl.Add(l)
	}
	if err := pl.Save(w, h, o.out); err != nil {
		return err
	}
	a.log.WithField("out", o.out).Info("saved plot")
	return nil
}

func evalBound(p *unitcalc.Parser, expr string) (unitcalc.Value, error) {
	if err := p.Parse(expr); err != nil {
		return unitcalc.Value{}, err
	}
	if err := p.Calculate(); err != nil {
		return unitcalc.Value{}, err
	}
	return p.Result(), nil
}

// samples is an expression evaluated at evenly spaced points. Points where
// the expression has no real value are NaN.
type samples struct {
	pts   plotter.XYs
	units *units.Unit
}

func sample(fn func() (unitcalc.Value, error), param *unitcalc.Parameter, u *units.Unit, x1, x2 float64, n int) samples {
	s := samples{pts: make(plotter.XYs, n)}
	for i := range s.pts {
		x := x1 + (x2-x1)*float64(i)/float64(n-1)
		param.Set(unitcalc.Quantity(x, u))
		y := math.NaN()
		if r, err := fn(); err == nil && r.IsReal() {
			if s.units == nil {
				s.units = r.Units
			}
			if units.Consistent(r.Units, s.units) {
				y = r.Re()
				if r.Units != nil {
					y *= r.Units.ConvertTo(s.units)
				}
			}
		}
		s.pts[i] = plotter.XY{X: x, Y: y}
	}
	return s
}

// segments splits the samples at undefined points into runs of at least two
// points which can be drawn as lines.
func (s samples) segments() []plotter.XYs {
	var r []plotter.XYs
	start := 0
	for i := 0; i <= len(s.pts); i++ {
		if i < len(s.pts) && !math.IsNaN(s.pts[i].Y) && !math.IsInf(s.pts[i].Y, 0) {
			continue
		}
		if i-start >= 2 {
			r = append(r, s.pts[start:i])
		}
		start = i + 1
	}
	return r
}

func axisLabel(name string, u *units.Unit) string {
	if u == nil {
		return name
	}
	if name == "" {
		return u.Text()
	}
	return name + ", " + u.Text()
}
