package main

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/plotter"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/unitcalc"
	"github.com/zephyrtronium/unitcalc/units"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testApp(t *testing.T, cfgText string) *app {
	t.Helper()
	cfg, err := loadConfig(viper.New(), writeFile(t, "unitcalc.yaml", cfgText))
	if err != nil {
		t.Fatalf("couldn't load config: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &app{cfg: cfg, log: log}
}

func TestLoadConfig(t *testing.T) {
	vars := writeFile(t, "vars.yaml", "L: 2 m\nA: L^2 | m^2\n")
	a := testApp(t, "decimals: 3\nunits: us\nquadrature: tanhsinh\nlog:\n  level: debug\nvars: "+vars+"\n")
	cfg := a.cfg
	if cfg.Decimals != 3 {
		t.Errorf("decimals should be 3, got %d", cfg.Decimals)
	}
	if sys, err := cfg.system(); err != nil || sys != units.US {
		t.Errorf("system should be US, got %v (%v)", sys, err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level should be debug, got %q", cfg.Log.Level)
	}
	if cfg.Output != "text" {
		t.Errorf("output should default to text, got %q", cfg.Output)
	}
	want := []varDef{{"L", "2 m"}, {"A", "L^2 | m^2"}}
	if len(cfg.defs) != len(want) {
		t.Fatalf("wrong variables: want %v, got %v", want, cfg.defs)
	}
	for i, d := range want {
		if cfg.defs[i] != d {
			t.Errorf("variable %d: want %v, got %v", i, d, cfg.defs[i])
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"units", "units: metric\n"},
		{"quadrature", "quadrature: simpson\n"},
		{"output", "output: xml\n"},
		{"decimals", "decimals: 40\n"},
		{"precision", "precision: -1\n"},
		{"vars", "vars: /nonexistent/vars.yaml\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := loadConfig(viper.New(), writeFile(t, "unitcalc.yaml", c.text))
			if err == nil {
				t.Errorf("%q should be rejected", c.text)
			}
		})
	}
	t.Run("missing", func(t *testing.T) {
		_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Error("missing explicit config file should be an error")
		}
	})
}

func TestLoadVars(t *testing.T) {
	if _, err := loadVars(writeFile(t, "vars.yaml", "- 1\n- 2\n")); err == nil {
		t.Error("a sequence of variables should be rejected")
	}
	if _, err := loadVars(writeFile(t, "vars.yaml", "a:\n  b: 1\n")); err == nil {
		t.Error("a nested mapping should be rejected")
	}
	defs, err := loadVars(writeFile(t, "vars.yaml", ""))
	if err != nil || len(defs) != 0 {
		t.Errorf("empty file should define nothing, got %v (%v)", defs, err)
	}
}

func TestNewParser(t *testing.T) {
	a := testApp(t, "decimals: 2\n")
	a.cfg.defs = []varDef{{"L", "2 m"}, {"A", "L^2 | m^2"}}
	p, err := newParser(a.cfg, a.log)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := p.Variable("A"); !ok || math.Abs(v.Re()-4) > 1e-12 {
		t.Errorf("A should be 4, got %v", v.Re())
	}
	a.cfg.defs = []varDef{{"bad", "2 +"}}
	if _, err := newParser(a.cfg, a.log); err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("bad variable should fail naming it, got %v", err)
	}
}

func TestEvalDocument(t *testing.T) {
	a := testApp(t, "")
	doc := `L = 2 m
w = 50 cm

A = L*w | m^2
f(x) = x^2
f(3)
3 kg + 2 m
1 & 2`
	d, err := a.evalDocument(context.Background(), "doc", strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := []result{
		{Line: 1, Expr: "L = 2 m", Value: "2 m"},
		{Line: 2, Expr: "w = 50 cm", Value: "50 cm"},
		{Line: 4, Expr: "A = L*w | m^2", Value: "1 m^2"},
		{Line: 5, Expr: "f(x) = x^2", Defined: true},
		{Line: 6, Expr: "f(3)", Value: "9"},
	}
	if len(d.Results) != len(want)+2 {
		t.Fatalf("wrong number of results: %+v", d.Results)
	}
	for i, r := range want {
		if d.Results[i] != r {
			t.Errorf("line %d: want %+v, got %+v", r.Line, r, d.Results[i])
		}
	}
	if r := d.Results[5]; r.Error == "" {
		t.Errorf("inconsistent units should fail, got %+v", r)
	}
	if r := d.Results[6]; r.Error == "" || r.Col != 3 {
		t.Errorf("invalid symbol should fail at column 3, got %+v", r)
	}
}

func TestEvalDocumentCanceled(t *testing.T) {
	a := testApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.evalDocument(ctx, "doc", strings.NewReader("1 + 1\n"))
	if err != context.Canceled {
		t.Errorf("canceled document should fail with context.Canceled, got %v", err)
	}
}

func TestEvalFiles(t *testing.T) {
	a := testApp(t, "")
	f1 := writeFile(t, "one.txt", "b = 1\nb*2\n")
	f2 := writeFile(t, "two.txt", "b = 5\nb*2\n")
	docs, err := a.evalFiles(context.Background(), []string{f1, f2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}
	for i, want := range []string{"2", "10"} {
		r := docs[i].Results
		if len(r) != 2 || r[1].Value != want {
			t.Errorf("document %d: want b*2 = %s, got %+v", i, want, r)
		}
	}
	if _, err := a.evalFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, nil); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestEvalFilesStdin(t *testing.T) {
	a := testApp(t, "")
	f := writeFile(t, "one.txt", "1 + 1\n")
	docs, err := a.evalFiles(context.Background(), []string{f, "-"}, strings.NewReader("2*3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[1].Name != "-" || len(docs[1].Results) != 1 || docs[1].Results[0].Value != "6" {
		t.Errorf("stdin should give 2*3 = 6, got %+v", docs)
	}
	if _, err := a.evalFiles(context.Background(), []string{"-", f, "-"}, strings.NewReader("1\n")); err == nil {
		t.Error("stdin twice should be an error")
	}
}

func TestWriteText(t *testing.T) {
	a := testApp(t, "")
	docs := []document{{Name: "args", Results: []result{
		{Line: 1, Expr: "1 + 2", Value: "3"},
		{Line: 2, Expr: "f(x) = x", Defined: true},
		{Line: 3, Expr: "1 & 2", Error: "Invalid symbol.", Col: 3},
		{Line: 4, Expr: "qq", Error: "Undefined."},
	}}}
	var b bytes.Buffer
	if err := a.write(&b, docs); err != nil {
		t.Fatal(err)
	}
	want := "1 + 2 = 3\nf(x) = x\n1 & 2\n  ^ Invalid symbol.\nqq: Undefined.\n"
	if got := b.String(); got != want {
		t.Errorf("wrong output:\nwant %q\ngot  %q", want, got)
	}
}

func TestWriteYAML(t *testing.T) {
	a := testApp(t, "output: yaml\n")
	d, err := a.argsDocument(context.Background(), []string{"5 m/2 s", "2 +"})
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := a.write(&b, []document{d}); err != nil {
		t.Fatal(err)
	}
	var got []document
	if err := yaml.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("output isn't YAML: %v\n%s", err, b.String())
	}
	if len(got) != 1 || len(got[0].Results) != 2 {
		t.Fatalf("wrong documents: %+v", got)
	}
	if r := got[0].Results[0]; r.Value != "2.5 m/s" {
		t.Errorf("5 m/2 s should be 2.5 m/s, got %+v", r)
	}
	if r := got[0].Results[1]; r.Error == "" {
		t.Errorf("2 + should be an error, got %+v", r)
	}
}

func TestSample(t *testing.T) {
	m := units.Default(units.UK).Must("m")
	p := unitcalc.NewParser()
	x := unitcalc.NewParameter("x")
	fn, err := p.Compile("x*2", x)
	if err != nil {
		t.Fatal(err)
	}
	s := sample(fn, x, m, 0, 2, 3)
	if !units.Consistent(s.units, m) {
		t.Errorf("samples should be lengths, got %v", s.units)
	}
	for i, want := range []float64{0, 2, 4} {
		if pt := s.pts[i]; pt.X != float64(i) || math.Abs(pt.Y-want) > 1e-12 {
			t.Errorf("point %d: want (%d, %g), got %v", i, i, want, pt)
		}
	}
	fn, err = p.Compile("sqrt(x - 1)", x)
	if err != nil {
		t.Fatal(err)
	}
	s = sample(fn, x, nil, 0, 2, 3)
	if !math.IsNaN(s.pts[0].Y) {
		t.Errorf("sqrt(-1) should be undefined, got %g", s.pts[0].Y)
	}
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	s := samples{}
	for i, y := range []float64{0, 1, nan, 3, 4, 5, nan, 7, math.Inf(1)} {
		s.pts = append(s.pts, plotter.XY{X: float64(i), Y: y})
	}
	segs := s.segments()
	if len(segs) != 2 {
		t.Fatalf("want 2 segments, got %v", segs)
	}
	if len(segs[0]) != 2 || len(segs[1]) != 3 || segs[1][0].X != 3 {
		t.Errorf("wrong segments %v", segs)
	}
}

func TestSetupLogger(t *testing.T) {
	log, err := setupLogger("debug", "json")
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level should be debug, got %v", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter should be JSON, got %T", log.Formatter)
	}
	if _, err := setupLogger("loud", "text"); err == nil {
		t.Error("unknown level should be an error")
	}
	if _, err := setupLogger("info", "xml"); err == nil {
		t.Error("unknown format should be an error")
	}
}
