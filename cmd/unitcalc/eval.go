package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/unitcalc"
)

// result is the outcome of one expression.
type result struct {
	Line    int    `yaml:"line"`
	Expr    string `yaml:"expr"`
	Parsed  string `yaml:"parsed,omitempty"`
	Value   string `yaml:"value,omitempty"`
	Defined bool   `yaml:"defined,omitempty"`
	Error   string `yaml:"error,omitempty"`
	Col     int    `yaml:"col,omitempty"`

	interrupted bool
}

// document is the results of a file or of the command line arguments.
type document struct {
	Name    string   `yaml:"name"`
	Results []result `yaml:"results"`
}

func newEvalCmd(a *app) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions or files of expressions",
		Long: `eval evaluates each argument as an expression, then each file given with -f.
A file holds one expression per line. Variables and functions defined on one
line are available on the following lines of the same file. Files are
evaluated concurrently, each with its own state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, w := cmd.Context(), cmd.OutOrStdout()
			if len(args) == 0 && len(files) == 0 {
				files = []string{"-"}
			}
			var docs []document
			if len(args) > 0 {
				d, err := a.argsDocument(ctx, args)
				if err != nil {
					return err
				}
				docs = append(docs, d)
			}
			fd, err := a.evalFiles(ctx, files, cmd.InOrStdin())
			if err != nil {
				return err
			}
			docs = append(docs, fd...)
			return a.write(w, docs)
		},
	}
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "file of expressions, or - for stdin (repeatable)")
	return cmd
}

// evalArgs evaluates command line arguments as one document.
func (a *app) evalArgs(ctx context.Context, args []string, w io.Writer) error {
	d, err := a.argsDocument(ctx, args)
	if err != nil {
		return err
	}
	return a.write(w, []document{d})
}

func (a *app) argsDocument(ctx context.Context, args []string) (document, error) {
	return a.evalDocument(ctx, "args", strings.NewReader(strings.Join(args, "\n")))
}

// evalFiles evaluates files concurrently. The documents are returned in the
// order of names. Standard input, named -, may appear only once.
func (a *app) evalFiles(ctx context.Context, names []string, stdin io.Reader) ([]document, error) {
	if i := slices.Index(names, "-"); i >= 0 && slices.Contains(names[i+1:], "-") {
		return nil, errors.New("standard input (-) given more than once")
	}
	docs := make([]document, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			var r io.Reader = stdin
			if name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			d, err := a.evalDocument(ctx, name, r)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// evalDocument evaluates the lines of r in order with a fresh parser.
// Expression errors are recorded in the results; the returned error is for
// failures to read or to configure the parser.
func (a *app) evalDocument(ctx context.Context, name string, r io.Reader) (document, error) {
	log := a.log.WithField("file", name)
	p, err := newParser(a.cfg, log)
	if err != nil {
		return document{}, err
	}
	stop := context.AfterFunc(ctx, p.Cancel)
	defer stop()
	d := document{Name: name}
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return d, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		d.Results = append(d.Results, evalLine(p, n, line, a.cfg.Echo))
	}
	if err := sc.Err(); err != nil {
		return d, err
	}
	failed := 0
	for _, r := range d.Results {
		if r.Error != "" {
			failed++
		}
	}
	log.WithFields(logrus.Fields{"expressions": len(d.Results), "failed": failed}).Info("evaluated document")
	return d, nil
}

// evalLine parses and calculates one expression.
func evalLine(p *unitcalc.Parser, n int, line string, echo bool) result {
	r := result{Line: n, Expr: line}
	err := p.Parse(line)
	if err == nil {
		if echo {
			r.Parsed = p.String()
		}
		err = p.Calculate()
	}
	if err != nil {
		r.interrupted = errors.Is(err, unitcalc.ErrInterrupted)
		var e *unitcalc.Error
		if errors.As(err, &e) {
			r.Error, r.Col = e.Message(), e.Pos()
		} else {
			r.Error = err.Error()
		}
		return r
	}
	if p.IsDefinition() {
		r.Defined = true
		return r
	}
	r.Value = p.ResultAsString()
	return r
}

func (a *app) write(w io.Writer, docs []document) error {
	if a.cfg.Output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	}
	bw := bufio.NewWriter(w)
	for _, d := range docs {
		if len(docs) > 1 {
			fmt.Fprintf(bw, "# %s\n", d.Name)
		}
		for _, r := range d.Results {
			writeResult(bw, r)
		}
	}
	return bw.Flush()
}

func writeResult(w io.Writer, r result) {
	expr := r.Expr
	if r.Parsed != "" {
		expr = r.Parsed
	}
	switch {
	case r.Error != "" && r.Col > 0:
		fmt.Fprintf(w, "%s\n%*s^ %s\n", r.Expr, r.Col-1, "", r.Error)
	case r.Error != "":
		fmt.Fprintf(w, "%s: %s\n", r.Expr, r.Error)
	case r.Defined:
		fmt.Fprintf(w, "%s\n", expr)
	default:
		fmt.Fprintf(w, "%s = %s\n", expr, r.Value)
	}
}
