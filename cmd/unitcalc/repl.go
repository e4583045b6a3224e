package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	prompt  = "> "
	escBold = "\x1b[1m"
	escNorm = "\x1b[0m"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `repl reads expressions interactively. Variables and functions persist for
the session. Interrupt stops a long calculation; "clear" empties the function
caches and "exit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) repl(in io.Reader, out io.Writer) error {
	p, err := newParser(a.cfg, a.log.WithField("file", "repl"))
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          escBold + prompt + escNorm,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(in),
		Stdout:          out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	// Interrupts during a calculation cancel it rather than the session.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		for range sig {
			p.Cancel()
		}
	}()

	for n := 1; ; n++ {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			p.ClearCache()
			continue
		}
		r := evalLine(p, n, line, a.cfg.Echo)
		if r.interrupted {
			a.log.WithField("expr", line).Debug("calculation interrupted")
			p.Resume()
			p.ResetStack()
		}
		writeAnswer(rl.Stdout(), r)
	}
}

// writeAnswer prints a result under the prompt.
func writeAnswer(w io.Writer, r result) {
	switch {
	case r.Error != "" && r.Col > 0:
		fmt.Fprintf(w, "%*s^ %s\n", len(prompt)+r.Col-1, "", r.Error)
	case r.Error != "":
		fmt.Fprintf(w, "%s\n", r.Error)
	case r.Defined:
		fmt.Fprintln(w, "defined")
	default:
		fmt.Fprintf(w, "%s%s%s\n", escBold, r.Value, escNorm)
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "unitcalc")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
