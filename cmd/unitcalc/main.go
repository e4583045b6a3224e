// Unitcalc evaluates engineering expressions with physical units.
//
// With expressions as arguments, unitcalc prints their results. Without
// arguments, it starts an interactive session. Each file given to the eval
// command is a document of one expression per line which shares variables and
// functions from line to line.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app holds the state shared by the commands once the configuration is
// loaded.
type app struct {
	v    *viper.Viper
	cfg  *config
	log  *logrus.Logger
	path string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "unitcalc [expression...]",
		Short: "Calculate with physical units",
		Long: `unitcalc evaluates engineering expressions with physical units, such as
"5 m/2 s" or "36 km/h | m/s". Without arguments, it starts an interactive
session.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.repl(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return a.evalArgs(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.path, "config", "", "config file (default unitcalc.yaml in . or the user config dir)")
	f.Bool("complex", false, "use complex arithmetic")
	f.Bool("degrees", false, "read unitless angles as degrees")
	f.Int("decimals", 6, "decimal places in results")
	f.String("units", "uk", "unit system for gal, ton, etc.: uk or us")
	f.Float64("precision", 0, "relative precision of solvers (default 1e-14)")
	f.String("quadrature", "lobatto", "integration method for $area: lobatto or tanhsinh")
	f.StringP("output", "o", "text", "output format: text or yaml")
	f.String("vars", "", "YAML file of variable definitions")
	f.Bool("echo", false, "print each expression as parsed")
	f.String("log-level", "warn", "log level")
	f.String("log-format", "text", "log format: text or json")
	for _, k := range []string{"complex", "degrees", "decimals", "units", "precision", "quadrature", "output", "vars", "echo"} {
		a.v.BindPFlag(k, f.Lookup(k))
	}
	a.v.BindPFlag("log.level", f.Lookup("log-level"))
	a.v.BindPFlag("log.format", f.Lookup("log-format"))

	root.AddCommand(newEvalCmd(a), newReplCmd(a), newPlotCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := loadConfig(a.v, a.path)
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	log.WithField("config", a.v.ConfigFileUsed()).Debug("loaded config")
	return nil
}
