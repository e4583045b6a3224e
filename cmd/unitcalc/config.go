package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/unitcalc"
	"github.com/zephyrtronium/unitcalc/units"
)

type config struct {
	Complex    bool    `mapstructure:"complex"`
	Degrees    bool    `mapstructure:"degrees"`
	Decimals   int     `mapstructure:"decimals"`
	Units      string  `mapstructure:"units"`
	Precision  float64 `mapstructure:"precision"`
	Quadrature string  `mapstructure:"quadrature"`
	Output     string  `mapstructure:"output"`
	Vars       string  `mapstructure:"vars"`
	Echo       bool    `mapstructure:"echo"`
	Log        struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	// defs are the variable definitions read from the vars file, in order.
	defs []varDef
}

// varDef is a variable defined by an expression, as in "L: 2 m".
type varDef struct {
	name string
	expr string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("complex", false)
	v.SetDefault("degrees", false)
	v.SetDefault("decimals", 6)
	v.SetDefault("units", "uk")
	v.SetDefault("precision", 0)
	v.SetDefault("quadrature", "lobatto")
	v.SetDefault("output", "text")
	v.SetDefault("vars", "")
	v.SetDefault("echo", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// loadConfig reads the configuration from path, or from unitcalc.yaml in the
// working directory or the user config directory when path is empty. A missing
// default file is not an error.
func loadConfig(v *viper.Viper, path string) (*config, error) {
	setDefaults(v)
	v.SetEnvPrefix("UNITCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("unitcalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + "/unitcalc")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("couldn't read config: %w", err)
		}
	}
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Vars != "" {
		defs, err := loadVars(cfg.Vars)
		if err != nil {
			return nil, err
		}
		cfg.defs = defs
	}
	return &cfg, nil
}

func (cfg *config) validate() error {
	if _, err := cfg.system(); err != nil {
		return err
	}
	if _, ok := unitcalc.ParseQuadrature(cfg.Quadrature); !ok {
		return fmt.Errorf("unknown quadrature %q, want lobatto or tanhsinh", cfg.Quadrature)
	}
	switch cfg.Output {
	case "text", "yaml":
	default:
		return fmt.Errorf("unknown output format %q, want text or yaml", cfg.Output)
	}
	if cfg.Decimals < 0 || cfg.Decimals > 15 {
		return fmt.Errorf("decimals (%d) must be between 0 and 15", cfg.Decimals)
	}
	if cfg.Precision < 0 {
		return fmt.Errorf("precision (%g) must not be negative", cfg.Precision)
	}
	return nil
}

func (cfg *config) system() (units.System, error) {
	switch strings.ToLower(cfg.Units) {
	case "uk", "":
		return units.UK, nil
	case "us":
		return units.US, nil
	}
	return units.UK, fmt.Errorf("unknown unit system %q, want uk or us", cfg.Units)
}

// loadVars reads a YAML mapping of variable names to expressions. The
// definitions keep the order of the file so that later ones may refer to
// earlier ones.
func loadVars(path string) ([]varDef, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read variables: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("couldn't parse variables in %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d: variables must be a mapping of names to expressions", path, m.Line)
	}
	defs := make([]varDef, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s:%d: value of %s must be an expression", path, v.Line, k.Value)
		}
		defs = append(defs, varDef{name: k.Value, expr: v.Value})
	}
	return defs, nil
}

// newParser creates a parser configured by cfg with the variables of the vars
// file defined.
func newParser(cfg *config, log logrus.FieldLogger) (*unitcalc.Parser, error) {
	sys, err := cfg.system()
	if err != nil {
		return nil, err
	}
	quad, _ := unitcalc.ParseQuadrature(cfg.Quadrature)
	opts := []unitcalc.Option{
		unitcalc.Complex(cfg.Complex),
		unitcalc.Degrees(cfg.Degrees),
		unitcalc.Decimals(cfg.Decimals),
		unitcalc.Registry(units.Default(sys)),
		unitcalc.Quadrature(quad),
		unitcalc.Logger(log),
	}
	if cfg.Precision > 0 {
		opts = append(opts, unitcalc.SetVar("Precision", unitcalc.Real(cfg.Precision)))
	}
	p := unitcalc.NewParser(opts...)
	for _, d := range cfg.defs {
		if err := p.Parse(d.name + " = " + d.expr); err != nil {
			return nil, fmt.Errorf("variable %s: %w", d.name, err)
		}
		if err := p.Calculate(); err != nil {
			return nil, fmt.Errorf("variable %s: %w", d.name, err)
		}
		log.WithFields(logrus.Fields{"var": d.name, "value": p.ResultAsString()}).Debug("defined variable")
	}
	return p, nil
}

// setupLogger creates the command's logger, writing to stderr.
func setupLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, fmt.Errorf("unknown log format %q, want text or json", format)
	}
	return log, nil
}
