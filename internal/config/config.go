// Package config loads probekit settings from an optional probekit.yaml,
// PROBEKIT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"probekit/internal/blast"
	"probekit/internal/design"
	perrors "probekit/internal/errors"
	"probekit/internal/thermo"
)

// Settings is the resolved configuration of one run.
type Settings struct {
	Design  DesignSettings  `mapstructure:"design"`
	Batch   BatchSettings   `mapstructure:"batch"`
	Blast   BlastSettings   `mapstructure:"blast"`
	Log     LogSettings     `mapstructure:"log"`
	Metrics MetricsSettings `mapstructure:"metrics"`
	Store   StoreSettings   `mapstructure:"store"`
}

type DesignSettings struct {
	ProbeLength    int     `mapstructure:"probe_length"`
	MinGC          float64 `mapstructure:"min_gc"`
	MaxGC          float64 `mapstructure:"max_gc"`
	MinTm          float64 `mapstructure:"min_tm"`
	MaxTm          float64 `mapstructure:"max_tm"`
	Spacing        int     `mapstructure:"spacing"`
	MinComplexity  float64 `mapstructure:"min_complexity"`
	FilterRepeats  bool    `mapstructure:"filter_repeats"`
	MaxHomopolymer int     `mapstructure:"max_homopolymer"`
	TmMethod       string  `mapstructure:"tm_method"`
}

type BatchSettings struct {
	TmMethod     string        `mapstructure:"tm_method"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type BlastSettings struct {
	Executable    string        `mapstructure:"executable"`
	DB            string        `mapstructure:"db"`
	EValue        float64       `mapstructure:"evalue"`
	MaxTargetSeqs int           `mapstructure:"max_target_seqs"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

type MetricsSettings struct {
	File string `mapstructure:"file"` // textfile export path; empty disables
}

type StoreSettings struct {
	DSN string `mapstructure:"dsn"` // sqlite path; empty disables
}

// EnvPrefix prefixes every environment override, e.g. PROBEKIT_DESIGN_SPACING.
const EnvPrefix = "PROBEKIT"

// New returns a viper instance with defaults, search paths and env binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("probekit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "probekit"))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	d := design.DefaultParams()
	v.SetDefault("design.probe_length", d.ProbeLength)
	v.SetDefault("design.min_gc", d.MinGC)
	v.SetDefault("design.max_gc", d.MaxGC)
	v.SetDefault("design.min_tm", d.MinTm)
	v.SetDefault("design.max_tm", d.MaxTm)
	v.SetDefault("design.spacing", d.Spacing)
	v.SetDefault("design.min_complexity", d.MinComplexity)
	v.SetDefault("design.filter_repeats", d.FilterRepeats)
	v.SetDefault("design.max_homopolymer", d.MaxHomopolymer)
	v.SetDefault("design.tm_method", d.TmMethod.String())

	v.SetDefault("batch.tm_method", thermo.MethodSantaLucia.String())
	v.SetDefault("batch.poll_interval", 500*time.Millisecond)

	b := blast.DefaultConfig()
	v.SetDefault("blast.executable", b.Executable)
	v.SetDefault("blast.db", "")
	v.SetDefault("blast.evalue", b.EValue)
	v.SetDefault("blast.max_target_seqs", b.MaxTargetSeqs)
	v.SetDefault("blast.timeout", time.Duration(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.file", "")
	v.SetDefault("store.dsn", "")
}

// Load reads the config file (configFile, or probekit.yaml on the search
// path when empty), decodes and validates the settings.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &nf) {
			return nil, perrors.New(fmt.Errorf("reading config: %w", err)).
				Component("config").
				Category(perrors.CategoryConfiguration).
				Build()
		}
	}
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, perrors.New(fmt.Errorf("decoding config: %w", err)).
			Component("config").
			Category(perrors.CategoryConfiguration).
			Build()
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges and enum names.
func Validate(s *Settings) error {
	var errs []error
	if _, err := s.DesignParams(); err != nil {
		errs = append(errs, err)
	}
	if _, err := thermo.ParseMethod(s.Batch.TmMethod); err != nil {
		errs = append(errs, fmt.Errorf("batch: %w", err))
	}
	if s.Batch.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("batch: poll interval must be positive (got %s)", s.Batch.PollInterval))
	}
	if s.Blast.EValue <= 0 {
		errs = append(errs, fmt.Errorf("blast: evalue must be positive (got %g)", s.Blast.EValue))
	}
	if s.Blast.MaxTargetSeqs < 1 {
		errs = append(errs, fmt.Errorf("blast: max_target_seqs must be >= 1 (got %d)", s.Blast.MaxTargetSeqs))
	}
	if s.Blast.Timeout < 0 {
		errs = append(errs, fmt.Errorf("blast: timeout must not be negative"))
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level %q", s.Log.Level))
	}
	switch strings.ToLower(s.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", s.Log.Format))
	}
	if len(errs) == 0 {
		return nil
	}
	return perrors.New(errors.Join(errs...)).
		Component("config").
		Category(perrors.CategoryValidation).
		Build()
}

// DesignParams converts and validates the design section.
func (s *Settings) DesignParams() (design.Params, error) {
	m, err := thermo.ParseMethod(s.Design.TmMethod)
	if err != nil {
		return design.Params{}, fmt.Errorf("design: %w", err)
	}
	p := design.Params{
		ProbeLength:    s.Design.ProbeLength,
		MinGC:          s.Design.MinGC,
		MaxGC:          s.Design.MaxGC,
		MinTm:          s.Design.MinTm,
		MaxTm:          s.Design.MaxTm,
		Spacing:        s.Design.Spacing,
		MinComplexity:  s.Design.MinComplexity,
		FilterRepeats:  s.Design.FilterRepeats,
		MaxHomopolymer: s.Design.MaxHomopolymer,
		TmMethod:       m,
	}
	if err := p.Validate(); err != nil {
		return design.Params{}, fmt.Errorf("design: %w", err)
	}
	return p, nil
}

// BatchMethod returns the Tm method used for batch scoring.
func (s *Settings) BatchMethod() (thermo.Method, error) {
	return thermo.ParseMethod(s.Batch.TmMethod)
}

func (s *Settings) BlastConfig() blast.Config {
	return blast.Config{
		Executable:    s.Blast.Executable,
		DB:            s.Blast.DB,
		EValue:        s.Blast.EValue,
		MaxTargetSeqs: s.Blast.MaxTargetSeqs,
		Timeout:       s.Blast.Timeout,
	}
}
