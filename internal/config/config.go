package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/printthreads/printthreads/pkg/adjust"
	"github.com/printthreads/printthreads/pkg/batch"
	"github.com/printthreads/printthreads/pkg/threaddata"
)

// Config is the printthreads configuration.
type Config struct {
	// ThreadDataDir overrides discovery of the Fusion ThreadData directory.
	ThreadDataDir string `hcl:"thread_data_dir,optional"`

	// CustomDir holds custom definitions copied into ThreadDataDir. Defaults
	// to the directory of the executable.
	CustomDir string `hcl:"custom_dir,optional"`

	// FileMarker is appended to the base name of derived files.
	FileMarker string `hcl:"file_marker,optional"`

	// NameSuffix is appended to thread type names.
	NameSuffix string `hcl:"name_suffix,optional"`

	LogLevel string `hcl:"log_level,optional"`

	Adjustment *Adjustment `hcl:"adjustment,block"`
}

// Adjustment configures the clearance model.
type Adjustment struct {
	Coefficient float64 `hcl:"coefficient,optional"`
	Ceiling     float64 `hcl:"ceiling,optional"`
}

// Model returns the clearance model.
func (a *Adjustment) Model() adjust.Model {
	return adjust.Model{Coefficient: a.Coefficient, Ceiling: a.Ceiling}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load parses the HCL file at path, applies defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.FileMarker == "" {
		c.FileMarker = batch.DefaultMarker
	}
	if c.NameSuffix == "" {
		c.NameSuffix = threaddata.DefaultNameSuffix
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Adjustment == nil {
		c.Adjustment = &Adjustment{}
	}
	if c.Adjustment.Coefficient == 0 {
		c.Adjustment.Coefficient = adjust.DefaultCoefficient
	}
	if c.Adjustment.Ceiling == 0 {
		c.Adjustment.Ceiling = adjust.DefaultCeiling
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FileMarker,
			validation.Required,
			validation.By(noPathSeparators),
		),
		validation.Field(&c.LogLevel, validation.By(knownLogLevel)),
		validation.Field(&c.Adjustment, validation.Required),
	)
}

// Validate checks the clearance model.
func (a *Adjustment) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Coefficient, validation.Min(0.0).Exclusive()),
		validation.Field(&a.Ceiling, validation.Min(0.0).Exclusive()),
	)
}

func noPathSeparators(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("must not contain path separators")
	}
	return nil
}

func knownLogLevel(value interface{}) error {
	s, _ := value.(string)
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}
