package base

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/printthreads/printthreads/internal/config"
)

// Command is embedded by every subcommand.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is the filesystem commands operate on. Nil means the OS filesystem.
	Fs afero.Fs

	// Getenv reads the environment. Nil means os.Getenv.
	Getenv func(string) string
}

// FS returns the filesystem to use.
func (c *Command) FS() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

// Env returns the environment lookup to use.
func (c *Command) Env() func(string) string {
	if c.Getenv == nil {
		return os.Getenv
	}
	return c.Getenv
}

// LoadConfig loads the configuration file at path (defaults when empty) and
// sets the log level from it. A non-empty logLevel overrides the file.
func (c *Command) LoadConfig(path, logLevel string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	c.Log.SetLevel(level)

	return cfg, nil
}
