package base

import (
	"flag"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSetHelp(t *testing.T) {
	var config, level, marker string
	var dryRun bool

	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	f.ConfigFlags(&config, &level)
	f.BoolVar(&dryRun, "dry-run", false, "Do nothing.")
	f.StringVar(&marker, "marker", "-3Dprinting", "Marker.")

	help := f.Help()
	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-config\n")
	assert.Contains(t, help, "-dry-run\n      Do nothing.")
	assert.Contains(t, help, "-marker=-3Dprinting")

	require.NoError(t, f.Parse([]string{"-config", "a.hcl", "-log-level=debug", "rest"}))
	assert.Equal(t, "a.hcl", config)
	assert.Equal(t, "debug", level)
	assert.Equal(t, []string{"rest"}, f.Args())

	assert.Error(t, f.Parse([]string{"-unknown"}))
}

func TestLoadConfig(t *testing.T) {
	log := hclog.New(&hclog.LoggerOptions{Level: hclog.Info})
	c := &Command{Log: log, UI: cli.NewMockUi()}

	cfg, err := c.LoadConfig("", "debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, log.IsDebug())

	_, err = c.LoadConfig("", "chatty")
	assert.Error(t, err)

	_, err = c.LoadConfig("/nonexistent.hcl", "")
	assert.Error(t, err)
}
