package clean

import (
	"flag"
	"fmt"

	"github.com/printthreads/printthreads/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagConfig   string
	flagLogLevel string
	flagDir      string
	flagDryRun   bool
}

func (c *Command) Synopsis() string {
	return "Remove derived thread definition files"
}

func (c *Command) Help() string {
	return `Usage: printthreads clean [options]

  This command deletes every file carrying the derived-file marker from the
  ThreadData directory, removing the 3D printing threads from Fusion.
  Source definitions are left alone.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("clean", flag.ContinueOnError))
	f.ConfigFlags(&c.flagConfig, &c.flagLogLevel)
	f.StringVar(&c.flagDir, "dir", "", "ThreadData directory. Found automatically when not set.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Only print what would be removed.")
	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	if err := c.Flags().Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig, c.flagLogLevel)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	dir, err := c.ResolveDir(c.flagDir, cfg)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	runner, err := c.Runner(dir, "", c.flagDryRun, cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring run: %v", err))
		return 1
	}

	removed, err := runner.Clean()
	for _, path := range removed {
		ui.Output(fmt.Sprintf("Removed %s", path))
	}
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if c.flagDryRun {
		ui.Warn(fmt.Sprintf("DRY RUN: %d files would be removed", len(removed)))
	} else {
		ui.Info(fmt.Sprintf("Removed %d derived files", len(removed)))
	}
	return 0
}
