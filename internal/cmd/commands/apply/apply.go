package apply

import (
	"errors"
	"flag"
	"fmt"

	"github.com/printthreads/printthreads/internal/cmd/base"
	"github.com/printthreads/printthreads/pkg/batch"
	"github.com/printthreads/printthreads/pkg/fusion"
)

type Command struct {
	*base.Command

	flagConfig    string
	flagLogLevel  string
	flagDir       string
	flagCustomDir string
	flagDryRun    bool
}

func (c *Command) Synopsis() string {
	return "Write 3D printing variants of every thread definition"
}

func (c *Command) Help() string {
	return `Usage: printthreads apply [options]

  This command finds the Fusion ThreadData directory, copies custom thread
  definitions into it, removes derived files from previous runs and writes
  an adjusted "-3Dprinting" sibling for every definition file.

  Internal threads grow and external threads shrink by a clearance that
  scales with pitch. Restart Fusion afterwards to load the new threads.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("apply", flag.ContinueOnError))
	f.ConfigFlags(&c.flagConfig, &c.flagLogLevel)

	f.StringVar(
		&c.flagDir, "dir", "",
		"ThreadData directory. Found automatically when not set.",
	)
	f.StringVar(
		&c.flagCustomDir, "custom-dir", "",
		"Directory of custom definitions to register. Defaults to the executable's directory.",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Only print what would be done without making changes.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
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
		if errors.Is(err, fusion.ErrNotFound) {
			ui.Error(fmt.Sprintf("ThreadData directory not found: %v", err))
		} else {
			ui.Error(fmt.Sprintf("error locating ThreadData directory: %v", err))
		}
		return 1
	}
	ui.Info(fmt.Sprintf("Using ThreadData directory %s", dir))

	customDir := c.flagCustomDir
	if customDir == "" {
		customDir = cfg.CustomDir
	}
	if customDir == "" {
		customDir = base.DefaultCustomDir()
	}

	runner, err := c.Runner(dir, customDir, c.flagDryRun, cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring run: %v", err))
		return 1
	}

	if c.flagDryRun {
		ui.Warn("DRY RUN mode enabled - no changes will be made")
	}

	result, err := runner.Run()
	if err != nil {
		ui.Error(fmt.Sprintf("error processing %s: %v", dir, err))
		return 1
	}

	report(c.Command, result)

	if len(result.Failed) > 0 {
		return 1
	}
	return 0
}

func report(c *base.Command, result *batch.Result) {
	ui := c.UI

	registered, removed, wrote, adjusted := "Registered", "Removed", "Wrote", "Documents adjusted"
	if result.DryRun {
		registered, removed, wrote, adjusted = "Would register", "Would remove", "Would write", "Documents that would be adjusted"
	}

	for _, path := range result.Copied {
		ui.Output(fmt.Sprintf("%s %s", registered, path))
	}
	for _, path := range result.Removed {
		ui.Output(fmt.Sprintf("%s %s", removed, path))
	}
	for _, out := range result.Written {
		fs := result.Stats.File(out.Input)
		ui.Output(fmt.Sprintf("%s %s (%d thread types, %d designations, %d threads)",
			wrote, out.Output, fs.ThreadTypes, fs.Designations, fs.Threads))
	}
	for _, f := range result.Failed {
		ui.Error(fmt.Sprintf("Failed %s: %v", f.Input, f.Err))
	}

	total := result.Stats.Totals()
	ui.Output("")
	ui.Output("=== Summary ===")
	ui.Output(fmt.Sprintf("%s: %d", adjusted, len(result.Written)))
	ui.Output(fmt.Sprintf("Thread types: %d, designations: %d, threads: %d (%d internal, %d external)",
		total.ThreadTypes, total.Designations, total.Threads, total.Internal, total.External))
	if total.Skipped > 0 {
		ui.Warn(fmt.Sprintf("Non-numeric fields left unchanged: %d", total.Skipped))
	}
	if len(result.Failed) > 0 {
		ui.Error(fmt.Sprintf("Documents failed: %d", len(result.Failed)))
		return
	}
	if result.DryRun {
		ui.Info("Dry run complete")
		return
	}
	ui.Info("Thread definitions adjusted successfully")
}
