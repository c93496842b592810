package transform

import (
	"flag"
	"fmt"

	"github.com/printthreads/printthreads/internal/cmd/base"
	"github.com/printthreads/printthreads/pkg/batch"
	"github.com/printthreads/printthreads/pkg/threaddata"
)

type Command struct {
	*base.Command

	flagConfig   string
	flagLogLevel string
}

func (c *Command) Synopsis() string {
	return "Adjust a single thread definition file"
}

func (c *Command) Help() string {
	return `Usage: printthreads transform [options] <input> [output]

  This command adjusts one thread definition file. When output is omitted
  the file is written next to the input with the derived-file marker added
  to its name. Nothing is copied into the Fusion ThreadData directory.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("transform", flag.ContinueOnError))
	f.ConfigFlags(&c.flagConfig, &c.flagLogLevel)
	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = flags.Args()
	if len(args) < 1 || len(args) > 2 {
		ui.Error("expected an input file and an optional output file")
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig, c.flagLogLevel)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	input := args[0]
	output := batch.OutputPath(input, cfg.FileMarker)
	if len(args) == 2 {
		output = args[1]
	}
	if output == input {
		ui.Error("output must differ from input")
		return 1
	}

	stats := threaddata.NewStats()
	if err := c.Transformer(cfg).TransformFile(c.FS(), input, output, stats); err != nil {
		ui.Error(fmt.Sprintf("error adjusting %s: %v", input, err))
		return 1
	}

	fs := stats.File(input)
	ui.Info(fmt.Sprintf("Wrote %s (%d thread types, %d designations, %d threads)",
		output, fs.ThreadTypes, fs.Designations, fs.Threads))
	return 0
}
