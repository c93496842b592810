package locate

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
}

func (c *Command) Synopsis() string {
	return "Print the Fusion ThreadData directory"
}

func (c *Command) Help() string {
	return `Usage: printthreads locate [options]

  This command prints the ThreadData directory apply would use: the -dir
  flag, the thread_data_dir setting, $PRINTTHREADS_THREAD_DATA, or the
  newest Fusion build found on this machine, in that order.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("locate", flag.ContinueOnError))
	f.ConfigFlags(&c.flagConfig, &c.flagLogLevel)
	f.StringVar(&c.flagDir, "dir", "", "ThreadData directory to check.")
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

	ui.Output(dir)
	return 0
}
