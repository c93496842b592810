package version

import (
	"github.com/printthreads/printthreads/internal/cmd/base"
	"github.com/printthreads/printthreads/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: printthreads version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.String())
	return 0
}
