package cmd

import (
	"github.com/mitchellh/cli"

	"github.com/printthreads/printthreads/internal/cmd/base"
	"github.com/printthreads/printthreads/internal/cmd/commands/apply"
	"github.com/printthreads/printthreads/internal/cmd/commands/clean"
	"github.com/printthreads/printthreads/internal/cmd/commands/locate"
	"github.com/printthreads/printthreads/internal/cmd/commands/transform"
	"github.com/printthreads/printthreads/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(b *base.Command) {
	Commands = map[string]cli.CommandFactory{
		"apply": func() (cli.Command, error) {
			return &apply.Command{Command: b}, nil
		},
		"clean": func() (cli.Command, error) {
			return &clean.Command{Command: b}, nil
		},
		"locate": func() (cli.Command, error) {
			return &locate.Command{Command: b}, nil
		},
		"transform": func() (cli.Command, error) {
			return &transform.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
