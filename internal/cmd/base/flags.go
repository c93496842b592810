package base

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// FlagSet wraps flag.FlagSet to render help text the way commands print it.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned, not printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	})
	return b.String()
}

// ConfigFlags registers the flags shared by every command that loads
// configuration.
func (f *FlagSet) ConfigFlags(configPath, logLevel *string) {
	f.StringVar(
		configPath, "config", "",
		"Path to an HCL configuration file.",
	)
	f.StringVar(
		logLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error). Overrides the config file.",
	)
}
