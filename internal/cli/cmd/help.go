package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/log"
)

// Help is the default command, printed when no sub-command matches.
func Help(commands []cli.Command) cli.Command {
	return &help{commands: commands}
}

type help struct {
	commands []cli.Command
}

func (help) Description() string { return "print usage information" }

func (help) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "vm32 <command> [flags] [args...]")
	return err
}

func (h *help) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("help", flag.ContinueOnError)
}

func (h *help) Run(_ context.Context, _ []string, out io.Writer, _ *log.Logger) int {
	fmt.Fprintln(out, "vm32 <command> [flags] [args...]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")

	for _, c := range h.commands {
		fmt.Fprintf(out, "  %-10s %s\n", c.FlagSet().Name(), c.Description())
	}

	return 0
}
