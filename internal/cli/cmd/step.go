package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/monitor"
	"github.com/arveladin/vm32/internal/vm"
)

// Step loads an object file and single-steps it, printing machine state
// after each instruction until halt, fault or the user quits.
//
//	vm32 step file.obj
func Step() cli.Command {
	return new(stepper)
}

type stepper struct{}

func (stepper) Description() string { return "single-step an object file interactively" }

func (stepper) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "step file.obj\n\nSingle-step a program, printing state after each instruction.")
	return err
}

func (s *stepper) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("step", flag.ExitOnError)
}

func (s *stepper) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	machine := vm.New(vm.WithSink(out), vm.WithLogger(logger))

	if err := loadObjects(machine, args, 0); err != nil {
		logger.Error("step: load failed", "err", err)
		return 1
	}

	session := monitor.NewSession(machine)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		result, status, err := session.StepVerbose()
		if err != nil {
			fmt.Fprintln(out, err)
			return 1
		}

		fmt.Fprintln(out, status)

		if result == vm.Halted {
			return int(machine.ExitCode())
		}

		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return 0
		}
	}
}
