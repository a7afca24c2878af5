package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/encoding"
	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/monitor"
	"github.com/arveladin/vm32/internal/vm"
)

// Run loads an object file and executes it until halt or fault.
//
//	vm32 run file.obj
func Run() cli.Command {
	return new(runner)
}

type runner struct {
	origin uint
}

func (runner) Description() string { return "load and run an object file" }

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "run file.obj\n\nLoad an object file and run it to completion.")
	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.UintVar(&r.origin, "pc", 0, "initial program counter")

	return fs
}

func (r *runner) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	machine := vm.New(vm.WithSink(out), vm.WithLogger(logger))

	if err := loadObjects(machine, args, vm.Word(r.origin)); err != nil {
		logger.Error("run: load failed", "err", err)
		return 1
	}

	session := monitor.NewSession(machine)

	result, err := session.Continue()
	if err != nil {
		logger.Error("run: fault", "err", err, "pc", machine.PC)
		return 1
	}

	logger.Debug("run: stopped", "result", result, "instrs", machine.InstructionCount())

	if machine.Halted() {
		return int(machine.ExitCode())
	}

	return 0
}

// loadObjects decodes each named object file (or, with no args, installs
// the default boot image) and loads it into machine's memory.
func loadObjects(machine *vm.VM, files []string, origin vm.Word) error {
	loader := vm.NewLoader(machine)

	if len(files) == 0 {
		obj, err := monitor.DefaultBootImage()
		if err != nil {
			return err
		}

		_, err = loader.Load(obj)

		return err
	}

	for _, fn := range files {
		data, err := os.ReadFile(fn)
		if err != nil {
			return err
		}

		var enc encoding.HexEncoding
		if err := enc.UnmarshalText(data); err != nil {
			return err
		}

		for _, obj := range enc.Code() {
			if _, err := loader.Load(obj); err != nil {
				return err
			}
		}
	}

	if origin != 0 {
		machine.PC = vm.ProgramCounter(origin)
	}

	return nil
}
