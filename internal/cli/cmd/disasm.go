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
	"github.com/arveladin/vm32/internal/vm"
)

// Disassembler prints the mnemonic form of every word in an object file.
//
//	vm32 disasm file.obj
func Disassembler() cli.Command {
	return new(disassembler)
}

type disassembler struct{}

func (disassembler) Description() string { return "disassemble an object file" }

func (disassembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "disasm file.obj\n\nPrint the mnemonic form of each word in an object file.")
	return err
}

func (d *disassembler) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

func (d *disassembler) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	for _, fn := range args {
		data, err := os.ReadFile(fn)
		if err != nil {
			logger.Error("disasm: read failed", "file", fn, "err", err)
			return 1
		}

		var enc encoding.HexEncoding
		if err := enc.UnmarshalText(data); err != nil {
			logger.Error("disasm: decode failed", "file", fn, "err", err)
			return 1
		}

		for _, obj := range enc.Code() {
			addr := obj.Orig

			for _, word := range obj.Code {
				fmt.Fprintf(out, "%s: %s\n", addr, vm.Disassemble(vm.Instruction(word)))
				addr += 4
			}
		}
	}

	return 0
}
