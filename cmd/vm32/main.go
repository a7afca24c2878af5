// cmd/vm32 is the command-line interface to vm32, a 32-bit RISC-style
// virtual machine.
package main

import (
	"context"
	"os"

	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Run(),
	cmd.Step(),
	cmd.Disassembler(),
	cmd.Assembler(),
	cmd.GDBServe(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
