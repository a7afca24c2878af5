package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arveladin/vm32/internal/asm"
	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/encoding"
	"github.com/arveladin/vm32/internal/log"
)

// Assembler translates source into object code.
//
//	vm32 asm -o a.obj file.asm
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	output string
}

func (assembler) Description() string {
	return "assemble source code into object code"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "asm [-o file.obj] file.asm\n\nAssemble source into object code.")
	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.StringVar(&a.output, "o", "a.obj", "output `filename`")

	return fs
}

func (a *assembler) Run(_ context.Context, args []string, _ io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("asm: no source files given")
		return 1
	}

	var objs []byte

	for _, fn := range args {
		source, err := os.ReadFile(fn)
		if err != nil {
			logger.Error("asm: read failed", "file", fn, "err", err)
			return 1
		}

		code, _, err := asm.Assemble(string(source))
		if err != nil {
			logger.Error("asm: assemble failed", "file", fn, "err", err)
			return 1
		}

		var enc encoding.HexEncoding
		enc.SetCode(code)

		text, err := enc.MarshalText()
		if err != nil {
			logger.Error("asm: encode failed", "file", fn, "err", err)
			return 1
		}

		objs = append(objs, text...)
	}

	if err := os.WriteFile(a.output, objs, 0o644); err != nil {
		logger.Error("asm: write failed", "out", a.output, "err", err)
		return 1
	}

	logger.Debug("asm: wrote object", "out", a.output, "bytes", len(objs))

	return 0
}
