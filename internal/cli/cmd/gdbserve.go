package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/arveladin/vm32/internal/cli"
	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/monitor"
	"github.com/arveladin/vm32/internal/vm"
)

// GDBServe loads an object file and serves it to a GDB client over the
// remote-serial protocol until the client detaches or kills the session.
//
//	vm32 gdbserve -addr 127.0.0.1:1234 file.obj
func GDBServe() cli.Command {
	return &gdbserve{addr: "127.0.0.1:1234"}
}

type gdbserve struct {
	addr string
}

func (gdbserve) Description() string { return "serve a program to a GDB client" }

func (gdbserve) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "gdbserve [-addr host:port] file.obj\n\nServe a program over the GDB remote-serial protocol.")
	return err
}

func (g *gdbserve) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("gdbserve", flag.ExitOnError)
	fs.StringVar(&g.addr, "addr", g.addr, "listen address")

	return fs
}

func (g *gdbserve) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	machine := vm.New(vm.WithSink(out), vm.WithLogger(logger))

	if err := loadObjects(machine, args, 0); err != nil {
		logger.Error("gdbserve: load failed", "err", err)
		return 1
	}

	machine.EnableDebugger(true)

	session := monitor.NewSession(machine)

	if err := session.ServeGDB(ctx, g.addr); err != nil {
		logger.Error("gdbserve: session ended", "err", err)
		return 1
	}

	return 0
}
