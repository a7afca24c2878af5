// Package monitor implements a small system monitor for the machine: a
// debugger session wrapping a *vm.VM, a default boot image for when a
// caller has no program of their own, and the GDB server lifecycle.
package monitor

import (
	"context"
	"fmt"
	"net"

	"github.com/arveladin/vm32/internal/asm"
	"github.com/arveladin/vm32/internal/gdb"
	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/vm"
)

// Session wraps a VM with the interactive operations a debugger or CLI
// front-end needs: stepping with status reporting, breakpoint management
// and GDB server lifecycle, on top of the core's own Step/Run loop.
type Session struct {
	VM  *vm.VM
	log *log.Logger
}

// NewSession creates a monitor session over an already-configured VM.
func NewSession(machine *vm.VM) *Session {
	return &Session{VM: machine, log: log.DefaultLogger()}
}

// StepVerbose executes one instruction and returns a human-readable
// status line describing the result, for the CLI's step command.
func (s *Session) StepVerbose() (vm.StepResult, string, error) {
	result, err := s.VM.Step()
	if err != nil {
		return result, "", err
	}

	return result, fmt.Sprintf("pc:%s %s instrs:%d", s.VM.PC, s.VM.Flags, s.VM.InstructionCount()), nil
}

// Continue runs until halt, fault or breakpoint.
func (s *Session) Continue() (vm.StepResult, error) {
	return s.VM.Run()
}

// ServeGDB listens on addr (e.g. "127.0.0.1:1234") and services exactly
// one GDB client connection at a time, following the accept-one-control-
// connection pattern of a serial-console transport: a GDB session has no
// use for concurrent clients, so Serve blocks per connection (§4.10, §6).
func (s *Session) ServeGDB(ctx context.Context, addr string) error {
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", gdb.DefaultPort)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("monitor: gdb listen: %w", err)
	}
	defer listener.Close()

	s.log.Info("gdb: waiting for debugger to attach", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("monitor: gdb accept: %w", err)
		}

		stub := gdb.NewStub(conn, s.VM)

		if err := stub.Serve(); err != nil {
			s.log.Warn("gdb: session ended", "err", err)
		}

		conn.Close()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// DefaultBootImage returns a minimal program that immediately halts,
// installed when a caller starts the VM without a program of their own.
func DefaultBootImage() (vm.ObjectCode, error) {
	objs, _, err := asm.Assemble(".org 0\nHALT\n")
	if err != nil {
		return vm.ObjectCode{}, fmt.Errorf("monitor: default boot image: %w", err)
	}

	if len(objs) == 0 {
		return vm.ObjectCode{}, fmt.Errorf("monitor: default boot image produced no code")
	}

	return objs[0], nil
}
