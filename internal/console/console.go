// Package console adapts the VM's keyboard and PRINT-syscall output to a
// real terminal, using raw mode so individual keystrokes reach the guest
// without waiting on a newline.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/vm"
)

// ErrNoTTY is returned if standard input is not a terminal; in that case
// raw keystroke delivery is unavailable and callers should fall back to a
// plain io.Writer sink.
var ErrNoTTY = errors.New("console: not a TTY")

// Console bridges a vm.VM's keyboard device and PRINT-syscall sink to an
// actual terminal, putting the terminal into raw mode for the duration.
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State

	log *log.Logger
}

// New creates a console on the given streams. It returns ErrNoTTY if in is
// not a terminal; callers without a real TTY (pipes, CI) should use
// io.Discard or os.Stdout directly as the VM's sink instead.
func New(in, out *os.File) (*Console, error) {
	fd := int(in.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	return &Console{
		fd:    fd,
		in:    in,
		out:   term.NewTerminal(out, ""),
		state: state,
		log:   log.DefaultLogger(),
	}, nil
}

// Write implements vm.Sink, routing PRINT-syscall output to the terminal.
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Restore returns the terminal to its original (cooked) mode. Callers
// must call this before exiting, typically via defer.
func (c *Console) Restore() error {
	if c.state == nil {
		return nil
	}

	return term.Restore(c.fd, c.state)
}

// Size reports the terminal's current width and height in columns and
// rows.
func (c *Console) Size() (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(c.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("console: %w", err)
	}

	return int(ws.Col), int(ws.Row), nil
}

// Pump reads raw bytes from the terminal and feeds them to the guest
// keyboard device until ctx is cancelled or a read fails. It is meant to
// run in its own goroutine alongside Step/Run.
func (c *Console) Pump(ctx context.Context, kbd *vm.Keyboard) error {
	_ = syscall.SetNonblock(c.fd, false)

	reader := bufio.NewReader(c.in)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			return fmt.Errorf("console: read: %w", err)
		}

		kbd.KeyDown(b)
	}
}
