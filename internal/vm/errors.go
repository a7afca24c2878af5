package vm

// errors.go implements the error taxonomy from §7. Run-loop faults abort the
// current instruction with no partial effect and leave PC unchanged; the
// caller decides whether to continue, reset or tear down.

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("...: %w", ErrX) for context and
// unwrap with errors.Is.
var (
	// ErrBadAccess is a memory touch without the required page rights, or an
	// out-of-range address.
	ErrBadAccess = errors.New("bad access")

	// ErrBadOpcode is an opcode byte not in the defined table.
	ErrBadOpcode = errors.New("bad opcode")

	// ErrArithTrap is an integer DIV or MOD by zero.
	ErrArithTrap = errors.New("arithmetic trap")

	// ErrBadResource is a resource exhaustion: file table full, storage
	// exhausted, a queue full, too many threads, too many breakpoints. It is
	// surfaced as a -1 return value from the syscall or API call that
	// requested the resource, never as a run-loop fault.
	ErrBadResource = errors.New("resource exhausted")

	// ErrHalted is returned by Step/Run once the machine has executed HALT
	// or the EXIT syscall. It is terminal.
	ErrHalted = errors.New("halted")
)

// StepResult reports the outcome of a single Step call that did not return
// an error. Breakpoint and SingleStep are debugger events, not errors.
type StepResult int

const (
	// Continued means one instruction executed normally.
	Continued StepResult = iota

	// Halted means the machine executed HALT or EXIT and is now stopped.
	Halted

	// Breakpoint means PC matched a debugger breakpoint before fetch; the
	// instruction at PC was not executed.
	Breakpoint

	// SingleStep means one instruction executed while the debugger's
	// single-step mode was enabled.
	SingleStep
)

//go:generate go run golang.org/x/tools/cmd/stringer -type StepResult -output stepresult_string.go
