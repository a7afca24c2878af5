package vm

// vm.go composes the sub-state structs (memory, registers, devices,
// interrupts, scheduler, JIT, debugger) into a single root value and owns
// the init/reset lifecycle (§3 "Ownership and lifecycle").

import (
	"fmt"
	"io"

	"github.com/arveladin/vm32/internal/log"
)

// Default layout constants from §3's init/reset contract.
const (
	stackTop    = Word(AddressSpaceSize - 4)
	heapBase    = Word(64 * PageSize)
	heapCap     = uint32((192 - 64) * PageSize)
	threadStack = 4096
)

// Sink receives PRINT syscall output and other console traffic, the
// optional collaborator (c) in the external-interface list.
type Sink interface {
	io.Writer
}

// VM is the root state object. All subsystems hang off it; the executor
// (exec.go) takes a *VM and mutates it directly rather than indexing the
// memory array itself (§9 design note).
type VM struct {
	Mem   *Memory
	Regs  RegisterFile
	PC    ProgramCounter
	SP    StackPointer
	FP    FramePointer
	Flags ProcessorStatus

	Display *Display
	Kbd     *Keyboard
	Mouse   *Mouse
	Timer   *Timer
	Storage *Storage
	FS      *FileSystem
	Net     *Network
	Heap    *Heap

	Intr  *InterruptController
	Sched *Scheduler
	JIT   *JITCache
	Debug *Debugger

	halted   bool
	instrs   uint64
	exitCode uint32

	sink Sink
	log  *log.Logger
}

// Option configures a VM at construction time, following the teacher's
// functional-options idiom.
type Option func(*VM)

// WithSink routes PRINT syscall output (and similar console traffic) to w
// instead of the default discard sink.
func WithSink(w Sink) Option {
	return func(v *VM) { v.sink = w }
}

// WithLogger installs a structured logger.
func WithLogger(l *log.Logger) Option {
	return func(v *VM) { v.log = l }
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// New creates a VM and applies init defaults (§3).
func New(opts ...Option) *VM {
	v := &VM{
		Mem:     NewMemory(),
		Display: NewDisplay(),
		Kbd:     NewKeyboard(),
		Mouse:   NewMouse(),
		Timer:   NewTimer(),
		Storage: NewStorage(),
		Net:     NewNetwork(),
		Intr:    NewInterruptController(),
		JIT:     NewJITCache(),
		Debug:   NewDebugger(),
		sink:    discard{},
		log:     log.DefaultLogger(),
	}
	v.FS = NewFileSystem(v.Storage)
	v.Heap = NewHeap(heapBase, heapCap)

	for _, opt := range opts {
		opt(v)
	}

	v.Init()

	return v
}

// Init restores the documented defaults: PC=0, SP=top-4, FP=SP, halted=false,
// default page protections, empty device queues, one main thread (§3).
func (v *VM) Init() {
	v.Mem.Reset()
	v.Regs = RegisterFile{}
	v.PC = 0
	v.SP = StackPointer(stackTop)
	v.FP = FramePointer(v.SP)
	v.Flags = 0
	v.halted = false
	v.instrs = 0
	v.exitCode = 0

	v.Display.Reset()
	v.Kbd.Reset()
	v.Mouse.Reset()
	v.Timer.Reset()
	v.Storage.Reset()
	v.FS.Reset()
	v.Net.Reset()
	v.Heap.Reset()
	v.Intr.Reset()
	v.JIT.Reset()
	v.Debug.Reset()

	v.Sched = NewScheduler(v.snapshot())
}

// Reset is an alias for Init. The file system's path reservations are the
// one piece of state it keeps (see FileSystem.Reset).
func (v *VM) Reset() { v.Init() }

// Halted reports whether the VM has executed HALT or EXIT.
func (v *VM) Halted() bool { return v.halted }

// ExitCode returns the value passed to the EXIT syscall, valid once Halted
// is true.
func (v *VM) ExitCode() uint32 { return v.exitCode }

// InstructionCount returns the number of instructions successfully
// executed since the last reset.
func (v *VM) InstructionCount() uint64 { return v.instrs }

// LoadImage copies data into guest memory at addr, bypassing page
// protection, and is the loader's only write path (§6 "load a byte image").
func (v *VM) LoadImage(addr Word, data []byte) error {
	return v.Mem.LoadImage(addr, data)
}

// ReadRegister returns the value of GPR r.
func (v *VM) ReadRegister(r GPR) (Word, error) {
	if int(r) >= NumGPR {
		return 0, fmt.Errorf("%w: register r%d out of range", ErrBadAccess, r)
	}

	return Word(v.Regs[r]), nil
}

// WriteRegister sets the value of GPR r.
func (v *VM) WriteRegister(r GPR, value Word) error {
	if int(r) >= NumGPR {
		return fmt.Errorf("%w: register r%d out of range", ErrBadAccess, r)
	}

	v.Regs[r] = Register(value)

	return nil
}

// ReadMemory reads n bytes from guest memory for introspection, bypassing
// page protection (§6: the public API reads memory unconditionally; only
// instructions executed by the guest are subject to page rights).
func (v *VM) ReadMemory(addr Word, n int) ([]byte, error) {
	return v.Mem.ReadBytesRaw(addr, n)
}

// WriteMemory writes data into guest memory for introspection, bypassing
// page protection, and invalidates any JIT cache entries touching the
// written range (§4.9).
func (v *VM) WriteMemory(addr Word, data []byte) error {
	if err := v.Mem.WriteBytesRaw(addr, data); err != nil {
		return err
	}

	v.JIT.Invalidate(addr, len(data))

	return nil
}

// SetPageProtection sets the protection bits for page pageIndex.
func (v *VM) SetPageProtection(pageIndex int, rights Rights) error {
	return v.Mem.SetPageProtection(pageIndex, rights)
}

// PageProtection returns the protection bits for page pageIndex.
func (v *VM) PageProtection(pageIndex int) (Rights, error) {
	return v.Mem.PageProtection(pageIndex)
}

// RaiseIRQ raises interrupt vector vec, subject to enable gating (§4.5).
func (v *VM) RaiseIRQ(vec int) error {
	return v.Intr.Raise(vec)
}

// RegisterIRQHandler installs the handler address for vector vec and
// enables it.
func (v *VM) RegisterIRQHandler(vec int, handler Word) error {
	return v.Intr.RegisterHandler(vec, handler)
}

// EnableIRQs sets the global interrupt enable.
func (v *VM) EnableIRQs(on bool) { v.Intr.EnableGlobal(on) }

// CurrentThread returns the index of the running thread.
func (v *VM) CurrentThread() int { return v.Sched.Current() }

// snapshot captures the live CPU state into a ThreadState, used by the
// scheduler on yield/spawn/reset.
func (v *VM) snapshot() ThreadState {
	return ThreadState{
		Registers: v.Regs,
		PC:        v.PC,
		SP:        v.SP,
		FP:        v.FP,
		Flags:     v.Flags,
	}
}

// restore installs a ThreadState as the live CPU state.
func (v *VM) restore(s ThreadState) {
	v.Regs = s.Registers
	v.PC = s.PC
	v.SP = s.SP
	v.FP = s.FP
	v.Flags = s.Flags
}

func (v *VM) String() string {
	return fmt.Sprintf("VM(pc:%s,sp:%s,halted:%t,instrs:%d)", v.PC, v.SP, v.halted, v.instrs)
}
