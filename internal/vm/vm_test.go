package vm

import (
	"bytes"
	"errors"
	"testing"
)

// asm assembles raw instruction words into memory at address 0 and
// returns a freshly reset VM ready to step through them.
func asm(tt *testing.T, words ...Instruction) *VM {
	tt.Helper()

	v := New()

	data := make([]byte, len(words)*4)
	for i, w := range words {
		data[4*i+0] = byte(w)
		data[4*i+1] = byte(w >> 8)
		data[4*i+2] = byte(w >> 16)
		data[4*i+3] = byte(w >> 24)
	}

	if err := v.LoadImage(0, data); err != nil {
		tt.Fatalf("load: %v", err)
	}

	return v
}

// mustRun runs to completion and fails the test on a run-loop fault.
func mustRun(tt *testing.T, v *VM) {
	tt.Helper()

	if _, err := v.Run(); err != nil {
		tt.Fatalf("run: %v", err)
	}
}

func TestArithmeticFlags(tt *testing.T) {
	// §8 scenario 1: LOADI r1,1; LOADI r2,-1; ADD r3,r1,r2; HALT.
	v := asm(tt,
		NewIForm(LOADI, 1, 1),
		NewIForm(LOADI, 2, -1),
		NewRForm(ADD, 3, 1, 2),
		NewJForm(HALT, 0),
	)

	mustRun(tt, v)

	if v.Regs[3] != 0 {
		tt.Errorf("r3 = %d, want 0", v.Regs[3])
	}

	if !v.Flags.Zero() {
		tt.Error("Z not set")
	}

	if !v.Flags.Carry() {
		tt.Error("C not set")
	}

	if v.Flags.Overflow() {
		tt.Error("V set, want clear")
	}
}

func TestCAS(tt *testing.T) {
	tt.Run("success", func(tt *testing.T) {
		v := asm(tt,
			NewIForm(LOADI, 1, 0x4000),
			NewIForm(LOADI, 3, 50),
			NewIForm(LOADI, 2, 75),
			NewRForm(CAS, 3, 1, 2),
			NewJForm(HALT, 0),
		)

		if err := v.Mem.WriteU32(0x4000, Write, 50); err != nil {
			tt.Fatalf("seed: %v", err)
		}

		mustRun(tt, v)

		if v.Regs[3] != 1 {
			tt.Errorf("r3 = %d, want 1", v.Regs[3])
		}

		got, err := v.Mem.ReadU32(0x4000, Read)
		if err != nil {
			tt.Fatalf("read: %v", err)
		}

		if got != 75 {
			tt.Errorf("mem[0x4000] = %d, want 75", got)
		}
	})

	tt.Run("failure", func(tt *testing.T) {
		v := asm(tt,
			NewIForm(LOADI, 1, 0x4000),
			NewIForm(LOADI, 3, 49),
			NewIForm(LOADI, 2, 75),
			NewRForm(CAS, 3, 1, 2),
			NewJForm(HALT, 0),
		)

		if err := v.Mem.WriteU32(0x4000, Write, 50); err != nil {
			tt.Fatalf("seed: %v", err)
		}

		mustRun(tt, v)

		if v.Regs[3] != 0 {
			tt.Errorf("r3 = %d, want 0", v.Regs[3])
		}

		got, err := v.Mem.ReadU32(0x4000, Read)
		if err != nil {
			tt.Fatalf("read: %v", err)
		}

		if got != 50 {
			tt.Errorf("mem[0x4000] = %d, want 50", got)
		}
	})
}

func TestFetchAndAdd(tt *testing.T) {
	v := asm(tt,
		NewIForm(LOADI, 1, 0x4000),
		NewIForm(LOADI, 2, 5),
		NewRForm(FADD_ATOMIC, 3, 1, 2),
		NewJForm(HALT, 0),
	)

	if err := v.Mem.WriteU32(0x4000, Write, 10); err != nil {
		tt.Fatalf("seed: %v", err)
	}

	mustRun(tt, v)

	if v.Regs[3] != 10 {
		tt.Errorf("r3 = %d, want 10 (old value)", v.Regs[3])
	}

	got, err := v.Mem.ReadU32(0x4000, Read)
	if err != nil {
		tt.Fatalf("read: %v", err)
	}

	if got != 15 {
		tt.Errorf("mem[0x4000] = %d, want 15", got)
	}
}

func TestInterruptDispatch(tt *testing.T) {
	// Handler at 0x100: INC r5 via ADD r5,r5,r6 (r6=1); RET.
	v := New()

	handler := []Instruction{
		NewRForm(ADD, 5, 5, 6),
		NewJForm(RET, 0),
	}

	handlerBytes := make([]byte, len(handler)*4)
	for i, w := range handler {
		handlerBytes[4*i+0] = byte(w)
		handlerBytes[4*i+1] = byte(w >> 8)
		handlerBytes[4*i+2] = byte(w >> 16)
		handlerBytes[4*i+3] = byte(w >> 24)
	}

	if err := v.LoadImage(0x100, handlerBytes); err != nil {
		tt.Fatalf("load handler: %v", err)
	}

	main := []Instruction{
		NewIForm(LOADI, 6, 1),
		NewRForm(ADD, 0, 0, 0), // no-op filler, flags irrelevant
		NewJForm(HALT, 0),
	}

	mainBytes := make([]byte, len(main)*4)
	for i, w := range main {
		mainBytes[4*i+0] = byte(w)
		mainBytes[4*i+1] = byte(w >> 8)
		mainBytes[4*i+2] = byte(w >> 16)
		mainBytes[4*i+3] = byte(w >> 24)
	}

	if err := v.LoadImage(0, mainBytes); err != nil {
		tt.Fatalf("load main: %v", err)
	}

	if err := v.RegisterIRQHandler(IRQTimer, 0x100); err != nil {
		tt.Fatalf("register handler: %v", err)
	}

	v.EnableIRQs(true)

	spBefore := v.SP

	if _, err := v.Step(); err != nil { // LOADI r6,1
		tt.Fatalf("step 1: %v", err)
	}

	if err := v.RaiseIRQ(IRQTimer); err != nil {
		tt.Fatalf("raise: %v", err)
	}

	if _, err := v.Step(); err != nil { // runs the no-op, then dispatches to the handler
		tt.Fatalf("step 2: %v", err)
	}

	if v.Intr.Active()&(1<<IRQTimer) != 0 {
		tt.Error("timer vector still active after dispatch")
	}

	if v.SP != spBefore-4 {
		tt.Errorf("SP = %s, want %s (pushed return address)", v.SP, spBefore-4)
	}

	// Run the handler's ADD and RET.
	if _, err := v.Step(); err != nil {
		tt.Fatalf("step 3 (handler ADD): %v", err)
	}

	if _, err := v.Step(); err != nil {
		tt.Fatalf("step 4 (handler RET): %v", err)
	}

	if v.Regs[5] != 1 {
		tt.Errorf("r5 = %d, want 1", v.Regs[5])
	}

	if v.SP != spBefore {
		tt.Errorf("SP = %s, want %s (restored by RET)", v.SP, spBefore)
	}
}

func TestSIMDDotProduct(tt *testing.T) {
	v := asm(tt,
		NewRForm(VDOT, 3, 1, 2),
		NewJForm(HALT, 0),
	)

	v.Regs[1] = 0x04030201
	v.Regs[2] = 0x08070605

	if _, err := v.Step(); err != nil {
		tt.Fatalf("step: %v", err)
	}

	if v.Regs[3] != 70 {
		tt.Errorf("r3 = %d, want 70", v.Regs[3])
	}
}

func TestPageProtectionFault(tt *testing.T) {
	v := New()

	if err := v.SetPageProtection(32, Read|Present); err != nil {
		tt.Fatalf("set protection: %v", err)
	}

	addr := Word(32 * PageSize)
	pcBefore := v.PC
	instrsBefore := v.InstructionCount()

	data := make([]byte, 4)
	instr := NewRForm(STORE, 1, 2, 3)
	data[0], data[1], data[2], data[3] = byte(instr), byte(instr>>8), byte(instr>>16), byte(instr>>24)

	if err := v.LoadImage(0, data); err != nil {
		tt.Fatalf("load: %v", err)
	}

	v.Regs[2] = Register(addr) // STORE's effective address is rs1+rs2

	before, err := v.Mem.ReadU32(addr, Read)
	if err != nil {
		tt.Fatalf("read before: %v", err)
	}

	_, err = v.Step()
	if !errors.Is(err, ErrBadAccess) {
		tt.Fatalf("err = %v, want ErrBadAccess", err)
	}

	if v.PC != pcBefore {
		tt.Errorf("PC = %s, want unchanged %s", v.PC, pcBefore)
	}

	if v.InstructionCount() != instrsBefore {
		tt.Errorf("instruction counter advanced on a fault")
	}

	after, err := v.Mem.ReadU32(addr, Read)
	if err != nil {
		tt.Fatalf("read after: %v", err)
	}

	if before != after {
		tt.Errorf("memory changed despite fault: %d -> %d", before, after)
	}
}

func TestRunMatchesStepping(tt *testing.T) {
	program := func() *VM {
		return asm(tt,
			NewIForm(LOADI, 1, 10),
			NewIForm(LOADI, 2, 20),
			NewRForm(ADD, 3, 1, 2),
			NewRForm(MUL, 4, 3, 1),
			NewJForm(HALT, 0),
		)
	}

	stepped := program()
	for {
		result, err := stepped.Step()
		if err != nil {
			tt.Fatalf("step: %v", err)
		}

		if result == Halted {
			break
		}
	}

	ran := program()
	mustRun(tt, ran)

	if stepped.Regs != ran.Regs {
		tt.Errorf("register files differ: stepped=%v ran=%v", stepped.Regs, ran.Regs)
	}

	if stepped.PC != ran.PC {
		tt.Errorf("PC differs: stepped=%s ran=%s", stepped.PC, ran.PC)
	}
}

func TestDivByZeroFaults(tt *testing.T) {
	v := asm(tt,
		NewIForm(LOADI, 1, 10),
		NewIForm(LOADI, 2, 0),
		NewRForm(DIV, 3, 1, 2),
		NewJForm(HALT, 0),
	)

	if _, err := v.Step(); err != nil {
		tt.Fatalf("step 1: %v", err)
	}

	if _, err := v.Step(); err != nil {
		tt.Fatalf("step 2: %v", err)
	}

	_, err := v.Step()
	if !errors.Is(err, ErrArithTrap) {
		tt.Fatalf("err = %v, want ErrArithTrap", err)
	}
}

func TestBadOpcodeFaults(tt *testing.T) {
	v := asm(tt, Instruction(0xFF<<24))

	_, err := v.Step()
	if !errors.Is(err, ErrBadOpcode) {
		tt.Fatalf("err = %v, want ErrBadOpcode", err)
	}
}

func TestHaltIsTerminal(tt *testing.T) {
	v := asm(tt, NewJForm(HALT, 0))

	result, err := v.Step()
	if err != nil {
		tt.Fatalf("step: %v", err)
	}

	if result != Halted {
		tt.Fatalf("result = %s, want Halted", result)
	}

	_, err = v.Step()
	if !errors.Is(err, ErrHalted) {
		tt.Fatalf("err = %v, want ErrHalted", err)
	}
}

func TestPrintSyscall(tt *testing.T) {
	var out bytes.Buffer

	v := New(WithSink(&out))

	msg := "hi\n"

	if err := v.LoadImage(0x2000, []byte(msg)); err != nil {
		tt.Fatalf("load msg: %v", err)
	}

	program := []Instruction{
		NewIForm(LOADI, 0, 1), // PRINT
		NewIForm(LOADI, 1, 0x2000),
		NewIForm(LOADI, 2, int32(len(msg))),
		NewJForm(SYSCALL, 0),
		NewJForm(HALT, 0),
	}

	data := make([]byte, len(program)*4)
	for i, w := range program {
		data[4*i+0] = byte(w)
		data[4*i+1] = byte(w >> 8)
		data[4*i+2] = byte(w >> 16)
		data[4*i+3] = byte(w >> 24)
	}

	if err := v.LoadImage(0, data); err != nil {
		tt.Fatalf("load program: %v", err)
	}

	mustRun(tt, v)

	if out.String() != msg {
		tt.Errorf("output = %q, want %q", out.String(), msg)
	}
}

func TestRaiseIRQRequiresEnables(tt *testing.T) {
	v := New()

	if err := v.RegisterIRQHandler(IRQKeyboard, 0x100); err != nil {
		tt.Fatalf("register: %v", err)
	}

	if err := v.RaiseIRQ(IRQKeyboard); err != nil {
		tt.Fatalf("raise: %v", err)
	}

	if v.Intr.Active() != 0 {
		tt.Error("pending set despite global enable being false")
	}

	v.EnableIRQs(true)

	if err := v.Intr.SetEnabled(IRQKeyboard, false); err != nil {
		tt.Fatalf("disable vector: %v", err)
	}

	if err := v.RaiseIRQ(IRQKeyboard); err != nil {
		tt.Fatalf("raise: %v", err)
	}

	if v.Intr.Active() != 0 {
		tt.Error("pending set despite vector enable being false")
	}
}

func TestClearJITCache(tt *testing.T) {
	v := New()

	v.CompileBlock(0x1000)
	v.CompileBlock(0x1000)
	v.CompileBlock(0x2000)

	if v.NumJITBlocks() != 2 {
		tt.Fatalf("NumJITBlocks = %d, want 2", v.NumJITBlocks())
	}

	v.ClearJITCache()

	if v.NumJITBlocks() != 0 {
		tt.Errorf("NumJITBlocks = %d, want 0 after clear", v.NumJITBlocks())
	}

	if v.JIT.Hot(0x1000) {
		tt.Error("block still marked compiled after clear")
	}
}

func TestYieldRoundTrip(tt *testing.T) {
	v := New()

	v.Regs[1] = 42

	tid, err := v.CreateThread(0x200, 0)
	if err != nil {
		tt.Fatalf("create thread: %v", err)
	}

	if tid == 0 {
		tt.Fatal("new thread reused slot 0 (main thread)")
	}

	v.Yield() // main -> new thread
	v.Yield() // new thread -> main

	if v.Regs[1] != 42 {
		tt.Errorf("r1 = %d, want 42 (unchanged across round trip)", v.Regs[1])
	}

	if v.CurrentThread() != 0 {
		tt.Errorf("current thread = %d, want 0 (back to main)", v.CurrentThread())
	}
}
