package vm

// exec.go implements the fetch-decode-execute loop. Step executes exactly
// one instruction (or services one interrupt, or reports a debugger
// event); Run repeats Step until halt, fault or breakpoint (§2, §4.10).

import "fmt"

// Step executes a single instruction and returns a StepResult describing
// what happened, or an error if the instruction faulted. A fault leaves PC
// unchanged and the instruction counter unadvanced (§7).
func (v *VM) Step() (StepResult, error) {
	if v.halted {
		return Halted, fmt.Errorf("%w", ErrHalted)
	}

	if v.Debug.AtBreakpoint(Word(v.PC)) {
		return Breakpoint, nil
	}

	pc := Word(v.PC)

	raw, err := v.Mem.ReadU32(pc, Read|Execute)
	if err != nil {
		v.log.Error("fetch fault", "pc", v.PC, "err", err)
		return 0, err
	}

	instr := Instruction(raw)
	v.log.Debug("decode", "pc", v.PC, "op", instr.Opcode(), "instr", Disassemble(instr))

	if err := v.execute(instr); err != nil {
		v.log.Error("execute fault", "pc", v.PC, "instr", Disassemble(instr), "err", err)
		return 0, err
	}

	v.instrs++
	v.Timer.Tick()
	v.JIT.RecordExecution(pc)

	v.serviceInterrupt()

	if v.halted {
		v.log.Info("halted", "exit_code", v.exitCode, "instrs", v.instrs)
		return Halted, nil
	}

	if v.Debug.SingleStep() {
		return SingleStep, nil
	}

	return Continued, nil
}

// Run executes instructions until halt, a fault, or a breakpoint (§2).
func (v *VM) Run() (StepResult, error) {
	for {
		result, err := v.Step()
		if err != nil {
			return result, err
		}

		switch result {
		case Halted, Breakpoint, SingleStep:
			return result, nil
		}
	}
}

// serviceInterrupt dispatches at most one pending, enabled interrupt after
// a successful instruction (§4.5). A fault while pushing the return
// address leaves the vector pending, matching the pending-first ordering
// the spec calls out as a testable property.
func (v *VM) serviceInterrupt() {
	vec, handler, ok := v.Intr.next()
	if !ok {
		return
	}

	sp := Word(v.SP) - 4

	if err := v.Mem.WriteU32(sp, Write, uint32(v.PC)); err != nil {
		v.log.Error("interrupt dispatch fault", "vector", vec, "err", err)
		return
	}

	v.log.Debug("interrupt dispatch", "vector", vec, "handler", handler, "from_pc", v.PC)

	v.SP = StackPointer(sp)
	v.PC = ProgramCounter(handler)
	v.Intr.clearPending(vec)
}

// execute dispatches a decoded instruction to its opcode handler. Per the
// design note in §9, this is a single tagged-enum switch rather than a
// table of polymorphic operation objects.
func (v *VM) execute(instr Instruction) error {
	op := instr.Opcode()

	switch {
	case op <= NEG:
		return v.execArith(instr, op)
	case op <= SHR:
		return v.execLogical(instr, op)
	case op <= MOVE:
		return v.execMemory(instr, op)
	case op <= SNE:
		return v.execCompare(instr, op)
	case op <= RET:
		return v.execControl(instr, op)
	case op == SYSCALL:
		return v.execSyscall(instr)
	case op == HALT:
		v.halted = true
		return nil
	case op <= FMOV:
		return v.execFloat(instr, op)
	case op <= VDOT:
		return v.execSIMD(instr, op)
	case op <= LOCK:
		return v.execAtomic(instr, op)
	default:
		return fmt.Errorf("%w: %#02x", ErrBadOpcode, uint8(op))
	}
}

// advancePC moves PC forward by one instruction word, for every opcode
// that does not itself set PC (§3 invariant 2).
func (v *VM) advancePC() {
	v.PC += 4
}
