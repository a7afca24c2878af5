package vm

// ops_ctrl.go implements the control opcode group (§4.2): unconditional and
// conditional jumps, call/return. All branch targets are absolute
// addresses carried as a J-form 24-bit sign-extended immediate (§4.2:
// "JMP imm24 | PC <- imm24").

func (v *VM) execControl(instr Instruction, op Opcode) error {
	target := Word(uint32(instr.Imm24()))

	switch op {
	case JMP:
		v.PC = ProgramCounter(target)
		return nil

	case JZ:
		if v.Flags.Zero() {
			v.PC = ProgramCounter(target)
			return nil
		}

	case JNZ:
		if !v.Flags.Zero() {
			v.PC = ProgramCounter(target)
			return nil
		}

	case JC:
		if v.Flags.Carry() {
			v.PC = ProgramCounter(target)
			return nil
		}

	case JNC:
		if !v.Flags.Carry() {
			v.PC = ProgramCounter(target)
			return nil
		}

	case CALL:
		sp := Word(v.SP) - 4
		if err := v.Mem.WriteU32(sp, Write, uint32(v.PC)+4); err != nil {
			return err
		}

		v.SP = StackPointer(sp)
		v.PC = ProgramCounter(target)

		return nil

	case RET:
		ret, err := v.Mem.ReadU32(Word(v.SP), Read)
		if err != nil {
			return err
		}

		v.SP = StackPointer(uint32(v.SP) + 4)
		v.PC = ProgramCounter(ret)

		return nil
	}

	v.advancePC()

	return nil
}
