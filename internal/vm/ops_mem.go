package vm

// ops_mem.go implements the memory opcode group (§4.2). LOAD/STORE use a
// two-register effective address, rs1+rs2; LOADI and MOVE need no memory
// access at all.

func (v *VM) execMemory(instr Instruction, op Opcode) error {
	rd, rs1, rs2 := instr.RD(), instr.RS1(), instr.RS2()

	switch op {
	case LOAD:
		ea := Word(uint32(v.Regs[rs1]) + uint32(v.Regs[rs2]))

		value, err := v.Mem.ReadU32(ea, Read)
		if err != nil {
			return err
		}

		v.Regs[rd] = Register(value)

	case STORE:
		ea := Word(uint32(v.Regs[rs1]) + uint32(v.Regs[rs2]))

		if err := v.Mem.WriteU32(ea, Write, uint32(v.Regs[rd])); err != nil {
			return err
		}

		v.JIT.Invalidate(ea, 4)

	case LOADB:
		ea := Word(uint32(v.Regs[rs1]) + uint32(v.Regs[rs2]))

		value, err := v.Mem.ReadByte(ea, Read)
		if err != nil {
			return err
		}

		v.Regs[rd] = Register(value)

	case STOREB:
		ea := Word(uint32(v.Regs[rs1]) + uint32(v.Regs[rs2]))

		if err := v.Mem.WriteByte(ea, Write, byte(v.Regs[rd])); err != nil {
			return err
		}

		v.JIT.Invalidate(ea, 1)

	case LOADI:
		v.Regs[rd] = Register(uint32(instr.Imm16()))

	case MOVE:
		v.Regs[rd] = v.Regs[rs1]
	}

	v.advancePC()

	return nil
}
