package vm

// ops_atomic.go implements the atomic opcode group (§4.3). Since the core
// is single-threaded on the host, these already execute atomically with
// respect to other guest threads; the contract is written so a future
// parallel implementation could hold a per-word lock here instead (§5).

func (v *VM) execAtomic(instr Instruction, op Opcode) error {
	rd, rs1, rs2 := instr.RD(), instr.RS1(), instr.RS2()

	switch op {
	case XCHG:
		addr := Word(v.Regs[rs1])

		old, err := v.Mem.ReadU32(addr, Read|Write)
		if err != nil {
			return err
		}

		if err := v.Mem.WriteU32(addr, Read|Write, uint32(v.Regs[rs2])); err != nil {
			return err
		}

		v.JIT.Invalidate(addr, 4)
		v.Regs[rd] = Register(old)

	case CAS:
		addr := Word(v.Regs[rs1])

		cur, err := v.Mem.ReadU32(addr, Read|Write)
		if err != nil {
			return err
		}

		if cur == uint32(v.Regs[rd]) {
			if err := v.Mem.WriteU32(addr, Read|Write, uint32(v.Regs[rs2])); err != nil {
				return err
			}

			v.JIT.Invalidate(addr, 4)
			v.Regs[rd] = 1
		} else {
			v.Regs[rd] = 0
		}

	case FADD_ATOMIC:
		addr := Word(v.Regs[rs1])

		old, err := v.Mem.ReadU32(addr, Read|Write)
		if err != nil {
			return err
		}

		if err := v.Mem.WriteU32(addr, Read|Write, old+uint32(v.Regs[rs2])); err != nil {
			return err
		}

		v.JIT.Invalidate(addr, 4)
		v.Regs[rd] = Register(old)

	case LOCK:
		// Hint only; no-op in the cooperative, single-threaded core (§4.3).
	}

	v.advancePC()

	return nil
}
