package vm

// disasm.go renders a single decoded instruction as the plain-ASCII
// mnemonic syntax documented in §6: mnemonic uppercase, operands
// comma-separated, registers as rN, immediates as signed decimal (I-form)
// or 0x hex (J-form addresses).

import "fmt"

// Disassemble renders instr as a human-readable ASCII string.
func Disassemble(instr Instruction) string {
	op := instr.Opcode()
	mnemonic := op.String()

	switch {
	case op <= NEG && op != NEG:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == NEG:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RD(), instr.RS1())
	case op == AND || op == OR || op == XOR:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == NOT:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RD(), instr.RS1())
	case op == SHL || op == SHR:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == LOAD || op == STORE || op == LOADB || op == STOREB:
		return fmt.Sprintf("%s r%d,[r%d+r%d]", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == LOADI:
		return fmt.Sprintf("%s r%d,%d", mnemonic, instr.RD(), instr.Imm16())
	case op == MOVE:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RD(), instr.RS1())
	case op == CMP || op == TEST:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RS1(), instr.RS2())
	case op >= SLT && op <= SNE:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == JMP || op == JZ || op == JNZ || op == JC || op == JNC || op == CALL:
		return fmt.Sprintf("%s %#06x", mnemonic, uint32(instr.Imm24()))
	case op == RET || op == HALT:
		return mnemonic
	case op == SYSCALL:
		return mnemonic
	case op >= FADD && op <= FDIV:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == FCMP:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RS1(), instr.RS2())
	case op == FCVT || op == ICVT || op == FMOV:
		return fmt.Sprintf("%s r%d,r%d", mnemonic, instr.RD(), instr.RS1())
	case op >= VADD && op <= VDOT:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == XCHG || op == CAS || op == FADD_ATOMIC:
		return fmt.Sprintf("%s r%d,r%d,r%d", mnemonic, instr.RD(), instr.RS1(), instr.RS2())
	case op == LOCK:
		return mnemonic
	default:
		return fmt.Sprintf("??? %#02x", uint8(op))
	}
}
