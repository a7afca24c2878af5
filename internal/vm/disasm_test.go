package vm

import (
	"strings"
	"testing"
)

// sampleEncode builds one representative instruction word for op, using
// whichever form the opcode actually takes, so Disassemble has something
// plausible to render.
func sampleEncode(op Opcode) Instruction {
	switch {
	case op == JMP || op == JZ || op == JNZ || op == JC || op == JNC || op == CALL:
		return NewJForm(op, 0x100)
	case op == LOADI:
		return NewIForm(op, 1, 42)
	default:
		return NewRForm(op, 1, 2, 3)
	}
}

// TestDisassembleRoundTrip checks the testable property from §8: for
// every opcode in the table, encoding then disassembling yields a
// mnemonic that names the same opcode back.
func TestDisassembleRoundTrip(tt *testing.T) {
	opcodes := []Opcode{
		ADD, SUB, MUL, DIV, MOD, NEG,
		AND, OR, XOR, NOT, SHL, SHR,
		LOAD, STORE, LOADI, LOADB, STOREB, MOVE,
		CMP, TEST, SLT, SLE, SEQ, SNE,
		JMP, JZ, JNZ, JC, JNC, CALL, RET,
		SYSCALL, HALT,
		FADD, FSUB, FMUL, FDIV, FCMP, FCVT, ICVT, FMOV,
		VADD, VSUB, VMUL, VDOT,
		XCHG, CAS, FADD_ATOMIC, LOCK,
	}

	for _, op := range opcodes {
		instr := sampleEncode(op)

		if instr.Opcode() != op {
			tt.Fatalf("sampleEncode(%s) produced opcode %s", op, instr.Opcode())
		}

		out := Disassemble(instr)
		mnemonic := strings.Fields(out)[0]

		if mnemonic != op.String() {
			tt.Errorf("Disassemble(%s) = %q, mnemonic %q != %s", op, out, mnemonic, op)
		}
	}
}

func TestDisassembleUnknownOpcode(tt *testing.T) {
	instr := Instruction(0xFF << 24)

	out := Disassemble(instr)
	if !strings.HasPrefix(out, "???") {
		tt.Errorf("Disassemble(unknown) = %q, want ??? prefix", out)
	}
}
