package asm

import "github.com/arveladin/vm32/internal/vm"

// form identifies how a mnemonic's operands are laid out, driving both
// parsing and encoding.
type form int

const (
	formRRR   form = iota // rd, rs1, rs2
	formRR                // rd, rs1   (NOT, MOVE, FCVT, ICVT, FMOV)
	formRR2               // rs1, rs2  (CMP, TEST, FCMP)
	formRI                // rd, imm16 (LOADI)
	formMem               // rd, [rs1+rs2]
	formJ                 // imm24 / label (JMP family, CALL)
	formNone              // no operands (RET, HALT, SYSCALL, LOCK)
)

type opInfo struct {
	op   vm.Opcode
	form form
}

// opTable maps assembler mnemonics to their opcode and operand form. It is
// the assembler's half of the mapping §6 fixes between mnemonic and
// opcode number; Disassemble in the vm package is the other half.
var opTable = map[string]opInfo{
	"ADD": {vm.ADD, formRRR},
	"SUB": {vm.SUB, formRRR},
	"MUL": {vm.MUL, formRRR},
	"DIV": {vm.DIV, formRRR},
	"MOD": {vm.MOD, formRRR},
	"NEG": {vm.NEG, formRR},

	"AND": {vm.AND, formRRR},
	"OR":  {vm.OR, formRRR},
	"XOR": {vm.XOR, formRRR},
	"NOT": {vm.NOT, formRR},
	"SHL": {vm.SHL, formRRR},
	"SHR": {vm.SHR, formRRR},

	"LOAD":   {vm.LOAD, formMem},
	"STORE":  {vm.STORE, formMem},
	"LOADI":  {vm.LOADI, formRI},
	"LOADB":  {vm.LOADB, formMem},
	"STOREB": {vm.STOREB, formMem},
	"MOVE":   {vm.MOVE, formRR},

	"CMP":  {vm.CMP, formRR2},
	"TEST": {vm.TEST, formRR2},
	"SLT":  {vm.SLT, formRRR},
	"SLE":  {vm.SLE, formRRR},
	"SEQ":  {vm.SEQ, formRRR},
	"SNE":  {vm.SNE, formRRR},

	"JMP":  {vm.JMP, formJ},
	"JZ":   {vm.JZ, formJ},
	"JNZ":  {vm.JNZ, formJ},
	"JC":   {vm.JC, formJ},
	"JNC":  {vm.JNC, formJ},
	"CALL": {vm.CALL, formJ},
	"RET":  {vm.RET, formNone},

	"SYSCALL": {vm.SYSCALL, formNone},
	"HALT":    {vm.HALT, formNone},

	"FADD": {vm.FADD, formRRR},
	"FSUB": {vm.FSUB, formRRR},
	"FMUL": {vm.FMUL, formRRR},
	"FDIV": {vm.FDIV, formRRR},
	"FCMP": {vm.FCMP, formRR2},
	"FCVT": {vm.FCVT, formRR},
	"ICVT": {vm.ICVT, formRR},
	"FMOV": {vm.FMOV, formRR},

	"VADD": {vm.VADD, formRRR},
	"VSUB": {vm.VSUB, formRRR},
	"VMUL": {vm.VMUL, formRRR},
	"VDOT": {vm.VDOT, formRRR},

	"XCHG":        {vm.XCHG, formRRR},
	"CAS":         {vm.CAS, formRRR},
	"FADD_ATOMIC": {vm.FADD_ATOMIC, formRRR},
	"LOCK":        {vm.LOCK, formNone},
}
