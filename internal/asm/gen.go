package asm

import (
	"fmt"
	"strings"

	"github.com/arveladin/vm32/internal/vm"
)

// generate runs the second pass: it encodes each statement now that every
// label's address is known, resolving branch targets through the symbol
// table built during Parse.
func generate(stmts []statement, symbols SymbolTable) ([]vm.ObjectCode, error) {
	if len(stmts) == 0 {
		return nil, nil
	}

	var (
		objs []vm.ObjectCode
		cur  *vm.ObjectCode
	)

	for _, st := range stmts {
		if cur == nil || uint32(cur.Orig)+uint32(len(cur.Code))*4 != uint32(st.addr) {
			objs = append(objs, vm.ObjectCode{Orig: st.addr})
			cur = &objs[len(objs)-1]
		}

		var (
			word vm.Word
			err  error
		)

		if st.isWord {
			word, err = encodeWord(st, symbols)
		} else {
			word, err = encodeInstruction(st, symbols)
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", st.line, err)
		}

		cur.Code = append(cur.Code, word)
	}

	return objs, nil
}

func encodeWord(st statement, symbols SymbolTable) (vm.Word, error) {
	if addr, ok := symbols[st.operand]; ok {
		return addr, nil
	}

	v, err := parseImm(st.operand)
	if err != nil {
		return 0, err
	}

	return vm.Word(uint32(v)), nil
}

func encodeInstruction(st statement, symbols SymbolTable) (vm.Word, error) {
	info := opTable[st.mnem]

	switch info.form {
	case formNone:
		return vm.Word(vm.NewJForm(info.op, 0)), nil

	case formRRR:
		regs, err := splitRegs(st.operand, 3)
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewRForm(info.op, regs[0], regs[1], regs[2])), nil

	case formRR:
		regs, err := splitRegs(st.operand, 2)
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewRForm(info.op, regs[0], regs[1], 0)), nil

	case formRR2:
		regs, err := splitRegs(st.operand, 2)
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewRForm(info.op, 0, regs[0], regs[1])), nil

	case formRI:
		parts := strings.SplitN(st.operand, ",", 2)
		if len(parts) != 2 {
			return 0, fmt.Errorf("%s: expected rd,imm16", st.mnem)
		}

		rd, err := parseReg(parts[0])
		if err != nil {
			return 0, err
		}

		imm, err := parseImm(parts[1])
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewIForm(info.op, rd, int32(imm))), nil

	case formMem:
		parts := strings.SplitN(st.operand, ",", 2)
		if len(parts) != 2 {
			return 0, fmt.Errorf("%s: expected rd,[rs1+rs2]", st.mnem)
		}

		rd, err := parseReg(parts[0])
		if err != nil {
			return 0, err
		}

		rs1, rs2, err := parseMem(parts[1])
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewRForm(info.op, rd, rs1, rs2)), nil

	case formJ:
		target, err := resolveTarget(st.operand, symbols)
		if err != nil {
			return 0, err
		}

		return vm.Word(vm.NewJForm(info.op, target)), nil
	}

	return 0, fmt.Errorf("%s: unhandled operand form", st.mnem)
}

func splitRegs(operand string, n int) ([]vm.GPR, error) {
	parts := strings.Split(operand, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d register operands, got %q", n, operand)
	}

	regs := make([]vm.GPR, n)

	for i, p := range parts {
		r, err := parseReg(p)
		if err != nil {
			return nil, err
		}

		regs[i] = r
	}

	return regs, nil
}

func resolveTarget(operand string, symbols SymbolTable) (int32, error) {
	operand = strings.TrimSpace(operand)

	if addr, ok := symbols[operand]; ok {
		return int32(addr), nil
	}

	v, err := parseImm(operand)
	if err != nil {
		return 0, fmt.Errorf("undefined label or bad address %q", operand)
	}

	return int32(v), nil
}
