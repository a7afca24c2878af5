package asm

import (
	"testing"

	"github.com/arveladin/vm32/internal/vm"
)

func TestAssembleBasicProgram(tt *testing.T) {
	src := ".org 0\n" +
		"LOADI r1,1\n" +
		"LOADI r2,-1\n" +
		"ADD r3,r1,r2\n" +
		"HALT\n"

	objs, _, err := Assemble(src)
	if err != nil {
		tt.Fatalf("assemble: %v", err)
	}

	if len(objs) != 1 {
		tt.Fatalf("objs = %d, want 1", len(objs))
	}

	obj := objs[0]
	if obj.Orig != 0 {
		tt.Errorf("orig = %s, want 0", obj.Orig)
	}

	want := []vm.Instruction{
		vm.NewIForm(vm.LOADI, 1, 1),
		vm.NewIForm(vm.LOADI, 2, -1),
		vm.NewRForm(vm.ADD, 3, 1, 2),
		vm.NewJForm(vm.HALT, 0),
	}

	if len(obj.Code) != len(want) {
		tt.Fatalf("code len = %d, want %d", len(obj.Code), len(want))
	}

	for i, w := range want {
		if obj.Code[i] != vm.Word(w) {
			tt.Errorf("word[%d] = %#08x, want %#08x", i, obj.Code[i], w)
		}
	}
}

func TestAssembleLabelsAndBranches(tt *testing.T) {
	src := ".org 0\n" +
		"loop: LOADI r1,1\n" +
		"JMP loop\n"

	objs, symbols, err := Assemble(src)
	if err != nil {
		tt.Fatalf("assemble: %v", err)
	}

	if symbols["loop"] != 0 {
		tt.Errorf("loop = %s, want 0", symbols["loop"])
	}

	jmp := vm.Instruction(objs[0].Code[1])
	if jmp.Opcode() != vm.JMP {
		tt.Fatalf("opcode = %s, want JMP", jmp.Opcode())
	}

	if jmp.Imm24() != 0 {
		tt.Errorf("target = %d, want 0", jmp.Imm24())
	}
}

func TestAssembleUnknownMnemonic(tt *testing.T) {
	_, _, err := Assemble(".org 0\nBOGUS r1,r2,r3\n")
	if err == nil {
		tt.Error("expected a syntax error for an unknown mnemonic")
	}
}

func TestAssembleRegisterOutOfRange(tt *testing.T) {
	_, _, err := Assemble(".org 0\nADD r20,r1,r2\n")
	if err == nil {
		tt.Error("expected an error for an out-of-range register")
	}
}
