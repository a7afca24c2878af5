package asm

import "github.com/arveladin/vm32/internal/vm"

// SymbolTable maps label names to the address they were defined at.
type SymbolTable map[string]vm.Word
