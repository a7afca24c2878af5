// Package asm implements a minimal two-pass assembler and a symbol table
// for vm32's fixed-width R/I/J instruction encoding. It is a scaled-down
// cousin of a label-and-directive assembler: one mnemonic per line, a
// handful of directives, no macros.
package asm
