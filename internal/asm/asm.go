package asm

import (
	"io"
	"strings"

	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/vm"
)

// Assemble parses and encodes source in one call, returning the resulting
// object code and symbol table. It is the package's main entry point for
// callers that don't need incremental, multi-file parsing.
func Assemble(source string) ([]vm.ObjectCode, SymbolTable, error) {
	p := NewParser(log.DefaultLogger())

	if err := p.Parse(strings.NewReader(source)); err != nil {
		return nil, nil, err
	}

	objs, err := generate(p.Statements(), p.Symbols())
	if err != nil {
		return nil, nil, err
	}

	return objs, p.Symbols(), nil
}

// AssembleReader is Assemble for an io.Reader source, for callers loading
// from a file.
func AssembleReader(r io.Reader) ([]vm.ObjectCode, SymbolTable, error) {
	p := NewParser(log.DefaultLogger())

	if err := p.Parse(r); err != nil {
		return nil, nil, err
	}

	objs, err := generate(p.Statements(), p.Symbols())
	if err != nil {
		return nil, nil, err
	}

	return objs, p.Symbols(), nil
}
