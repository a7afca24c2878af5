package vm

// loader.go holds the object loader: the one sanctioned path for getting a
// guest program's bytes into memory before execution (§6, §9: loaders are
// an external collaborator, not the core's concern for file formats).

import (
	"fmt"

	"github.com/arveladin/vm32/internal/log"
)

// ObjectCode holds a block of 32-bit instruction/data words and the
// address at which they are to be loaded.
type ObjectCode struct {
	Orig Word
	Code []Word
}

// ErrObjectLoader wraps loader-specific failures.
var ErrObjectLoader = fmt.Errorf("loader error")

// Loader copies object code into a VM's memory, bypassing page
// protection, exactly once at load time.
type Loader struct {
	vm  *VM
	log *log.Logger
}

// NewLoader creates a loader bound to vm.
func NewLoader(vm *VM) *Loader {
	return &Loader{vm: vm, log: log.DefaultLogger()}
}

// Load writes obj's words into memory starting at its origin address and
// returns the count of words written.
func (l *Loader) Load(obj ObjectCode) (int, error) {
	if len(obj.Code) == 0 {
		return 0, fmt.Errorf("%w: object has no code", ErrObjectLoader)
	}

	data := make([]byte, len(obj.Code)*4)

	for i, w := range obj.Code {
		data[4*i+0] = byte(w)
		data[4*i+1] = byte(w >> 8)
		data[4*i+2] = byte(w >> 16)
		data[4*i+3] = byte(w >> 24)
	}

	if err := l.vm.LoadImage(obj.Orig, data); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrObjectLoader, err)
	}

	l.log.Debug("loaded object", "orig", obj.Orig, "words", len(obj.Code))

	return len(obj.Code), nil
}

// LoadAt sets PC to addr after loading obj, a convenience for the common
// case of booting straight into a freshly loaded program.
func (l *Loader) LoadAt(obj ObjectCode, addr Word) (int, error) {
	n, err := l.Load(obj)
	if err != nil {
		return n, err
	}

	l.vm.PC = ProgramCounter(addr)

	return n, nil
}
