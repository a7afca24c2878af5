package vm

// intr.go implements the interrupt controller: 32 vectors, each with a
// handler address, an enable bit and a pending bit, gated by a global
// enable (§3, §4.5).

import "fmt"

// NumVectors is the number of interrupt vectors.
const NumVectors = 32

// IRQ vectors with defined meaning; 3..31 are reserved for future devices
// (§6).
const (
	IRQTimer    = 0
	IRQKeyboard = 1
	IRQNetwork  = 2
)

type vector struct {
	handler Word
	enabled bool
	pending bool
}

// InterruptController holds the 32 interrupt vectors and the global enable.
type InterruptController struct {
	global  bool
	vectors [NumVectors]vector
}

// NewInterruptController creates a controller with interrupts globally
// disabled and every vector cleared.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// EnableGlobal sets the global interrupt enable.
func (ic *InterruptController) EnableGlobal(on bool) { ic.global = on }

// GlobalEnabled reports the global interrupt enable.
func (ic *InterruptController) GlobalEnabled() bool { return ic.global }

// RegisterHandler sets the handler address for vec and enables it.
func (ic *InterruptController) RegisterHandler(vec int, handler Word) error {
	if vec < 0 || vec >= NumVectors {
		return fmt.Errorf("%w: vector %d out of range", ErrBadAccess, vec)
	}

	ic.vectors[vec].handler = handler
	ic.vectors[vec].enabled = true

	return nil
}

// SetEnabled enables or disables a single vector without changing its
// handler.
func (ic *InterruptController) SetEnabled(vec int, on bool) error {
	if vec < 0 || vec >= NumVectors {
		return fmt.Errorf("%w: vector %d out of range", ErrBadAccess, vec)
	}

	ic.vectors[vec].enabled = on

	return nil
}

// Raise sets vec pending, provided both the global enable and the vector's
// own enable are set (§4.5, §8): raising an IRQ when either enable is false
// must not alter pending.
func (ic *InterruptController) Raise(vec int) error {
	if vec < 0 || vec >= NumVectors {
		return fmt.Errorf("%w: vector %d out of range", ErrBadAccess, vec)
	}

	if ic.global && ic.vectors[vec].enabled {
		ic.vectors[vec].pending = true
	}

	return nil
}

// Active returns the bitwise OR of pending&enabled across all vectors
// (§3 invariant 5).
func (ic *InterruptController) Active() uint32 {
	var bits uint32

	for v := 0; v < NumVectors; v++ {
		if ic.vectors[v].pending && ic.vectors[v].enabled {
			bits |= 1 << uint(v)
		}
	}

	return bits
}

// next returns the lowest-indexed vector that is both pending and enabled,
// or ok=false if none. Vectors are scanned in ascending order and at most
// one is serviced per instruction (§4.5).
func (ic *InterruptController) next() (vec int, handler Word, ok bool) {
	for v := 0; v < NumVectors; v++ {
		if ic.vectors[v].pending && ic.vectors[v].enabled {
			return v, ic.vectors[v].handler, true
		}
	}

	return 0, 0, false
}

// clearPending clears the pending bit for vec.
func (ic *InterruptController) clearPending(vec int) {
	ic.vectors[vec].pending = false
}

// Reset disables every vector, clears pending bits and disables the global
// enable.
func (ic *InterruptController) Reset() {
	ic.global = false

	for v := range ic.vectors {
		ic.vectors[v] = vector{}
	}
}

func (ic *InterruptController) String() string {
	return fmt.Sprintf("InterruptController(global:%t,active:%#08x)", ic.global, ic.Active())
}
