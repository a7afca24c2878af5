package vm

import "fmt"

// TimerFrequencyHz is the timer's nominal frequency (§3).
const TimerFrequencyHz = 1_000_000

// Timer is a monotonically increasing 64-bit tick counter.
type Timer struct {
	ticks uint64
}

// NewTimer creates a timer at tick 0.
func NewTimer() *Timer { return &Timer{} }

// Tick advances the counter by one. Called once per successful Step.
func (t *Timer) Tick() { t.ticks++ }

// Advance advances the counter by n ticks. Used by the SLEEP syscall, which
// advances virtual time rather than blocking (§4.4, §5).
func (t *Timer) Advance(n uint64) { t.ticks += n }

// Ticks returns the full 64-bit tick count.
func (t *Timer) Ticks() uint64 { return t.ticks }

// Low32 returns the low 32 bits of the tick count, as returned by
// GET_TIME.
func (t *Timer) Low32() uint32 { return uint32(t.ticks) }

// Reset zeroes the tick count.
func (t *Timer) Reset() { t.ticks = 0 }

func (t *Timer) String() string {
	return fmt.Sprintf("Timer(ticks:%d,freq:%dHz)", t.ticks, TimerFrequencyHz)
}
