package vm

// sched.go implements the cooperative round-robin thread scheduler (§4.6).
// Threads only change on the THREAD_EXIT/THREAD_JOIN syscalls or an explicit
// VM.Yield call; there is no preemption.

import "fmt"

// MaxThreads is the number of schedulable thread slots.
const MaxThreads = 8

// ThreadState is the saved machine state of one thread: its register file,
// program counter, stack pointer, frame pointer and processor flags, banked
// and restored whole on every switch (§4.6).
type ThreadState struct {
	Registers RegisterFile
	PC        ProgramCounter
	SP        StackPointer
	FP        FramePointer
	Flags     ProcessorStatus
	Live      bool
}

// Scheduler holds up to MaxThreads thread slots and the index of the
// currently running one.
type Scheduler struct {
	threads [MaxThreads]ThreadState
	current int
}

// NewScheduler creates a scheduler with a single live thread in slot 0,
// seeded with the given initial state.
func NewScheduler(initial ThreadState) *Scheduler {
	s := &Scheduler{}
	initial.Live = true
	s.threads[0] = initial

	return s
}

// Spawn installs state into the first free thread slot and returns its
// index, or an error if all slots are occupied.
func (s *Scheduler) Spawn(state ThreadState) (int, error) {
	for i := 0; i < MaxThreads; i++ {
		if !s.threads[i].Live {
			state.Live = true
			s.threads[i] = state

			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: no free thread slots", ErrBadResource)
}

// Current returns the index of the running thread.
func (s *Scheduler) Current() int { return s.current }

// Save writes state back into the current thread's slot.
func (s *Scheduler) Save(state ThreadState) {
	state.Live = true
	s.threads[s.current] = state
}

// Yield saves the current thread's state, advances to the next live thread
// in round-robin order and returns its state. With only one live thread,
// Yield is a no-op that returns the same thread (§8: "a single-thread
// program that yields behaves identically to one that never yields").
func (s *Scheduler) Yield(state ThreadState) ThreadState {
	s.Save(state)

	next := s.current

	for i := 1; i <= MaxThreads; i++ {
		candidate := (s.current + i) % MaxThreads
		if s.threads[candidate].Live {
			next = candidate
			break
		}
	}

	s.current = next

	return s.threads[s.current]
}

// Exit marks the current thread dead and switches to the next live one. It
// returns ok=false if no other thread remains live, meaning the VM itself
// should halt.
func (s *Scheduler) Exit() (ThreadState, bool) {
	s.threads[s.current].Live = false

	for i := 1; i <= MaxThreads; i++ {
		candidate := (s.current + i) % MaxThreads
		if s.threads[candidate].Live {
			s.current = candidate
			return s.threads[s.current], true
		}
	}

	return ThreadState{}, false
}

// Count returns the number of live threads.
func (s *Scheduler) Count() int {
	n := 0

	for i := range s.threads {
		if s.threads[i].Live {
			n++
		}
	}

	return n
}

// Reset clears every thread slot except slot 0, which is reseeded with
// initial and becomes current.
func (s *Scheduler) Reset(initial ThreadState) {
	*s = Scheduler{}
	initial.Live = true
	s.threads[0] = initial
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("Scheduler(current:%d,live:%d/%d)", s.current, s.Count(), MaxThreads)
}
