package vm

// threads.go wires the cooperative scheduler (sched.go) into the live CPU
// state for the THREAD_* syscalls and the explicit Yield entry point
// (§4.6). Each new thread gets its own 4 KiB stack region carved
// downward from the top of the guest address space.

const threadStackSize = Word(threadStack)

// spawnThread creates a new thread with its own stack, PC at entry and r1
// set to arg, returning its thread index (§4.6).
func (v *VM) spawnThread(entry, arg Word) (int, error) {
	count := v.Sched.Count()
	stackTopForThread := Word(AddressSpaceSize) - Word(count+1)*threadStackSize

	var regs RegisterFile
	regs[1] = Register(arg)

	state := ThreadState{
		Registers: regs,
		PC:        ProgramCounter(entry),
		SP:        StackPointer(stackTopForThread),
		FP:        FramePointer(stackTopForThread),
	}

	return v.Sched.Spawn(state)
}

// Yield performs a cooperative context switch to the next runnable thread
// (§4.6, §8). With no other runnable thread the same thread keeps running
// and the only effect is the PC+4 advance below. The caller's own resume point
// (PC+4, past the instruction that triggered the switch) is banked before
// the switch; the incoming thread's saved PC is restored as-is, unadvanced,
// so a freshly spawned thread starts exactly at its entry point rather than
// entry+4 (§4.6: "its PC is set to the entry point").
func (v *VM) Yield() {
	v.advancePC()

	next := v.Sched.Yield(v.snapshot())
	v.restore(next)
}

// yieldExit deactivates the current thread and switches to another. If no
// other thread remains, the VM halts: there is nothing left to run. The
// exiting thread's PC is never banked, so nothing needs advancing for it;
// the incoming thread's restored PC is left untouched for the same reason
// as Yield.
func (v *VM) yieldExit() {
	next, ok := v.Sched.Exit()
	if !ok {
		v.halted = true
		return
	}

	v.restore(next)
}

// yieldJoin is a simplified join: the scheduler has no per-thread liveness
// query beyond Count, so THREAD_JOIN behaves as a yield (§4.6 describes
// marking the caller waiting). THREAD_JOIN sets no return value and does
// not wait for the target thread to exit.
func (v *VM) yieldJoin(_ int) {
	v.Yield()
}
