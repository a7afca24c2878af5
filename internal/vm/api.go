package vm

// api.go consolidates the remaining entries of the public programmatic
// surface listed in §6 that are not already defined alongside their
// owning subsystem: JIT control, thread/yield control, network and
// device queries, and debugger controls.

// EnableDebugger turns debugger checks on or off.
func (v *VM) EnableDebugger(on bool) { v.Debug.Enable(on) }

// EnableSingleStep arms or disarms single-step reporting.
func (v *VM) EnableSingleStep(on bool) { v.Debug.SetSingleStep(on) }

// AddBreakpoint adds a breakpoint at pc.
func (v *VM) AddBreakpoint(pc Word) error { return v.Debug.AddBreakpoint(pc) }

// RemoveBreakpoint removes the breakpoint at pc, if present.
func (v *VM) RemoveBreakpoint(pc Word) { v.Debug.RemoveBreakpoint(pc) }

// ClearBreakpoints removes every breakpoint.
func (v *VM) ClearBreakpoints() { v.Debug.ClearBreakpoints() }

// Breakpoints returns the current breakpoint set.
func (v *VM) Breakpoints() []Word { return v.Debug.Breakpoints() }

// EnableJIT arms or disarms the JIT cache (§4.9, §6).
func (v *VM) EnableJIT(on bool) { v.JIT.Enable(on) }

// CompileBlock records one profiled execution of the block starting at
// start, per compile_block in §4.9.
func (v *VM) CompileBlock(start Word) { v.JIT.CompileBlock(start) }

// ClearJITCache discards all profiling state: no block remains marked
// compiled and NumBlocks reports 0 (§4.9, §8).
func (v *VM) ClearJITCache() { v.JIT.ClearCache() }

// NumJITBlocks returns the number of tracked JIT block records.
func (v *VM) NumJITBlocks() int { return v.JIT.NumBlocks() }

// CreateThread spawns a new thread with its own stack (§4.6).
func (v *VM) CreateThread(entry, arg Word) (int, error) {
	return v.spawnThread(entry, arg)
}

// SendPacket enqueues data for transmission (§4.7).
func (v *VM) SendPacket(data []byte) error { return v.Net.Send(data) }

// RecvPacket dequeues the oldest received packet, if any (§4.7).
func (v *VM) RecvPacket() ([]byte, bool) { return v.Net.Recv() }

// DeliverPacket feeds an inbound packet to the network device, for an
// external agent simulating the wire.
func (v *VM) DeliverPacket(data []byte) { v.Net.Deliver(data) }

// Connected reports the network device's connection flag.
func (v *VM) Connected() bool { return v.Net.Connected() }

// PressKey marks key down and pushes it into the keyboard ring buffer.
func (v *VM) PressKey(key byte) { v.Kbd.KeyDown(key) }

// ReleaseKey marks key up.
func (v *VM) ReleaseKey(key byte) { v.Kbd.KeyUp(key) }

// SetMouse updates the mouse position and button mask.
func (v *VM) SetMouse(x, y int32, buttons uint8) { v.Mouse.Set(x, y, buttons) }

// Pixel returns the display color at (x, y).
func (v *VM) Pixel(x, y int) uint32 { return v.Display.Pixel(x, y) }

// DisplayDirty reports whether the display has unread updates.
func (v *VM) DisplayDirty() bool { return v.Display.Dirty() }

// ClearDisplayDirty clears the display's dirty flag.
func (v *VM) ClearDisplayDirty() { v.Display.ClearDirty() }
