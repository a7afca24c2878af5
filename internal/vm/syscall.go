package vm

// syscall.go implements the fixed syscall table (§4.4). The selector comes
// from r0, arguments from r1..r7, the result goes back into r0, matching
// the open-question resolution to standardize on selector=r0, args=r1..r7,
// return=r0. Bad paths, descriptors, full queues and an unknown selector
// are reported through the return-value convention (§7). A guest memory
// buffer that lacks the required page rights (PRINT, READ, READ_FILE,
// WRITE_FILE, NET_SEND, NET_RECV) is returned as a run-loop fault.

import "fmt"

const errReturn = uint32(0xFFFFFFFF)

// Syscall numbers (§4.4).
const (
	sysExit = iota
	sysPrint
	sysRead
	sysOpen
	sysClose
	sysReadFile
	sysWriteFile
	sysGetTime
	sysSleep
	sysAlloc
	sysFree
	sysPixel
	sysNetSend
	sysNetRecv
	sysNetConnect
	sysNetListen
	sysThreadCreate
	sysThreadExit
	sysThreadJoin
	sysMutexLock
	sysMutexUnlock
	sysSemWait
	sysSemPost
)

func (v *VM) execSyscall(instr Instruction) error {
	selector := uint32(v.Regs[0])
	arg := func(n int) uint32 { return uint32(v.Regs[n]) }

	v.log.Debug("syscall", "selector", selector, "pc", v.PC)

	switch selector {
	case sysExit:
		v.halted = true
		v.exitCode = arg(1)
		v.Regs[0] = Register(arg(1))
		return nil

	case sysPrint:
		addr, length := Word(arg(1)), int(arg(2))

		data, err := v.Mem.ReadBytes(addr, length, Read)
		if err != nil {
			return err
		}

		n, _ := v.sink.Write(data)
		v.Regs[0] = Register(n)

	case sysRead:
		addr, maxlen := Word(arg(1)), int(arg(2))

		buf := make([]byte, maxlen)
		n := v.Kbd.Read(buf)

		if n > 0 {
			if err := v.Mem.WriteBytes(addr, Write, buf[:n]); err != nil {
				return err
			}

			v.JIT.Invalidate(addr, n)
		}

		v.Regs[0] = Register(n)

	case sysOpen:
		path, err := v.readCString(Word(arg(1)))
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		fd, err := v.FS.Open(path, FileMode(arg(2)))
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		v.Regs[0] = Register(fd)

	case sysClose:
		if err := v.FS.Close(int(arg(1))); err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		v.Regs[0] = 0

	case sysReadFile:
		fd, addr, length := int(arg(1)), Word(arg(2)), int(arg(3))

		buf := make([]byte, length)

		n, err := v.FS.Read(fd, buf)
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		if n > 0 {
			if err := v.Mem.WriteBytes(addr, Write, buf[:n]); err != nil {
				return err
			}

			v.JIT.Invalidate(addr, n)
		}

		v.Regs[0] = Register(n)

	case sysWriteFile:
		fd, addr, length := int(arg(1)), Word(arg(2)), int(arg(3))

		data, err := v.Mem.ReadBytes(addr, length, Read)
		if err != nil {
			return err
		}

		n, err := v.FS.Write(fd, data)
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		v.Regs[0] = Register(n)

	case sysGetTime:
		v.Regs[0] = Register(v.Timer.Low32())

	case sysSleep:
		ms := uint64(arg(1))
		v.Timer.Advance(ms * TimerFrequencyHz / 1000)
		v.Regs[0] = 0

	case sysAlloc:
		addr, err := v.Heap.Alloc(arg(1))
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		v.Regs[0] = Register(addr)

	case sysFree:
		v.Heap.Free(Word(arg(1)))
		v.Regs[0] = 0

	case sysPixel:
		v.Display.SetPixel(int(arg(1)), int(arg(2)), arg(3))
		v.Regs[0] = 0

	case sysNetSend:
		addr, length := Word(arg(1)), int(arg(2))

		data, err := v.Mem.ReadBytes(addr, length, Read)
		if err != nil {
			return err
		}

		if err := v.Net.Send(data); err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		_ = v.Intr.Raise(IRQNetwork)
		v.Regs[0] = 0

	case sysNetRecv:
		addr, maxlen := Word(arg(1)), int(arg(2))

		pkt, ok := v.Net.Recv()
		if !ok {
			v.Regs[0] = 0
			break
		}

		n := len(pkt)
		if n > maxlen {
			n = maxlen
		}

		if err := v.Mem.WriteBytes(addr, Write, pkt[:n]); err != nil {
			return err
		}

		v.JIT.Invalidate(addr, n)
		v.Regs[0] = Register(n)

	case sysNetConnect:
		v.Net.Connect()
		v.Regs[0] = 0

	case sysNetListen:
		v.Net.Listen()
		v.Regs[0] = 0

	case sysThreadCreate:
		entry, a1 := Word(arg(1)), Word(arg(2))

		tid, err := v.spawnThread(entry, a1)
		if err != nil {
			v.Regs[0] = Register(errReturn)
			break
		}

		v.Regs[0] = Register(tid)

	case sysThreadExit:
		// yieldExit installs the next thread's PC (or halts) directly; the
		// exiting thread never resumes, so the PC it leaves behind must not
		// be advanced again below.
		v.yieldExit()
		return nil

	case sysThreadJoin:
		// yieldJoin banks this thread's resume point and installs the
		// target thread's PC as-is (entry point for a fresh thread, saved
		// resume point otherwise); advancing it again below would skip the
		// target's first instruction.
		v.yieldJoin(int(arg(1)))
		return nil

	case sysMutexLock, sysMutexUnlock, sysSemWait, sysSemPost:
		// Stubs: synchronization primitives are unimplemented within the
		// cooperative core (§4.4).
		v.Regs[0] = 0

	default:
		v.Regs[0] = Register(errReturn)
	}

	v.advancePC()

	return nil
}

// readCString reads a NUL-terminated path from guest memory, capped at
// MaxPathLen bytes (§4.4).
func (v *VM) readCString(addr Word) (string, error) {
	buf := make([]byte, 0, 64)

	for i := 0; i < MaxPathLen; i++ {
		b, err := v.Mem.ReadByte(addr+Word(i), Read)
		if err != nil {
			return "", err
		}

		if b == 0 {
			return string(buf), nil
		}

		buf = append(buf, b)
	}

	return "", fmt.Errorf("%w: path exceeds %d bytes", ErrBadResource, MaxPathLen)
}
