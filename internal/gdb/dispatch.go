package gdb

// dispatch.go implements the RSP command subset fixed by §4.10.

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/arveladin/vm32/internal/vm"
)

// dispatch handles one decoded packet payload, returning the reply to
// send (possibly empty) and whether the session should end.
func (s *Stub) dispatch(payload string) (reply string, done bool) {
	if payload == "" {
		return "", false
	}

	switch payload[0] {
	case '?':
		return "S05", false

	case 'g':
		return s.readRegisters(), false

	case 'G':
		return s.writeRegisters(payload[1:]), false

	case 'm':
		return s.readMemory(payload[1:]), false

	case 'M':
		return s.writeMemory(payload[1:]), false

	case 's':
		if _, err := s.target.Step(); err != nil {
			return "E01", false
		}

		return "S05", false

	case 'c':
		if _, err := s.target.Run(); err != nil {
			return "E01", false
		}

		if s.target.Halted() {
			return "W00", false
		}

		return "S05", false

	case 'Z':
		return s.setBreakpoint(payload[1:]), false

	case 'z':
		return s.clearBreakpoint(payload[1:]), false

	case 'k':
		return "", true

	default:
		return "", false
	}
}

// readRegisters encodes the 16 GPRs as little-endian hex, the `g` reply
// format. PC, SP, FP and flags are not included.
func (s *Stub) readRegisters() string {
	var b strings.Builder

	for r := 0; r < vm.NumGPR; r++ {
		v, err := s.target.ReadRegister(vm.GPR(r))
		if err != nil {
			return "E01"
		}

		writeLEWord(&b, uint32(v))
	}

	return b.String()
}

// writeRegisters decodes a `G` payload back into the GPR file.
func (s *Stub) writeRegisters(data string) string {
	raw, err := hex.DecodeString(data)
	if err != nil || len(raw)%4 != 0 {
		return "E01"
	}

	for i := 0; i*4 < len(raw) && i < vm.NumGPR; i++ {
		word := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])

		if err := s.target.WriteRegister(vm.GPR(i), vm.Word(word)); err != nil {
			return "E01"
		}
	}

	return "OK"
}

func (s *Stub) readMemory(args string) string {
	addr, length, ok := parseAddrLen(args)
	if !ok {
		return "E01"
	}

	data, err := s.target.ReadMemory(addr, length)
	if err != nil {
		return "E01"
	}

	return hex.EncodeToString(data)
}

func (s *Stub) writeMemory(args string) string {
	parts := strings.SplitN(args, ":", 2)
	if len(parts) != 2 {
		return "E01"
	}

	addr, length, ok := parseAddrLen(parts[0])
	if !ok {
		return "E01"
	}

	data, err := hex.DecodeString(parts[1])
	if err != nil || len(data) != length {
		return "E01"
	}

	if err := s.target.WriteMemory(addr, data); err != nil {
		return "E01"
	}

	return "OK"
}

func (s *Stub) setBreakpoint(args string) string {
	addr, ok := parseKind0Addr(args)
	if !ok {
		return "E01"
	}

	if err := s.target.AddBreakpoint(addr); err != nil {
		return "E01"
	}

	return "OK"
}

func (s *Stub) clearBreakpoint(args string) string {
	addr, ok := parseKind0Addr(args)
	if !ok {
		return "E01"
	}

	s.target.RemoveBreakpoint(addr)

	return "OK"
}

// parseKind0Addr parses the "0,<addr>,<kind>" tail of a Z0/z0 packet,
// ignoring kind since the stub supports only software breakpoints.
func parseKind0Addr(args string) (vm.Word, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 || parts[0] != "0" {
		return 0, false
	}

	addr, err := strconv.ParseUint(parts[1], 16, 32)
	if err != nil {
		return 0, false
	}

	return vm.Word(addr), true
}

func parseAddrLen(args string) (addr vm.Word, length int, ok bool) {
	parts := strings.SplitN(args, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	a, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return 0, 0, false
	}

	n, err := strconv.ParseUint(parts[1], 16, 32)
	if err != nil {
		return 0, 0, false
	}

	return vm.Word(a), int(n), true
}

func writeLEWord(b *strings.Builder, word uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	fmt.Fprint(b, hex.EncodeToString(buf[:]))
}
