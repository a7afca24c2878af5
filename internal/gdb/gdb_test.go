package gdb

import (
	"encoding/hex"
	"net"
	"testing"
	"time"

	"github.com/arveladin/vm32/internal/vm"
)

// frame wraps payload in the "$<payload>#<chk>" RSP envelope.
func frame(payload string) string {
	return "$" + payload + "#" + checksumHex(payload)
}

func checksumHex(payload string) string {
	var sum byte

	for _, b := range []byte(payload) {
		sum += b
	}

	return hex.EncodeToString([]byte{sum})
}

func newStubPair(tt *testing.T) (*Stub, net.Conn) {
	tt.Helper()

	server, client := net.Pipe()

	machine := vm.New()

	stub := NewStub(server, machine)

	go func() {
		_ = stub.Serve()
	}()

	tt.Cleanup(func() { client.Close() })

	return stub, client
}

func exchange(tt *testing.T, client net.Conn, payload string) string {
	tt.Helper()

	client.SetDeadline(time.Now().Add(2 * time.Second))

	if _, err := client.Write([]byte(frame(payload))); err != nil {
		tt.Fatalf("write: %v", err)
	}

	ack := make([]byte, 1)
	if _, err := client.Read(ack); err != nil {
		tt.Fatalf("read ack: %v", err)
	}

	if ack[0] != '+' {
		tt.Fatalf("ack = %q, want +", ack)
	}

	buf := make([]byte, 4096)

	n, err := client.Read(buf)
	if err != nil {
		tt.Fatalf("read reply: %v", err)
	}

	return string(buf[:n])
}

func TestStopReply(tt *testing.T) {
	_, client := newStubPair(tt)

	reply := exchange(tt, client, "?")
	if reply != frame("S05") {
		tt.Errorf("reply = %q, want %q", reply, frame("S05"))
	}
}

func TestSetAndClearBreakpoint(tt *testing.T) {
	_, client := newStubPair(tt)

	reply := exchange(tt, client, "Z0,100,1")
	if reply != frame("OK") {
		tt.Fatalf("set reply = %q, want OK", reply)
	}

	reply = exchange(tt, client, "z0,100,1")
	if reply != frame("OK") {
		tt.Fatalf("clear reply = %q, want OK", reply)
	}
}

func TestReadWriteMemory(tt *testing.T) {
	_, client := newStubPair(tt)

	reply := exchange(tt, client, "M1000,4:deadbeef")
	if reply != frame("OK") {
		tt.Fatalf("write reply = %q, want OK", reply)
	}

	reply = exchange(tt, client, "m1000,4")
	if reply != frame("deadbeef") {
		tt.Fatalf("read reply = %q, want %q", reply, frame("deadbeef"))
	}
}

func TestKillEndsSession(tt *testing.T) {
	server, client := net.Pipe()
	machine := vm.New()
	stub := NewStub(server, machine)

	done := make(chan error, 1)
	go func() { done <- stub.Serve() }()

	client.SetDeadline(time.Now().Add(2 * time.Second))
	client.Write([]byte(frame("k")))

	ack := make([]byte, 1)
	client.Read(ack)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		tt.Fatal("Serve did not return after a kill packet")
	}

	client.Close()
}
