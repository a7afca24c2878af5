package vm

import (
	"errors"
	"testing"
)

func TestMMIOReadsZeroWritesAbsorbed(tt *testing.T) {
	m := NewMemory()
	m.Reset()

	addr := MMIOStart + 16

	if err := m.WriteU32(addr, Write, 0xdeadbeef); err != nil {
		tt.Fatalf("write: %v", err)
	}

	got, err := m.ReadU32(addr, Read)
	if err != nil {
		tt.Fatalf("read: %v", err)
	}

	if got != 0 {
		tt.Errorf("MMIO read = %#x, want 0", got)
	}
}

func TestCheckRangeRequiresEveryByte(tt *testing.T) {
	m := NewMemory()
	m.Reset()

	// Page 0 is R+X by default; writing should fault without Write rights.
	if err := m.WriteU32(0, Write, 1); !errors.Is(err, ErrBadAccess) {
		tt.Fatalf("err = %v, want ErrBadAccess", err)
	}

	if err := m.SetPageProtection(0, Present|Read|Write); err != nil {
		tt.Fatalf("set protection: %v", err)
	}

	if err := m.WriteU32(0, Write, 1); err != nil {
		tt.Fatalf("write after granting rights: %v", err)
	}
}

func TestCheckRangeSpanningPages(tt *testing.T) {
	m := NewMemory()
	m.Reset()

	if err := m.SetPageProtection(0, Present|Read|Write); err != nil {
		tt.Fatalf("set protection page 0: %v", err)
	}
	// Page 1 keeps its default R+X rights, without Write.

	addr := Word(PageSize - 2) // spans pages 0 and 1

	if err := m.WriteU32(addr, Write, 1); !errors.Is(err, ErrBadAccess) {
		tt.Fatalf("err = %v, want ErrBadAccess (spans a page without Write)", err)
	}
}

func TestPageProtectionOutOfRange(tt *testing.T) {
	m := NewMemory()

	if err := m.SetPageProtection(-1, Present); err == nil {
		tt.Error("expected error for negative page index")
	}

	if err := m.SetPageProtection(NumPages, Present); err == nil {
		tt.Error("expected error for page index out of range")
	}
}

func TestResetDefaultLayout(tt *testing.T) {
	m := NewMemory()
	m.Reset()

	codeRights, _ := m.PageProtection(0)
	if !codeRights.Has(Read | Execute | Present) {
		tt.Errorf("code page rights = %s, want R+X+P", codeRights)
	}

	heapRights, _ := m.PageProtection(64)
	if !heapRights.Has(Read | Write | Present) {
		tt.Errorf("heap page rights = %s, want R+W+P", heapRights)
	}

	gapRights, _ := m.PageProtection(200)
	if gapRights.Has(Present) {
		tt.Errorf("gap page rights = %s, want not present", gapRights)
	}

	stackRights, _ := m.PageProtection(NumPages - 1)
	if !stackRights.Has(Read | Write | Present) {
		tt.Errorf("stack page rights = %s, want R+W+P", stackRights)
	}
}
