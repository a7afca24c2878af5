package vm

// storage.go implements the byte-addressable 1 MiB storage block backing
// the in-VM file system. It is independent of the 64 KiB guest address
// space (§3, §4.8).

import "fmt"

// StorageSize is the size, in bytes, of the storage block.
const StorageSize = 1 << 20 // 1 MiB

// Storage is a flat byte-addressable block.
type Storage struct {
	bytes [StorageSize]byte
}

// NewStorage creates a zeroed storage block.
func NewStorage() *Storage { return &Storage{} }

// ReadAt copies n bytes starting at offset into a new slice.
func (s *Storage) ReadAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > StorageSize {
		return nil, fmt.Errorf("%w: storage range [%d,%d) out of bounds", ErrBadAccess, offset, offset+n)
	}

	out := make([]byte, n)
	copy(out, s.bytes[offset:offset+n])

	return out, nil
}

// WriteAt writes data starting at offset.
func (s *Storage) WriteAt(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > StorageSize {
		return fmt.Errorf("%w: storage range [%d,%d) out of bounds", ErrBadAccess, offset, offset+len(data))
	}

	copy(s.bytes[offset:], data)

	return nil
}

// Reset zeroes the entire block.
func (s *Storage) Reset() {
	for i := range s.bytes {
		s.bytes[i] = 0
	}
}

func (s *Storage) String() string {
	return fmt.Sprintf("Storage(%d bytes)", StorageSize)
}
