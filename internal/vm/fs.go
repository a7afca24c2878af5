package vm

// fs.go implements the fixed in-VM file table backed by Storage. Each open
// file reserves an exclusive 64 KiB span; opening an existing path reuses
// its reservation, opening a new path allocates the next unreserved span
// (§4.8).

import "fmt"

const (
	// MaxFiles is the size of the file table. Slot 0 is reserved.
	MaxFiles = 16

	// MaxFileSize is the size, in bytes, of a file's reserved storage span.
	MaxFileSize = 64 * 1024

	// MaxPathLen is the hard cap on path length, including the terminator.
	MaxPathLen = 256
)

// FileMode selects the access mode a file was opened with.
type FileMode uint8

const (
	ModeRead      FileMode = 0
	ModeWrite     FileMode = 1
	ModeReadWrite FileMode = 2
)

// FileDescriptor holds the state of one open (or free) file-table slot.
type FileDescriptor struct {
	Path          string
	Offset        uint32
	Size          uint32
	StorageOffset int // reserved span start within Storage
	Open          bool
	Mode          FileMode
}

// FileSystem is the fixed 16-slot file table and its backing storage.
type FileSystem struct {
	storage *Storage
	files   [MaxFiles]FileDescriptor

	// reservations maps path -> storage offset, so re-opening a path reuses
	// its span instead of allocating a new one.
	reservations map[string]int
	nextSpan     int

	// sizes maps path -> logical size, so re-opening a path also restores
	// how much of its span holds data.
	sizes map[string]uint32
}

// NewFileSystem creates a file system backed by storage. Slot 0 is reserved
// and never allocated.
func NewFileSystem(storage *Storage) *FileSystem {
	return &FileSystem{
		storage:      storage,
		reservations: make(map[string]int),
		sizes:        make(map[string]uint32),
		nextSpan:     1, // slot/span 0 reserved
	}
}

// Open allocates (or reuses) a file-table slot for path, returning its
// descriptor index, or an error if the table is full or storage is
// exhausted.
func (fs *FileSystem) Open(path string, mode FileMode) (int, error) {
	if len(path) == 0 || len(path) >= MaxPathLen {
		return 0, fmt.Errorf("%w: path length %d invalid", ErrBadResource, len(path))
	}

	slot := -1

	for i := 1; i < MaxFiles; i++ {
		if !fs.files[i].Open {
			slot = i
			break
		}
	}

	if slot == -1 {
		return 0, fmt.Errorf("%w: file table full", ErrBadResource)
	}

	offset, reserved := fs.reservations[path]

	if !reserved {
		if (fs.nextSpan+1)*MaxFileSize > StorageSize {
			return 0, fmt.Errorf("%w: storage exhausted", ErrBadResource)
		}

		offset = fs.nextSpan * MaxFileSize
		fs.reservations[path] = offset
		fs.nextSpan++
	}

	fs.files[slot] = FileDescriptor{
		Path:          path,
		Size:          fs.sizes[path],
		StorageOffset: offset,
		Open:          true,
		Mode:          mode,
	}

	return slot, nil
}

// Close releases a file-table slot. The storage reservation is kept so a
// later re-open of the same path finds its data again.
func (fs *FileSystem) Close(fd int) error {
	if fd <= 0 || fd >= MaxFiles || !fs.files[fd].Open {
		return fmt.Errorf("%w: fd %d not open", ErrBadResource, fd)
	}

	fs.files[fd] = FileDescriptor{}

	return nil
}

// Read copies up to len(p) bytes from fd's current offset and advances it.
func (fs *FileSystem) Read(fd int, p []byte) (int, error) {
	f, err := fs.get(fd)
	if err != nil {
		return 0, err
	}

	remaining := int(f.Size) - int(f.Offset)
	if remaining <= 0 {
		return 0, nil
	}

	n := len(p)
	if n > remaining {
		n = remaining
	}

	data, err := fs.storage.ReadAt(f.StorageOffset+int(f.Offset), n)
	if err != nil {
		return 0, err
	}

	copy(p, data)
	f.Offset += uint32(n)
	fs.files[fd] = *f

	return n, nil
}

// Write copies data into fd's current offset, advances it and grows the
// logical size, capped at MaxFileSize.
func (fs *FileSystem) Write(fd int, data []byte) (int, error) {
	f, err := fs.get(fd)
	if err != nil {
		return 0, err
	}

	n := len(data)
	if int(f.Offset)+n > MaxFileSize {
		n = MaxFileSize - int(f.Offset)
	}

	if n <= 0 {
		return 0, nil
	}

	if err := fs.storage.WriteAt(f.StorageOffset+int(f.Offset), data[:n]); err != nil {
		return 0, err
	}

	f.Offset += uint32(n)
	if f.Offset > f.Size {
		f.Size = f.Offset
		fs.sizes[f.Path] = f.Size
	}

	fs.files[fd] = *f

	return n, nil
}

func (fs *FileSystem) get(fd int) (*FileDescriptor, error) {
	if fd <= 0 || fd >= MaxFiles || !fs.files[fd].Open {
		return nil, fmt.Errorf("%w: fd %d not open", ErrBadResource, fd)
	}

	return &fs.files[fd], nil
}

// Reset closes every open file. Path reservations and recorded file sizes
// are kept, and Storage itself is not touched here; VM.Init zeroes Storage
// separately.
func (fs *FileSystem) Reset() {
	for i := range fs.files {
		fs.files[i] = FileDescriptor{}
	}
}

func (fs *FileSystem) String() string {
	n := 0

	for i := range fs.files {
		if fs.files[i].Open {
			n++
		}
	}

	return fmt.Sprintf("FileSystem(open:%d/%d)", n, MaxFiles)
}
