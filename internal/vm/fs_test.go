package vm

import "testing"

func TestFileOpenReuseReservation(tt *testing.T) {
	fs := NewFileSystem(NewStorage())

	fd1, err := fs.Open("/boot/init", ModeReadWrite)
	if err != nil {
		tt.Fatalf("open: %v", err)
	}

	if _, err := fs.Write(fd1, []byte("hello")); err != nil {
		tt.Fatalf("write: %v", err)
	}

	if err := fs.Close(fd1); err != nil {
		tt.Fatalf("close: %v", err)
	}

	fd2, err := fs.Open("/boot/init", ModeRead)
	if err != nil {
		tt.Fatalf("reopen: %v", err)
	}

	buf := make([]byte, 5)

	n, err := fs.Read(fd2, buf)
	if err != nil {
		tt.Fatalf("read: %v", err)
	}

	if string(buf[:n]) != "hello" {
		tt.Errorf("read %q, want %q", buf[:n], "hello")
	}
}

func TestFileTableExhaustion(tt *testing.T) {
	fs := NewFileSystem(NewStorage())

	for i := 1; i < MaxFiles; i++ {
		if _, err := fs.Open(pathFor(i), ModeRead); err != nil {
			tt.Fatalf("open %d: %v", i, err)
		}
	}

	if _, err := fs.Open("/one/too/many", ModeRead); err == nil {
		tt.Error("expected error once the file table is full")
	}
}

func TestFileCloseUnopenedFails(tt *testing.T) {
	fs := NewFileSystem(NewStorage())

	if err := fs.Close(5); err == nil {
		tt.Error("expected error closing an unopened descriptor")
	}
}

func TestFileWriteCapsAtMaxSize(tt *testing.T) {
	fs := NewFileSystem(NewStorage())

	fd, err := fs.Open("/big", ModeWrite)
	if err != nil {
		tt.Fatalf("open: %v", err)
	}

	data := make([]byte, MaxFileSize+100)

	n, err := fs.Write(fd, data)
	if err != nil {
		tt.Fatalf("write: %v", err)
	}

	if n != MaxFileSize {
		tt.Errorf("wrote %d bytes, want capped at %d", n, MaxFileSize)
	}
}

func pathFor(i int) string {
	return "/f" + string(rune('a'+i))
}
