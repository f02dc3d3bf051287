package osfilesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "frame.jpg")

	if err := fs.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xd9}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 4 || data[1] != 0xd8 {
		t.Errorf("unexpected contents %x", data)
	}

	size, err := fs.Size(path)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 4 {
		t.Errorf("Size = %d, want 4", size)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "debug", "frames", "encoded", "frame-0000.jpg")

	if err := fs.WriteFile(path, []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestFileSystem_ListFiles(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	for _, name := range []string{"frame-010.png", "frame-002.png", ".DS_Store", "frame-001.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	names, err := fs.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"frame-001.png", "frame-002.png", "frame-010.png"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListFiles = %v, want %v", names, want)
	}
}

func TestFileSystem_ListFilesMissingDir(t *testing.T) {
	fs := New()
	if _, err := fs.ListFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "out.avi")
	if err := fs.WriteFile(path, []byte("RIFF")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := fs.Size(path); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
