package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDisk_Write(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		data        []byte
		expectError bool
	}{
		{
			name: "Valid write",
			path: "lilium-sci/base/hdl.h",
			data: []byte{1, 2, 3},
		},
		{
			name: "Single component",
			path: "knums.d",
			data: []byte("stamp: a.knum\n"),
		},
		{
			name:        "Absolute path",
			path:        "/etc/passwd",
			data:        []byte{1},
			expectError: true,
		},
		{
			name:        "Path traversal",
			path:        "../passwd",
			data:        []byte{1},
			expectError: true,
		},
		{
			name:        "Empty component",
			path:        "a//b.h",
			data:        []byte{1},
			expectError: true,
		},
		{
			name:        "Backslash",
			path:        `a\b.h`,
			data:        []byte{1},
			expectError: true,
		},
		{
			name:        "Dot",
			path:        ".",
			data:        []byte{1},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDisk()
			err := d.Write(tt.path, tt.data)

			if (err != nil) != tt.expectError {
				t.Fatalf("Write() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.expectError {
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("Write() error = %v, want ErrInvalidPath", err)
				}
				return
			}
			stored, ok := d.Files[tt.path]
			if !ok {
				t.Fatalf("File %s not found in map", tt.path)
			}
			if !reflect.DeepEqual(stored.Data, tt.data) {
				t.Errorf("Stored data = %v, expected %v", stored.Data, tt.data)
			}
			if stored.Modified.IsZero() {
				t.Errorf("Modified time not set")
			}
		})
	}
}

func TestDisk_ReadAndSize(t *testing.T) {
	d := NewDisk()
	data := []byte{10, 20, 30}
	if err := d.Write("a/test.h", data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantErr   error
		expectLen int
	}{
		{name: "Existing file", path: "a/test.h", expectLen: 3},
		{name: "Missing file", path: "a/missing.h", wantErr: ErrFileNotFound},
		{name: "Invalid path", path: "../passwd", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Read(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
			}
			size, err := d.Size(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Size() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if !reflect.DeepEqual(got, data) {
					t.Errorf("Read() got = %v, want %v", got, data)
				}
				if size != tt.expectLen {
					t.Errorf("Size() = %d, want %d", size, tt.expectLen)
				}
			}
		})
	}
}

func TestDisk_DeepCopy(t *testing.T) {
	d := NewDisk()
	data := []byte{1, 2, 3}

	if err := d.Write("mutable.h", data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data[0] = 99

	readData, err := d.Read("mutable.h")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if readData[0] == 99 {
		t.Error("Write did not perform a deep copy; mutation of source affected stored data")
	}
}

func TestDisk_ListAndDelete(t *testing.T) {
	d := NewDisk()
	for _, name := range []string{"c.h", "a/z.h", "b.h", "a/b.h"} {
		if err := d.Write(name, []byte{1}); err != nil {
			t.Fatalf("Write(%s) failed: %v", name, err)
		}
	}

	expected := []string{"a/b.h", "a/z.h", "b.h", "c.h"}
	if list := d.List(); !reflect.DeepEqual(list, expected) {
		t.Errorf("List = %v, expected %v", list, expected)
	}

	if err := d.Delete("b.h"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	expected = []string{"a/b.h", "a/z.h", "c.h"}
	if list := d.List(); !reflect.DeepEqual(list, expected) {
		t.Errorf("List after delete = %v, expected %v", list, expected)
	}

	if err := d.Delete("missing.h"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Delete missing file error = %v, expected ErrFileNotFound", err)
	}
}

func TestDisk_LoadFrom(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"base/hdl.knum":      "use types;",
		"types.knum":         "%define_int_types",
		"base/deep/io.knum":  "const X : i32 = 1;",
		"README.md":          "not a source",
		"base/hdl.knum.orig": "stale",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	d := NewDisk()
	if err := d.LoadFrom(root, ".knum"); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	expected := []string{"base/deep/io.knum", "base/hdl.knum", "types.knum"}
	if list := d.List(); !reflect.DeepEqual(list, expected) {
		t.Errorf("List = %v, expected %v", list, expected)
	}
	if got, _ := d.Read("base/hdl.knum"); string(got) != "use types;" {
		t.Errorf("Read(base/hdl.knum) = %q", got)
	}
	if d.Dirty || len(d.DirtyFiles) != 0 {
		t.Errorf("loaded files should not be dirty")
	}
}

func TestDisk_LoadFromMissingRoot(t *testing.T) {
	d := NewDisk()
	err := d.LoadFrom(filepath.Join(t.TempDir(), "nope"), ".knum")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFrom error = %v, want os.ErrNotExist", err)
	}
}

func TestDisk_Persistence(t *testing.T) {
	tempDir := t.TempDir()
	d := NewDisk()

	d.Write("lilium-sci/a/b.h", []byte{'a'})
	if !d.DirtyFiles["lilium-sci/a/b.h"] {
		t.Error("lilium-sci/a/b.h should be dirty")
	}
	if !d.Dirty {
		t.Error("Disk should be dirty")
	}
	d.Write("knums.d", []byte{'b'})

	if err := d.PersistTo(tempDir); err != nil {
		t.Fatalf("PersistTo failed: %v", err)
	}
	if len(d.DirtyFiles) != 0 {
		t.Errorf("DirtyFiles should be empty, got %d", len(d.DirtyFiles))
	}
	if d.Dirty {
		t.Error("Disk should not be dirty after persist")
	}

	got, err := os.ReadFile(filepath.Join(tempDir, "lilium-sci", "a", "b.h"))
	if err != nil || string(got) != "a" {
		t.Errorf("nested file not persisted: %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "knums.d")); err != nil {
		t.Errorf("knums.d not persisted: %v", err)
	}

	d.Write("lilium-sci/a/b.h", []byte{'c'})
	if d.DirtyFiles["knums.d"] {
		t.Error("knums.d should NOT be dirty")
	}
	d.Delete("knums.d")
	if !d.DirtyFiles["knums.d"] {
		t.Error("knums.d should be dirty (marked for deletion)")
	}

	if err := d.PersistTo(tempDir); err != nil {
		t.Fatalf("PersistTo failed: %v", err)
	}
	got, _ = os.ReadFile(filepath.Join(tempDir, "lilium-sci", "a", "b.h"))
	if string(got) != "c" {
		t.Errorf("rewrite not persisted: %q", got)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "knums.d")); !os.IsNotExist(err) {
		t.Error("knums.d should have been deleted")
	}
}
