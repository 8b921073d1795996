// Package vfs is the in-memory file tree the compiler reads sources from and
// renders outputs into before they are persisted to the host.
package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid path")
)

type FileEntry struct {
	Data     []byte
	Modified time.Time
}

// Disk maps slash-separated relative paths to file contents.
type Disk struct {
	Mu         sync.RWMutex
	Files      map[string]*FileEntry
	DirtyFiles map[string]bool
	Dirty      bool
}

// NewDisk creates an empty Disk.
func NewDisk() *Disk {
	return &Disk{
		Files:      make(map[string]*FileEntry),
		DirtyFiles: make(map[string]bool),
	}
}

// validPath accepts relative, slash-separated paths without empty, "." or
// ".." elements.
func validPath(name string) bool {
	return name != "." && fs.ValidPath(name) && !strings.Contains(name, `\`)
}

// Write stores a copy of data under name, replacing any previous contents.
func (d *Disk) Write(name string, data []byte) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if !validPath(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	// Deep copy data to prevent external mutations
	newData := make([]byte, len(data))
	copy(newData, data)

	entry, ok := d.Files[name]
	if !ok {
		entry = &FileEntry{}
		d.Files[name] = entry
	}
	entry.Data = newData
	entry.Modified = time.Now()

	d.DirtyFiles[name] = true
	d.Dirty = true
	return nil
}

// Read returns the contents of name.
func (d *Disk) Read(name string) ([]byte, error) {
	d.Mu.RLock()
	defer d.Mu.RUnlock()

	if !validPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	entry, ok := d.Files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return entry.Data, nil
}

// Size returns the size of a file in bytes.
func (d *Disk) Size(name string) (int, error) {
	data, err := d.Read(name)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Delete removes name. The removal reaches the host on the next PersistTo.
func (d *Disk) Delete(name string) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if !validPath(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	if _, ok := d.Files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	delete(d.Files, name)

	d.DirtyFiles[name] = true
	d.Dirty = true
	return nil
}

// List returns every path on the disk in sorted order.
func (d *Disk) List() []string {
	d.Mu.RLock()
	defer d.Mu.RUnlock()

	keys := make([]string, 0, len(d.Files))
	for k := range d.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFrom walks the host directory root and loads every regular file whose
// name ends in ext, keyed by its slash-separated path relative to root.
// Loaded files are clean. A missing root is an error.
func (d *Disk) LoadFrom(root, ext string) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		fileEntry := &FileEntry{Data: raw, Modified: time.Now()}
		if info, err := entry.Info(); err == nil {
			fileEntry.Modified = info.ModTime()
		}
		d.Files[filepath.ToSlash(rel)] = fileEntry
		return nil
	})
}

// PersistTo writes all dirty files to the host directory root, creating
// directories as needed, and removes files deleted since the last persist.
// Returns the first error encountered.
func (d *Disk) PersistTo(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}

	// Snapshot the dirty files under the lock, then release it before doing I/O.
	d.Mu.Lock()
	snapshot := make(map[string][]byte)
	var deleted []string
	for name := range d.DirtyFiles {
		if entry, ok := d.Files[name]; ok {
			snapshot[name] = append([]byte(nil), entry.Data...)
		} else {
			deleted = append(deleted, name)
		}
		delete(d.DirtyFiles, name)
	}
	d.Dirty = false
	d.Mu.Unlock()

	var firstErr error
	markDirty := func(name string, err error) {
		d.Mu.Lock()
		d.DirtyFiles[name] = true
		d.Dirty = true
		d.Mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, name := range deleted {
		err := os.Remove(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil && !os.IsNotExist(err) {
			markDirty(name, err)
		}
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		hostPath := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(hostPath), 0755); err != nil {
			markDirty(name, err)
			continue
		}
		if err := os.WriteFile(hostPath, snapshot[name], 0644); err != nil {
			markDirty(name, err)
		}
	}

	return firstErr
}
