// Package gitletfs is the filesystem abstraction the core consumes: whole-file
// reads/writes, directory listing, restricted delete, and atomic
// rename-over-temp writes for the repository-state blob.
//
// It operates relative to a root directory (the working directory in
// production, a t.TempDir() in tests), which keeps every other package free
// of os.Getwd() calls.
package gitletfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// FS roots all working-directory and persistence-root operations at Root.
type FS struct {
	Root string
}

// New returns an FS rooted at root.
func New(root string) *FS {
	return &FS{Root: root}
}

func (f *FS) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Root, path)
}

// ReadFile reads the entire contents of path.
func (f *FS) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(f.abs(path))
	if err != nil {
		return nil, fmt.Errorf("gitletfs: read %q: %w", path, err)
	}
	return b, nil
}

// Exists reports whether path exists, regardless of type.
func (f *FS) Exists(path string) (bool, error) {
	_, err := os.Stat(f.abs(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("gitletfs: stat %q: %w", path, err)
}

// IsDir reports whether path exists and is a directory.
func (f *FS) IsDir(path string) (bool, error) {
	info, err := os.Stat(f.abs(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("gitletfs: stat %q: %w", path, err)
	}
	return info.IsDir(), nil
}

// WriteFile creates or replaces path with contents, creating parent
// directories as needed.
func (f *FS) WriteFile(path string, contents []byte) error {
	full := f.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("gitletfs: mkdir for %q: %w", path, err)
	}
	if err := os.WriteFile(full, contents, 0644); err != nil {
		return fmt.Errorf("gitletfs: write %q: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes contents to path via a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// partially-written file in its place. Used for the repository-state blob.
func (f *FS) WriteFileAtomic(path string, contents []byte) error {
	full := f.abs(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("gitletfs: mkdir for %q: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("gitletfs: create temp for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("gitletfs: write temp for %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("gitletfs: close temp for %q: %w", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("gitletfs: rename temp into %q: %w", path, err)
	}
	return nil
}

// Mkdir creates path (and not its parents), failing if it already exists.
func (f *FS) Mkdir(path string) error {
	if err := os.Mkdir(f.abs(path), 0755); err != nil {
		return fmt.Errorf("gitletfs: mkdir %q: %w", path, err)
	}
	return nil
}

// RestrictedDelete deletes a plain file at path. It refuses to delete
// directories and never recurses: a working-tree reconciliation only ever
// removes files it can name directly by path, never directory trees.
func (f *FS) RestrictedDelete(path string) error {
	full := f.abs(path)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("gitletfs: stat %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("gitletfs: refusing to delete directory %q", path)
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("gitletfs: remove %q: %w", path, err)
	}
	return nil
}

// ListFiles returns the sorted names of regular files directly under dir,
// skipping subdirectories. Status and the untracked-safety gate call it on
// the working-directory root; partial-id resolution calls it on one object
// fanout directory.
func (f *FS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(f.abs(dir))
	if err != nil {
		return nil, fmt.Errorf("gitletfs: read dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
