package gitletfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileThenReadFile(t *testing.T) {
	f := New(t.TempDir())
	want := []byte("Hello, world!")
	if err := f.WriteFile("foo.txt", want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := f.ReadFile("foo.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("ReadFile = %q, want %q", got, want)
	}
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	f := New(t.TempDir())
	if err := f.WriteFile(filepath.Join("a", "b", "c.txt"), []byte("x")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	exists, err := f.Exists(filepath.Join("a", "b", "c.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected nested file to exist")
	}
}

func TestExists(t *testing.T) {
	f := New(t.TempDir())
	exists, err := f.Exists("nope.txt")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected nope.txt to not exist")
	}
	if err := f.WriteFile("nope.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	exists, err = f.Exists("nope.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected nope.txt to exist")
	}
}

func TestIsDir(t *testing.T) {
	f := New(t.TempDir())
	if err := f.Mkdir("sub"); err != nil {
		t.Fatal(err)
	}
	isDir, err := f.IsDir("sub")
	if err != nil {
		t.Fatal(err)
	}
	if !isDir {
		t.Fatal("expected sub to be a directory")
	}
	if err := f.WriteFile("file.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	isDir, err = f.IsDir("file.txt")
	if err != nil {
		t.Fatal(err)
	}
	if isDir {
		t.Fatal("expected file.txt to not be a directory")
	}
}

func TestWriteFileAtomicSurvivesOverwrite(t *testing.T) {
	f := New(t.TempDir())
	if err := f.WriteFileAtomic("repo", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteFileAtomic("repo", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, err := f.ReadFile("repo")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Fatalf("ReadFile = %q, want %q", got, "v2")
	}
	entries, err := os.ReadDir(f.Root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "repo" {
			t.Fatalf("leftover temp file left behind: %v", e.Name())
		}
	}
}

func TestRestrictedDeleteRefusesDirectory(t *testing.T) {
	f := New(t.TempDir())
	if err := f.Mkdir("adir"); err != nil {
		t.Fatal(err)
	}
	if err := f.RestrictedDelete("adir"); err == nil {
		t.Fatal("RestrictedDelete(dir) succeeded, want error")
	}
}

func TestRestrictedDeleteMissingIsNoop(t *testing.T) {
	f := New(t.TempDir())
	if err := f.RestrictedDelete("nope.txt"); err != nil {
		t.Fatalf("RestrictedDelete(missing) = %v, want nil", err)
	}
}

func TestRestrictedDeleteFile(t *testing.T) {
	f := New(t.TempDir())
	if err := f.WriteFile("x.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := f.RestrictedDelete("x.txt"); err != nil {
		t.Fatalf("RestrictedDelete: %v", err)
	}
	exists, err := f.Exists("x.txt")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected x.txt to be removed")
	}
}

func TestListFilesSortedRootOnly(t *testing.T) {
	f := New(t.TempDir())
	for _, name := range []string{"wug.txt", "bar.js", "foo.go"} {
		if err := f.WriteFile(name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Mkdir("subdir"); err != nil {
		t.Fatal(err)
	}
	got, err := f.ListFiles(".")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"bar.js", "foo.go", "wug.txt"}
	if len(got) != len(want) {
		t.Fatalf("ListFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListFiles = %v, want %v", got, want)
		}
	}
}
