package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.uber.org/zap"

	"github.com/akovalenko/dupefinder/internal/config"
)

func newTestWalker(t *testing.T, exclude []string) *Walker {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewWalker(&config.Config{Exclude: exclude}, logger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestListFiles_InvalidRoot(t *testing.T) {
	w := newTestWalker(t, nil)

	if _, err := w.ListFiles("/nonexistent/directory", true); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("ListFiles(missing root) error = %v, want ErrInvalidRoot", err)
	}

	tmpDir := t.TempDir()
	file := writeFile(t, tmpDir, "plain.txt", "x")
	if _, err := w.ListFiles(file, true); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("ListFiles(file root) error = %v, want ErrInvalidRoot", err)
	}
}

func TestListFiles_EmptyDirectory(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()

	files, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ListFiles(empty dir) returned %d files, want 0", len(files))
	}
}

func TestListFiles_NonRecursive(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "top.txt", "top")
	sub := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	writeFile(t, sub, "nested.txt", "nested")

	files, err := w.ListFiles(tmpDir, false)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Non-recursive ListFiles() returned %d files, want 1", len(files))
	}
	if filepath.Base(files[0].Path) != "top.txt" {
		t.Errorf("Non-recursive ListFiles() found %s, want top.txt", files[0].Path)
	}
}

func TestListFiles_Recursive(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "top.txt", "top")
	sub := filepath.Join(tmpDir, "sub")
	if err := os.MkdirAll(filepath.Join(sub, "deeper"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectories: %v", err)
	}
	writeFile(t, sub, "nested.txt", "nested")
	writeFile(t, filepath.Join(sub, "deeper"), "deep.txt", "deep")

	files, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Recursive ListFiles() returned %d files, want 3", len(files))
	}
}

func TestListFiles_DeterministicOrder(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		writeFile(t, tmpDir, name, name)
	}
	sub := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	writeFile(t, sub, "d.txt", "d")

	first, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	got := make([]string, len(first))
	for i, f := range first {
		got[i] = f.Path
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("ListFiles() result is not path-sorted: %v", got)
	}

	// The parallel walk must not leak scheduling order into the result.
	for i := 0; i < 5; i++ {
		again, err := w.ListFiles(tmpDir, true)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("ListFiles() count changed between runs: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j].Path != first[j].Path {
				t.Fatalf("ListFiles() order changed between runs at %d: %s vs %s",
					j, again[j].Path, first[j].Path)
			}
		}
	}
}

func TestListFiles_SkipsNonRegular(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()
	target := writeFile(t, tmpDir, "target.txt", "x")
	if err := os.Symlink(target, filepath.Join(tmpDir, "link.txt")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	files, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ListFiles() returned %d files, want 1 (symlink excluded)", len(files))
	}
	if filepath.Base(files[0].Path) != "target.txt" {
		t.Errorf("ListFiles() found %s, want target.txt", files[0].Path)
	}

	files, err = w.ListFiles(tmpDir, false)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Non-recursive ListFiles() returned %d files, want 1", len(files))
	}
}

func TestListFiles_ExcludedDirectories(t *testing.T) {
	w := newTestWalker(t, []string{"node_modules"})
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "top.txt", "top")
	nm := filepath.Join(tmpDir, "node_modules")
	if err := os.Mkdir(nm, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	writeFile(t, nm, "dep.js", "dep")

	files, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ListFiles() returned %d files, want 1 (excluded dir skipped)", len(files))
	}
}

func TestListFiles_AbsolutePaths(t *testing.T) {
	w := newTestWalker(t, nil)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", "a")

	files, err := w.ListFiles(tmpDir, true)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	for _, f := range files {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("ListFiles() returned relative path %s", f.Path)
		}
	}
}
