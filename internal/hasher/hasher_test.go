package hasher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var allAlgorithms = []Algorithm{AlgMD5, AlgSHA256, AlgXXH3}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Algorithm
		wantErr  bool
	}{
		{"MD5", "md5", AlgMD5, false},
		{"SHA256", "sha256", AlgSHA256, false},
		{"XXH3", "xxh3", AlgXXH3, false},
		{"Empty defaults to SHA256", "", AlgSHA256, false},
		{"Unknown", "sha512", AlgSHA256, true},
		{"Uppercase rejected", "MD5", AlgSHA256, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownAlgorithm) {
				t.Errorf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", tt.input, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHashFile_IdenticalContent(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "a.txt", "identical content")
	b := writeFile(t, tmpDir, "b.txt", "identical content")

	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			hashA, err := HashFile(a, alg)
			if err != nil {
				t.Fatalf("HashFile(%s) error = %v", a, err)
			}
			hashB, err := HashFile(b, alg)
			if err != nil {
				t.Fatalf("HashFile(%s) error = %v", b, err)
			}
			if hashA != hashB {
				t.Errorf("Identical files hashed differently: %s vs %s", hashA, hashB)
			}
			if hashA == "" {
				t.Error("HashFile returned empty digest")
			}
		})
	}
}

func TestHashFile_DistinctContent(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "a.txt", "content one")
	b := writeFile(t, tmpDir, "b.txt", "content two")

	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			hashA, _ := HashFile(a, alg)
			hashB, _ := HashFile(b, alg)
			if hashA == hashB {
				t.Errorf("Distinct files produced the same digest %s", hashA)
			}
		})
	}
}

func TestHashFile_KnownDigests(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "known.txt", "hello")

	tests := []struct {
		alg      Algorithm
		expected string
	}{
		{AlgMD5, "5d41402abc4b2a76b9719d911017c592"},
		{AlgSHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			got, err := HashFile(path, tt.alg)
			if err != nil {
				t.Fatalf("HashFile() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("HashFile() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestHashFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "empty1.txt", "")
	b := writeFile(t, tmpDir, "empty2.txt", "")

	hashA, err := HashFile(a, AlgSHA256)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	hashB, _ := HashFile(b, AlgSHA256)
	if hashA != hashB {
		t.Error("Empty files should share a digest")
	}
}

func TestHashFile_NonExistent(t *testing.T) {
	_, err := HashFile("/nonexistent/file.txt", AlgSHA256)
	if err == nil {
		t.Error("HashFile() expected error for non-existent file, got nil")
	}
}

func TestHashFile_LargerThanBuffer(t *testing.T) {
	// Content spanning several read chunks must hash the same as a
	// single-shot write of the same bytes elsewhere.
	tmpDir := t.TempDir()
	content := make([]byte, hashBufferSize*3+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	a := filepath.Join(tmpDir, "big1.bin")
	b := filepath.Join(tmpDir, "big2.bin")
	if err := os.WriteFile(a, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(b, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	for _, alg := range allAlgorithms {
		hashA, err := HashFile(a, alg)
		if err != nil {
			t.Fatalf("HashFile() error = %v", err)
		}
		hashB, _ := HashFile(b, alg)
		if hashA != hashB {
			t.Errorf("%s: chunked hashing is not content-deterministic", alg)
		}
	}
}

func TestCompareFiles(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "a.txt", "same")
	b := writeFile(t, tmpDir, "b.txt", "same")
	c := writeFile(t, tmpDir, "c.txt", "different")

	equal, err := CompareFiles(a, b, AlgSHA256)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if !equal {
		t.Error("CompareFiles() = false for identical files")
	}

	equal, err = CompareFiles(a, c, AlgSHA256)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if equal {
		t.Error("CompareFiles() = true for distinct files")
	}

	if _, err := CompareFiles(a, "/nonexistent/file.txt", AlgSHA256); err == nil {
		t.Error("CompareFiles() expected error for missing file, got nil")
	}
}
