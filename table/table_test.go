package table

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFloatsHappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradients.txt")
	if err := os.WriteFile(path, []byte("1.0 2.5 3.0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got := ReadFloats(path, 3, 0, nil)
	want := []float32{1.0, 2.5, 3.0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadFloatsMissingFileFallsBackToDefault(t *testing.T) {
	got := ReadFloats(filepath.Join(t.TempDir(), "missing.txt"), 3, 9, nil)
	for i, v := range got {
		if v != 9 {
			t.Errorf("got[%d] = %v, want 9 (default)", i, v)
		}
	}
}

func TestReadFloatsTokenCountMismatchFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradients.txt")
	if err := os.WriteFile(path, []byte("1.0 2.0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got := ReadFloats(path, 3, 7, nil)
	for i, v := range got {
		if v != 7 {
			t.Errorf("got[%d] = %v, want 7 (default)", i, v)
		}
	}
}

func TestReadUint16sHappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.txt")
	if err := os.WriteFile(path, []byte("10 20 30"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got := ReadUint16s(path, 3, 0, nil)
	want := []uint16{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadFloatsEmptyPathFallsBack(t *testing.T) {
	got := ReadFloats("", 2, 1, nil)
	if got[0] != 1 || got[1] != 1 {
		t.Errorf("got = %v, want [1 1]", got)
	}
}
