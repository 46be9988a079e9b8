package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestThresholdStageNoneIsIdentity(t *testing.T) {
	s := NewThresholdStage(3, nil)
	f := s.ProcessFrame(floatFrame([]float32{1, -5, 100}))
	got := f.Float32s()
	want := []float32{1, -5, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestThresholdStageValueMode(t *testing.T) {
	s := NewThresholdStage(3, nil)
	if err := s.Configure(map[string]string{
		"threshold_mode":  "value",
		"threshold_value": "10",
	}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	f := s.ProcessFrame(floatFrame([]float32{5, 10, 15}))
	got := f.Float32s()
	want := []float32{0, 10, 15}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestThresholdStageFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.txt")
	if err := os.WriteFile(path, []byte("10 0 20"), 0o644); err != nil {
		t.Fatalf("could not write threshold table: %v", err)
	}

	s := NewThresholdStage(3, nil)
	if err := s.Configure(map[string]string{
		"threshold_mode":     "filename",
		"threshold_filename": path,
	}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	f := s.ProcessFrame(floatFrame([]float32{5, 10, 15}))
	got := f.Float32s()
	want := []float32{0, 10, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestThresholdStageRequestConfigurationRoundTripsFileMode(t *testing.T) {
	s := NewThresholdStage(3, nil)
	if err := s.Configure(map[string]string{"threshold_mode": "filename"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if got := s.RequestConfiguration()["threshold_mode"]; got != "filename" {
		t.Errorf("RequestConfiguration()[threshold_mode] = %q, want %q", got, "filename")
	}
}

func TestThresholdStageUnknownModeErrors(t *testing.T) {
	s := NewThresholdStage(3, nil)
	if err := s.Configure(map[string]string{"threshold_mode": "bogus"}); err == nil {
		t.Fatal("Configure() with unknown mode did not error")
	}
}
