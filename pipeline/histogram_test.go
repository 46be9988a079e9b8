package pipeline

import "testing"

func TestHistogramStageDropsFrameByDefault(t *testing.T) {
	s := NewHistogramStage(4, nil)
	out := s.ProcessFrame(floatFrame([]float32{1, 1, 1, 1}))
	if out != nil {
		t.Error("expected nil frame when PassProcessed is false")
	}
	if got, want := s.Acc.FramesProcessed(), 1; got != want {
		t.Errorf("FramesProcessed() = %d, want %d", got, want)
	}
}

func TestHistogramStagePassProcessed(t *testing.T) {
	s := NewHistogramStage(4, nil)
	s.PassProcessed = true
	out := s.ProcessFrame(floatFrame([]float32{1, 1, 1, 1}))
	if out == nil {
		t.Error("expected a frame to pass through when PassProcessed is true")
	}
}

func TestHistogramStageConfigureReinitialises(t *testing.T) {
	s := NewHistogramStage(4, nil)
	s.ProcessFrame(floatFrame([]float32{1, 1, 1, 1}))
	if err := s.Configure(map[string]string{"bin_width": "5"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if s.Acc.FramesProcessed() != 0 {
		t.Errorf("FramesProcessed() = %d after reconfigure, want 0 (datasets should reinitialise)", s.Acc.FramesProcessed())
	}
}
