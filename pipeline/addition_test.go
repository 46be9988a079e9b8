package pipeline

import "testing"

func TestAdditionStageConservesEnergy(t *testing.T) {
	s := NewAdditionStage(1, 4)
	f := s.ProcessFrame(floatFrame([]float32{0, 3, 2, 0}))
	got := f.Float32s()
	var sum float32
	for _, v := range got {
		sum += v
	}
	if sum != 5 {
		t.Errorf("sum = %v, want 5", sum)
	}
}

func TestDiscriminationStageRejectsCluster(t *testing.T) {
	s := NewDiscriminationStage(3, 3)
	f := s.ProcessFrame(floatFrame([]float32{0, 0, 0, 3, 2, 0, 0, 0, 0}))
	got := f.Float32s()
	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %v, want 0", i, v)
		}
	}
}
