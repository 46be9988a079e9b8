package frame

import "testing"

func TestFloat32sRoundTrip(t *testing.T) {
	f := New(1, []int{2, 2}, Float32, DatasetProcessed)
	vals := []float32{1.5, -2.25, 0, 100}
	f.SetFloat32s(vals)

	got := f.Float32s()
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vals[i])
		}
	}
}

func TestUint16sView(t *testing.T) {
	f := New(0, []int{1, 3}, Uint16, DatasetRaw)
	f.Payload[0], f.Payload[1] = 1, 0     // 1
	f.Payload[2], f.Payload[3] = 0, 1     // 256
	f.Payload[4], f.Payload[5] = 255, 255 // 65535

	got := f.Uint16s()
	want := []uint16{1, 256, 65535}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUint64sRoundTrip(t *testing.T) {
	f := New(0, []int{2}, Uint64, DatasetSummedSpectra)
	vals := []uint64{1, 1 << 40}
	f.SetUint64s(vals)
	got := f.Uint64s()
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vals[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := New(0, []int{2}, Float32, DatasetProcessed)
	f.SetFloat32s([]float32{1, 2})
	clone := f.Clone()

	vals := f.Float32s()
	vals[0] = 99
	f.SetFloat32s(vals)

	cloneVals := clone.Float32s()
	if cloneVals[0] != 1 {
		t.Errorf("clone was mutated: got %v, want 1", cloneVals[0])
	}
}

func TestNumElements(t *testing.T) {
	f := New(0, []int{4, 5}, Float32, DatasetProcessed)
	if got, want := f.NumElements(), 20; got != want {
		t.Errorf("NumElements() = %d, want %d", got, want)
	}
}
