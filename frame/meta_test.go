package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSetsExpectedMeta(t *testing.T) {
	f := New(5, []int{2, 3}, Float32, DatasetProcessed)

	want := Meta{
		FrameNumber: 5,
		Dims:        []int{2, 3},
		Element:     Float32,
		Dataset:     DatasetProcessed,
	}
	if diff := cmp.Diff(want, f.Meta); diff != "" {
		t.Errorf("Meta mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneMetaMatchesOriginal(t *testing.T) {
	f := New(2, []int{4}, Uint16, DatasetRaw)
	clone := f.Clone()
	if diff := cmp.Diff(f.Meta, clone.Meta); diff != "" {
		t.Errorf("cloned Meta mismatch (-orig +clone):\n%s", diff)
	}
}
