package kernel

import "testing"

func sum(vals []float32) float32 {
	var s float32
	for _, v := range vals {
		s += v
	}
	return s
}

func TestExtendCollapseRoundTrip(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5, 6}
	ext, extWidth := Extend(src, 2, 3, 1)
	if got, want := len(ext), (2+2)*(3+2); got != want {
		t.Fatalf("len(ext) = %d, want %d", got, want)
	}
	back := Collapse(ext, extWidth, 1, 2, 3)
	for i := range src {
		if back[i] != src[i] {
			t.Errorf("back[%d] = %v, want %v", i, back[i], src[i])
		}
	}
}

func TestAddEnergyConservedAcrossAdjacentPair(t *testing.T) {
	// A 1x4 row with two adjacent nonzero pixels: the larger should absorb
	// the smaller, with total energy in the row unchanged.
	src := []float32{0, 3, 2, 0}
	out, err := Add(src, 1, 4, 3)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got, want := sum(out), sum(src); got != want {
		t.Errorf("sum(out) = %v, want %v (energy not conserved)", got, want)
	}
}

func TestAddIsolatedPixelUnchanged(t *testing.T) {
	src := []float32{0, 0, 0, 5, 0, 0, 0, 0, 0}
	out, err := Add(src, 3, 3, 3)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if out[3] != 5 {
		t.Errorf("isolated pixel value = %v, want 5", out[3])
	}
	if got, want := sum(out), sum(src); got != want {
		t.Errorf("sum(out) = %v, want %v", got, want)
	}
}

func TestAddThreePixelClusterAccumulatesOnAnchor(t *testing.T) {
	// 4x4 grid: 5 at (1,1), 3 at (1,2), 2 at (2,1). The anchor at (1,1) is
	// visited first in row-major order and absorbs both smaller neighbours
	// in turn, so the energy should land entirely on (1,1).
	width := 4
	src := make([]float32, 4*width)
	src[1*width+1] = 5
	src[1*width+2] = 3
	src[2*width+1] = 2

	out, err := Add(src, 4, width, 3)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got, want := out[1*width+1], float32(10); got != want {
		t.Errorf("out[(1,1)] = %v, want %v", got, want)
	}
	if got := out[1*width+2]; got != 0 {
		t.Errorf("out[(1,2)] = %v, want 0", got)
	}
	if got := out[2*width+1]; got != 0 {
		t.Errorf("out[(2,1)] = %v, want 0", got)
	}
	if got, want := sum(out), sum(src); got != want {
		t.Errorf("sum(out) = %v, want %v (energy not conserved)", got, want)
	}
}

func TestAddRejectsEvenNeighbourhood(t *testing.T) {
	if _, err := Add([]float32{1}, 1, 1, 2); err == nil {
		t.Fatal("Add() with even neighbourhood size did not error")
	}
}

func TestDiscriminateIsolatedPixelSurvives(t *testing.T) {
	src := []float32{0, 0, 0, 0, 5, 0, 0, 0, 0}
	out, err := Discriminate(src, 3, 3, 3)
	if err != nil {
		t.Fatalf("Discriminate() error = %v", err)
	}
	if out[4] != 5 {
		t.Errorf("out[4] = %v, want 5 (isolated pixel should survive)", out[4])
	}
}

func TestDiscriminateRejectsCluster(t *testing.T) {
	src := []float32{0, 0, 0, 3, 2, 0, 0, 0, 0}
	out, err := Discriminate(src, 3, 3, 3)
	if err != nil {
		t.Fatalf("Discriminate() error = %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0 (clustered pixels should be rejected)", i, v)
		}
	}
}

func TestDiscriminateIdempotent(t *testing.T) {
	src := []float32{0, 0, 0, 3, 2, 0, 0, 0, 1}
	once, err := Discriminate(src, 3, 3, 3)
	if err != nil {
		t.Fatalf("Discriminate() error = %v", err)
	}
	twice, err := Discriminate(once, 3, 3, 3)
	if err != nil {
		t.Fatalf("Discriminate() error = %v", err)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("index %d: first pass %v, second pass %v, want idempotent", i, once[i], twice[i])
		}
	}
}
