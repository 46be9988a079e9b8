package histogram

import "testing"

func newTestAccumulator() *Accumulator {
	acc := &Accumulator{}
	acc.Configure(Config{
		BinStart:      0,
		BinEnd:        100,
		BinWidth:      10,
		ImagePixels:   4,
		FlushInterval: 2,
	})
	return acc
}

func TestConfigureBinCount(t *testing.T) {
	acc := newTestAccumulator()
	if got, want := acc.NumberBins(), 10; got != want {
		t.Errorf("NumberBins() = %d, want %d", got, want)
	}
	if got, want := len(acc.SpectraBins), 11; got != want {
		t.Errorf("len(SpectraBins) = %d, want %d", got, want)
	}
	if got, want := len(acc.SummedSpectra), 11; got != want {
		t.Errorf("len(SummedSpectra) = %d, want %d", got, want)
	}
	if got, want := len(acc.PixelSpectra), 4*11; got != want {
		t.Errorf("len(PixelSpectra) = %d, want %d", got, want)
	}
}

func TestAccumulateInRangeValue(t *testing.T) {
	acc := newTestAccumulator()
	acc.Accumulate([]float32{5, 5, 5, 5})
	if got, want := acc.SummedSpectra[0], uint64(4); got != want {
		t.Errorf("SummedSpectra[0] = %d, want %d", got, want)
	}
}

func TestAccumulateBoundaryQuirkAdmitsOnePastLastBin(t *testing.T) {
	acc := newTestAccumulator()
	// BinEnd (100) lands exactly on the boundary: bin index 10, the extra
	// slot beyond the nominal 10 bins (indices 0..9).
	acc.Accumulate([]float32{100, 0, 0, 0})

	lastBin := acc.NumberBins()
	if got, want := acc.SummedSpectra[lastBin], uint64(1); got != want {
		t.Errorf("SummedSpectra[%d] = %d, want %d (boundary value should land in the extra bin)", lastBin, got, want)
	}
	if acc.PixelSpectra[0*(lastBin+1)+lastBin] != 1 {
		t.Errorf("PixelSpectra boundary slot not incremented for pixel 0")
	}
	if got := acc.SummedSpectra[0]; got != 0 {
		t.Errorf("SummedSpectra[0] = %d, want 0 (zero-valued pixels must not count)", got)
	}
}

func TestAccumulateZeroValuedPixelsNeverCounted(t *testing.T) {
	// Mirrors the documented two-hit-in-an-80x80-frame scenario: most pixels
	// are 0 and must never land in bin 0, even though BinStart is also 0.
	acc := &Accumulator{}
	acc.Configure(Config{BinStart: 0, BinEnd: 8000, BinWidth: 1000, ImagePixels: 6400, FlushInterval: 0})

	pixels := make([]float32, 6400)
	pixels[10] = 500  // bin 0
	pixels[20] = 1500 // bin 1
	acc.Accumulate(pixels)

	if got, want := acc.SummedSpectra[0], uint64(1); got != want {
		t.Errorf("SummedSpectra[0] = %d, want %d", got, want)
	}
	if got, want := acc.SummedSpectra[1], uint64(1); got != want {
		t.Errorf("SummedSpectra[1] = %d, want %d", got, want)
	}
	for i, c := range acc.SummedSpectra {
		if i == 0 || i == 1 {
			continue
		}
		if c != 0 {
			t.Errorf("SummedSpectra[%d] = %d, want 0", i, c)
		}
	}
}

func TestAccumulateAboveRangeIgnored(t *testing.T) {
	acc := newTestAccumulator()
	acc.Accumulate([]float32{1000, 0, 0, 0})
	var total uint64
	for _, c := range acc.SummedSpectra {
		total += c
	}
	if total != 0 {
		t.Errorf("total count = %d, want 0 for out-of-range value", total)
	}
}

func TestMaybeFlushFiresAtInterval(t *testing.T) {
	acc := newTestAccumulator()
	flushed := 0
	emit := func(*Accumulator) { flushed++ }

	acc.Accumulate([]float32{0, 0, 0, 0})
	acc.MaybeFlush(emit)
	if flushed != 0 {
		t.Fatalf("flushed = %d after 1 frame, want 0 (interval is 2)", flushed)
	}

	acc.Accumulate([]float32{0, 0, 0, 0})
	acc.MaybeFlush(emit)
	if flushed != 1 {
		t.Fatalf("flushed = %d after 2 frames, want 1", flushed)
	}
	for i, c := range acc.SummedSpectra {
		if c != 0 {
			t.Errorf("SummedSpectra[%d] = %d, want 0 for all-zero frames", i, c)
		}
	}
}

func TestResetClearsCountsNotGeometry(t *testing.T) {
	acc := newTestAccumulator()
	acc.Accumulate([]float32{5, 5, 5, 5})
	acc.Reset()

	for i, c := range acc.SummedSpectra {
		if c != 0 {
			t.Errorf("SummedSpectra[%d] = %d, want 0 after Reset", i, c)
		}
	}
	if got, want := acc.NumberBins(), 10; got != want {
		t.Errorf("NumberBins() = %d after Reset, want %d (geometry should survive)", got, want)
	}
	if acc.FramesProcessed() != 0 {
		t.Errorf("FramesProcessed() = %d after Reset, want 0", acc.FramesProcessed())
	}
}

func TestTotalEnergyWeightsByBinEdge(t *testing.T) {
	acc := newTestAccumulator()
	acc.Accumulate([]float32{20, 20, 20, 20}) // bin 2, edge 20
	if got, want := acc.TotalEnergy(), 20.0*4; got != want {
		t.Errorf("TotalEnergy() = %v, want %v", got, want)
	}
}
