/*
DESCRIPTION
  histogram.go implements the histogram accumulator described in spec.md
  §4.8: a shared bin edge set (spectra_bins), a frame-summed spectrum
  (summed_spectra) and a per-pixel spectrum (pixel_spectra), accumulated
  frame by frame and flushed to a caller-supplied sink every flush_interval
  frames. The accumulator deliberately preserves the original histogram
  plugin's boundary quirk: a pixel value exactly equal to bin_end lands in
  an extra bin past the last nominal one, rather than being dropped or
  clamped (see DESIGN.md open question 2).

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package histogram accumulates per-frame pixel values into spectra
// datasets and flushes them periodically.
package histogram

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Config holds the histogram's bin geometry and flush cadence.
type Config struct {
	BinStart      float64
	BinEnd        float64
	BinWidth      float64
	ImagePixels   int
	FlushInterval int // flush after this many accumulated frames; 0 disables periodic flush
}

const (
	defaultBinStart      = 0
	defaultBinEnd        = 8000
	defaultBinWidth      = 10
	defaultFlushInterval = 10
)

// DefaultConfig returns the histogram defaults used by the original
// histogram plugin when no configuration is supplied.
func DefaultConfig(imagePixels int) Config {
	return Config{
		BinStart:      defaultBinStart,
		BinEnd:        defaultBinEnd,
		BinWidth:      defaultBinWidth,
		ImagePixels:   imagePixels,
		FlushInterval: defaultFlushInterval,
	}
}

// Accumulator accumulates per-frame pixel values into the three spectra
// datasets. Configure reinitialises all three datasets, matching the
// original plugin's behaviour of fully reallocating its histograms on every
// configuration update rather than just on the first one.
type Accumulator struct {
	cfg Config

	// numberBins is the nominal bin count; all three dataset slices are
	// allocated with numberBins+1 entries to hold the one-past-the-end
	// value the original's "<=" boundary test admits.
	numberBins int

	// SpectraBins holds each bin's lower edge, one dataset shared across all
	// frames (spec.md's spectra_bins dataset).
	SpectraBins []float64

	// SummedSpectra is the frame-summed histogram across every pixel
	// (spec.md's summed_spectra dataset).
	SummedSpectra []uint64

	// PixelSpectra is the per-pixel histogram, laid out pixel-major:
	// PixelSpectra[pixel*(numberBins+1)+bin].
	PixelSpectra []uint64

	framesProcessed  int
	framesSinceFlush int
}

// Configure (re)initialises the accumulator's datasets for the given
// configuration.
func (a *Accumulator) Configure(cfg Config) {
	a.cfg = cfg
	a.numberBins = int(math.Round((cfg.BinEnd - cfg.BinStart) / cfg.BinWidth))
	if a.numberBins < 0 {
		a.numberBins = 0
	}

	a.SpectraBins = make([]float64, a.numberBins+1)
	for i := range a.SpectraBins {
		a.SpectraBins[i] = cfg.BinStart + float64(i)*cfg.BinWidth
	}
	a.SummedSpectra = make([]uint64, a.numberBins+1)
	a.PixelSpectra = make([]uint64, cfg.ImagePixels*(a.numberBins+1))

	a.framesProcessed = 0
	a.framesSinceFlush = 0
}

// NumberBins returns the nominal bin count (excluding the extra boundary
// slot).
func (a *Accumulator) NumberBins() int { return a.numberBins }

// binFor returns the bin index for value v, and whether v falls within the
// accumulator's admissible range. Values at or below zero are rejected
// outright, matching the original plugin's "if (thisEnergy <= 0.0) continue;"
// guard — independent of bin_start, so a zero-valued pixel never counts
// toward bin 0 even when bin_start is also 0. The upper bound test is "<="
// rather than "<", matching the original plugin's boundary quirk: a value
// exactly equal to bin_end lands in bin index numberBins, one past the last
// nominal bin.
func (a *Accumulator) binFor(v float64) (int, bool) {
	if v <= 0 {
		return 0, false
	}
	if v < a.cfg.BinStart {
		return 0, false
	}
	bin := int((v - a.cfg.BinStart) / a.cfg.BinWidth)
	if bin < 0 || bin > a.numberBins {
		return 0, false
	}
	return bin, true
}

// Accumulate folds one frame's pixel values into the summed and per-pixel
// spectra. pixels must have length ImagePixels.
func (a *Accumulator) Accumulate(pixels []float32) {
	for i, v := range pixels {
		bin, ok := a.binFor(float64(v))
		if !ok {
			continue
		}
		a.SummedSpectra[bin]++
		a.PixelSpectra[i*(a.numberBins+1)+bin]++
	}
	a.framesProcessed++
	a.framesSinceFlush++
}

// TotalEnergy reports the sum of the frame-summed spectrum weighted by bin
// edge, a diagnostic cross-check on total accumulated counts.
func (a *Accumulator) TotalEnergy() float64 {
	weighted := make([]float64, len(a.SummedSpectra))
	for i, c := range a.SummedSpectra {
		weighted[i] = a.SpectraBins[i] * float64(c)
	}
	return floats.Sum(weighted)
}

// FramesProcessed returns the total number of frames folded in since the
// last Configure.
func (a *Accumulator) FramesProcessed() int { return a.framesProcessed }

// MaybeFlush invokes emit and resets the since-flush counter once
// FlushInterval frames have accumulated since the last flush. It is a no-op
// if FlushInterval is 0. emit receives the accumulator so it can read (and
// should not mutate) the current dataset contents.
func (a *Accumulator) MaybeFlush(emit func(*Accumulator)) {
	if a.cfg.FlushInterval <= 0 {
		return
	}
	if a.framesSinceFlush < a.cfg.FlushInterval {
		return
	}
	emit(a)
	a.framesSinceFlush = 0
}

// Reset zeroes the summed and per-pixel spectra without reallocating them or
// changing the bin geometry, matching the reset_histograms configuration
// action.
func (a *Accumulator) Reset() {
	for i := range a.SummedSpectra {
		a.SummedSpectra[i] = 0
	}
	for i := range a.PixelSpectra {
		a.PixelSpectra[i] = 0
	}
	a.framesProcessed = 0
	a.framesSinceFlush = 0
}
