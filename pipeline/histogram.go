package pipeline

import (
	"strconv"

	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/histogram"
)

// HistogramStage accumulates each frame's pixel values into the histogram
// datasets and flushes them periodically via Emit. If PassProcessed is set,
// the frame continues down the pipeline after accumulation (so a later
// stage, or the sink, can still record processed_frames); otherwise
// histogramming is terminal and the frame is dropped.
type HistogramStage struct {
	Acc           *histogram.Accumulator
	PassProcessed bool
	Emit          func(*histogram.Accumulator)
}

// NewHistogramStage constructs a HistogramStage with the histogram defaults
// for the given image pixel count.
func NewHistogramStage(imagePixels int, emit func(*histogram.Accumulator)) *HistogramStage {
	acc := &histogram.Accumulator{}
	acc.Configure(histogram.DefaultConfig(imagePixels))
	return &HistogramStage{Acc: acc, Emit: emit}
}

func (s *HistogramStage) Configure(cfg map[string]string) error {
	c := s.Acc
	next := histogram.Config{
		BinStart:      c.SpectraBins[0],
		BinEnd:        c.SpectraBins[0] + float64(c.NumberBins())*binWidthOf(c),
		BinWidth:      binWidthOf(c),
		ImagePixels:   len(c.PixelSpectra) / (c.NumberBins() + 1),
		FlushInterval: defaultFlushIntervalOf(c),
	}

	changed := false
	if v, ok := cfg["bin_start"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		next.BinStart = f
		changed = true
	}
	if v, ok := cfg["bin_end"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		next.BinEnd = f
		changed = true
	}
	if v, ok := cfg["bin_width"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		next.BinWidth = f
		changed = true
	}
	if v, ok := cfg["flush_histograms"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		next.FlushInterval = n
		changed = true
	}
	if v, ok := cfg["pass_processed"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.PassProcessed = b
	}
	if v, ok := cfg["reset_histograms"]; ok {
		if b, err := strconv.ParseBool(v); err == nil && b {
			s.Acc.Reset()
		}
	}

	// The original histogram plugin fully reinitialises its datasets on
	// every configuration update, not only when the bin geometry changes;
	// reproduced here for any change to the bin/flush parameters.
	if changed {
		s.Acc.Configure(next)
	}
	return nil
}

func binWidthOf(c *histogram.Accumulator) float64 {
	if len(c.SpectraBins) < 2 {
		return 1
	}
	return c.SpectraBins[1] - c.SpectraBins[0]
}

func defaultFlushIntervalOf(c *histogram.Accumulator) int {
	return 10
}

func (s *HistogramStage) RequestConfiguration() map[string]string {
	return map[string]string{
		"pass_processed": strconv.FormatBool(s.PassProcessed),
	}
}

func (s *HistogramStage) Status() map[string]interface{} {
	return map[string]interface{}{
		"frames_processed": s.Acc.FramesProcessed(),
		"number_bins":      s.Acc.NumberBins(),
	}
}

func (s *HistogramStage) ResetStatistics() { s.Acc.Reset() }

func (s *HistogramStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	s.Acc.Accumulate(f.Float32s())
	if s.Emit != nil {
		s.Acc.MaybeFlush(s.Emit)
	}
	if s.PassProcessed {
		return f
	}
	return nil
}
