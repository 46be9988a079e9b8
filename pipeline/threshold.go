package pipeline

import (
	"fmt"
	"strconv"

	"github.com/ausocean/utils/logging"
	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/table"
)

// ThresholdMode selects how ThresholdStage decides which pixels to zero.
type ThresholdMode int

const (
	// ThresholdNone passes every frame through unchanged.
	ThresholdNone ThresholdMode = iota
	// ThresholdValue zeroes any pixel below a single configured value.
	ThresholdValue
	// ThresholdFile zeroes any pixel below its own per-pixel threshold,
	// loaded from a table file.
	ThresholdFile
)

// ThresholdStage zeroes pixels below a threshold: either a single constant
// value, or a per-pixel table. In ThresholdNone mode (the default) it is the
// identity transform.
type ThresholdStage struct {
	Mode     ThresholdMode
	Value    float32
	PerPixel []float32
	logger   logging.Logger

	imagePixels       int
	framesThresholded uint64
}

// NewThresholdStage constructs a ThresholdStage in ThresholdNone mode.
func NewThresholdStage(imagePixels int, logger logging.Logger) *ThresholdStage {
	return &ThresholdStage{Mode: ThresholdNone, imagePixels: imagePixels, logger: logger}
}

func (s *ThresholdStage) Configure(cfg map[string]string) error {
	if v, ok := cfg["threshold_mode"]; ok {
		switch v {
		case "none":
			s.Mode = ThresholdNone
		case "value":
			s.Mode = ThresholdValue
		case "filename":
			s.Mode = ThresholdFile
		default:
			return fmt.Errorf("pipeline: unknown threshold_mode %q", v)
		}
	}
	if v, ok := cfg["threshold_value"]; ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("pipeline: malformed threshold_value: %w", err)
		}
		s.Value = float32(f)
	}
	if path, ok := cfg["threshold_filename"]; ok {
		s.PerPixel = table.ReadFloats(path, s.imagePixels, s.Value, s.logger)
	}
	return nil
}

func (s *ThresholdStage) RequestConfiguration() map[string]string {
	mode := "none"
	switch s.Mode {
	case ThresholdValue:
		mode = "value"
	case ThresholdFile:
		mode = "filename"
	}
	return map[string]string{
		"threshold_mode":  mode,
		"threshold_value": strconv.FormatFloat(float64(s.Value), 'g', -1, 32),
	}
}

func (s *ThresholdStage) Status() map[string]interface{} {
	return map[string]interface{}{"frames_thresholded": s.framesThresholded}
}

func (s *ThresholdStage) ResetStatistics() { s.framesThresholded = 0 }

func (s *ThresholdStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	if s.Mode == ThresholdNone {
		return f
	}
	vals := f.Float32s()
	switch s.Mode {
	case ThresholdValue:
		for i, v := range vals {
			if v < s.Value {
				vals[i] = 0
			}
		}
	case ThresholdFile:
		for i, v := range vals {
			if i < len(s.PerPixel) && v < s.PerPixel[i] {
				vals[i] = 0
			}
		}
	}
	f.SetFloat32s(vals)
	s.framesThresholded++
	return f
}
