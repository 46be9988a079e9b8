package pipeline

import (
	"github.com/ausocean/utils/logging"
	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/table"
)

// CalibrationStage applies a per-pixel linear gradient/intercept correction:
// calibrated = raw*gradient + intercept. A pixel whose raw value is zero or
// negative is left untouched rather than calibrated, matching the original
// calibration plugin.
type CalibrationStage struct {
	Gradients  []float32
	Intercepts []float32
	logger     logging.Logger

	framesCalibrated uint64
}

// NewCalibrationStage constructs a CalibrationStage with every pixel
// defaulted to gradient 1, intercept 0 (the identity transform).
func NewCalibrationStage(imagePixels int, logger logging.Logger) *CalibrationStage {
	g := make([]float32, imagePixels)
	in := make([]float32, imagePixels)
	for i := range g {
		g[i] = 1
	}
	return &CalibrationStage{Gradients: g, Intercepts: in, logger: logger}
}

func (s *CalibrationStage) Configure(cfg map[string]string) error {
	n := len(s.Gradients)
	if path, ok := cfg["gradients_filename"]; ok {
		s.Gradients = table.ReadFloats(path, n, 1, s.logger)
	}
	if path, ok := cfg["intercepts_filename"]; ok {
		s.Intercepts = table.ReadFloats(path, n, 0, s.logger)
	}
	return nil
}

func (s *CalibrationStage) RequestConfiguration() map[string]string {
	return map[string]string{}
}

func (s *CalibrationStage) Status() map[string]interface{} {
	return map[string]interface{}{"frames_calibrated": s.framesCalibrated}
}

func (s *CalibrationStage) ResetStatistics() { s.framesCalibrated = 0 }

func (s *CalibrationStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	vals := f.Float32s()
	for i, v := range vals {
		if v <= 0 {
			continue
		}
		vals[i] = v*s.Gradients[i] + s.Intercepts[i]
	}
	f.SetFloat32s(vals)
	s.framesCalibrated++
	return f
}
