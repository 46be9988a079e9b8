package pipeline

import (
	"strconv"

	"github.com/stfc-aeg/mercury-detector/frame"
)

// NextFrameStage clears any pixel that was also hit in the immediately
// preceding frame, to suppress a detector artefact where the same pixel
// fires on two consecutive frames. Correction only runs when the current
// frame number is exactly one more than the last frame seen — a gap means
// there is nothing adjacent to compare against. The previous-frame buffer
// is always replaced with the frame just received, whether or not
// correction was actually applied — matching the original plugin, which
// stores the incoming frame unconditionally rather than only on a
// successful correction.
type NextFrameStage struct {
	Enabled bool

	previous        []float32
	lastFrameNumber int64
	framesCorrected uint64
}

// NewNextFrameStage constructs a disabled NextFrameStage.
func NewNextFrameStage() *NextFrameStage {
	return &NextFrameStage{lastFrameNumber: -1}
}

func (s *NextFrameStage) Configure(cfg map[string]string) error {
	if v, ok := cfg["next_frame_correction"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.Enabled = b
	}
	return nil
}

func (s *NextFrameStage) RequestConfiguration() map[string]string {
	return map[string]string{"next_frame_correction": strconv.FormatBool(s.Enabled)}
}

func (s *NextFrameStage) Status() map[string]interface{} {
	return map[string]interface{}{"frames_corrected": s.framesCorrected}
}

func (s *NextFrameStage) ResetStatistics() { s.framesCorrected = 0 }

func (s *NextFrameStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	vals := f.Float32s()
	currentFrameNumber := int64(f.Meta.FrameNumber)

	if s.Enabled && len(s.previous) == len(vals) && s.lastFrameNumber+1 == currentFrameNumber {
		corrected := make([]float32, len(vals))
		copy(corrected, vals)
		for i, prev := range s.previous {
			if prev > 0 {
				corrected[i] = 0
			}
		}
		f.SetFloat32s(corrected)
		s.framesCorrected++
	}

	s.lastFrameNumber = currentFrameNumber
	s.storePrevious(vals)
	return f
}

func (s *NextFrameStage) storePrevious(vals []float32) {
	if len(s.previous) != len(vals) {
		s.previous = make([]float32, len(vals))
	}
	copy(s.previous, vals)
}
