package pipeline

import (
	"fmt"
	"strconv"

	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/kernel"
)

// AdditionStage wraps kernel.Add, the charged-sharing addition kernel.
type AdditionStage struct {
	Height, Width int
	Neighbourhood int

	framesProcessed uint64
}

// NewAdditionStage constructs an AdditionStage for frames of height x width
// with a default 3x3 neighbourhood.
func NewAdditionStage(height, width int) *AdditionStage {
	return &AdditionStage{Height: height, Width: width, Neighbourhood: 3}
}

func (s *AdditionStage) Configure(cfg map[string]string) error {
	if v, ok := cfg["pixel_grid_size"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("pipeline: malformed pixel_grid_size: %w", err)
		}
		s.Neighbourhood = n
	}
	return nil
}

func (s *AdditionStage) RequestConfiguration() map[string]string {
	return map[string]string{"pixel_grid_size": strconv.Itoa(s.Neighbourhood)}
}

func (s *AdditionStage) Status() map[string]interface{} {
	return map[string]interface{}{"frames_processed": s.framesProcessed}
}

func (s *AdditionStage) ResetStatistics() { s.framesProcessed = 0 }

func (s *AdditionStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	vals := f.Float32s()
	out, err := kernel.Add(vals, s.Height, s.Width, s.Neighbourhood)
	if err != nil {
		// Malformed neighbourhood configuration; pass the frame through
		// unmodified rather than dropping it.
		return f
	}
	f.SetFloat32s(out)
	s.framesProcessed++
	return f
}
