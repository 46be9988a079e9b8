package pipeline

import (
	"fmt"
	"strconv"

	"github.com/stfc-aeg/mercury-detector/frame"
	"github.com/stfc-aeg/mercury-detector/kernel"
)

// DiscriminationStage wraps kernel.Discriminate, the charged-sharing
// cluster-rejection kernel.
type DiscriminationStage struct {
	Height, Width int
	Neighbourhood int

	framesProcessed uint64
}

// NewDiscriminationStage constructs a DiscriminationStage for frames of
// height x width with a default 3x3 neighbourhood.
func NewDiscriminationStage(height, width int) *DiscriminationStage {
	return &DiscriminationStage{Height: height, Width: width, Neighbourhood: 3}
}

func (s *DiscriminationStage) Configure(cfg map[string]string) error {
	if v, ok := cfg["pixel_grid_size"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("pipeline: malformed pixel_grid_size: %w", err)
		}
		s.Neighbourhood = n
	}
	return nil
}

func (s *DiscriminationStage) RequestConfiguration() map[string]string {
	return map[string]string{"pixel_grid_size": strconv.Itoa(s.Neighbourhood)}
}

func (s *DiscriminationStage) Status() map[string]interface{} {
	return map[string]interface{}{"frames_processed": s.framesProcessed}
}

func (s *DiscriminationStage) ResetStatistics() { s.framesProcessed = 0 }

func (s *DiscriminationStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	vals := f.Float32s()
	out, err := kernel.Discriminate(vals, s.Height, s.Width, s.Neighbourhood)
	if err != nil {
		return f
	}
	f.SetFloat32s(out)
	s.framesProcessed++
	return f
}
