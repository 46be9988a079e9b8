package pipeline

import (
	"strconv"

	"github.com/stfc-aeg/mercury-detector/frame"
)

// ReorderStage widens a frame's raw uint16 wire elements to float32 for the
// rest of the pipeline. It does not spatially reorder pixels — despite its
// name, inherited from the original plugin, the pixel layout received from
// the FEM is already in the correct row-major order.
//
// It also works around a firmware quirk: the frame_number field reported by
// the FEM is not reliable, so the stage renumbers frames with its own
// monotonically increasing counter instead of trusting the wire value.
type ReorderStage struct {
	Dims []int

	// PassRaw, when set, sends a copy of the incoming raw frame to RawSink
	// before widening, so a raw_frames dataset can be recorded alongside the
	// processed one.
	PassRaw bool
	RawSink chan<- *frame.Frame

	nextFrameNumber uint32
	framesReordered uint64
	packetsLost     uint64
}

// NewReorderStage constructs a ReorderStage for frames of the given
// dimensions.
func NewReorderStage(dims []int) *ReorderStage {
	return &ReorderStage{Dims: dims}
}

func (s *ReorderStage) Configure(cfg map[string]string) error {
	if v, ok := cfg["raw_data"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.PassRaw = b
	}
	return nil
}

func (s *ReorderStage) RequestConfiguration() map[string]string {
	return map[string]string{"raw_data": strconv.FormatBool(s.PassRaw)}
}

func (s *ReorderStage) Status() map[string]interface{} {
	return map[string]interface{}{
		"frames_reordered": s.framesReordered,
		"packets_lost":     s.packetsLost,
	}
}

func (s *ReorderStage) ResetStatistics() {
	s.framesReordered = 0
	s.packetsLost = 0
}

// ObservePacketsLost folds in a packets-lost count reported by the decoder
// for the frame about to be processed, so the pipeline's cumulative loss
// counter tracks the decoder's without the two packages sharing state.
func (s *ReorderStage) ObservePacketsLost(n uint32) {
	s.packetsLost += uint64(n)
}

func (s *ReorderStage) ProcessFrame(f *frame.Frame) *frame.Frame {
	if s.PassRaw && s.RawSink != nil {
		raw := f.Clone()
		raw.Meta.Dataset = frame.DatasetRaw
		select {
		case s.RawSink <- raw:
		default:
		}
	}

	src := f.Uint16s()
	vals := make([]float32, len(src))
	for i, v := range src {
		vals[i] = float32(v)
	}

	out := frame.New(s.nextFrameNumber, s.Dims, frame.Float32, frame.DatasetProcessed)
	out.SetFloat32s(vals)
	s.nextFrameNumber++
	s.framesReordered++
	return out
}
