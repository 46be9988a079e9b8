/*
DESCRIPTION
  stage.go defines the Stage interface every pipeline stage implements and
  the Pipeline type that chains stages together and drives frames through
  them. Stages compose linearly rather than through inheritance, matching
  spec.md's Design Notes — the original frame processor expressed the same
  chain as a graph of plugin shared libraries wired by a JSON config; here
  it is a Go slice of Stage values wired at construction time.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline chains the frame processing stages (reorder, calibration,
// threshold, the charged-sharing kernels, next-frame suppression and
// histogramming) into a single linear pipeline that consumes frames handed
// off by the decoder.
package pipeline

import (
	"context"

	"github.com/ausocean/utils/logging"
	"github.com/stfc-aeg/mercury-detector/frame"
)

// Stage is the capability set every pipeline stage implements, matching
// spec.md §4's common per-stage interface.
type Stage interface {
	// Configure applies the given key/value configuration to the stage,
	// returning an error only if a value fails validation.
	Configure(map[string]string) error
	// RequestConfiguration returns the stage's current configuration as a
	// key/value map, for status reporting and introspection.
	RequestConfiguration() map[string]string
	// Status returns stage-specific runtime counters.
	Status() map[string]interface{}
	// ResetStatistics zeroes the stage's runtime counters.
	ResetStatistics()
	// ProcessFrame transforms f in place or returns a replacement frame.
	// Returning a nil frame drops it from the pipeline (used by the
	// histogram stage when PassProcessed is false).
	ProcessFrame(f *frame.Frame) *frame.Frame
}

// Pipeline runs a fixed, ordered chain of stages over frames delivered on
// its input channel.
type Pipeline struct {
	stages []Stage
	logger logging.Logger
	in     chan *frame.Frame
}

// New constructs a Pipeline over the given ordered stages. bufSize sets the
// capacity of the pipeline's input channel.
func New(stages []Stage, bufSize int, logger logging.Logger) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: logger,
		in:     make(chan *frame.Frame, bufSize),
	}
}

// Input returns the channel frames should be sent to for processing.
func (p *Pipeline) Input() chan<- *frame.Frame { return p.in }

// Run drives frames from the input channel through every stage in order
// until ctx is cancelled or the input channel is closed.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-p.in:
			if !ok {
				return
			}
			p.process(f)
		}
	}
}

func (p *Pipeline) process(f *frame.Frame) {
	for _, s := range p.stages {
		if f == nil {
			return
		}
		f = s.ProcessFrame(f)
	}
}

// Stages returns the pipeline's stage chain, in order, for configuration and
// status reporting by stage index.
func (p *Pipeline) Stages() []Stage { return p.stages }
