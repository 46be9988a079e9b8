/*
DESCRIPTION
  config.go defines the configuration settings for the Mercury receiver:
  decoder, geometry and pipeline-stage settings that can be supplied at
  startup or pushed at runtime via Update.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the Mercury receiver's configuration surface, in the
// same key/value Update-and-Validate shape used throughout the rest of the
// pipeline.
package config

import "github.com/ausocean/utils/logging"

// Threshold mode string values, accepted by KeyThresholdMode.
const (
	ThresholdModeNone  = "none"
	ThresholdModeValue = "value"
	ThresholdModeFile  = "filename"
)

// Config holds every setting that controls the decoder and pipeline. A new
// Config must have its Logger field set before Validate or Update is
// called.
type Config struct {
	Logger logging.Logger

	// FemPortMap maps UDP source ports to FEM indices, "port:idx[,port:idx]".
	// At most one entry is used.
	FemPortMap string

	// SensorsLayout is the sensor tile arrangement, "RxC".
	SensorsLayout string

	// ListenAddress is the local UDP address the decoder listens on.
	ListenAddress string

	// FrameTimeoutMs bounds how long an in-flight frame may wait for its
	// remaining packets before being timed out.
	FrameTimeoutMs int

	// BufferCount is the number of frame buffers held in the pool.
	BufferCount int

	// PixelGridSize is the NxN neighbourhood used by the Addition and
	// Discrimination kernels. Must be odd.
	PixelGridSize int

	// GradientsFilename and InterceptsFilename point at per-pixel
	// calibration tables. Empty means use the identity defaults.
	GradientsFilename  string
	InterceptsFilename string

	// ThresholdMode selects ThresholdModeNone/Value/File.
	ThresholdMode     string
	ThresholdValue    float64
	ThresholdFilename string

	// NextFrameCorrection enables clearing pixels that were also hit in the
	// immediately preceding frame.
	NextFrameCorrection bool

	// RawData, when true, emits the raw (pre-reorder) dataset alongside the
	// processed one.
	RawData bool

	// PassProcessed, when true, keeps frames flowing past the histogram
	// stage instead of terminating the pipeline there.
	PassProcessed bool

	// BinStart, BinEnd and BinWidth define the histogram bin geometry.
	BinStart float64
	BinEnd   float64
	BinWidth float64

	// FlushHistograms is the number of frames between histogram dataset
	// flushes.
	FlushHistograms int

	// ResetHistograms, when set via Update, zeroes the histogram
	// accumulator's datasets without changing its bin geometry.
	ResetHistograms bool

	// MaxFramesReceived holds the max_frames_received value. It is parsed and
	// stored only; no part of the receiver reads it.
	MaxFramesReceived int

	// PacketLogging enables per-packet header hex-dump logging at Debug
	// level. Expensive; off by default.
	PacketLogging bool
}

// New returns a Config populated with the Mercury receiver's defaults.
func New(logger logging.Logger) *Config {
	return &Config{
		Logger:          logger,
		FemPortMap:      defaultFemPortMap,
		SensorsLayout:   defaultSensorsLayout,
		ListenAddress:   defaultListenAddress,
		FrameTimeoutMs:  defaultFrameTimeoutMs,
		BufferCount:     defaultBufferCount,
		PixelGridSize:   defaultPixelGridSize,
		ThresholdMode:   ThresholdModeNone,
		BinStart:        defaultBinStart,
		BinEnd:          defaultBinEnd,
		BinWidth:        defaultBinWidth,
		FlushHistograms: defaultFlushHistograms,
	}
}

// Validate checks every field for validity, defaulting and logging anything
// bad or unset.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update applies a map of configuration variable names to string values,
// parsing and setting each field in turn.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if val, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, val)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and has been defaulted.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger != nil {
		c.Logger.Info(name+" bad or unset, defaulting", name, def)
	}
}
