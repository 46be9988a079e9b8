/*
DESCRIPTION
  table.go reads the whitespace-separated per-pixel calibration and threshold
  tables (gradients, intercepts, threshold values) used by the pipeline's
  calibration and threshold stages, falling back to a constant default table
  whenever a file is missing or its token count does not match the frame's
  pixel count — never turning a bad table file into a fatal error for the
  caller.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package table reads per-pixel lookup tables from whitespace-separated text
// files, and can watch them for changes.
package table

import (
	"os"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// ReadFloats reads n whitespace-separated float32 values from path. If the
// file cannot be read, or does not contain exactly n values, a constant
// slice of def is returned instead and the problem is logged rather than
// returned as an error, matching the original calibration plugin's
// fall-back-to-default behaviour for malformed table files.
func ReadFloats(path string, n int, def float32, logger logging.Logger) []float32 {
	fallback := func() []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = def
		}
		return out
	}

	if path == "" {
		return fallback()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warning("table: could not read file, using default", "path", path, "error", err)
		}
		return fallback()
	}

	fields := strings.Fields(string(data))
	if len(fields) != n {
		if logger != nil {
			logger.Warning("table: token count mismatch, using default",
				"path", path, "got", len(fields), "want", n)
		}
		return fallback()
	}

	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			if logger != nil {
				logger.Warning("table: malformed value, using default", "path", path, "token", f)
			}
			return fallback()
		}
		out[i] = float32(v)
	}
	return out
}

// ReadUint16s reads n whitespace-separated uint16 values from path, with the
// same fall-back-to-default behaviour as ReadFloats.
func ReadUint16s(path string, n int, def uint16, logger logging.Logger) []uint16 {
	fallback := func() []uint16 {
		out := make([]uint16, n)
		for i := range out {
			out[i] = def
		}
		return out
	}

	if path == "" {
		return fallback()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warning("table: could not read file, using default", "path", path, "error", err)
		}
		return fallback()
	}

	fields := strings.Fields(string(data))
	if len(fields) != n {
		if logger != nil {
			logger.Warning("table: token count mismatch, using default",
				"path", path, "got", len(fields), "want", n)
		}
		return fallback()
	}

	out := make([]uint16, n)
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			if logger != nil {
				logger.Warning("table: malformed value, using default", "path", path, "token", f)
			}
			return fallback()
		}
		out[i] = uint16(v)
	}
	return out
}
