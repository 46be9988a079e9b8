/*
DESCRIPTION
  variables.go lists the configuration variables accepted by Config.Update,
  each with a name, a type hint, an updater that parses a string value into
  the Config field, and an optional validator that defaults the field when
  it is left unset or invalid.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"strconv"
)

// Config map keys.
const (
	KeyFemPortMap          = "fem_port_map"
	KeySensorsLayout       = "sensors_layout"
	KeyListenAddress       = "listen_address"
	KeyFrameTimeoutMs      = "frame_timeout_ms"
	KeyBufferCount         = "buffer_count"
	KeyPixelGridSize       = "pixel_grid_size"
	KeyGradientsFilename   = "gradients_filename"
	KeyInterceptsFilename  = "intercepts_filename"
	KeyThresholdMode       = "threshold_mode"
	KeyThresholdValue      = "threshold_value"
	KeyThresholdFilename   = "threshold_filename"
	KeyNextFrameCorrection = "next_frame_correction"
	KeyRawData             = "raw_data"
	KeyPassProcessed       = "pass_processed"
	KeyBinStart            = "bin_start"
	KeyBinEnd              = "bin_end"
	KeyBinWidth            = "bin_width"
	KeyFlushHistograms     = "flush_histograms"
	KeyResetHistograms     = "reset_histograms"
	KeyMaxFramesReceived   = "max_frames_received"
	KeyPacketLogging       = "packet_logging"
)

const (
	typeString = "string"
	typeInt    = "int"
	typeFloat  = "float"
	typeBool   = "bool"

	defaultFemPortMap      = "61651:0"
	defaultSensorsLayout   = "2x2"
	defaultListenAddress   = ":61651"
	defaultFrameTimeoutMs  = 500
	defaultBufferCount     = 3
	defaultPixelGridSize   = 3
	defaultBinStart        = 0
	defaultBinEnd          = 8000
	defaultBinWidth        = 10
	defaultFlushHistograms = 10
)

func parseInt(name, v string, c *Config) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning("invalid int param", "field", name, "value", v)
		return 0
	}
	return n
}

func parseFloat(name, v string, c *Config) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning("invalid float param", "field", name, "value", v)
		return 0
	}
	return f
}

func parseBool(name, v string, c *Config) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.Logger.Warning("invalid bool param", "field", name, "value", v)
		return false
	}
	return b
}

// Variables describes every configuration variable the receiver accepts: its
// name and type, a function to update the Config from a string value, and an
// optional function to validate (and default) the resulting field.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyFemPortMap,
		Type:   typeString,
		Update: func(c *Config, v string) { c.FemPortMap = v },
		Validate: func(c *Config) {
			if c.FemPortMap == "" {
				c.LogInvalidField(KeyFemPortMap, defaultFemPortMap)
				c.FemPortMap = defaultFemPortMap
			}
		},
	},
	{
		Name:   KeySensorsLayout,
		Type:   typeString,
		Update: func(c *Config, v string) { c.SensorsLayout = v },
		Validate: func(c *Config) {
			if c.SensorsLayout == "" {
				c.LogInvalidField(KeySensorsLayout, defaultSensorsLayout)
				c.SensorsLayout = defaultSensorsLayout
			}
		},
	},
	{
		Name:   KeyListenAddress,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ListenAddress = v },
		Validate: func(c *Config) {
			if c.ListenAddress == "" {
				c.LogInvalidField(KeyListenAddress, defaultListenAddress)
				c.ListenAddress = defaultListenAddress
			}
		},
	},
	{
		Name:   KeyFrameTimeoutMs,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.FrameTimeoutMs = parseInt(KeyFrameTimeoutMs, v, c) },
		Validate: func(c *Config) {
			if c.FrameTimeoutMs <= 0 {
				c.LogInvalidField(KeyFrameTimeoutMs, defaultFrameTimeoutMs)
				c.FrameTimeoutMs = defaultFrameTimeoutMs
			}
		},
	},
	{
		Name:   KeyBufferCount,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.BufferCount = parseInt(KeyBufferCount, v, c) },
		Validate: func(c *Config) {
			if c.BufferCount <= 0 {
				c.LogInvalidField(KeyBufferCount, defaultBufferCount)
				c.BufferCount = defaultBufferCount
			}
		},
	},
	{
		Name:   KeyPixelGridSize,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.PixelGridSize = parseInt(KeyPixelGridSize, v, c) },
		Validate: func(c *Config) {
			if c.PixelGridSize <= 0 || c.PixelGridSize%2 == 0 {
				c.LogInvalidField(KeyPixelGridSize, defaultPixelGridSize)
				c.PixelGridSize = defaultPixelGridSize
			}
		},
	},
	{
		Name:   KeyGradientsFilename,
		Type:   typeString,
		Update: func(c *Config, v string) { c.GradientsFilename = v },
	},
	{
		Name:   KeyInterceptsFilename,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InterceptsFilename = v },
	},
	{
		Name:   KeyThresholdMode,
		Type:   "enum:none,value,filename",
		Update: func(c *Config, v string) { c.ThresholdMode = v },
		Validate: func(c *Config) {
			switch c.ThresholdMode {
			case ThresholdModeNone, ThresholdModeValue, ThresholdModeFile:
			default:
				c.LogInvalidField(KeyThresholdMode, ThresholdModeNone)
				c.ThresholdMode = ThresholdModeNone
			}
		},
	},
	{
		Name:   KeyThresholdValue,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.ThresholdValue = parseFloat(KeyThresholdValue, v, c) },
	},
	{
		Name:   KeyThresholdFilename,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ThresholdFilename = v },
	},
	{
		Name:   KeyNextFrameCorrection,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.NextFrameCorrection = parseBool(KeyNextFrameCorrection, v, c) },
	},
	{
		Name:   KeyRawData,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.RawData = parseBool(KeyRawData, v, c) },
	},
	{
		Name:   KeyPassProcessed,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.PassProcessed = parseBool(KeyPassProcessed, v, c) },
	},
	{
		Name:   KeyBinStart,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BinStart = parseFloat(KeyBinStart, v, c) },
	},
	{
		Name:   KeyBinEnd,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BinEnd = parseFloat(KeyBinEnd, v, c) },
		Validate: func(c *Config) {
			if c.BinEnd <= c.BinStart {
				c.LogInvalidField(KeyBinEnd, defaultBinEnd)
				c.BinEnd = defaultBinEnd
			}
		},
	},
	{
		Name:   KeyBinWidth,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BinWidth = parseFloat(KeyBinWidth, v, c) },
		Validate: func(c *Config) {
			if c.BinWidth <= 0 {
				c.LogInvalidField(KeyBinWidth, defaultBinWidth)
				c.BinWidth = defaultBinWidth
			}
		},
	},
	{
		Name:   KeyFlushHistograms,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.FlushHistograms = parseInt(KeyFlushHistograms, v, c) },
	},
	{
		Name:   KeyResetHistograms,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.ResetHistograms = parseBool(KeyResetHistograms, v, c) },
	},
	{
		Name:   KeyMaxFramesReceived,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.MaxFramesReceived = parseInt(KeyMaxFramesReceived, v, c) },
	},
	{
		Name:   KeyPacketLogging,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.PacketLogging = parseBool(KeyPacketLogging, v, c) },
	},
}
