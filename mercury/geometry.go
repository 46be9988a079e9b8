/*
DESCRIPTION
  geometry.go defines the sensor geometry and wire-protocol constants shared by
  the decoder and pipeline packages: the fixed 80x80 pixel sensor unit, the
  "RxC" sensor layout string format, and the packet/frame sizes that layout
  implies.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mercury holds the geometry and wire-protocol constants for the
// Mercury pixelated X-ray detector: sensor dimensions, packet header layout
// and the packet/frame sizes derived from a sensor layout.
package mercury

import (
	"fmt"
	"strconv"
	"strings"
)

// PixelsPerSensor is the fixed width and height, in pixels, of a single
// Mercury sensor tile.
const PixelsPerSensor = 80

// PacketHeaderSize is the size, in bytes, of a UDP packet header.
const PacketHeaderSize = 8

// PrimaryPacketSize is the payload size, in bytes, of a primary packet.
const PrimaryPacketSize = 8000

// BytesPerPixel is the wire element size of a raw pixel value (uint16).
const BytesPerPixel = 2

// DefaultSensorsLayout is used when no sensors_layout configuration value is
// supplied.
const DefaultSensorsLayout = "2x2"

// DefaultFemPortMap is used when no fem_port_map configuration value is
// supplied.
const DefaultFemPortMap = "61651:0"

// IllegalFemIdx marks a FEM index or buffer index as unassigned, matching the
// original decoder's ILLEGAL_FEM_IDX sentinel.
const IllegalFemIdx = -1

// SensorLayout describes an RxC arrangement of 80x80 sensor tiles.
type SensorLayout struct {
	Rows    int
	Columns int
}

// ParseSensorLayout parses a layout string of the form "RxC" into a
// SensorLayout. Both R and C must be positive integers.
func ParseSensorLayout(s string) (SensorLayout, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return SensorLayout{}, fmt.Errorf("mercury: malformed sensors layout %q, expected RxC", s)
	}
	rows, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || rows <= 0 {
		return SensorLayout{}, fmt.Errorf("mercury: malformed sensors layout rows in %q", s)
	}
	cols, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || cols <= 0 {
		return SensorLayout{}, fmt.Errorf("mercury: malformed sensors layout columns in %q", s)
	}
	return SensorLayout{Rows: rows, Columns: cols}, nil
}

// String renders the layout back into "RxC" form.
func (l SensorLayout) String() string {
	return fmt.Sprintf("%dx%d", l.Rows, l.Columns)
}

// ImageHeight is the reassembled image height in pixels.
func (l SensorLayout) ImageHeight() int { return l.Rows * PixelsPerSensor }

// ImageWidth is the reassembled image width in pixels.
func (l SensorLayout) ImageWidth() int { return l.Columns * PixelsPerSensor }

// ImagePixels is the total pixel count of the reassembled image.
func (l SensorLayout) ImagePixels() int { return l.ImageHeight() * l.ImageWidth() }

// FrameSize is the raw payload size, in bytes, of one complete frame for this
// layout: image_pixels * 2 bytes (the wire element type is uint16).
func (l SensorLayout) FrameSize() int { return l.ImagePixels() * BytesPerPixel }

// NumPrimaryPackets is the number of full PrimaryPacketSize packets needed to
// carry this layout's frame payload before the final, shorter, tail packet.
func (l SensorLayout) NumPrimaryPackets() int { return l.FrameSize() / PrimaryPacketSize }

// TailPacketSize is the size, in bytes, of the final packet of a frame: the
// remainder of FrameSize after NumPrimaryPackets full packets.
func (l SensorLayout) TailPacketSize() int { return l.FrameSize() % PrimaryPacketSize }

// ExpectedPacketCount is the total number of packets (primary + tail) that
// make up one complete frame for this layout.
func (l SensorLayout) ExpectedPacketCount() int { return l.NumPrimaryPackets() + 1 }

// PayloadOffset returns the byte offset, within a frame's contiguous payload
// region, at which packet number n's data begins.
func (l SensorLayout) PayloadOffset(packetNumber int) int {
	return PrimaryPacketSize * packetNumber
}

// PayloadSize returns the number of payload bytes expected for packet number
// n of a frame with this layout: PrimaryPacketSize for every packet except
// the last, which is TailPacketSize.
func (l SensorLayout) PayloadSize(packetNumber int) int {
	if packetNumber < l.NumPrimaryPackets() {
		return PrimaryPacketSize
	}
	return l.TailPacketSize()
}
