/*
DESCRIPTION
  frame.go defines the Frame type passed between pipeline stages: a frame's
  metadata (dimensions, element type, dataset tag) alongside its raw payload
  bytes, with typed view helpers so stages can read and write the payload
  without repeated manual byte-slice arithmetic.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame defines the unit of data that flows through the processing
// pipeline: a frame's metadata plus its payload, with typed views onto that
// payload for the element types stages actually work with.
package frame

import (
	"encoding/binary"
	"math"
)

// ElementType identifies the wire/in-memory representation of a frame's
// payload elements.
type ElementType int

const (
	// Uint16 is the raw element type received from the FEM.
	Uint16 ElementType = iota
	// Float32 is the element type used from the reorder stage onward.
	Float32
	// Uint64 is used by summed histogram datasets.
	Uint64
)

// Dataset tags identify which named dataset a frame belongs to, mirroring
// the original frame processor's dataset routing (spec.md §4.8).
const (
	DatasetRaw           = "raw_frames"
	DatasetProcessed     = "processed_frames"
	DatasetSpectraBins   = "spectra_bins"
	DatasetSummedSpectra = "summed_spectra"
	DatasetPixelSpectra  = "pixel_spectra"
)

// Meta is a frame's metadata: its sequence number, shape and element type,
// and the dataset it is destined for.
type Meta struct {
	FrameNumber uint32
	Dims        []int
	Element     ElementType
	Dataset     string
}

// Frame is one unit of pipeline data: metadata plus a raw byte payload. The
// payload is interpreted according to Meta.Element via the view helpers
// below.
type Frame struct {
	Meta    Meta
	Payload []byte
}

// New allocates a Frame with a payload sized for n elements of typ.
func New(frameNumber uint32, dims []int, typ ElementType, dataset string) *Frame {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return &Frame{
		Meta: Meta{
			FrameNumber: frameNumber,
			Dims:        dims,
			Element:     typ,
			Dataset:     dataset,
		},
		Payload: make([]byte, n*elementSize(typ)),
	}
}

func elementSize(typ ElementType) int {
	switch typ {
	case Uint16:
		return 2
	case Float32:
		return 4
	case Uint64:
		return 8
	default:
		return 1
	}
}

// NumElements returns the element count implied by Meta.Dims.
func (f *Frame) NumElements() int {
	n := 1
	for _, d := range f.Meta.Dims {
		n *= d
	}
	return n
}

// Uint16s views the payload as a slice of little-endian uint16 elements.
// Panics if Meta.Element is not Uint16.
func (f *Frame) Uint16s() []uint16 {
	if f.Meta.Element != Uint16 {
		panic("frame: Uint16s called on non-uint16 frame")
	}
	n := len(f.Payload) / 2
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(f.Payload[i*2:])
	}
	return out
}

// Float32s views the payload as a slice of float32 elements. Panics if
// Meta.Element is not Float32.
func (f *Frame) Float32s() []float32 {
	if f.Meta.Element != Float32 {
		panic("frame: Float32s called on non-float32 frame")
	}
	n := len(f.Payload) / 4
	out := make([]float32, n)
	for i := range out {
		bits := binary.LittleEndian.Uint32(f.Payload[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// SetFloat32s overwrites the payload from vals, resizing if necessary and
// setting Meta.Element to Float32.
func (f *Frame) SetFloat32s(vals []float32) {
	f.Meta.Element = Float32
	if len(f.Payload) != len(vals)*4 {
		f.Payload = make([]byte, len(vals)*4)
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(f.Payload[i*4:], math.Float32bits(v))
	}
}

// Uint64s views the payload as a slice of uint64 elements. Panics if
// Meta.Element is not Uint64.
func (f *Frame) Uint64s() []uint64 {
	if f.Meta.Element != Uint64 {
		panic("frame: Uint64s called on non-uint64 frame")
	}
	n := len(f.Payload) / 8
	out := make([]uint64, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(f.Payload[i*8:])
	}
	return out
}

// SetUint64s overwrites the payload from vals, resizing if necessary and
// setting Meta.Element to Uint64.
func (f *Frame) SetUint64s(vals []uint64) {
	f.Meta.Element = Uint64
	if len(f.Payload) != len(vals)*8 {
		f.Payload = make([]byte, len(vals)*8)
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint64(f.Payload[i*8:], v)
	}
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	dims := make([]int, len(f.Meta.Dims))
	copy(dims, f.Meta.Dims)
	payload := make([]byte, len(f.Payload))
	copy(payload, f.Payload)
	return &Frame{
		Meta: Meta{
			FrameNumber: f.Meta.FrameNumber,
			Dims:        dims,
			Element:     f.Meta.Element,
			Dataset:     f.Meta.Dataset,
		},
		Payload: payload,
	}
}
