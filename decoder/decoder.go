/*
DESCRIPTION
  decoder.go implements the UDP frame decoder described in spec.md §4.1: packet
  classification, per-frame buffer assignment, payload placement, completion
  detection and timeout-driven loss accounting. The decoder never raises on
  malformed wire input — anomalies are counted and logged, matching the
  failure semantics of the original MercuryFrameDecoder.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decoder implements the UDP frame decoder: it classifies incoming
// packet headers, assigns and fills frame buffers from a bufpool.Pool, and
// declares frames complete or timed-out via a caller-supplied ready
// callback.
package decoder

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"github.com/stfc-aeg/mercury-detector/bufpool"
	"github.com/stfc-aeg/mercury-detector/mercury"
)

// maxIgnoredPacketReports bounds how many "ignoring packet" warnings are
// logged before further ones are suppressed, matching
// MAX_IGNORED_PACKET_REPORTS in the original decoder.
const maxIgnoredPacketReports = 10

// ReadyFunc is invoked when a frame buffer is complete or has timed out. The
// decoder does not touch bufID again until the callback returns (spec.md §5
// handoff contract); the callback is responsible for eventually calling
// Pool.Release once downstream processing has finished with the buffer.
type ReadyFunc func(bufID int, frameNumber uint32, state mercury.FrameState)

// femEntry maps a UDP source port to a FEM index and pool buffer slot.
type femEntry struct {
	femIdx int
	bufIdx int
}

// Decoder is the UDP frame decoder. A single goroutine (see Listen in
// listener.go) must drive PeekHeader/NextPayload/ProcessPacket/MonitorBuffers
// — the decoder keeps no internal locking, matching spec.md §5's single
// receive thread model.
type Decoder struct {
	logger     logging.Logger
	pool       *bufpool.Pool
	layout     mercury.SensorLayout
	ready      ReadyFunc
	logPackets bool

	frameTimeout time.Duration

	portMap    map[int]femEntry
	femPortStr string

	// Per-packet transient state, set by PeekHeader and consumed by
	// NextPayload/ProcessPacket for the packet currently being received.
	currentHeader mercury.PacketHeader
	currentFem    femEntry
	currentMapped bool

	// Per-frame assignment state.
	currentFrameSeen     int64 // -1 means "no frame seen yet"
	frameBufferMap       map[uint32]int
	currentFrameBufferID int
	currentFrameHeader   *mercury.FrameHeader
	droppingFrameData    bool

	packetsIgnored uint32
	packetsLost    uint32
	femPacketsLost uint32
	framesTimedOut uint32
}

// New constructs a Decoder backed by pool, which must already be sized for
// layout (see bufpool.New). ready is invoked from the same goroutine that
// calls ProcessPacket/MonitorBuffers.
func New(pool *bufpool.Pool, layout mercury.SensorLayout, ready ReadyFunc, logger logging.Logger) *Decoder {
	return &Decoder{
		logger:           logger,
		pool:             pool,
		layout:           layout,
		ready:            ready,
		frameTimeout:     500 * time.Millisecond,
		portMap:          make(map[int]femEntry),
		frameBufferMap:   make(map[uint32]int),
		currentFrameSeen: -1,
	}
}

// Initialize parses the decoder's configuration: the FEM port map, the
// sensor layout is supplied by the caller (it determines pool buffer
// sizing and so is fixed at pool construction time; see SensorLayout in the
// mercury package). Only fem_port_map and frame_timeout_ms are consumed
// here.
func (d *Decoder) Initialize(femPortMap string, frameTimeoutMs int) error {
	if femPortMap == "" {
		femPortMap = mercury.DefaultFemPortMap
	}
	if err := d.parseFemPortMap(femPortMap); err != nil {
		return errors.Wrap(err, "decoder: config error")
	}
	if frameTimeoutMs > 0 {
		d.frameTimeout = time.Duration(frameTimeoutMs) * time.Millisecond
	}
	d.packetsIgnored = 0
	d.packetsLost = 0
	d.femPacketsLost = 0
	d.framesTimedOut = 0
	return nil
}

// parseFemPortMap parses a "port:idx[,port:idx]" string. Only the first
// entry is used; a real deployment configures exactly one FEM, as in the
// original decoder which truncates with a warning.
func (d *Decoder) parseFemPortMap(s string) error {
	d.femPortStr = s
	m := make(map[int]femEntry)

	entries := strings.Split(s, ",")
	used := 0
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if used >= 1 {
			if d.logger != nil {
				d.logger.Warning("decoder FEM port map contains too many elements, truncating to 1")
			}
			break
		}
		elems := strings.SplitN(entry, ":", 2)
		if len(elems) != 2 {
			return errors.Errorf("malformed fem_port_map entry %q", entry)
		}
		port, err := strconv.Atoi(strings.TrimSpace(elems[0]))
		if err != nil {
			return errors.Wrapf(err, "malformed fem_port_map port in %q", entry)
		}
		femIdx, err := strconv.Atoi(strings.TrimSpace(elems[1]))
		if err != nil {
			return errors.Wrapf(err, "malformed fem_port_map fem index in %q", entry)
		}
		m[port] = femEntry{femIdx: femIdx, bufIdx: used}
		used++
	}
	if used == 0 {
		return errors.Errorf("fem_port_map %q contains no valid entries", s)
	}
	d.portMap = m
	return nil
}

// SetPacketLogging enables or disables per-packet header hex-dump logging at
// Debug level. Off by default: even at Debug level, dumping every header is
// expensive enough that it must be opted into explicitly.
func (d *Decoder) SetPacketLogging(enabled bool) {
	d.logPackets = enabled
}

// PeekHeader classifies an incoming packet from its 8-byte header and source
// port, assigning or re-attaching the frame buffer for its frame counter.
// It must be called before NextPayload/ProcessPacket for the same packet.
func (d *Decoder) PeekHeader(header []byte, srcPort int) {
	d.currentHeader = mercury.DecodePacketHeader(header)
	if d.logPackets && d.logger != nil {
		d.logger.Debug("packet header", "port", srcPort, "bytes", hex.EncodeToString(header))
	}

	entry, mapped := d.portMap[srcPort]
	d.currentFem = entry
	d.currentMapped = mapped
	if !mapped {
		d.packetsIgnored++
		if d.packetsIgnored <= maxIgnoredPacketReports && d.logger != nil {
			d.logger.Warning("ignoring packet from unmapped source port", "port", srcPort)
		} else if d.packetsIgnored == maxIgnoredPacketReports+1 && d.logger != nil {
			d.logger.Warning("reporting limit for ignored packets reached, suppressing further messages")
		}
		return
	}

	frameCounter := int64(d.currentHeader.FrameCounter)
	if frameCounter != d.currentFrameSeen {
		d.currentFrameSeen = frameCounter
		d.switchFrame(d.currentHeader.FrameCounter)
	}

	fem := &d.currentFrameHeader.FemRxState
	if d.currentHeader.SOF() {
		fem.SOFCount++
		d.currentFrameHeader.TotalSOFCount++
	}
	if d.currentHeader.EOF() {
		// Reproduces the original decoder's quirk: EOF increments the
		// FEM-level SOF counter field, not a dedicated EOF counter. The
		// frame-level totals below are unaffected. See DESIGN.md.
		fem.SOFCount++
		d.currentFrameHeader.TotalEOFCount++
	}
	pn := int(d.currentHeader.PacketNumber())
	if pn >= 0 && pn < mercury.MaxPacketsPerFrame {
		fem.PacketState[pn] = true
	}
}

// switchFrame assigns or re-attaches the buffer for a newly-seen frame
// counter.
func (d *Decoder) switchFrame(frameCounter uint32) {
	if bufID, ok := d.frameBufferMap[frameCounter]; ok {
		d.currentFrameBufferID = bufID
		d.currentFrameHeader = &d.pool.At(bufID).Header
		return
	}

	bufID, ok := d.pool.Acquire()
	if !ok {
		// No empty buffers: route this frame's packets into the dropped-frame
		// sink. We still need a *mercury.FrameHeader to track counts against,
		// so we keep a scratch header alongside the sink rather than writing
		// into the sink's byte region (the sink has no typed header).
		if !d.droppingFrameData {
			if d.logger != nil {
				d.logger.Error("no free buffers available, dropping frame data", "frame", frameCounter)
			}
			d.droppingFrameData = true
		}
		d.currentFrameBufferID = -1
		d.currentFrameHeader = &mercury.FrameHeader{}
		d.initFrameHeader(d.currentFrameHeader, frameCounter)
		return
	}

	if d.droppingFrameData {
		d.droppingFrameData = false
		if d.logger != nil {
			d.logger.Debug("free buffer now available", "frame", frameCounter, "buffer", bufID)
		}
	}

	d.frameBufferMap[frameCounter] = bufID
	d.currentFrameBufferID = bufID
	buf := d.pool.At(bufID)
	d.initFrameHeader(&buf.Header, frameCounter)
	d.currentFrameHeader = &buf.Header
}

func (d *Decoder) initFrameHeader(h *mercury.FrameHeader, frameCounter uint32) {
	*h = mercury.FrameHeader{
		FrameNumber:  frameCounter,
		State:        mercury.FrameIncomplete,
		StartTime:    time.Now(),
		ActiveFemIdx: d.currentFem.femIdx,
	}
}

// NextPayload returns the slice into which the next packet's payload should
// be read, and its maximum size. When the packet's source port is unmapped,
// the ignored-packet sink is returned. When the pool is exhausted, or the
// packet number lies past the end of the frame, the dropped-frame sink is
// returned.
func (d *Decoder) NextPayload() []byte {
	size := d.layout.PayloadSize(int(d.currentHeader.PacketNumber()))

	if !d.currentMapped {
		return d.pool.IgnoredPacketSink[:size]
	}
	if d.currentFrameBufferID < 0 {
		return d.pool.DroppedFrameSink[:size]
	}

	buf := d.pool.At(d.currentFrameBufferID)
	offset := d.layout.PayloadOffset(int(d.currentHeader.PacketNumber()))
	if offset+size > len(buf.Payload) {
		return d.pool.DroppedFrameSink[:size]
	}
	return buf.Payload[offset : offset+size]
}

// ProcessPacket finalizes accounting for the packet most recently classified
// by PeekHeader, completing the frame if this was its last expected packet.
// It returns the frame's current state.
func (d *Decoder) ProcessPacket() mercury.FrameState {
	if !d.currentMapped {
		return mercury.FrameIncomplete
	}

	fem := &d.currentFrameHeader.FemRxState
	fem.PacketsReceived++
	d.currentFrameHeader.TotalPacketsReceived++

	expected := uint32(d.layout.ExpectedPacketCount())
	if d.currentFrameHeader.TotalPacketsReceived != expected {
		return mercury.FrameIncomplete
	}

	if d.currentFrameHeader.TotalSOFCount != 1 || d.currentFrameHeader.TotalEOFCount != 1 {
		if d.logger != nil {
			d.logger.Warning("incorrect number of SOF/EOF markers on completed frame",
				"frame", d.currentFrameHeader.FrameNumber,
				"sof", d.currentFrameHeader.TotalSOFCount,
				"eof", d.currentFrameHeader.TotalEOFCount)
		}
	}

	d.currentFrameHeader.State = mercury.FrameComplete

	if !d.droppingFrameData && d.currentFrameBufferID >= 0 {
		delete(d.frameBufferMap, d.currentFrameHeader.FrameNumber)
		if d.ready != nil {
			d.ready(d.currentFrameBufferID, d.currentFrameHeader.FrameNumber, mercury.FrameComplete)
		}
	}
	// Reset so a repeated frame number (e.g. frame 0 sent twice) is treated
	// as a new frame.
	d.currentFrameSeen = -1
	return mercury.FrameComplete
}

// MonitorBuffers times out frames whose in-flight duration exceeds the
// configured frame_timeout_ms. It must be called periodically from the same
// goroutine that drives PeekHeader/ProcessPacket.
func (d *Decoder) MonitorBuffers() {
	now := time.Now()
	expected := uint32(d.layout.ExpectedPacketCount())

	timedOut := 0
	for frameNum, bufID := range d.frameBufferMap {
		h := &d.pool.At(bufID).Header
		if now.Sub(h.StartTime) <= d.frameTimeout {
			continue
		}

		lost := expected - h.TotalPacketsReceived
		d.packetsLost += lost
		d.femPacketsLost += lost

		if d.logger != nil {
			d.logger.Warning("frame timed out", "frame", frameNum, "received", h.TotalPacketsReceived, "lost", lost)
		}

		h.State = mercury.FrameTimedOut
		delete(d.frameBufferMap, frameNum)
		if d.ready != nil {
			d.ready(bufID, frameNum, mercury.FrameTimedOut)
		}
		timedOut++
	}
	if timedOut > 0 {
		d.framesTimedOut += uint32(timedOut)
		if d.logger != nil {
			d.logger.Warning("released timed out incomplete frames", "count", timedOut)
		}
	}
}

// Status reports the decoder's running counters.
type Status struct {
	PacketsLost    uint32
	FemPacketsLost uint32
	PacketsIgnored uint32
	FramesTimedOut uint32
}

// Status returns a snapshot of the decoder's loss and ignore counters.
func (d *Decoder) Status() Status {
	return Status{
		PacketsLost:    d.packetsLost,
		FemPacketsLost: d.femPacketsLost,
		PacketsIgnored: d.packetsIgnored,
		FramesTimedOut: d.framesTimedOut,
	}
}

// PacketState returns the per-packet received bitmap for an in-flight frame,
// for diagnosing which packets of an incomplete frame are still missing. The
// second return value is false if frameNumber is not currently buffered.
func (d *Decoder) PacketState(frameNumber uint32) ([mercury.MaxPacketsPerFrame]bool, bool) {
	bufID, ok := d.frameBufferMap[frameNumber]
	if !ok {
		return [mercury.MaxPacketsPerFrame]bool{}, false
	}
	return d.pool.At(bufID).Header.FemRxState.PacketState, true
}
