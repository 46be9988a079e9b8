/*
DESCRIPTION
  pool.go implements the bounded frame buffer pool described in spec.md
  §2.2/§4.1/§9: a fixed set of buffers sized for one frame, handed out to the
  decoder on first-packet-of-frame and returned once the pipeline has
  finished with them. Two sentinel buffers — a dropped-frame sink and an
  ignored-packet sink — live outside the pool so the decoder always has
  somewhere to write, even under exhaustion or an unmapped source port.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bufpool provides the fixed-size frame buffer pool that the UDP
// frame decoder leases buffers from, plus the dropped-frame and
// ignored-packet sink buffers used when no pool buffer is available or a
// packet's source port is unrecognised.
package bufpool

import (
	"sync"

	"github.com/stfc-aeg/mercury-detector/mercury"
)

// Buffer is one pool-owned frame buffer: a header tracking reassembly state
// plus the raw pixel payload region.
type Buffer struct {
	Header  mercury.FrameHeader
	Payload []byte
}

// Pool is a bounded, single-producer/single-consumer set of frame buffers.
// The decoder is the producer: it calls Acquire on first-packet-of-frame and
// never calls Release. Completed or timed-out buffers are handed to the
// decoder's ready callback, which is the sole caller of Release.
type Pool struct {
	mu    sync.Mutex
	bufs  []*Buffer
	empty []int // indices into bufs currently available for lease

	// DroppedFrameSink is the scratch buffer used when Acquire finds the pool
	// empty: the decoder keeps writing incoming packet payloads here rather
	// than stalling, and the data is discarded.
	DroppedFrameSink []byte

	// IgnoredPacketSink is the scratch buffer used for payloads arriving on
	// an unmapped source port.
	IgnoredPacketSink []byte
}

// New allocates a Pool of n buffers, each sized to hold one frame's header
// and payload for the given layout.
func New(n int, layout mercury.SensorLayout) *Pool {
	p := &Pool{
		bufs:              make([]*Buffer, n),
		empty:             make([]int, n),
		DroppedFrameSink:  make([]byte, layout.FrameSize()),
		IgnoredPacketSink: make([]byte, mercury.PrimaryPacketSize),
	}
	for i := 0; i < n; i++ {
		p.bufs[i] = &Buffer{Payload: make([]byte, layout.FrameSize())}
		p.empty[i] = i
	}
	return p
}

// Acquire leases an empty buffer from the pool, returning its id and true.
// If the pool has no empty buffers, ok is false and the caller should route
// data to DroppedFrameSink instead.
func (p *Pool) Acquire() (id int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.empty) == 0 {
		return 0, false
	}
	id = p.empty[len(p.empty)-1]
	p.empty = p.empty[:len(p.empty)-1]
	return id, true
}

// Release returns a buffer to the empty pool. The caller must not touch the
// buffer's contents after calling Release.
func (p *Pool) Release(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.empty = append(p.empty, id)
}

// At returns the buffer with the given id. The caller is expected to own it
// exclusively, per the Acquire/Release lifecycle above.
func (p *Pool) At(id int) *Buffer { return p.bufs[id] }

// Len returns the total number of buffers in the pool (leased or not).
func (p *Pool) Len() int { return len(p.bufs) }

// NumEmpty returns the number of currently unleased buffers.
func (p *Pool) NumEmpty() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.empty)
}
