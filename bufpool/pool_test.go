package bufpool

import (
	"testing"

	"github.com/stfc-aeg/mercury-detector/mercury"
)

func TestAcquireReleaseExhaustion(t *testing.T) {
	layout := mercury.SensorLayout{Rows: 1, Columns: 1}
	p := New(2, layout)

	id1, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire() failed with buffers available")
	}
	id2, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire() failed with buffers available")
	}
	if id1 == id2 {
		t.Fatalf("Acquire() returned duplicate id %d", id1)
	}

	if _, ok := p.Acquire(); ok {
		t.Fatal("Acquire() succeeded after pool exhausted")
	}

	p.Release(id1)
	if got, want := p.NumEmpty(), 1; got != want {
		t.Errorf("NumEmpty() = %d, want %d", got, want)
	}
	if _, ok := p.Acquire(); !ok {
		t.Fatal("Acquire() failed after release")
	}
}

func TestBufferSizing(t *testing.T) {
	layout := mercury.SensorLayout{Rows: 2, Columns: 2}
	p := New(1, layout)
	id, _ := p.Acquire()
	buf := p.At(id)
	if got, want := len(buf.Payload), layout.FrameSize(); got != want {
		t.Errorf("Payload size = %d, want %d", got, want)
	}
	if got, want := len(p.DroppedFrameSink), layout.FrameSize(); got != want {
		t.Errorf("DroppedFrameSink size = %d, want %d", got, want)
	}
	if got, want := len(p.IgnoredPacketSink), mercury.PrimaryPacketSize; got != want {
		t.Errorf("IgnoredPacketSink size = %d, want %d", got, want)
	}
}
