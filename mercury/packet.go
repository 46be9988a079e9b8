package mercury

import "encoding/binary"

// Packet header bit layout: bit 31 is start-of-frame, bit 30 is
// end-of-frame, and the low 30 bits carry the packet index.
const (
	startOfFrameMask uint32 = 1 << 31
	endOfFrameMask   uint32 = 1 << 30
	packetNumberMask uint32 = 0x3FFFFFFF
)

// PacketHeader is the 8-byte header carried at the start of every UDP
// packet: a frame counter followed by a flags-and-number word.
type PacketHeader struct {
	FrameCounter   uint32
	FlagsAndNumber uint32
}

// DecodePacketHeader parses the fixed 8-byte packet header from buf. The
// wire format matches the FEM's native byte order; the deployment target is
// little-endian.
func DecodePacketHeader(buf []byte) PacketHeader {
	return PacketHeader{
		FrameCounter:   binary.LittleEndian.Uint32(buf[0:4]),
		FlagsAndNumber: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// PacketNumber extracts the packet index from the flags-and-number word.
func (h PacketHeader) PacketNumber() uint32 { return h.FlagsAndNumber & packetNumberMask }

// SOF reports whether the start-of-frame marker is set.
func (h PacketHeader) SOF() bool { return h.FlagsAndNumber&startOfFrameMask != 0 }

// EOF reports whether the end-of-frame marker is set.
func (h PacketHeader) EOF() bool { return h.FlagsAndNumber&endOfFrameMask != 0 }
