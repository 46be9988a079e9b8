/*
DESCRIPTION
  listener.go drives a Decoder from a live UDP socket: a single goroutine
  reads packets, classifies and places them via Decoder, and periodically
  calls MonitorBuffers so in-flight frames that have stalled are timed out.
  The single-goroutine shape matches spec.md §5's requirement that the
  decoder's receive-side state is touched by exactly one thread.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoder

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/stfc-aeg/mercury-detector/mercury"
	"golang.org/x/sys/unix"
)

// monitorInterval is how often MonitorBuffers is invoked between packet
// reads.
const monitorInterval = 100 * time.Millisecond

// recvBufferBytes requests a larger-than-default kernel socket receive
// buffer, since FEM traffic arrives in short, large bursts (spec.md §2.1).
const recvBufferBytes = 8 << 20

// Listener owns the UDP socket a Decoder reads from.
type Listener struct {
	conn   *net.UDPConn
	dec    *Decoder
	logger logging.Logger

	quit chan struct{}
	wg   sync.WaitGroup
	err  chan error
}

// Listen resolves addr, opens a UDP socket and returns a Listener ready to
// be Started. The socket's receive buffer is tuned via golang.org/x/sys/unix
// where the platform supports it; failure to tune is logged, not fatal.
func Listen(addr string, dec *Decoder, logger logging.Logger) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("decoder: can't resolve listen address %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("decoder: can't listen on %q: %w", addr, err)
	}

	if rawConn, err := conn.SyscallConn(); err == nil {
		var setErr error
		ctrlErr := rawConn.Control(func(fd uintptr) {
			setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, recvBufferBytes)
		})
		if ctrlErr == nil {
			ctrlErr = setErr
		}
		if ctrlErr != nil && logger != nil {
			logger.Warning("decoder: could not tune socket receive buffer", "error", ctrlErr)
		}
	}

	return &Listener{
		conn:   conn,
		dec:    dec,
		logger: logger,
		quit:   make(chan struct{}),
		err:    make(chan error, 8),
	}, nil
}

// Start begins the receive loop in a new goroutine.
func (l *Listener) Start() {
	l.wg.Add(1)
	go l.recv()
}

// Stop signals the receive loop to exit, closes the socket and waits for the
// loop to return.
func (l *Listener) Stop() {
	close(l.quit)
	l.conn.Close()
	l.wg.Wait()
	close(l.err)
}

// Err provides read access to the listener's error channel.
func (l *Listener) Err() <-chan error {
	return l.err
}

// recv is the single goroutine that owns the Decoder's receive-side state:
// it reads a packet header, asks the decoder where to place the payload,
// reads the payload into place, finalizes accounting, and periodically
// times out stalled frames.
func (l *Listener) recv() {
	defer l.wg.Done()

	// Each UDP datagram carries the 8-byte header immediately followed by
	// its payload (at most one primary packet's worth), so one read yields
	// a whole packet.
	datagram := make([]byte, mercury.PacketHeaderSize+mercury.PrimaryPacketSize)

	// MonitorBuffers must run on this same goroutine (it touches Decoder
	// state with no locking), so it is called from this loop once
	// monitorInterval has elapsed since the last call; the read deadline
	// below bounds how long a read can block, so the check also runs while
	// no packets arrive.
	lastMonitor := time.Now()
	for {
		select {
		case <-l.quit:
			return
		default:
		}

		if time.Since(lastMonitor) >= monitorInterval {
			l.dec.MonitorBuffers()
			lastMonitor = time.Now()
		}

		if err := l.conn.SetReadDeadline(time.Now().Add(monitorInterval)); err != nil {
			select {
			case l.err <- err:
			default:
			}
		}

		n, srcAddr, err := l.conn.ReadFromUDP(datagram)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-l.quit:
				return
			default:
			}
			select {
			case l.err <- err:
			default:
			}
			continue
		}
		if n < 8 {
			if l.logger != nil {
				l.logger.Warning("decoder: short packet header, dropping", "bytes", n)
			}
			continue
		}

		l.dec.PeekHeader(datagram[:8], srcAddr.Port)
		payload := l.dec.NextPayload()
		got := copy(payload, datagram[8:n])
		if got < len(payload) && l.logger != nil {
			l.logger.Debug("decoder: packet payload shorter than expected", "got", got, "want", len(payload))
		}
		l.dec.ProcessPacket()
	}
}
