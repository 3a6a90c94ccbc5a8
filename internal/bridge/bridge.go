// Package bridge exposes the virtual input device to the display-server
// process over a unix domain socket. The wire format is a fixed 17-byte
// little-endian frame, one op byte followed by four int32 operands; the
// protocol layer on the other side owns event ordering, the bridge only
// dispatches frames one connection at a time.
package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
)

const frameSize = 17

// Frame operations.
const (
	OpPointer byte = 0x01 // buttonMask, x, y
	OpKey     byte = 0x02 // down, keysym
	OpResize  byte = 0x03 // width, height
	OpPing    byte = 0x04
)

var errUnknownOp = errors.New("unknown frame op")

// Sink receives decoded frames. *device.InputDevice satisfies the event
// operations; Resize is typically an adapter around Reconfigure.
type Sink interface {
	PointerEvent(buttonMask int, x, y int32) error
	KeyEvent(down bool, keysym uint32) error
	Resize(width, height uint32) error
}

type frame struct {
	op byte
	a  int32
	b  int32
	c  int32
	d  int32
}

func (f *frame) encode(buf []byte) {
	buf[0] = f.op
	binary.LittleEndian.PutUint32(buf[1:5], uint32(f.a))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(f.b))
	binary.LittleEndian.PutUint32(buf[9:13], uint32(f.c))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(f.d))
}

func decodeFrame(buf []byte) frame {
	return frame{
		op: buf[0],
		a:  int32(binary.LittleEndian.Uint32(buf[1:5])),
		b:  int32(binary.LittleEndian.Uint32(buf[5:9])),
		c:  int32(binary.LittleEndian.Uint32(buf[9:13])),
		d:  int32(binary.LittleEndian.Uint32(buf[13:17])),
	}
}

// Server owns the listening socket and dispatches inbound frames.
type Server struct {
	listener net.Listener
	sink     Sink
	path     string

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Listen binds the control socket, replacing a stale socket file left by a
// previous run, and starts accepting connections.
func Listen(path string, sink Sink) (*Server, error) {
	_ = os.Remove(path)
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("bridge: listen %s: %w", path, err)
	}
	s := &Server{listener: listener, sink: sink, path: path}
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Path returns the socket path the server is bound to.
func (s *Server) Path() string { return s.path }

// Close stops accepting, closes the socket and waits for connection
// handlers to drain.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() {
				return
			}
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn reads frames until the peer hangs up or sends garbage. Sink
// errors are swallowed: a dropped event does not invalidate the session.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, frameSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		if err := s.dispatch(decodeFrame(buf)); errors.Is(err, errUnknownOp) {
			return
		}
	}
}

func (s *Server) dispatch(f frame) error {
	switch f.op {
	case OpPointer:
		return s.sink.PointerEvent(int(f.a), f.b, f.c)
	case OpKey:
		return s.sink.KeyEvent(f.a != 0, uint32(f.b))
	case OpResize:
		return s.sink.Resize(uint32(f.a), uint32(f.b))
	case OpPing:
		return nil
	default:
		return fmt.Errorf("%w: %#x", errUnknownOp, f.op)
	}
}
