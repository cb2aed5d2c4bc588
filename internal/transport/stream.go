package transport

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"termshell/pkg/logging"
)

const (
	readChunk   = 256
	queuedReads = 16
)

// Stream adapts a blocking reader and writer into the non-blocking byte
// transport a shell session polls. A pump goroutine reads from r and hands
// chunks over a bounded channel; ReadByte takes from that channel without
// waiting.
//
// Connected reports false once the reader has failed and every byte read
// before the failure has been consumed, or once a write has failed.
type Stream struct {
	w io.Writer

	chunks  chan []byte
	pending []byte

	readDone atomic.Bool
	failed   atomic.Bool
	done     chan struct{}
	stop     sync.Once
	pumpDone chan struct{}

	name string
}

// NewStream starts pumping r. name identifies the stream in logs.
func NewStream(name string, r io.Reader, w io.Writer) *Stream {
	s := &Stream{
		w:        w,
		chunks:   make(chan []byte, queuedReads),
		done:     make(chan struct{}),
		pumpDone: make(chan struct{}),
		name:     name,
	}
	go s.pump(r)
	return s
}

func (s *Stream) pump(r io.Reader) {
	defer close(s.pumpDone)
	defer s.readDone.Store(true)

	buf := make([]byte, readChunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logging.Debug("Transport", "%s: read failed: %v", s.name, err)
			}
			return
		}
	}
}

// ReadByte returns the next input byte, or false if none is buffered.
func (s *Stream) ReadByte() (byte, bool) {
	if len(s.pending) == 0 {
		select {
		case chunk := <-s.chunks:
			s.pending = chunk
		default:
			return 0, false
		}
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true
}

// Write sends p to the underlying writer.
func (s *Stream) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		s.failed.Store(true)
	}
	return n, err
}

// Connected reports whether the stream can still deliver input.
func (s *Stream) Connected() bool {
	if s.failed.Load() {
		return false
	}
	if !s.readDone.Load() {
		return true
	}
	return len(s.pending) > 0 || len(s.chunks) > 0
}

// Stop ends the pump at its next hand-over. It does not unblock a pending
// Read; close the underlying reader for that.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Conn is a Stream over a network connection.
type Conn struct {
	*Stream
	conn net.Conn
}

// NewConn wraps c. Close releases the connection and the pump.
func NewConn(c net.Conn) *Conn {
	name := c.RemoteAddr().String()
	return &Conn{Stream: NewStream(name, c, c), conn: c}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close stops the pump and closes the connection. It waits for the pump to
// exit.
func (c *Conn) Close() error {
	c.Stop()
	err := c.conn.Close()
	<-c.pumpDone
	return err
}
