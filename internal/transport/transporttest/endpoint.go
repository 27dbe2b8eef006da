// Package transporttest provides an in-memory transport.Endpoint for tests.
package transporttest

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

var ErrClosed = errors.New("transporttest: endpoint closed")

// Responder returns the bytes a simulated device sends back for one write.
type Responder func(written []byte) []byte

// Endpoint is a scripted byte stream. Reads drain Inbound one call at a time
// and report io.EOF once it is empty, so a missing reply never hangs a test.
type Endpoint struct {
	mu sync.Mutex

	inbound bytes.Buffer
	written bytes.Buffer
	writes  [][]byte

	// WriteLimit caps the bytes accepted per Write when positive.
	WriteLimit int
	// WriteErr is returned by every Write when set.
	WriteErr error
	// Respond, when set, is fed every accepted write.
	Respond Responder

	closeCalls int
	closed     bool
	readCalls  int
}

// New returns an endpoint whose inbound stream starts with data.
func New(data ...byte) *Endpoint {
	e := &Endpoint{}
	e.inbound.Write(data)
	return e
}

// Feed appends bytes to the inbound stream.
func (e *Endpoint) Feed(data ...byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inbound.Write(data)
}

func (e *Endpoint) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	e.readCalls++
	if e.inbound.Len() == 0 {
		return 0, io.EOF
	}
	return e.inbound.Read(p)
}

func (e *Endpoint) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	n := len(p)
	if e.WriteLimit > 0 && n > e.WriteLimit {
		n = e.WriteLimit
	}
	e.written.Write(p[:n])
	e.writes = append(e.writes, append([]byte(nil), p[:n]...))
	if e.WriteErr != nil {
		return n, e.WriteErr
	}
	if e.Respond != nil {
		e.inbound.Write(e.Respond(p[:n]))
	}
	return n, nil
}

func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeCalls++
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	return nil
}

func (e *Endpoint) SetReadDeadline(time.Time) error  { return nil }
func (e *Endpoint) SetWriteDeadline(time.Time) error { return nil }

func (e *Endpoint) Buffered() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inbound.Len(), nil
}

// Written is every byte accepted so far.
func (e *Endpoint) Written() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.written.Bytes()...)
}

// Writes is each accepted Write call in order.
func (e *Endpoint) Writes() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]byte, len(e.writes))
	copy(out, e.writes)
	return out
}

func (e *Endpoint) CloseCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeCalls
}

func (e *Endpoint) ReadCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readCalls
}
