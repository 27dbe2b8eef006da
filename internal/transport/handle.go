package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/viscactl/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateClosed:
		return "closed"
	default:
		return "unopened"
	}
}

// Handle owns one open endpoint plus the addressing used for every frame
// sent through it. The zero value is an unopened handle: I/O on it fails with
// ErrNotOpen and Close fails with ErrAlreadyClosed.
type Handle struct {
	// Address is this controller's bus address, 0..7.
	Address uint8
	// Broadcast, when 1, sends every frame to all devices. Values above 1 are
	// rejected by Send.
	Broadcast uint8

	ep    Endpoint
	name  string
	state state

	inbound      *frame.Buffer
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// OpenSerial opens a device node that the platform has already configured
// for line speed and framing. The own address starts at 0.
func OpenSerial(path string, opts ...Option) (*Handle, error) {
	f, err := openSerialFile(path)
	if err != nil {
		log.Warn().Msgf("transport.OpenSerial path=%q err=%v", path, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailure, path, err)
	}
	h := newHandle(fileEndpoint{File: f}, "serial:"+path, opts)
	log.Info().Msgf("transport.OpenSerial opened path=%q address=%d", path, h.Address)
	return h, nil
}

// OpenSocket connects to host:port over TCP. A connect failure is returned,
// never a handle wrapping an unconnected socket.
func OpenSocket(ctx context.Context, host string, port int, opts ...Option) (*Handle, error) {
	o := collectOptions(opts)
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %d", ErrConnectFailure, port)
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: o.connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Warn().Msgf("transport.OpenSocket addr=%q err=%v", addr, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectFailure, addr, err)
	}
	h := newHandle(connEndpoint{Conn: conn}, "tcp:"+addr, opts)
	log.Info().Msgf("transport.OpenSocket connected addr=%q local=%q", addr, conn.LocalAddr().String())
	return h, nil
}

// NewHandle wraps an already open endpoint.
func NewHandle(ep Endpoint, name string, opts ...Option) *Handle {
	return newHandle(ep, name, opts)
}

func collectOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func newHandle(ep Endpoint, name string, opts []Option) *Handle {
	o := collectOptions(opts)
	return &Handle{
		Address:      o.address,
		Broadcast:    o.broadcast,
		ep:           ep,
		name:         name,
		state:        stateOpen,
		inbound:      frame.NewBuffer(o.limits),
		readTimeout:  o.readTimeout,
		writeTimeout: o.writeTimeout,
	}
}

func (h *Handle) Name() string { return h.name }

func (h *Handle) IsOpen() bool { return h.state == stateOpen }

// Close releases the endpoint. A second Close reports ErrAlreadyClosed and
// never closes the descriptor again.
func (h *Handle) Close() error {
	if h.state != stateOpen {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyClosed, h.name, h.state)
	}
	err := h.ep.Close()
	h.ep = nil
	h.state = stateClosed
	log.Debug().Msgf("transport.Handle.Close endpoint=%q err=%v", h.name, err)
	if err != nil {
		return fmt.Errorf("transport: close %s: %w", h.name, err)
	}
	return nil
}

// Send finalizes p with this handle's addressing and writes the whole frame
// in one write. Invalid addressing is reported before anything is written.
func (h *Handle) Send(ctx context.Context, dest uint8, p *frame.Packet) error {
	if h.state != stateOpen {
		return ErrNotOpen
	}
	if p == nil {
		return ErrNilPacket
	}
	wire, err := p.Finalize(h.Address, dest, h.Broadcast)
	if err != nil {
		log.Warn().Msgf("transport.Handle.Send endpoint=%q err=%v", h.name, err)
		return err
	}
	return h.write(ctx, wire)
}

// SendBroadcast sends p to every device on the bus regardless of the
// handle's Broadcast setting.
func (h *Handle) SendBroadcast(ctx context.Context, p *frame.Packet) error {
	if h.state != stateOpen {
		return ErrNotOpen
	}
	if p == nil {
		return ErrNilPacket
	}
	wire, err := p.Finalize(h.Address, 0, 1)
	if err != nil {
		log.Warn().Msgf("transport.Handle.SendBroadcast endpoint=%q err=%v", h.name, err)
		return err
	}
	return h.write(ctx, wire)
}

func (h *Handle) write(ctx context.Context, wire []byte) error {
	stop := watchDeadline(ctx, h.writeTimeout, h.ep.SetWriteDeadline)
	n, err := h.ep.Write(wire)
	stop()
	log.Debug().Msgf("transport.Handle.Send endpoint=%q frame=% x written=%d", h.name, wire, n)

	if n < len(wire) {
		if err == nil {
			return fmt.Errorf("%w: %s wrote %d of %d bytes", ErrShortWrite, h.name, n, len(wire))
		}
		return fmt.Errorf("%w: %s wrote %d of %d bytes: %w", ErrShortWrite, h.name, n, len(wire), h.ioError(ctx, err))
	}
	if err != nil {
		return fmt.Errorf("transport: write %s: %w", h.name, h.ioError(ctx, err))
	}
	return nil
}

// ReadFrame blocks until one terminator-delimited frame arrives, the read
// timeout passes, or ctx ends. The returned slice is a copy; LastFrame
// exposes the inbound buffer itself. A failed read leaves LastFrame empty,
// except ErrFrameTooLong, which keeps the partial frame for inspection.
func (h *Handle) ReadFrame(ctx context.Context) ([]byte, error) {
	if h.state != stateOpen {
		return nil, ErrNotOpen
	}
	stop := watchDeadline(ctx, h.readTimeout, h.ep.SetReadDeadline)
	err := frame.ReadFrame(h.ep, h.inbound)
	stop()
	if err != nil {
		if errors.Is(err, frame.ErrFrameTooLong) {
			log.Warn().Msgf("transport.Handle.ReadFrame endpoint=%q partial=% x err=%v", h.name, h.inbound.Bytes(), err)
			return nil, err
		}
		h.inbound.Reset()
		return nil, fmt.Errorf("transport: read %s: %w", h.name, h.ioError(ctx, err))
	}
	log.Debug().Msgf("transport.Handle.ReadFrame endpoint=%q frame=% x", h.name, h.inbound.Bytes())
	return append([]byte(nil), h.inbound.Bytes()...), nil
}

// LastFrame aliases the frame from the most recent successful read, or the
// partial frame after ErrFrameTooLong.
func (h *Handle) LastFrame() []byte {
	if h.inbound == nil {
		return nil
	}
	return h.inbound.Bytes()
}

func (h *Handle) LastFrameLen() int {
	if h.inbound == nil {
		return 0
	}
	return h.inbound.Len()
}

// Available reports how many bytes wait at the endpoint. Nothing is consumed.
func (h *Handle) Available() (int, error) {
	if h.state != stateOpen {
		return 0, ErrNotOpen
	}
	return h.ep.Buffered()
}

// Drain consumes up to len(buf) of the bytes already waiting at the
// endpoint and returns how many were read. It never blocks for more.
func (h *Handle) Drain(buf []byte) (int, error) {
	n, err := h.Available()
	if err != nil || n == 0 {
		return 0, err
	}
	if n > len(buf) {
		n = len(buf)
	}
	_ = h.ep.SetReadDeadline(time.Time{})
	read, err := io.ReadFull(h.ep, buf[:n])
	log.Debug().Msgf("transport.Handle.Drain endpoint=%q bytes=% x", h.name, buf[:read])
	if err != nil {
		return read, fmt.Errorf("transport: drain %s: %w", h.name, err)
	}
	return read, nil
}

func (h *Handle) ioError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// watchDeadline sets the earlier of ctx's deadline and now+timeout on the
// endpoint, and forces the deadline into the past if ctx is cancelled while
// the operation is blocked. The returned stop must be called once the
// operation returns.
func watchDeadline(ctx context.Context, timeout time.Duration, set func(time.Time) error) (stop func()) {
	deadline, ok := ctx.Deadline()
	if timeout > 0 {
		if d := time.Now().Add(timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if !ok {
		deadline = time.Time{}
	}
	_ = set(deadline)

	done := ctx.Done()
	if done == nil {
		return func() {}
	}
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-done:
			_ = set(time.Unix(1, 0))
		case <-quit:
		}
	}()
	return func() {
		close(quit)
		wg.Wait()
	}
}
