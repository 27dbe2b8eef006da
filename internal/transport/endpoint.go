package transport

import (
	"io"
	"net"
	"os"
	"syscall"
	"time"
)

// Endpoint is an open byte stream. Reads must not consume more than asked:
// the frame reader depends on one-octet reads leaving later bytes in place.
type Endpoint interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	// Buffered reports bytes ready to read without consuming them.
	Buffered() (int, error)
}

type fileEndpoint struct {
	*os.File
}

func (e fileEndpoint) Buffered() (int, error) {
	rc, err := e.SyscallConn()
	if err != nil {
		return 0, err
	}
	return pendingBytes(rc)
}

type connEndpoint struct {
	net.Conn
}

func (e connEndpoint) Buffered() (int, error) {
	sc, ok := e.Conn.(syscall.Conn)
	if !ok {
		return 0, ErrPeekUnsupported
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	return pendingBytes(rc)
}
