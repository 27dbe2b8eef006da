package transport

import "errors"

var (
	ErrOpenFailure     = errors.New("transport: open failed")
	ErrConnectFailure  = errors.New("transport: connect failed")
	ErrAlreadyClosed   = errors.New("transport: already closed")
	ErrNotOpen         = errors.New("transport: endpoint not open")
	ErrShortWrite      = errors.New("transport: short write")
	ErrTimeout         = errors.New("transport: timeout")
	ErrNilPacket       = errors.New("transport: nil packet")
	ErrPeekUnsupported = errors.New("transport: endpoint cannot report pending bytes")
)
