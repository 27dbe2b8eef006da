package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyReply    = errors.New("protocol: empty reply")
	ErrMissingHeader = errors.New("protocol: reply header bit not set")
	ErrUnknownReply  = errors.New("protocol: unknown reply kind")
	ErrUnterminated  = errors.New("protocol: reply missing terminator")
)

// ErrorCode is the device error code carried by an error reply.
type ErrorCode byte

const (
	ErrCodeMessageLength ErrorCode = 0x01
	ErrCodeSyntax        ErrorCode = 0x02
	ErrCodeBufferFull    ErrorCode = 0x03
	ErrCodeCancelled     ErrorCode = 0x04
	ErrCodeNoSocket      ErrorCode = 0x05
	ErrCodeNotExecutable ErrorCode = 0x41
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeMessageLength:
		return "message length error"
	case ErrCodeSyntax:
		return "syntax error"
	case ErrCodeBufferFull:
		return "command buffer full"
	case ErrCodeCancelled:
		return "command cancelled"
	case ErrCodeNoSocket:
		return "no socket"
	case ErrCodeNotExecutable:
		return "command not executable"
	default:
		return fmt.Sprintf("error code 0x%02x", byte(c))
	}
}

// DeviceError is returned when a device answers with an error reply.
type DeviceError struct {
	Source uint8
	Socket uint8
	Code   ErrorCode
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("protocol: device %d socket %d: %s", e.Source, e.Socket, e.Code)
}
