package frame

import (
	"errors"

	"github.com/danmuck/viscactl/internal/protocol"
)

var (
	ErrFrameOverflow     = errors.New("frame: packet exceeds maximum length")
	ErrInvalidAddressing = errors.New("frame: invalid addressing")
	ErrPacketFinalized   = errors.New("frame: packet already finalized")
	ErrFrameTooLong      = errors.New("frame: inbound frame exceeds buffer capacity")
	ErrTruncated         = errors.New("frame: stream ended mid-frame")
	ErrMalformed         = errors.New("frame: malformed frame")
)

// minFrameBytes is a header byte plus a terminator.
const minFrameBytes = 2

// Limits constrains inbound frame memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxFrameBytes: protocol.DefaultFrameCapacity}
}

// WithDefaults fills unset or unusable limits and clamps oversized ones.
func (l Limits) WithDefaults() Limits {
	switch {
	case l.MaxFrameBytes < minFrameBytes:
		l.MaxFrameBytes = protocol.DefaultFrameCapacity
	case l.MaxFrameBytes > protocol.MaxFrameCapacity:
		l.MaxFrameBytes = protocol.MaxFrameCapacity
	}
	return l
}
