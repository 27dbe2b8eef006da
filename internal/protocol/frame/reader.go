package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/viscactl/internal/protocol"
)

// Buffer is the bounded inbound frame buffer. It holds one frame at a time
// and is reused across reads.
type Buffer struct {
	buf []byte
	n   int
}

func NewBuffer(limits Limits) *Buffer {
	limits = limits.WithDefaults()
	return &Buffer{buf: make([]byte, limits.MaxFrameBytes)}
}

func (b *Buffer) Cap() int { return len(b.buf) }

// Len is the number of valid bytes from the most recent read.
func (b *Buffer) Len() int { return b.n }

// Bytes aliases the buffer; copy before the next read if it must survive.
func (b *Buffer) Bytes() []byte { return b.buf[:b.n] }

func (b *Buffer) Reset() { b.n = 0 }

// Terminated reports whether the held frame ends with the terminator.
func (b *Buffer) Terminated() bool {
	return b.n > 0 && b.buf[b.n-1] == protocol.Terminator
}

// ReadFrame assembles one frame from r, one octet per read, stopping at the
// terminator so bytes after it stay unread. Filling the buffer without a
// terminator fails with ErrFrameTooLong; the partial frame stays in b.
func ReadFrame(r io.Reader, b *Buffer) error {
	b.Reset()
	for b.n < len(b.buf) {
		if _, err := io.ReadFull(r, b.buf[b.n:b.n+1]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if b.n == 0 {
					return io.EOF
				}
				return fmt.Errorf("%w: %d bytes read", ErrTruncated, b.n)
			}
			return err
		}
		b.n++
		if b.buf[b.n-1] == protocol.Terminator {
			return nil
		}
	}
	return fmt.Errorf("%w: %d bytes without terminator", ErrFrameTooLong, b.n)
}
