package frame

import (
	"fmt"

	"github.com/danmuck/viscactl/internal/protocol"
)

// Packet is one outgoing frame under construction. Byte 0 is reserved for the
// header, which Finalize writes together with the terminator. The zero value
// is an empty packet.
type Packet struct {
	bytes     [protocol.MaxPacketLen]byte
	length    int
	finalized bool
}

// NewPacket returns a packet holding payload.
func NewPacket(payload ...byte) (*Packet, error) {
	p := &Packet{}
	p.Reset()
	if err := p.AppendAll(payload...); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset empties the packet for reuse.
func (p *Packet) Reset() {
	p.bytes = [protocol.MaxPacketLen]byte{}
	p.length = 1
	p.finalized = false
}

func (p *Packet) init() {
	if p.length == 0 {
		p.length = 1
	}
}

// Append adds one payload byte. The terminator slot is always kept free.
func (p *Packet) Append(b byte) error {
	p.init()
	if p.finalized {
		return ErrPacketFinalized
	}
	if p.length >= protocol.MaxPacketLen-1 {
		return fmt.Errorf("%w: payload limit is %d bytes", ErrFrameOverflow, protocol.MaxPayloadLen)
	}
	p.bytes[p.length] = b
	p.length++
	return nil
}

func (p *Packet) AppendAll(bs ...byte) error {
	for _, b := range bs {
		if err := p.Append(b); err != nil {
			return err
		}
	}
	return nil
}

// Len is the current fill count, header slot included.
func (p *Packet) Len() int {
	p.init()
	return p.length
}

func (p *Packet) Finalized() bool {
	return p.finalized
}

// Payload returns the bytes between the header and the terminator.
func (p *Packet) Payload() []byte {
	p.init()
	end := p.length
	if p.finalized {
		end--
	}
	return p.bytes[1:end]
}

// Bytes returns the wire frame. It aliases the packet storage and is only
// complete after Finalize.
func (p *Packet) Bytes() []byte {
	p.init()
	return p.bytes[:p.length]
}

// Finalize writes the address header and appends the terminator. Invalid
// addressing leaves the packet untouched.
func (p *Packet) Finalize(own, dest, broadcast uint8) ([]byte, error) {
	p.init()
	if p.finalized {
		return nil, ErrPacketFinalized
	}
	head, err := EncodeHeader(own, dest, broadcast)
	if err != nil {
		return nil, err
	}
	p.bytes[0] = head
	p.bytes[p.length] = protocol.Terminator
	p.length++
	p.finalized = true
	return p.Bytes(), nil
}

// Header is the decoded address byte of a frame.
type Header struct {
	Source    uint8
	Dest      uint8
	Broadcast bool
}

// ValidateAddressing checks the header preconditions without building anything.
func ValidateAddressing(own, dest, broadcast uint8) error {
	if own > protocol.MaxAddress || dest > protocol.MaxAddress || broadcast > 1 {
		return fmt.Errorf("%w: own=%d dest=%d broadcast=%d", ErrInvalidAddressing, own, dest, broadcast)
	}
	return nil
}

// EncodeHeader builds 1 SSS DDDD: bit 7 set, source in bits 4-6, and either the
// destination in bits 0-2 or the broadcast bit 3 with bits 0-2 cleared.
func EncodeHeader(own, dest, broadcast uint8) (byte, error) {
	if err := ValidateAddressing(own, dest, broadcast); err != nil {
		return 0, err
	}
	head := protocol.HeaderBase | own<<protocol.SourceShift
	if broadcast > 0 {
		head |= protocol.BroadcastBit
		head &^= protocol.AddressMask
	} else {
		head |= dest
	}
	return head, nil
}

func DecodeHeader(b byte) (Header, error) {
	if b&protocol.HeaderBase == 0 {
		return Header{}, fmt.Errorf("%w: header 0x%02x missing bit 7", ErrMalformed, b)
	}
	return Header{
		Source:    (b >> protocol.SourceShift) & protocol.AddressMask,
		Dest:      b & protocol.AddressMask,
		Broadcast: b&protocol.BroadcastBit != 0,
	}, nil
}

// Parse splits a complete frame into its header and payload. The payload
// aliases frame.
func Parse(frame []byte) (Header, []byte, error) {
	if len(frame) < minFrameBytes {
		return Header{}, nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(frame))
	}
	if frame[len(frame)-1] != protocol.Terminator {
		return Header{}, nil, fmt.Errorf("%w: missing terminator", ErrMalformed)
	}
	h, err := DecodeHeader(frame[0])
	if err != nil {
		return Header{}, nil, err
	}
	return h, frame[1 : len(frame)-1], nil
}
