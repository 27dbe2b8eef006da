package protocol

// Wire constants. These are fixed by the protocol and never change per session.
const (
	Terminator byte = 0xFF

	HeaderBase   byte = 0x80
	BroadcastBit byte = 0x08
	AddressMask  byte = 0x07
	SourceShift       = 4

	// MaxAddress is the highest addressable device or controller on the bus.
	MaxAddress uint8 = 7

	// MaxPacketLen bounds an outgoing frame: header, payload and terminator.
	MaxPacketLen = 16
	// MaxPayloadLen leaves room for the header and terminator.
	MaxPayloadLen = MaxPacketLen - 2

	// DefaultFrameCapacity bounds one inbound frame.
	DefaultFrameCapacity = 256
	// MaxFrameCapacity is the largest inbound buffer a link may configure.
	MaxFrameCapacity = 4096
)

// Message markers: first payload byte of a request.
const (
	Command byte = 0x01
	Inquiry byte = 0x09
)

// Category codes.
const (
	CategoryInterface byte = 0x00
	CategoryCamera1   byte = 0x04
	CategoryPanTilt   byte = 0x06
	CategoryCamera2   byte = 0x07

	CategoryOSD1 byte = 0x06
	CategoryOSD2 byte = 0x06
	CategoryOSD3 byte = 0x7E
)

// OSD menu parameters.
const (
	OSDStatus       byte = 0x06
	OSDStatusOn     byte = 0x02
	OSDStatusOff    byte = 0x03
	OSDStatusSwitch byte = 0x10

	OSDOk1 byte = 0x01
	OSDOk2 byte = 0x02
	OSDOk3 byte = 0x00
	OSDOk4 byte = 0x01

	OSDBack1 byte = 0x01
	OSDBack2 byte = 0x04
)

// Reply kind nibbles, high nibble of the first reply payload byte.
const (
	replyAck        byte = 0x40
	replyCompletion byte = 0x50
	replyError      byte = 0x60
	replyKindMask   byte = 0xF0
	replySocketMask byte = 0x0F
)

// Interface-level broadcast messages.
const (
	AddressSet    byte = 0x30
	NetworkChange byte = 0x38
	IfClear1      byte = 0x00
	IfClear2      byte = 0x01
	FirstAddress  byte = 0x01
)
