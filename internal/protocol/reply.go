package protocol

// ReplyKind classifies an inbound frame.
type ReplyKind int

const (
	ReplyUnknown ReplyKind = iota
	ReplyAck
	ReplyCompletion
	ReplyError
	ReplyAddressSet
	ReplyNetworkChange
	ReplyIfClear
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyAck:
		return "ack"
	case ReplyCompletion:
		return "completion"
	case ReplyError:
		return "error"
	case ReplyAddressSet:
		return "address_set"
	case ReplyNetworkChange:
		return "network_change"
	case ReplyIfClear:
		return "if_clear"
	default:
		return "unknown"
	}
}

// Reply is a classified inbound frame. Payload excludes header and terminator.
type Reply struct {
	Kind      ReplyKind
	Source    uint8
	Broadcast bool
	Socket    uint8
	Payload   []byte
}

// Classify inspects a complete reply frame, header through terminator.
// An error reply yields a *DeviceError alongside the classified reply.
func Classify(frame []byte) (Reply, error) {
	if len(frame) == 0 {
		return Reply{}, ErrEmptyReply
	}
	if frame[len(frame)-1] != Terminator {
		return Reply{}, ErrUnterminated
	}
	head := frame[0]
	if head&HeaderBase == 0 {
		return Reply{}, ErrMissingHeader
	}
	r := Reply{
		Source:    ReplySource(head),
		Broadcast: head&BroadcastBit != 0,
		Payload:   frame[1 : len(frame)-1],
	}
	if len(r.Payload) == 0 {
		return r, ErrEmptyReply
	}

	first := r.Payload[0]
	switch {
	case first == AddressSet:
		r.Kind = ReplyAddressSet
		return r, nil
	case first == NetworkChange:
		r.Kind = ReplyNetworkChange
		return r, nil
	case first == Command && len(r.Payload) >= 3 && r.Payload[1] == IfClear1 && r.Payload[2] == IfClear2:
		r.Kind = ReplyIfClear
		return r, nil
	}

	r.Socket = first & replySocketMask
	switch first & replyKindMask {
	case replyAck:
		r.Kind = ReplyAck
	case replyCompletion:
		r.Kind = ReplyCompletion
	case replyError:
		r.Kind = ReplyError
		code := ErrorCode(0)
		if len(r.Payload) > 1 {
			code = ErrorCode(r.Payload[1])
		}
		return r, &DeviceError{Source: r.Source, Socket: r.Socket, Code: code}
	default:
		return r, ErrUnknownReply
	}
	return r, nil
}

// ReplySource returns the device address a reply header names.
// Replies set bit 7 and carry the device address plus 8 in the high nibble.
func ReplySource(head byte) uint8 {
	return (head >> SourceShift) & AddressMask
}

// ValidAddress reports whether a is addressable on the bus.
func ValidAddress(a uint8) bool {
	return a <= MaxAddress
}
