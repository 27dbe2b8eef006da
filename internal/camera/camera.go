package camera

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/viscactl/internal/protocol"
	"github.com/danmuck/viscactl/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCamera = errors.New("camera: address out of range")
	ErrShortReply    = errors.New("camera: reply payload too short")
	ErrNoDevices     = errors.New("camera: no devices answered address set")
)

// Link is the transport surface a Controller drives. *transport.Handle
// satisfies it.
type Link interface {
	Send(ctx context.Context, dest uint8, p *frame.Packet) error
	SendBroadcast(ctx context.Context, p *frame.Packet) error
	ReadFrame(ctx context.Context) ([]byte, error)
}

// Camera is one addressed device on the bus.
type Camera struct {
	Address uint8
}

func (c Camera) validate() error {
	if c.Address > protocol.MaxAddress {
		return fmt.Errorf("%w: %d", ErrInvalidCamera, c.Address)
	}
	return nil
}

// Controller issues one exchange at a time over a Link.
type Controller struct {
	link Link
}

func NewController(link Link) *Controller {
	return &Controller{link: link}
}

// Exchange sends p to cam and reads replies until a completion or an error
// reply arrives. Acknowledgements and replies from other devices are skipped.
func (c *Controller) Exchange(ctx context.Context, cam Camera, p *frame.Packet) (protocol.Reply, error) {
	if err := cam.validate(); err != nil {
		return protocol.Reply{}, err
	}
	if err := c.link.Send(ctx, cam.Address, p); err != nil {
		return protocol.Reply{}, err
	}
	return c.awaitCompletion(ctx, cam)
}

func (c *Controller) awaitCompletion(ctx context.Context, cam Camera) (protocol.Reply, error) {
	for {
		raw, err := c.link.ReadFrame(ctx)
		if err != nil {
			return protocol.Reply{}, err
		}
		if src, ok := frameSource(raw); ok && src != cam.Address {
			log.Debug().Msgf("camera.Controller.Exchange camera=%d skip foreign reply source=%d frame=% x", cam.Address, src, raw)
			continue
		}

		reply, err := protocol.Classify(raw)
		if err != nil {
			var devErr *protocol.DeviceError
			if errors.As(err, &devErr) {
				log.Warn().Msgf("camera.Controller.Exchange camera=%d reply=% x err=%v", cam.Address, raw, err)
			}
			return reply, err
		}
		switch reply.Kind {
		case protocol.ReplyAck:
			log.Debug().Msgf("camera.Controller.Exchange camera=%d ack socket=%d", cam.Address, reply.Socket)
		case protocol.ReplyCompletion:
			log.Debug().Msgf("camera.Controller.Exchange camera=%d completion socket=%d payload=% x", cam.Address, reply.Socket, reply.Payload)
			return reply, nil
		default:
			log.Debug().Msgf("camera.Controller.Exchange camera=%d skip kind=%s", cam.Address, reply.Kind)
		}
	}
}

// frameSource reads the sender address from a reply header. ok is false when
// the first byte is not a header.
func frameSource(raw []byte) (uint8, bool) {
	if len(raw) == 0 || raw[0]&protocol.HeaderBase == 0 {
		return 0, false
	}
	return protocol.ReplySource(raw[0]), true
}

// Post sends p to cam without waiting for any reply.
func (c *Controller) Post(ctx context.Context, cam Camera, p *frame.Packet) error {
	if err := cam.validate(); err != nil {
		return err
	}
	return c.link.Send(ctx, cam.Address, p)
}

// Command builds a packet from payload and exchanges it with cam.
func (c *Controller) Command(ctx context.Context, cam Camera, payload ...byte) error {
	p, err := frame.NewPacket(payload...)
	if err != nil {
		return err
	}
	_, err = c.Exchange(ctx, cam, p)
	return err
}

// Inquire exchanges an inquiry and returns the completion payload, the reply
// bytes between the header and the terminator.
func (c *Controller) Inquire(ctx context.Context, cam Camera, payload ...byte) ([]byte, error) {
	p, err := frame.NewPacket(payload...)
	if err != nil {
		return nil, err
	}
	reply, err := c.Exchange(ctx, cam, p)
	if err != nil {
		return nil, err
	}
	return reply.Payload, nil
}
