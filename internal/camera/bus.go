package camera

import (
	"context"
	"fmt"

	"github.com/danmuck/viscactl/internal/protocol"
	"github.com/danmuck/viscactl/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

// AssignAddresses broadcasts an address set starting at the first device
// address. Each device takes the next address along the daisy chain; the
// reply reports one past the last address taken. It returns the number of
// devices on the bus.
func (c *Controller) AssignAddresses(ctx context.Context) (int, error) {
	p, err := frame.NewPacket(protocol.AddressSet, protocol.FirstAddress)
	if err != nil {
		return 0, err
	}
	if err := c.link.SendBroadcast(ctx, p); err != nil {
		return 0, err
	}
	for {
		raw, err := c.link.ReadFrame(ctx)
		if err != nil {
			return 0, err
		}
		reply, err := protocol.Classify(raw)
		if err != nil {
			log.Debug().Msgf("camera.Controller.AssignAddresses skip frame=% x err=%v", raw, err)
			continue
		}
		if reply.Kind != protocol.ReplyAddressSet {
			log.Debug().Msgf("camera.Controller.AssignAddresses skip kind=%s", reply.Kind)
			continue
		}
		if len(reply.Payload) < 2 {
			return 0, fmt.Errorf("%w: % x", ErrShortReply, reply.Payload)
		}
		count := int(reply.Payload[1]) - int(protocol.FirstAddress)
		if count <= 0 {
			return 0, ErrNoDevices
		}
		log.Info().Msgf("camera.Controller.AssignAddresses devices=%d", count)
		return count, nil
	}
}

// ClearInterfaces broadcasts an interface clear, cancelling every pending
// command on the bus. The devices echo the clear once it is done.
func (c *Controller) ClearInterfaces(ctx context.Context) error {
	p, err := frame.NewPacket(protocol.Command, protocol.IfClear1, protocol.IfClear2)
	if err != nil {
		return err
	}
	if err := c.link.SendBroadcast(ctx, p); err != nil {
		return err
	}
	for {
		raw, err := c.link.ReadFrame(ctx)
		if err != nil {
			return err
		}
		reply, err := protocol.Classify(raw)
		if err == nil && reply.Kind == protocol.ReplyIfClear {
			return nil
		}
		log.Debug().Msgf("camera.Controller.ClearInterfaces skip frame=% x", raw)
	}
}
