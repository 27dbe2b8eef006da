package camera

import (
	"context"
	"fmt"

	"github.com/danmuck/viscactl/internal/protocol"
)

// OSDSwitch toggles the on-screen menu.
func (c *Controller) OSDSwitch(ctx context.Context, cam Camera) error {
	return c.Command(ctx, cam, protocol.Command, protocol.CategoryOSD1, protocol.OSDStatus, protocol.OSDStatusSwitch)
}

func (c *Controller) OSDOn(ctx context.Context, cam Camera) error {
	return c.Command(ctx, cam, protocol.Command, protocol.CategoryOSD1, protocol.OSDStatus, protocol.OSDStatusOn)
}

func (c *Controller) OSDOff(ctx context.Context, cam Camera) error {
	return c.Command(ctx, cam, protocol.Command, protocol.CategoryOSD1, protocol.OSDStatus, protocol.OSDStatusOff)
}

// OSDOk confirms the highlighted menu entry.
func (c *Controller) OSDOk(ctx context.Context, cam Camera) error {
	return c.Command(ctx, cam, protocol.Command, protocol.CategoryOSD3,
		protocol.OSDOk1, protocol.OSDOk2, protocol.OSDOk3, protocol.OSDOk4)
}

// OSDBack leaves the current menu level.
func (c *Controller) OSDBack(ctx context.Context, cam Camera) error {
	return c.Command(ctx, cam, protocol.Command, protocol.CategoryOSD2, protocol.OSDBack1, protocol.OSDBack2)
}

// OSDStatus asks whether the menu is shown. The raw status byte is returned
// alongside its meaning.
func (c *Controller) OSDStatus(ctx context.Context, cam Camera) (bool, byte, error) {
	payload, err := c.Inquire(ctx, cam, protocol.Inquiry, protocol.CategoryOSD1, protocol.OSDStatus)
	if err != nil {
		return false, 0, err
	}
	if len(payload) < 2 {
		return false, 0, fmt.Errorf("%w: % x", ErrShortReply, payload)
	}
	status := payload[1]
	return status == protocol.OSDStatusOn, status, nil
}
