package main

import (
	"context"
	"fmt"

	"github.com/danmuck/viscactl/internal/camera"
	"github.com/spf13/cobra"
)

func newOSDCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osd",
		Short: "Drive the camera's on-screen menu",
	}

	actions := []struct {
		use   string
		short string
		run   func(*camera.Controller, context.Context, camera.Camera) error
	}{
		{use: "on", short: "Show the menu", run: (*camera.Controller).OSDOn},
		{use: "off", short: "Hide the menu", run: (*camera.Controller).OSDOff},
		{use: "switch", short: "Toggle the menu", run: (*camera.Controller).OSDSwitch},
		{use: "ok", short: "Confirm the highlighted entry", run: (*camera.Controller).OSDOk},
		{use: "back", short: "Leave the current menu level", run: (*camera.Controller).OSDBack},
	}
	for _, action := range actions {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withController(cmd.Context(), func(ctx context.Context, c *camera.Controller, cam camera.Camera) error {
					if err := action.run(c, ctx, cam); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "osd %s: ok\n", action.use)
					return nil
				})
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether the menu is shown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withController(cmd.Context(), func(ctx context.Context, c *camera.Controller, cam camera.Camera) error {
				on, raw, err := c.OSDStatus(ctx, cam)
				if err != nil {
					return err
				}
				state := "off"
				if on {
					state = "on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "osd: %s (0x%02x)\n", state, raw)
				return nil
			})
		},
	})
	return cmd
}
