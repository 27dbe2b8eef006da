package main

import (
	"context"
	"fmt"

	"github.com/danmuck/viscactl/internal/camera"
	"github.com/spf13/cobra"
)

func newAddressSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "address-set",
		Short: "Assign addresses along the daisy chain and count devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withController(cmd.Context(), func(ctx context.Context, c *camera.Controller, _ camera.Camera) error {
				n, err := c.AssignAddresses(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "devices: %d\n", n)
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Cancel pending commands on every device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withController(cmd.Context(), func(ctx context.Context, c *camera.Controller, _ camera.Camera) error {
				if err := c.ClearInterfaces(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "clear: ok")
				return nil
			})
		},
	}
}
