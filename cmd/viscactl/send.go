package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/danmuck/viscactl/internal/camera"
	"github.com/danmuck/viscactl/internal/protocol/frame"
	"github.com/spf13/cobra"
)

func newSendCmd(a *app) *cobra.Command {
	var noReply bool
	cmd := &cobra.Command{
		Use:   "send <hex>...",
		Short: "Send a raw payload and print the completion",
		Long: `Send a raw payload, without header or terminator, to the configured camera.
Bytes may be given as separate arguments or run together: "01 04 00 02" or "01040002".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseHexPayload(args)
			if err != nil {
				return err
			}
			p, err := frame.NewPacket(payload...)
			if err != nil {
				return err
			}
			return a.withController(cmd.Context(), func(ctx context.Context, c *camera.Controller, cam camera.Camera) error {
				if noReply {
					return c.Post(ctx, cam, p)
				}
				reply, err := c.Exchange(ctx, cam, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: % x\n", reply.Kind, reply.Payload)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noReply, "no-reply", false, "do not wait for acknowledgement or completion")
	return cmd
}

func parseHexPayload(args []string) ([]byte, error) {
	var out []byte
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			field = strings.TrimPrefix(strings.ToLower(field), "0x")
			b, err := hex.DecodeString(field)
			if err != nil {
				return nil, fmt.Errorf("invalid hex %q: %w", field, err)
			}
			out = append(out, b...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	return out, nil
}
