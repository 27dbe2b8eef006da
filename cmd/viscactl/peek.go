package main

import (
	"fmt"

	"github.com/danmuck/viscactl/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPeekCmd(a *app) *cobra.Command {
	var drain bool
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Report bytes waiting on the link",
		Long:  "Report bytes waiting on the link without reading them, or read and print them with --drain.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := session.Open(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := h.Close(); err != nil {
					log.Warn().Msgf("viscactl close endpoint=%q err=%v", h.Name(), err)
				}
			}()

			n, err := h.Available()
			if err != nil {
				return err
			}
			if !drain {
				fmt.Fprintf(cmd.OutOrStdout(), "pending: %d\n", n)
				return nil
			}
			buf := make([]byte, a.cfg.MaxFrameBytes)
			read, err := h.Drain(buf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "drained %d: % x\n", read, buf[:read])
			return nil
		},
	}
	cmd.Flags().BoolVar(&drain, "drain", false, "read the pending bytes")
	return cmd
}
