package main

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/viscactl/internal/camera"
	"github.com/danmuck/viscactl/internal/config"
	"github.com/danmuck/viscactl/internal/logging"
	"github.com/danmuck/viscactl/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the resolved config shared by every subcommand.
type app struct {
	cfgFile   string
	serial    string
	host      string
	port      int
	camera    int
	address   int
	broadcast bool
	timeout   time.Duration
	logLevel  string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "viscactl",
		Short: "Control VISCA cameras over a serial line or TCP socket",
		Long: `viscactl sends VISCA commands and inquiries to a camera on a serial
device node or a TCP socket and prints the replies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()
			if a.logLevel != "" {
				lvl, ok := logging.ParseLevel(a.logLevel)
				if !ok {
					return fmt.Errorf("unknown log level %q", a.logLevel)
				}
				zerolog.SetGlobalLevel(lvl)
			}
			return a.resolve(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.cfgFile, "config", "c", "", "config file (.toml, .yaml)")
	f.StringVar(&a.serial, "serial", "", "serial device node, selects a serial link")
	f.StringVar(&a.host, "host", "", "camera host, selects a socket link")
	f.IntVar(&a.port, "port", 0, "camera TCP port")
	f.IntVar(&a.camera, "camera", 1, "destination device address (0..7)")
	f.IntVar(&a.address, "address", 0, "own controller address (0..7)")
	f.BoolVar(&a.broadcast, "broadcast", false, "address every device on the bus")
	f.DurationVar(&a.timeout, "timeout", 0, "reply read timeout (0 keeps the config value)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")

	root.AddCommand(
		newOSDCmd(a),
		newSendCmd(a),
		newPeekCmd(a),
		newAddressSetCmd(a),
		newClearCmd(a),
	)
	return root
}

// resolve loads the config file, if any, and lays explicit flags over it.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("serial") && flags.Changed("host") {
		return fmt.Errorf("--serial and --host select different links; pass one")
	}
	if flags.Changed("serial") {
		cfg.Link.Kind = config.KindSerial
		cfg.Link.Device = a.serial
	}
	if flags.Changed("host") {
		cfg.Link.Kind = config.KindSocket
		cfg.Link.Host = a.host
	}
	if flags.Changed("port") {
		cfg.Link.Port = a.port
	}
	if flags.Changed("camera") {
		if a.camera < 0 || a.camera > 7 {
			return fmt.Errorf("camera must be within 0..7, got %d", a.camera)
		}
		cfg.Camera = uint8(a.camera)
	}
	if flags.Changed("address") {
		if a.address < 0 || a.address > 7 {
			return fmt.Errorf("address must be within 0..7, got %d", a.address)
		}
		cfg.Address = uint8(a.address)
	}
	if flags.Changed("broadcast") {
		cfg.Broadcast = a.broadcast
	}
	if a.timeout > 0 {
		cfg.Timeouts.Read = a.timeout
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// withController opens the configured link for the length of fn.
func (a *app) withController(ctx context.Context, fn func(context.Context, *camera.Controller, camera.Camera) error) error {
	h, err := session.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn().Msgf("viscactl close endpoint=%q err=%v", h.Name(), err)
		}
	}()
	return fn(ctx, camera.NewController(h), camera.Camera{Address: a.cfg.Camera})
}
