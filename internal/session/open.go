package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/danmuck/viscactl/internal/config"
	"github.com/danmuck/viscactl/internal/protocol/frame"
	"github.com/danmuck/viscactl/internal/transport"
	"github.com/rs/zerolog/log"
)

type dialFunc func(ctx context.Context, host string, port int, opts ...transport.Option) (*transport.Handle, error)

// Open opens the link fc describes with fc's addressing and timeouts.
// Socket connects are retried with backoff up to the configured attempts.
func Open(ctx context.Context, fc config.Config) (*transport.Handle, error) {
	cfg := FromFile(fc)
	opts := HandleOptions(fc, cfg)
	switch fc.Link.Kind {
	case config.KindSerial:
		return transport.OpenSerial(fc.Link.Device, opts...)
	case config.KindSocket:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return dialWithRetry(ctx, transport.OpenSocket, fc.Link.Host, fc.Link.Port, cfg, rng, opts)
	default:
		return nil, fmt.Errorf("session: unknown link kind %q", fc.Link.Kind)
	}
}

// HandleOptions turns the addressing and timeout settings into transport
// options.
func HandleOptions(fc config.Config, cfg Config) []transport.Option {
	return []transport.Option{
		transport.WithAddress(fc.Address),
		transport.WithBroadcast(fc.Broadcast),
		transport.WithLimits(frame.Limits{MaxFrameBytes: fc.MaxFrameBytes}),
		transport.WithConnectTimeout(cfg.ConnectTimeout),
		transport.WithReadTimeout(cfg.ReadTimeout),
		transport.WithWriteTimeout(cfg.WriteTimeout),
	}
}

func dialWithRetry(
	ctx context.Context,
	dial dialFunc,
	host string,
	port int,
	cfg Config,
	rng *rand.Rand,
	opts []transport.Option,
) (*transport.Handle, error) {
	var attempt int
	for {
		attempt++
		h, err := dial(ctx, host, port, opts...)
		if err == nil {
			return h, nil
		}
		log.Warn().Msgf("session.Open dial attempt=%d host=%q port=%d err=%v", attempt, host, port, err)
		if !errors.Is(err, transport.ErrConnectFailure) || attempt >= cfg.MaxConnectAttempts {
			return nil, err
		}
		if err := sleepContext(ctx, cfg.Backoff.Delay(attempt, rng)); err != nil {
			return nil, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
