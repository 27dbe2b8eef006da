package transport

import (
	"time"

	"github.com/danmuck/viscactl/internal/protocol/frame"
)

const defaultConnectTimeout = 5 * time.Second

type options struct {
	address        uint8
	broadcast      uint8
	limits         frame.Limits
	readTimeout    time.Duration
	writeTimeout   time.Duration
	connectTimeout time.Duration
}

func defaultOptions() options {
	return options{
		limits:         frame.DefaultLimits(),
		connectTimeout: defaultConnectTimeout,
	}
}

// Option adjusts a Handle as it is opened.
type Option func(*options)

// WithAddress sets the controller's own bus address. Send validates it.
func WithAddress(a uint8) Option {
	return func(o *options) { o.address = a }
}

func WithBroadcast(on bool) Option {
	return func(o *options) {
		o.broadcast = 0
		if on {
			o.broadcast = 1
		}
	}
}

func WithLimits(l frame.Limits) Option {
	return func(o *options) { o.limits = l.WithDefaults() }
}

// WithReadTimeout bounds each frame read. Zero waits until the context ends.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

// WithWriteTimeout bounds each frame write. Zero waits until the context ends.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithConnectTimeout bounds the TCP connect of OpenSocket.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}
