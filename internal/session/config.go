package session

import (
	"time"

	"github.com/danmuck/viscactl/internal/config"
)

// BackoffConfig spaces socket connect attempts.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines link timeouts and connect retry.
type Config struct {
	ConnectTimeout     time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxConnectAttempts int
	Backoff            BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		ConnectTimeout:     5 * time.Second,
		ReadTimeout:        2 * time.Second,
		WriteTimeout:       2 * time.Second,
		MaxConnectAttempts: 1,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills zero fields. Zero read and write timeouts stay zero:
// they mean "until the context ends".
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.MaxConnectAttempts < 1 {
		c.MaxConnectAttempts = def.MaxConnectAttempts
	}
	if c.Backoff.InitialDelay <= 0 {
		c.Backoff = def.Backoff
	}
	return c
}

// FromFile maps the loaded file config onto session settings.
func FromFile(fc config.Config) Config {
	cfg := Config{
		ConnectTimeout:     fc.Timeouts.Connect,
		ReadTimeout:        fc.Timeouts.Read,
		WriteTimeout:       fc.Timeouts.Write,
		MaxConnectAttempts: fc.ConnectAttempts,
		Backoff: BackoffConfig{
			InitialDelay: fc.Backoff.Initial,
			Multiplier:   fc.Backoff.Multiplier,
			MaxDelay:     fc.Backoff.Max,
			Jitter:       fc.Backoff.Jitter,
		},
	}
	return cfg.WithDefaults()
}
