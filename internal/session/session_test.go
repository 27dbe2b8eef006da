package session

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/danmuck/viscactl/internal/config"
	"github.com/danmuck/viscactl/internal/testutil/testlog"
	"github.com/danmuck/viscactl/internal/transport"
)

func TestBackoffDelayGrowsToMax(t *testing.T) {
	testlog.Start(t)
	b := BackoffConfig{
		InitialDelay: 250 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
	}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 250 * time.Millisecond},
		{attempt: 1, want: 250 * time.Millisecond},
		{attempt: 2, want: 500 * time.Millisecond},
		{attempt: 3, want: time.Second},
		{attempt: 6, want: 5 * time.Second},
		{attempt: 1000, want: 5 * time.Second},
	}
	for _, tc := range cases {
		if got := b.Delay(tc.attempt, nil); got != tc.want {
			t.Fatalf("attempt %d: got=%v want=%v", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoffDelayJitterStaysInUpperHalf(t *testing.T) {
	testlog.Start(t)
	b := BackoffConfig{
		InitialDelay: 250 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
		Jitter:       true,
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		got := b.Delay(3, rng)
		if got < 500*time.Millisecond || got > time.Second {
			t.Fatalf("jitter out of range: %v", got)
		}
	}
}

func TestBackoffDelayDisabled(t *testing.T) {
	testlog.Start(t)
	if got := (BackoffConfig{}).Delay(4, nil); got != 0 {
		t.Fatalf("zero config should not wait: %v", got)
	}
}

func TestFromFile(t *testing.T) {
	testlog.Start(t)
	fc := config.Default()
	fc.Timeouts.Connect = 0
	fc.Timeouts.Read = 0
	fc.ConnectAttempts = 4
	cfg := FromFile(fc)
	if cfg.ConnectTimeout != DefaultConfig().ConnectTimeout {
		t.Fatalf("connect timeout should fall back: %v", cfg.ConnectTimeout)
	}
	if cfg.ReadTimeout != 0 {
		t.Fatalf("zero read timeout must stay zero: %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 2*time.Second || cfg.MaxConnectAttempts != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFromFileMapsBackoff(t *testing.T) {
	testlog.Start(t)
	fc := config.Default()
	fc.Backoff = config.Backoff{Initial: 100 * time.Millisecond, Max: 800 * time.Millisecond, Multiplier: 3, Jitter: false}
	got := FromFile(fc).Backoff
	want := BackoffConfig{InitialDelay: 100 * time.Millisecond, Multiplier: 3, MaxDelay: 800 * time.Millisecond, Jitter: false}
	if got != want {
		t.Fatalf("backoff: got=%+v want=%+v", got, want)
	}
	if d := got.Delay(3, nil); d != 800*time.Millisecond {
		t.Fatalf("third attempt delay: %v", d)
	}
}

func TestDialWithRetryStopsAtMaxAttempts(t *testing.T) {
	testlog.Start(t)
	var calls int
	dial := func(context.Context, string, int, ...transport.Option) (*transport.Handle, error) {
		calls++
		return nil, transport.ErrConnectFailure
	}
	cfg := Config{MaxConnectAttempts: 3, Backoff: BackoffConfig{InitialDelay: time.Millisecond, Multiplier: 1}}
	_, err := dialWithRetry(context.Background(), dial, "camera", 5678, cfg, nil, nil)
	if !errors.Is(err, transport.ErrConnectFailure) {
		t.Fatalf("expected ErrConnectFailure, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("attempts: %d", calls)
	}
}

func TestDialWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("boom")
	var calls int
	dial := func(context.Context, string, int, ...transport.Option) (*transport.Handle, error) {
		calls++
		return nil, boom
	}
	cfg := Config{MaxConnectAttempts: 5, Backoff: BackoffConfig{InitialDelay: time.Millisecond}}
	if _, err := dialWithRetry(context.Background(), dial, "camera", 5678, cfg, nil, nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("attempts: %d", calls)
	}
}

func TestDialWithRetryHonorsContext(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	dial := func(context.Context, string, int, ...transport.Option) (*transport.Handle, error) {
		cancel()
		return nil, transport.ErrConnectFailure
	}
	cfg := Config{MaxConnectAttempts: 5, Backoff: BackoffConfig{InitialDelay: time.Hour}}
	if _, err := dialWithRetry(ctx, dial, "camera", 5678, cfg, nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOpenSocketFromConfig(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			buf := make([]byte, 1)
			_, _ = conn.Read(buf)
		}
	}()

	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	fc := config.Default()
	fc.Link = config.Link{Kind: config.KindSocket, Host: host, Port: port}
	fc.Address = 2

	h, err := Open(context.Background(), fc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	if h.Address != 2 || h.Broadcast != 0 {
		t.Fatalf("addressing: address=%d broadcast=%d", h.Address, h.Broadcast)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	testlog.Start(t)
	fc := config.Default()
	fc.Link.Kind = "usb"
	if _, err := Open(context.Background(), fc); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
