//go:build linux

package transport

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/viscactl/internal/testutil/testlog"
	"golang.org/x/sys/unix"
)

// A FIFO opened read/write loops every written frame back to the reader,
// which exercises the serial open path and the poller-backed reads.
func TestSerialLoopbackThroughFIFO(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "visca.fifo")
	if err := unix.Mkfifo(path, 0o600); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	h, err := OpenSerial(path, WithReadTimeout(2*time.Second), WithAddress(3))
	if err != nil {
		t.Fatalf("open serial: %v", err)
	}
	defer h.Close()
	if h.Address != 3 {
		t.Fatalf("address: %d", h.Address)
	}

	ctx := context.Background()
	if err := h.Send(ctx, 1, mustPacket(t, 0x09, 0x06, 0x06)); err != nil {
		t.Fatalf("send: %v", err)
	}
	n, err := h.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if n != 5 {
		t.Fatalf("available: got=%d want=5", n)
	}
	got, err := h.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(got, []byte{0xB1, 0x09, 0x06, 0x06, 0xFF}) {
		t.Fatalf("frame: % x", got)
	}
}

func TestSerialReadTimeout(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "idle.fifo")
	if err := unix.Mkfifo(path, 0o600); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}
	h, err := OpenSerial(path, WithReadTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("open serial: %v", err)
	}
	defer h.Close()
	if h.Address != 0 {
		t.Fatalf("own address must reset to 0, got %d", h.Address)
	}
	if _, err := h.ReadFrame(context.Background()); err == nil {
		t.Fatalf("expected timeout on idle line")
	}
}
