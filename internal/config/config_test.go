package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTomlDefaultsAndOverrides(t *testing.T) {
	path := writeFile(t, "viscactl.toml", `
camera = 3
[link]
kind = "socket"
host = "10.0.0.5"
port = 1259
[timeouts]
read = "750ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Link.Kind != KindSocket || cfg.Link.Host != "10.0.0.5" || cfg.Link.Port != 1259 {
		t.Fatalf("link: %+v", cfg.Link)
	}
	if cfg.Camera != 3 {
		t.Fatalf("camera: %d", cfg.Camera)
	}
	if cfg.Address != 0 || cfg.Broadcast {
		t.Fatalf("addressing defaults changed: address=%d broadcast=%v", cfg.Address, cfg.Broadcast)
	}
	if cfg.Timeouts.Read != 750*time.Millisecond {
		t.Fatalf("read timeout: %v", cfg.Timeouts.Read)
	}
	if cfg.Timeouts.Connect != 5*time.Second || cfg.Timeouts.Write != 2*time.Second {
		t.Fatalf("timeout defaults: %+v", cfg.Timeouts)
	}
	if cfg.MaxFrameBytes != 256 || cfg.ConnectAttempts != 1 {
		t.Fatalf("defaults: frame=%d attempts=%d", cfg.MaxFrameBytes, cfg.ConnectAttempts)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "viscactl.yaml", `
address: 2
broadcast: true
link:
  kind: serial
  device: /dev/ttyS1
timeouts:
  write: 1s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Link.Device != "/dev/ttyS1" || cfg.Address != 2 || !cfg.Broadcast {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Timeouts.Write != time.Second {
		t.Fatalf("write timeout: %v", cfg.Timeouts.Write)
	}
}

func TestLoadEmptyYAMLUsesDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Link.Kind != KindSerial || cfg.Camera != 1 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
		want string
	}{
		{name: "address range", file: "a.toml", body: "address = 8\n", want: "address must be within 0..7"},
		{name: "camera range", file: "c.toml", body: "camera = 9\n", want: "camera must be within 0..7"},
		{name: "unknown toml key", file: "k.toml", body: "baud = 9600\n", want: "unknown keys baud"},
		{name: "unknown yaml key", file: "k.yaml", body: "baud: 9600\n", want: "field baud not found"},
		{name: "bad duration", file: "d.toml", body: "[timeouts]\nread = \"soon\"\n", want: "parse timeouts.read"},
		{name: "socket without host", file: "s.toml", body: "[link]\nkind = \"socket\"\n", want: "socket link missing host"},
		{name: "unknown kind", file: "u.toml", body: "[link]\nkind = \"usb\"\n", want: "unknown link kind"},
		{name: "tiny frame", file: "f.toml", body: "max_frame_bytes = 1\n", want: "max_frame_bytes"},
		{name: "no attempts", file: "n.toml", body: "connect_attempts = 0\n", want: "connect_attempts"},
		{name: "negative timeout", file: "t.toml", body: "[timeouts]\nread = \"-1s\"\n", want: "timeouts must not be negative"},
		{name: "huge frame", file: "h.toml", body: "max_frame_bytes = 1000000\n", want: "max_frame_bytes must not exceed 4096"},
		{name: "zero backoff", file: "b0.toml", body: "[backoff]\ninitial = \"0s\"\n", want: "backoff.initial must be positive"},
		{name: "backoff max below initial", file: "bm.toml", body: "[backoff]\ninitial = \"2s\"\nmax = \"1s\"\n", want: "below backoff.initial"},
		{name: "shrinking backoff", file: "bx.yaml", body: "backoff:\n  multiplier: 0.5\n", want: "backoff.multiplier must be at least 1"},
		{name: "bad backoff duration", file: "bd.toml", body: "[backoff]\nmax = \"later\"\n", want: "parse backoff.max"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadBackoff(t *testing.T) {
	path := writeFile(t, "viscactl.toml", `
connect_attempts = 4
[backoff]
initial = "100ms"
max = "1s"
multiplier = 3.0
jitter = false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Backoff{Initial: 100 * time.Millisecond, Max: time.Second, Multiplier: 3, Jitter: false}
	if cfg.Backoff != want {
		t.Fatalf("backoff: got=%+v want=%+v", cfg.Backoff, want)
	}
	if cfg.ConnectAttempts != 4 {
		t.Fatalf("attempts: %d", cfg.ConnectAttempts)
	}
}

func TestLoadMaxFrameBytesAtCap(t *testing.T) {
	cfg, err := Load(writeFile(t, "cap.toml", "max_frame_bytes = 4096\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxFrameBytes != 4096 {
		t.Fatalf("max frame bytes: %d", cfg.MaxFrameBytes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "config load failed") {
		t.Fatalf("expected load failure, got %v", err)
	}
}

func TestTemplatesLoad(t *testing.T) {
	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "viscactl."+format)
			if err := WriteTemplate(path, format, false); err != nil {
				t.Fatalf("write template: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load template: %v", err)
			}
			want := Default()
			want.Link.Host = "192.168.0.90"
			if cfg != want {
				t.Fatalf("template config: got=%+v want=%+v", cfg, want)
			}
			if err := WriteTemplate(path, format, false); err == nil {
				t.Fatalf("expected refusal to overwrite")
			}
			if err := WriteTemplate(path, format, true); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
		})
	}
}

func TestTemplateUnknownFormat(t *testing.T) {
	if _, err := Template("ini"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
