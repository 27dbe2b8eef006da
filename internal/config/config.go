package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/viscactl/internal/protocol"
	"gopkg.in/yaml.v3"
)

const (
	KindSerial = "serial"
	KindSocket = "socket"

	maxAddress = 7
)

// Config describes one link to a VISCA bus and the addressing used on it.
type Config struct {
	Link            Link
	Address         uint8
	Broadcast       bool
	Camera          uint8
	MaxFrameBytes   int
	ConnectAttempts int
	Timeouts        Timeouts
	Backoff         Backoff
}

type Link struct {
	Kind   string
	Device string
	Host   string
	Port   int
}

type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// Backoff spaces socket connect attempts.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     bool
}

func Default() Config {
	return Config{
		Link: Link{
			Kind:   KindSerial,
			Device: "/dev/ttyUSB0",
			Port:   5678,
		},
		Camera:          1,
		MaxFrameBytes:   256,
		ConnectAttempts: 1,
		Timeouts: Timeouts{
			Connect: 5 * time.Second,
			Read:    2 * time.Second,
			Write:   2 * time.Second,
		},
		Backoff: Backoff{
			Initial:    250 * time.Millisecond,
			Max:        5 * time.Second,
			Multiplier: 2.0,
			Jitter:     true,
		},
	}
}

// fileConfig mirrors the on-disk layout. Pointer fields tell unset keys
// apart from zero values.
type fileConfig struct {
	Link            fileLink     `toml:"link" yaml:"link"`
	Address         *int         `toml:"address" yaml:"address"`
	Broadcast       *bool        `toml:"broadcast" yaml:"broadcast"`
	Camera          *int         `toml:"camera" yaml:"camera"`
	MaxFrameBytes   *int         `toml:"max_frame_bytes" yaml:"max_frame_bytes"`
	ConnectAttempts *int         `toml:"connect_attempts" yaml:"connect_attempts"`
	Timeouts        fileTimeouts `toml:"timeouts" yaml:"timeouts"`
	Backoff         fileBackoff  `toml:"backoff" yaml:"backoff"`
}

type fileLink struct {
	Kind   *string `toml:"kind" yaml:"kind"`
	Device *string `toml:"device" yaml:"device"`
	Host   *string `toml:"host" yaml:"host"`
	Port   *int    `toml:"port" yaml:"port"`
}

type fileTimeouts struct {
	Connect *string `toml:"connect" yaml:"connect"`
	Read    *string `toml:"read" yaml:"read"`
	Write   *string `toml:"write" yaml:"write"`
}

type fileBackoff struct {
	Initial    *string  `toml:"initial" yaml:"initial"`
	Max        *string  `toml:"max" yaml:"max"`
	Multiplier *float64 `toml:"multiplier" yaml:"multiplier"`
	Jitter     *bool    `toml:"jitter" yaml:"jitter"`
}

// Load reads a TOML or YAML config, chosen by file extension, applies it over
// the defaults and validates the result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := loadYAML(path, &raw); err != nil {
			return Config{}, err
		}
	default:
		if err := loadToml(path, &raw); err != nil {
			return Config{}, err
		}
	}

	cfg, err := raw.apply(Default())
	if err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func loadToml(path string, out *fileConfig) error {
	meta, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func loadYAML(path string, out *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func (raw fileConfig) apply(cfg Config) (Config, error) {
	if raw.Link.Kind != nil {
		cfg.Link.Kind = strings.ToLower(strings.TrimSpace(*raw.Link.Kind))
	}
	if raw.Link.Device != nil {
		cfg.Link.Device = strings.TrimSpace(*raw.Link.Device)
	}
	if raw.Link.Host != nil {
		cfg.Link.Host = strings.TrimSpace(*raw.Link.Host)
	}
	if raw.Link.Port != nil {
		cfg.Link.Port = *raw.Link.Port
	}

	var err error
	if raw.Address != nil {
		if cfg.Address, err = address("address", *raw.Address); err != nil {
			return Config{}, err
		}
	}
	if raw.Camera != nil {
		if cfg.Camera, err = address("camera", *raw.Camera); err != nil {
			return Config{}, err
		}
	}
	if raw.Broadcast != nil {
		cfg.Broadcast = *raw.Broadcast
	}
	if raw.MaxFrameBytes != nil {
		cfg.MaxFrameBytes = *raw.MaxFrameBytes
	}
	if raw.ConnectAttempts != nil {
		cfg.ConnectAttempts = *raw.ConnectAttempts
	}

	if cfg.Timeouts.Connect, err = duration("timeouts.connect", raw.Timeouts.Connect, cfg.Timeouts.Connect); err != nil {
		return Config{}, err
	}
	if cfg.Timeouts.Read, err = duration("timeouts.read", raw.Timeouts.Read, cfg.Timeouts.Read); err != nil {
		return Config{}, err
	}
	if cfg.Timeouts.Write, err = duration("timeouts.write", raw.Timeouts.Write, cfg.Timeouts.Write); err != nil {
		return Config{}, err
	}

	if cfg.Backoff.Initial, err = duration("backoff.initial", raw.Backoff.Initial, cfg.Backoff.Initial); err != nil {
		return Config{}, err
	}
	if cfg.Backoff.Max, err = duration("backoff.max", raw.Backoff.Max, cfg.Backoff.Max); err != nil {
		return Config{}, err
	}
	if raw.Backoff.Multiplier != nil {
		cfg.Backoff.Multiplier = *raw.Backoff.Multiplier
	}
	if raw.Backoff.Jitter != nil {
		cfg.Backoff.Jitter = *raw.Backoff.Jitter
	}
	return cfg, nil
}

func address(key string, v int) (uint8, error) {
	if v < 0 || v > maxAddress {
		return 0, fmt.Errorf("%s must be within 0..%d, got %d", key, maxAddress, v)
	}
	return uint8(v), nil
}

func duration(key string, raw *string, fallback time.Duration) (time.Duration, error) {
	if raw == nil {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func Validate(cfg Config) error {
	switch cfg.Link.Kind {
	case KindSerial:
		if strings.TrimSpace(cfg.Link.Device) == "" {
			return fmt.Errorf("serial link missing device")
		}
	case KindSocket:
		if strings.TrimSpace(cfg.Link.Host) == "" {
			return fmt.Errorf("socket link missing host")
		}
		if cfg.Link.Port <= 0 || cfg.Link.Port > 65535 {
			return fmt.Errorf("socket link port out of range: %d", cfg.Link.Port)
		}
	default:
		return fmt.Errorf("unknown link kind: %q", cfg.Link.Kind)
	}
	if cfg.Address > maxAddress {
		return fmt.Errorf("address must be within 0..%d, got %d", maxAddress, cfg.Address)
	}
	if cfg.Camera > maxAddress {
		return fmt.Errorf("camera must be within 0..%d, got %d", maxAddress, cfg.Camera)
	}
	if cfg.MaxFrameBytes < 2 {
		return fmt.Errorf("max_frame_bytes must hold at least a header and terminator, got %d", cfg.MaxFrameBytes)
	}
	if cfg.MaxFrameBytes > protocol.MaxFrameCapacity {
		return fmt.Errorf("max_frame_bytes must not exceed %d, got %d", protocol.MaxFrameCapacity, cfg.MaxFrameBytes)
	}
	if cfg.ConnectAttempts < 1 {
		return fmt.Errorf("connect_attempts must be at least 1, got %d", cfg.ConnectAttempts)
	}
	if cfg.Timeouts.Connect < 0 || cfg.Timeouts.Read < 0 || cfg.Timeouts.Write < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.Backoff.Initial <= 0 {
		return fmt.Errorf("backoff.initial must be positive, got %s", cfg.Backoff.Initial)
	}
	if cfg.Backoff.Max < cfg.Backoff.Initial {
		return fmt.Errorf("backoff.max %s is below backoff.initial %s", cfg.Backoff.Max, cfg.Backoff.Initial)
	}
	if cfg.Backoff.Multiplier < 1 {
		return fmt.Errorf("backoff.multiplier must be at least 1, got %g", cfg.Backoff.Multiplier)
	}
	return nil
}
