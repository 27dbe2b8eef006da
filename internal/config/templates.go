package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns a commented starter config in the given format.
func Template(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "toml", "":
		return tomlTemplate, nil
	case "yaml", "yml":
		return yamlTemplate, nil
	default:
		return "", fmt.Errorf("unknown config format: %s", format)
	}
}

func WriteTemplate(path, format string, overwrite bool) error {
	template, err := Template(format)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const tomlTemplate = `# own controller address on the bus (0..7)
address = 0
# default destination device (0..7)
camera = 1
broadcast = false
max_frame_bytes = 256
connect_attempts = 1

[link]
# serial | socket
kind = "serial"
device = "/dev/ttyUSB0"
host = "192.168.0.90"
port = 5678

[timeouts]
connect = "5s"
read = "2s"
write = "2s"

# spacing between socket connect attempts
[backoff]
initial = "250ms"
max = "5s"
multiplier = 2.0
jitter = true
`

const yamlTemplate = `# own controller address on the bus (0..7)
address: 0
# default destination device (0..7)
camera: 1
broadcast: false
max_frame_bytes: 256
connect_attempts: 1

link:
  # serial | socket
  kind: serial
  device: /dev/ttyUSB0
  host: 192.168.0.90
  port: 5678

timeouts:
  connect: 5s
  read: 2s
  write: 2s

# spacing between socket connect attempts
backoff:
  initial: 250ms
  max: 5s
  multiplier: 2.0
  jitter: true
`
