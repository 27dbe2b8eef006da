//go:build linux || darwin || freebsd || netbsd || openbsd

package transport

import (
	"os"

	"golang.org/x/sys/unix"
)

// serialOpenFlags opens the device read/write, without making it the
// controlling terminal, and non-blocking so reads go through the runtime
// poller instead of parking a thread.
const serialOpenFlags = os.O_RDWR | unix.O_NOCTTY | unix.O_NONBLOCK

func openSerialFile(path string) (*os.File, error) {
	return os.OpenFile(path, serialOpenFlags, 0)
}
