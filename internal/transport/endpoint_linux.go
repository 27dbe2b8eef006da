//go:build linux

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// pendingBytes asks the kernel how many bytes wait in the receive queue.
// TIOCINQ answers for ttys, pipes and sockets alike.
func pendingBytes(rc syscall.RawConn) (int, error) {
	var (
		n     int
		ioErr error
	)
	if err := rc.Control(func(fd uintptr) {
		n, ioErr = unix.IoctlGetInt(int(fd), unix.TIOCINQ)
	}); err != nil {
		return 0, err
	}
	return n, ioErr
}
