//go:build !linux

package transport

import "syscall"

func pendingBytes(syscall.RawConn) (int, error) {
	return 0, ErrPeekUnsupported
}
