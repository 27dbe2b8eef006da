//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package transport

import "os"

func openSerialFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}
