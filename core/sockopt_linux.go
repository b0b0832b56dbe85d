//go:build linux

package core

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// listenControl sets listener socket options before bind: SO_REUSEADDR for
// fast restarts, SO_REUSEPORT so multiple processes can share the port.
func listenControl(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if opErr != nil {
			return
		}
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
