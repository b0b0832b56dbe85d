//go:build !linux

package core

import "syscall"

// listenControl is a no-op off Linux.
func listenControl(network, address string, c syscall.RawConn) error {
	return nil
}
