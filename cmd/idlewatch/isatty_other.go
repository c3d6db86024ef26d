//go:build !linux
// +build !linux

package main

// isatty returns true if the given file descriptor is a terminal. Without
// a per-platform ioctl we assume it is not, which just disables the
// status line.
func isatty(fd uintptr) bool {
	return false
}
