//go:build !linux
// +build !linux

package process

import "errors"

// setRawMode is unsupported on this platform; the caller falls back to
// cooked mode.
func setRawMode(fd int) (func(), error) {
	return nil, errors.New("raw mode not supported on this platform")
}
