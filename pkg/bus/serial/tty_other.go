//go:build !linux

package serial

import "os"

// MakeRaw is a no-op where termios isn't supported, the device is used
// as configured.
func MakeRaw(f *os.File, baud int) error {
	return nil
}
