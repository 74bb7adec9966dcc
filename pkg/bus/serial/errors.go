package serial

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates no reply arrived in time.
	ErrTimeout = errors.New("reply timeout")
	// ErrShortReply indicates the reply carries less data than expected.
	ErrShortReply = errors.New("short reply")
	// ErrTooLong indicates w or r exceeds MaxDataLen.
	ErrTooLong = errors.New("data too long")
)

// TxError wraps a non-zero status from the bridge.
type TxError struct {
	Addr   uint16
	Status byte
}

// Error implements error.
func (e *TxError) Error() string {
	return fmt.Sprintf("tx 0x%02x error %d", e.Addr, e.Status)
}
