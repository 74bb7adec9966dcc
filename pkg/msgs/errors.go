package msgs

import (
	"errors"
	"fmt"
)

var (
	// ErrMailboxFull indicates a non-blocking send found no room.
	ErrMailboxFull = errors.New("mailbox full")
)

// PayloadError indicates a payload longer than the receiver accepts.
type PayloadError struct {
	Mailbox string
	Type    MsgType
	Len     int
	Max     int
}

// Error implements error.
func (e *PayloadError) Error() string {
	if e.Mailbox == "" {
		return fmt.Sprintf("%s payload too large: %d > %d", e.Type, e.Len, e.Max)
	}
	return fmt.Sprintf("%s: %s payload too large: %d > %d", e.Mailbox, e.Type, e.Len, e.Max)
}
