// Package bus serializes transactions with the rover peripheral and
// delivers their completions.
package bus

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/robotalks/rover.go/pkg/msgs"
)

// Transport performs one write-then-read transaction with a peripheral.
// machine.I2C on TinyGo targets satisfies it directly.
type Transport = drivers.I2C

// Size limits.
const (
	// CommandCap is the max command length of a Request.
	CommandCap = 2
	// ResponseCap is the max response length of a Request.
	ResponseCap = 8
	// DefaultQueueLen is the default capacity of the request and
	// completion queues.
	DefaultQueueLen = 10
)

// Response status.
const (
	StatusOK    uint8 = 0
	StatusError uint8 = 1
)

var (
	// ErrBusy indicates the request queue is full.
	ErrBusy = errors.New("bus busy")
)

// RequestError indicates a Request exceeding the bus limits.
type RequestError struct {
	CmdLen int
	RxLen  int
}

// Error implements error.
func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid bus request: cmd %d/%d, rx %d/%d",
		e.CmdLen, CommandCap, e.RxLen, ResponseCap)
}

// Request is a queued bus transaction.
type Request struct {
	// Type tags the request and is copied to its Response.
	Type  msgs.MsgType
	Addr  uint16
	Cmd   []byte
	RxLen int
}

// NewRequest creates a Request.
func NewRequest(t msgs.MsgType, addr uint16, rxLen int, cmd ...byte) Request {
	return Request{Type: t, Addr: addr, Cmd: cmd, RxLen: rxLen}
}

func (r *Request) validate() error {
	if len(r.Cmd) > CommandCap || r.RxLen < 0 || r.RxLen > ResponseCap {
		return &RequestError{CmdLen: len(r.Cmd), RxLen: r.RxLen}
	}
	return nil
}

// Response is the completion of a Request.
type Response struct {
	Type   msgs.MsgType
	Len    uint8
	Status uint8
	Buf    [ResponseCap]byte
}

// Payload returns received bytes.
func (r *Response) Payload() []byte {
	return r.Buf[:r.Len]
}

// OK reports whether the transaction succeeded.
func (r *Response) OK() bool {
	return r.Status == StatusOK
}

// Enqueuer accepts bus requests without blocking.
type Enqueuer interface {
	Enqueue(Request) error
}
