package msgs

import (
	"encoding/binary"
	"fmt"
	"time"
)

// PayloadCap is the fixed capacity of an Envelope payload buffer.
const PayloadCap = 32

// Envelope is a message passed between actors by value.
type Envelope struct {
	Type MsgType
	Len  uint8
	Buf  [PayloadCap]byte
}

// NewEnvelope creates an Envelope with a copy of payload.
func NewEnvelope(t MsgType, payload []byte) (Envelope, error) {
	env := Envelope{Type: t}
	if len(payload) > PayloadCap {
		return env, &PayloadError{Type: t, Len: len(payload), Max: PayloadCap}
	}
	env.Len = uint8(copy(env.Buf[:], payload))
	return env, nil
}

// Payload returns the valid part of the buffer.
func (e *Envelope) Payload() []byte {
	return e.Buf[:e.Len]
}

// String implements fmt.Stringer.
func (e Envelope) String() string {
	return fmt.Sprintf("%s[% x]", e.Type, e.Buf[:e.Len])
}

// NewTick creates a timer tick carrying the period in milliseconds.
func NewTick(t MsgType, period time.Duration) Envelope {
	env := Envelope{Type: t, Len: 4}
	binary.LittleEndian.PutUint32(env.Buf[:4], uint32(period/time.Millisecond))
	return env
}

// TickPeriod decodes the period carried by a timer tick.
func (e *Envelope) TickPeriod() time.Duration {
	if e.Len < 4 {
		return 0
	}
	return time.Duration(binary.LittleEndian.Uint32(e.Buf[:4])) * time.Millisecond
}
