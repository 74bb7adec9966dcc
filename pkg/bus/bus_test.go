package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"github.com/robotalks/rover.go/pkg/msgs"
)

var _ drivers.I2C = (*scriptedI2C)(nil)

type txRecord struct {
	addr uint16
	w    []byte
}

type scriptedI2C struct {
	lock  sync.Mutex
	txs   []txRecord
	reply []byte
	err   error
}

func (s *scriptedI2C) Tx(addr uint16, w, r []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.txs = append(s.txs, txRecord{addr: addr, w: append([]byte(nil), w...)})
	if s.err != nil {
		return s.err
	}
	copy(r, s.reply)
	return nil
}

func dequeue(t *testing.T, b *Bus) Response {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	resp, err := b.Dequeue(ctx)
	require.NoError(t, err)
	return resp
}

func TestBusTransaction(t *testing.T) {
	dev := &scriptedI2C{reply: []byte{0xf0, 1, 2, 3, 4, 5, 6}}
	b := New(dev, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	require.NoError(t, b.Enqueue(NewRequest(msgs.TypeSensorRead, 0x4f, 7, 0xf0, 0xbb)))
	resp := dequeue(t, b)
	require.Equal(t, msgs.TypeSensorRead, resp.Type)
	require.True(t, resp.OK())
	require.Equal(t, []byte{0xf0, 1, 2, 3, 4, 5, 6}, resp.Payload())
	require.Equal(t, []txRecord{{addr: 0x4f, w: []byte{0xf0, 0xbb}}}, dev.txs)
}

func TestBusTransportError(t *testing.T) {
	dev := &scriptedI2C{reply: []byte{0xf1, 0, 9}, err: errors.New("nack")}
	b := New(dev, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	require.NoError(t, b.Enqueue(NewRequest(msgs.TypeMotorCommand, 0x4f, 3, 0xf1, 0)))
	resp := dequeue(t, b)
	require.Equal(t, msgs.TypeMotorCommand, resp.Type)
	require.False(t, resp.OK())
	require.Empty(t, resp.Payload())
}

func TestBusEnqueue(t *testing.T) {
	b := New(&scriptedI2C{}, 1)
	testCases := []struct {
		name string
		req  Request
		err  func(error) bool
	}{
		{
			name: "accepted",
			req:  NewRequest(msgs.TypeSensorRead, 0x4f, 7, 0xf0, 0xbb),
			err:  func(err error) bool { return err == nil },
		},
		{
			name: "busy",
			req:  NewRequest(msgs.TypeSensorRead, 0x4f, 7, 0xf0, 0xbb),
			err:  func(err error) bool { return err == ErrBusy },
		},
		{
			name: "command too long",
			req:  NewRequest(msgs.TypeMotorCommand, 0x4f, 3, 1, 2, 3),
			err: func(err error) bool {
				var re *RequestError
				return errors.As(err, &re)
			},
		},
		{
			name: "response too long",
			req:  NewRequest(msgs.TypeMotorCommand, 0x4f, ResponseCap+1, 1),
			err: func(err error) bool {
				var re *RequestError
				return errors.As(err, &re)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, tc.err(b.Enqueue(tc.req)))
		})
	}
}
