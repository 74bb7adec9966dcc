package conductor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/bus"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/msgs"
)

type chanCompletions chan bus.Response

func (c chanCompletions) Dequeue(ctx context.Context) (bus.Response, error) {
	select {
	case resp := <-c:
		return resp, nil
	case <-ctx.Done():
		return bus.Response{}, ctx.Err()
	}
}

func response(t msgs.MsgType, data ...byte) bus.Response {
	resp := bus.Response{Type: t, Len: uint8(len(data))}
	copy(resp.Buf[:], data)
	return resp
}

func TestConductorRouting(t *testing.T) {
	sensor := msgs.NewMailbox("sensor", 2, msgs.DefaultMaxLen)
	motor := msgs.NewMailbox("motor", 2, msgs.DefaultMaxLen)
	c := &Conductor{Sensor: sensor, Motor: motor}
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, response(msgs.TypeSensorRead, 0xf0, 1, 2, 3, 4, 5, 6)))
	require.NoError(t, c.Dispatch(ctx, response(msgs.TypeMotorCommand, 0xf1, 0, 12)))

	env, err := sensor.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, msgs.TypeSensorRead, env.Type)
	require.Equal(t, []byte{0xf0, 1, 2, 3, 4, 5, 6}, env.Payload())

	env, err = motor.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, msgs.TypeMotorStatus, env.Type)
	require.Equal(t, []byte{0xf1, 0, 12}, env.Payload())
	require.Equal(t, 0, sensor.Len()+motor.Len())
}

func TestConductorUnknownTypeIsFatal(t *testing.T) {
	completions := make(chanCompletions, 1)
	sensor := msgs.NewMailbox("sensor", 1, msgs.DefaultMaxLen)
	motor := msgs.NewMailbox("motor", 1, msgs.DefaultMaxLen)
	c := &Conductor{Bus: completions, Sensor: sensor, Motor: motor}
	completions <- response(msgs.TypeDisplayPrint, 'x')

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()
	select {
	case err := <-errCh:
		var fe *fx.FatalError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, int(msgs.TypeDisplayPrint), fe.Code)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("conductor didn't halt")
	}
	require.Equal(t, 0, sensor.Len()+motor.Len())
}

func TestConductorForwardTimeout(t *testing.T) {
	sensor := msgs.NewMailbox("sensor", 1, msgs.DefaultMaxLen)
	c := &Conductor{Sensor: sensor, Motor: msgs.NewMailbox("motor", 1, msgs.DefaultMaxLen)}
	require.NoError(t, c.Dispatch(context.Background(), response(msgs.TypeSensorRead, 0xf0)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Dispatch(ctx, response(msgs.TypeSensorRead, 0xf0))
	require.True(t, fx.IsFatal(err))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}
