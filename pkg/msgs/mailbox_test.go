package msgs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	mb := NewMailbox("test", 3, DefaultMaxLen)
	ctx := context.Background()
	for i := byte(1); i <= 3; i++ {
		env, err := NewEnvelope(TypeSensorData, []byte{i})
		require.NoError(t, err)
		require.NoError(t, mb.Send(ctx, env))
	}
	require.Equal(t, 3, mb.Len())
	for i := byte(1); i <= 3; i++ {
		env, err := mb.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, []byte{i}, env.Payload())
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	mb := NewMailbox("test", 1, DefaultMaxLen)
	tick := NewTick(TypeSensorTimer, 500*time.Millisecond)
	require.NoError(t, mb.TrySend(tick))
	require.Equal(t, ErrMailboxFull, mb.TrySend(tick))
	env, err := mb.Receive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, env.TickPeriod())
}

func TestMailboxSendTimeout(t *testing.T) {
	mb := NewMailbox("test", 1, DefaultMaxLen)
	require.NoError(t, mb.Send(context.Background(), Envelope{Type: TypeMotorData}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := mb.Send(ctx, Envelope{Type: TypeMotorData})
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestMailboxRejectsOversizedPayload(t *testing.T) {
	mb := NewMailbox("sensor", 2, DefaultMaxLen)
	env, err := NewEnvelope(TypeSensorRead, make([]byte, 8))
	require.NoError(t, err)
	err = mb.Send(context.Background(), env)
	var pe *PayloadError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 8, pe.Len)
	require.Equal(t, DefaultMaxLen, pe.Max)
	require.Equal(t, 0, mb.Len())
	require.Error(t, mb.TrySend(env))

	_, err = NewEnvelope(TypeDisplayPrint, make([]byte, PayloadCap+1))
	require.Error(t, err)
}

func TestMsgTypeString(t *testing.T) {
	require.Equal(t, "MotorStatus", TypeMotorStatus.String())
	require.Equal(t, "MsgType(99)", MsgType(99).String())
}
