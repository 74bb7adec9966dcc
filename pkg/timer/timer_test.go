package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/msgs"
)

func TestEntryDropsWhenFull(t *testing.T) {
	mb := msgs.NewMailbox("sensor", 1, msgs.DefaultMaxLen)
	s := New()
	entry := s.Add("sensor", DefaultSensorPeriod, msgs.TypeSensorTimer, mb)
	entry.Fire()
	done := make(chan struct{})
	go func() {
		entry.Fire()
		entry.Fire()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Fire blocked on a full mailbox")
	}
	require.Equal(t, uint64(1), entry.Fired())
	require.Equal(t, uint64(2), entry.Dropped())

	env, err := mb.Receive(context.Background())
	require.NoError(t, err)
	require.Equal(t, msgs.TypeSensorTimer, env.Type)
	require.Equal(t, DefaultSensorPeriod, env.TickPeriod())
}

func TestServiceIndependentRates(t *testing.T) {
	fast := msgs.NewMailbox("fast", 64, msgs.DefaultMaxLen)
	slow := msgs.NewMailbox("slow", 64, msgs.DefaultMaxLen)
	s := New()
	s.Add("fast", 5*time.Millisecond, msgs.TypeDisplayTimer, fast)
	s.Add("slow", 50*time.Millisecond, msgs.TypeMotorTimer, slow)
	s.Add("off", 0, msgs.TypeSensorTimer, fast)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	time.Sleep(120 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("service didn't stop")
	}
	require.Greater(t, fast.Len(), slow.Len())
	require.NotZero(t, slow.Len())
	env, err := fast.Receive(context.Background())
	require.NoError(t, err)
	require.Equal(t, msgs.TypeDisplayTimer, env.Type)
}
