package framework

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerHaltsOnFatal(t *testing.T) {
	fatal := Fatal(42, "test", nil)
	r := NewRunner().HaltOnError()
	r.Go(
		NamedRun("blocker1", RunFunc(blockUntilDone)),
		NamedRun("blocker2", RunFunc(blockUntilDone)),
		NamedRun("failing", RunFunc(func(context.Context) error { return fatal })),
	)
	errCh := make(chan error, 1)
	go func() { errCh <- r.Wait() }()
	select {
	case err := <-errCh:
		require.Error(t, err)
		var agg *AggregatedError
		require.True(t, errors.As(err, &agg))
		require.Len(t, agg.Errors, 1)
		require.Equal(t, fatal, agg.Fatal())
		require.True(t, IsFatal(err))
	case <-time.After(500 * time.Millisecond):
		t.Fatal("runner didn't halt")
	}
}

func TestRunnerIgnoresCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).HaltOnError()
	r.Go(RunFunc(blockUntilDone), RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return Fatal(1, "forward", ctx.Err())
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestFatalError(t *testing.T) {
	inner := errors.New("queue full")
	err := Fatal(7, "motor: send command", inner)
	require.Equal(t, "fatal 7: motor: send command: queue full", err.Error())
	require.True(t, errors.Is(err, inner))
	require.Equal(t, "fatal 3: unknown", Fatal(3, "unknown", nil).Error())
	require.False(t, IsFatal(inner))
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("a"))
	require.Equal(t, "a", errs.Aggregate().Error())
	errs.Add(errors.New("b"))
	require.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())
	require.Nil(t, errs.Fatal())
	require.False(t, IsFatal(errs.Aggregate()))

	fatal := Fatal(9, "nav: report", errors.New("full"))
	errs.Add(fmt.Errorf("display: %w", fatal))
	err := errs.Aggregate()
	require.True(t, IsFatal(err))
	require.Equal(t, fatal, errs.Fatal())
	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, 9, fe.Code)
	require.False(t, IsCanceled(err))
}
