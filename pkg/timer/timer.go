// Package timer delivers periodic ticks to actor mailboxes.
package timer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// Default periods.
const (
	DefaultSensorPeriod  = 500 * time.Millisecond
	DefaultMotorPeriod   = 1000 * time.Millisecond
	DefaultDisplayPeriod = 100 * time.Millisecond
)

// Target accepts ticks without blocking.
type Target interface {
	TrySend(msgs.Envelope) error
}

// Entry is a periodic tick for one consumer.
type Entry struct {
	Name   string
	Period time.Duration
	Type   msgs.MsgType
	Target Target

	fired   uint64
	dropped uint64
}

// Fired returns the number of ticks delivered.
func (e *Entry) Fired() uint64 {
	return atomic.LoadUint64(&e.fired)
}

// Dropped returns the number of ticks dropped on a full mailbox.
func (e *Entry) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Fire sends one tick. It never blocks.
func (e *Entry) Fire() {
	err := e.Target.TrySend(msgs.NewTick(e.Type, e.Period))
	if err == nil {
		atomic.AddUint64(&e.fired, 1)
		return
	}
	atomic.AddUint64(&e.dropped, 1)
	metrics.TicksDropped.WithLabelValues(e.Name).Inc()
	glog.V(3).Infof("timer[%s]: tick dropped: %v", e.Name, err)
}

// Run implements framework.Runnable.
func (e *Entry) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Fire()
		}
	}
}

// Service runs a set of Entries at independent rates.
type Service struct {
	Entries []*Entry
}

// New creates an empty Service.
func New() *Service {
	return &Service{}
}

// Add registers a periodic tick of type t to target.
func (s *Service) Add(name string, period time.Duration, t msgs.MsgType, target Target) *Entry {
	entry := &Entry{Name: name, Period: period, Type: t, Target: target}
	s.Entries = append(s.Entries, entry)
	return entry
}

// Name implements framework.Named.
func (s *Service) Name() string {
	return "timer"
}

// Run implements framework.Runnable.
func (s *Service) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx)
	for _, entry := range s.Entries {
		if entry.Period <= 0 {
			glog.Warningf("timer[%s]: disabled", entry.Name)
			continue
		}
		runner.Go(fx.NamedRun("timer-"+entry.Name, entry))
	}
	if len(runner.Runners) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := runner.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
