package msgs

import (
	"context"

	"github.com/golang/glog"
)

// Sender accepts envelopes on behalf of an actor.
type Sender interface {
	Send(context.Context, Envelope) error
}

// Mailbox is the bounded FIFO inbox of an actor.
type Mailbox struct {
	name   string
	maxLen int
	ch     chan Envelope
}

// NewMailbox creates a Mailbox holding up to queueLen envelopes with
// payloads no longer than maxLen.
func NewMailbox(name string, queueLen, maxLen int) *Mailbox {
	if queueLen <= 0 {
		queueLen = DefaultQueueLen
	}
	if maxLen <= 0 || maxLen > PayloadCap {
		maxLen = PayloadCap
	}
	return &Mailbox{name: name, maxLen: maxLen, ch: make(chan Envelope, queueLen)}
}

// Name implements framework.Named.
func (m *Mailbox) Name() string {
	return m.name
}

// MaxLen returns the max accepted payload length.
func (m *Mailbox) MaxLen() int {
	return m.maxLen
}

// Len returns the number of queued envelopes.
func (m *Mailbox) Len() int {
	return len(m.ch)
}

// Cap returns the queue capacity.
func (m *Mailbox) Cap() int {
	return cap(m.ch)
}

func (m *Mailbox) check(env *Envelope) error {
	if int(env.Len) > m.maxLen {
		return &PayloadError{Mailbox: m.name, Type: env.Type, Len: int(env.Len), Max: m.maxLen}
	}
	return nil
}

// Send blocks until env is queued or ctx is done.
func (m *Mailbox) Send(ctx context.Context, env Envelope) error {
	if err := m.check(&env); err != nil {
		return err
	}
	select {
	case m.ch <- env:
		glog.V(4).Infof("%s <- %s", m.name, env)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues env only if there's room right now.
func (m *Mailbox) TrySend(env Envelope) error {
	if err := m.check(&env); err != nil {
		return err
	}
	select {
	case m.ch <- env:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Receive blocks until an envelope arrives or ctx is done.
func (m *Mailbox) Receive(ctx context.Context) (Envelope, error) {
	select {
	case env := <-m.ch:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

// Chan exposes the receiving end of the queue.
func (m *Mailbox) Chan() <-chan Envelope {
	return m.ch
}
