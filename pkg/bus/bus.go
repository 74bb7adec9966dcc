package bus

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/metrics"
)

// Bus owns the Transport and performs queued requests one at a time.
type Bus struct {
	Transport Transport

	reqs chan Request
	done chan Response
}

// New creates a Bus.
func New(transport Transport, queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = DefaultQueueLen
	}
	return &Bus{
		Transport: transport,
		reqs:      make(chan Request, queueLen),
		done:      make(chan Response, queueLen),
	}
}

// Name implements framework.Named.
func (b *Bus) Name() string {
	return "bus"
}

// Enqueue implements Enqueuer.
// It never blocks and returns ErrBusy if the request queue is full.
func (b *Bus) Enqueue(req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	select {
	case b.reqs <- req:
		return nil
	default:
		return ErrBusy
	}
}

// Dequeue blocks until a completion is available.
func (b *Bus) Dequeue(ctx context.Context) (Response, error) {
	select {
	case resp := <-b.done:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Run implements framework.Runnable.
func (b *Bus) Run(ctx context.Context) error {
	for {
		var req Request
		select {
		case req = <-b.reqs:
		case <-ctx.Done():
			return ctx.Err()
		}
		resp := b.transact(req)
		select {
		case b.done <- resp:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bus) transact(req Request) Response {
	resp := Response{Type: req.Type}
	rx := resp.Buf[:req.RxLen]
	if err := b.Transport.Tx(req.Addr, req.Cmd, rx); err != nil {
		glog.Warningf("bus: %s tx 0x%02x failed: %v", req.Type, req.Addr, err)
		metrics.BusErrors.Inc()
		resp.Buf = [ResponseCap]byte{}
		resp.Status = StatusError
		return resp
	}
	resp.Len = uint8(req.RxLen)
	glog.V(3).Infof("bus: %s tx 0x%02x [% x] -> [% x]", req.Type, req.Addr, req.Cmd, resp.Payload())
	return resp
}
