package serial

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"tinygo.org/x/drivers"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

var _ drivers.I2C = (*Link)(nil)

// Link implements bus.Transport over a byte stream.
// Run must be running to receive replies.
type Link struct {
	ReadWriter io.ReadWriter
	Timeout    time.Duration

	seq     Seq
	lock    sync.Mutex
	replies chan *Reply
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{
		ReadWriter: rw,
		Timeout:    100 * time.Millisecond,
		seq:        NewSeq(),
		replies:    make(chan *Reply, 1),
	}
}

// Name implements framework.Named.
func (l *Link) Name() string {
	return "serial-link"
}

// Tx implements drivers.I2C.
func (l *Link) Tx(addr uint16, w, r []byte) error {
	if len(w) > MaxDataLen || len(r) > MaxDataLen {
		return ErrTooLong
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	req := &Request{Seq: l.seq, Addr: addr, W: w, RxLen: len(r)}
	l.seq = l.seq.Next()
	if _, err := l.ReadWriter.Write(req.Bytes()); err != nil {
		return err
	}
	timer := time.NewTimer(l.Timeout)
	defer timer.Stop()
	for {
		select {
		case reply := <-l.replies:
			if reply.Seq != req.Seq {
				glog.V(2).Infof("serial: skip stale reply %d, expect %d", reply.Seq, req.Seq)
				continue
			}
			if reply.Status != 0 {
				return &TxError{Addr: addr, Status: reply.Status}
			}
			if len(reply.Data) < len(r) {
				return ErrShortReply
			}
			copy(r, reply.Data)
			return nil
		case <-timer.C:
			return ErrTimeout
		}
	}
}

// Run implements framework.Runnable.
func (l *Link) Run(ctx context.Context) error {
	return fx.RunWithContextCancel(ctx, l.closeStream, func() error {
		frames := NewFrameReader(l.ReadWriter)
		for {
			reply, err := frames.ReadReply()
			if err != nil {
				return err
			}
			select {
			case l.replies <- reply:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

func (l *Link) closeStream() {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		closer.Close()
	}
}

// Bridge serves request frames from a stream using a local device.
// It's the peer of Link.
type Bridge struct {
	ReadWriter io.ReadWriter
	Device     drivers.I2C
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "serial-bridge"
}

// Run implements framework.Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	return fx.RunWithContextCancel(ctx, func() {
		if closer, ok := b.ReadWriter.(io.Closer); ok {
			closer.Close()
		}
	}, func() error {
		frames := NewFrameReader(b.ReadWriter)
		for {
			req, err := frames.ReadRequest()
			if err != nil {
				return err
			}
			if _, err := b.ReadWriter.Write(b.serve(req).Bytes()); err != nil {
				return err
			}
		}
	})
}

func (b *Bridge) serve(req *Request) *Reply {
	reply := &Reply{Seq: req.Seq, Data: make([]byte, req.RxLen)}
	if err := b.Device.Tx(req.Addr, req.W, reply.Data); err != nil {
		glog.Warningf("serial: tx 0x%02x failed: %v", req.Addr, err)
		reply.Status, reply.Data = 1, nil
	}
	return reply
}
