package serial

import (
	"bufio"
	"io"
	"time"

	"github.com/golang/glog"
)

// Seq is the frame sequence number.
type Seq byte

// NewSeq creates a random sequence number.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next calculates the next sequence number.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return Seq(n)
}

// IsValid checks if it's a valid sequence number.
func (s Seq) IsValid() bool {
	n := byte(s)
	return n > 0 && n < 0xf0
}

// Header sizes.
const (
	requestHeaderLen = 5
	replyHeaderLen   = 3

	// MaxDataLen is the max length of w, r and reply data.
	MaxDataLen = 0x7f
)

// Request is a decoded request frame.
type Request struct {
	Seq   Seq
	Addr  uint16
	W     []byte
	RxLen int
}

// Bytes encodes the request frame.
func (r *Request) Bytes() []byte {
	b := make([]byte, requestHeaderLen+len(r.W))
	b[0], b[1], b[2] = byte(r.Seq), byte(r.Addr), byte(r.Addr>>8)
	b[3], b[4] = byte(len(r.W)), byte(r.RxLen)
	copy(b[requestHeaderLen:], r.W)
	return b
}

// Reply is a decoded reply frame.
type Reply struct {
	Seq    Seq
	Status byte
	Data   []byte
}

// Bytes encodes the reply frame.
func (r *Reply) Bytes() []byte {
	b := make([]byte, replyHeaderLen+len(r.Data))
	b[0], b[1], b[2] = byte(r.Seq), r.Status, byte(len(r.Data))
	copy(b[replyHeaderLen:], r.Data)
	return b
}

// FrameReader decodes frames from a stream. Bytes before a valid
// header are dropped one at a time until the stream is aligned again.
type FrameReader struct {
	rd      *bufio.Reader
	skipped int
}

// NewFrameReader creates a FrameReader.
func NewFrameReader(rd io.Reader) *FrameReader {
	return &FrameReader{rd: bufio.NewReader(rd)}
}

// Skipped returns the number of bytes dropped while resynchronizing.
func (f *FrameReader) Skipped() int {
	return f.skipped
}

// ReadRequest reads a request frame.
func (f *FrameReader) ReadRequest() (*Request, error) {
	head, err := f.sync(requestHeaderLen, func(h []byte) bool {
		return Seq(h[0]).IsValid() && h[3] <= MaxDataLen && h[4] <= MaxDataLen
	})
	if err != nil {
		return nil, err
	}
	req := &Request{
		Seq:   Seq(head[0]),
		Addr:  uint16(head[1]) | uint16(head[2])<<8,
		W:     make([]byte, head[3]),
		RxLen: int(head[4]),
	}
	if _, err := io.ReadFull(f.rd, req.W); err != nil {
		return nil, err
	}
	return req, nil
}

// ReadReply reads a reply frame.
func (f *FrameReader) ReadReply() (*Reply, error) {
	head, err := f.sync(replyHeaderLen, func(h []byte) bool {
		return Seq(h[0]).IsValid() && h[2] <= MaxDataLen
	})
	if err != nil {
		return nil, err
	}
	reply := &Reply{Seq: Seq(head[0]), Status: head[1], Data: make([]byte, head[2])}
	if _, err := io.ReadFull(f.rd, reply.Data); err != nil {
		return nil, err
	}
	return reply, nil
}

func (f *FrameReader) sync(n int, valid func([]byte) bool) ([]byte, error) {
	dropped := 0
	for {
		head, err := f.rd.Peek(n)
		if err != nil {
			return nil, err
		}
		if valid(head) {
			if dropped > 0 {
				glog.Warningf("serial: dropped %d bytes before frame", dropped)
			}
			head = append([]byte(nil), head...)
			f.rd.Discard(n)
			return head, nil
		}
		f.rd.Discard(1)
		dropped++
		f.skipped++
	}
}
