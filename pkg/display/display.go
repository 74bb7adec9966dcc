// Package display collects the text and graph reports of the rover and
// renders them to sinks at the display refresh rate.
package display

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// Default limits.
const (
	DefaultMaxLines  = 8
	DefaultMaxPoints = 64
)

// Frame is a snapshot of the display.
type Frame struct {
	Seq   uint32   `json:"seq"`
	Lines []string `json:"lines"`
	Graph []uint8  `json:"graph"`
	// Fresh is the number of trailing Lines added since the last frame.
	Fresh int `json:"fresh"`
}

// FreshLines returns lines added since the last frame.
func (f *Frame) FreshLines() []string {
	if f.Fresh > len(f.Lines) {
		return f.Lines
	}
	return f.Lines[len(f.Lines)-f.Fresh:]
}

// Sink renders frames.
type Sink interface {
	Name() string
	Render(*Frame) error
}

// Display is the display actor.
type Display struct {
	Inbox     *msgs.Mailbox
	Sinks     []Sink
	MaxLines  int
	MaxPoints int

	lines []string
	graph []uint8
	fresh int
	seq   uint32
	dirty bool
}

// New creates a Display.
func New(inbox *msgs.Mailbox, sinks ...Sink) *Display {
	return &Display{
		Inbox:     inbox,
		Sinks:     sinks,
		MaxLines:  DefaultMaxLines,
		MaxPoints: DefaultMaxPoints,
	}
}

// Name implements framework.Named.
func (d *Display) Name() string {
	return "display"
}

// Run implements framework.Runnable.
func (d *Display) Run(ctx context.Context) error {
	for {
		env, err := d.Inbox.Receive(ctx)
		if err != nil {
			return err
		}
		if err = d.Handle(env); err != nil {
			return err
		}
	}
}

// Handle processes one message.
func (d *Display) Handle(env msgs.Envelope) error {
	switch env.Type {
	case msgs.TypeDisplayPrint:
		d.lines = append(d.lines, string(env.Payload()))
		if over := len(d.lines) - d.MaxLines; over > 0 {
			d.lines = append(d.lines[:0], d.lines[over:]...)
		}
		d.fresh++
		d.dirty = true
	case msgs.TypeDisplayGraph:
		d.graph = append(d.graph, env.Payload()...)
		if over := len(d.graph) - d.MaxPoints; over > 0 {
			d.graph = append(d.graph[:0], d.graph[over:]...)
		}
		d.dirty = true
	case msgs.TypeDisplayTimer:
		if d.dirty {
			d.flush()
		}
	default:
		return fx.Fatal(int(env.Type), "display: receive", fmt.Errorf("unexpected message %s", env.Type))
	}
	return nil
}

// Frame returns the current snapshot.
func (d *Display) Frame() *Frame {
	fresh := d.fresh
	if fresh > len(d.lines) {
		fresh = len(d.lines)
	}
	return &Frame{
		Seq:   d.seq,
		Lines: append([]string(nil), d.lines...),
		Graph: append([]uint8(nil), d.graph...),
		Fresh: fresh,
	}
}

func (d *Display) flush() {
	d.seq++
	frame := d.Frame()
	d.fresh, d.dirty = 0, false
	for _, sink := range d.Sinks {
		if err := sink.Render(frame); err != nil {
			glog.Warningf("display: sink %s: %v", sink.Name(), err)
			metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
		}
	}
}

// LogSink writes fresh lines to the log.
type LogSink struct{}

// Name implements Sink.
func (LogSink) Name() string {
	return "log"
}

// Render implements Sink.
func (LogSink) Render(f *Frame) error {
	for _, line := range f.FreshLines() {
		glog.Infof("display[%d]: %s", f.Seq, line)
	}
	return nil
}
