// Package sensor polls the infrared ranging peripheral and forwards valid
// readings to navigation.
package sensor

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// Peripheral protocol.
const (
	// DefaultAddr is the bus address of the rover peripheral.
	DefaultAddr uint16 = 0x4F
	// ReplyLen is the length of a poll reply: marker plus six distances.
	ReplyLen = 1 + msgs.SensorReadingLen
)

// Discard reasons.
const (
	ReasonShort  = "short"
	ReasonMarker = "marker"
	ReasonData   = "data"
)

// Sensor is the sensor actor.
type Sensor struct {
	Inbox *msgs.Mailbox
	Bus   bus.Enqueuer
	Nav   msgs.Sender
	Addr  uint16
}

// New creates a Sensor.
func New(inbox *msgs.Mailbox, b bus.Enqueuer, nav msgs.Sender) *Sensor {
	return &Sensor{Inbox: inbox, Bus: b, Nav: nav, Addr: DefaultAddr}
}

// Name implements framework.Named.
func (s *Sensor) Name() string {
	return "sensor"
}

// Run implements framework.Runnable.
func (s *Sensor) Run(ctx context.Context) error {
	for {
		env, err := s.Inbox.Receive(ctx)
		if err != nil {
			return err
		}
		if err = s.Handle(ctx, env); err != nil {
			return err
		}
	}
}

// Handle processes one message.
func (s *Sensor) Handle(ctx context.Context, env msgs.Envelope) error {
	switch env.Type {
	case msgs.TypeSensorTimer:
		return s.poll()
	case msgs.TypeSensorRead:
		reading, reason := Validate(env.Payload())
		if reason != "" {
			glog.V(2).Infof("sensor: discard %s reply [% x]", reason, env.Payload())
			metrics.SensorFramesDiscarded.WithLabelValues(reason).Inc()
			return nil
		}
		if err := s.Nav.Send(ctx, reading.Envelope()); err != nil {
			return fx.Fatal(int(env.Type), "sensor: forward reading", err)
		}
		return nil
	default:
		return fx.Fatal(int(env.Type), "sensor: receive", fmt.Errorf("unexpected message %s", env.Type))
	}
}

func (s *Sensor) poll() error {
	err := s.Bus.Enqueue(bus.NewRequest(msgs.TypeSensorRead, s.Addr, ReplyLen, msgs.MarkerSensor, msgs.SensorPoll))
	switch err {
	case nil:
		return nil
	case bus.ErrBusy:
		glog.Warning("sensor: bus busy, skip poll")
		metrics.BusBusy.WithLabelValues("sensor").Inc()
		return nil
	default:
		return fx.Fatal(int(msgs.TypeSensorRead), "sensor: poll", err)
	}
}

// Validate checks a poll reply and extracts the reading.
// A non-empty reason means the reply must be discarded.
func Validate(p []byte) (msgs.SensorReading, string) {
	if len(p) < ReplyLen {
		return msgs.SensorReading{}, ReasonShort
	}
	if p[0] != msgs.MarkerSensor {
		return msgs.SensorReading{}, ReasonMarker
	}
	for _, b := range p[1:ReplyLen] {
		if msgs.IsMarker(b) {
			return msgs.SensorReading{}, ReasonData
		}
	}
	reading, _ := msgs.DecodeSensorReading(p[1:])
	return reading, ""
}
