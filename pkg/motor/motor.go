// Package motor drives the motor peripheral with a two-state machine so
// that at most one command is in flight.
package motor

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// State is the motor actor state.
type State int

// States.
const (
	WaitForCommand State = iota
	AwaitingStatus
)

func (s State) String() string {
	switch s {
	case WaitForCommand:
		return "WaitForCommand"
	case AwaitingStatus:
		return "AwaitingStatus"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Peripheral protocol.
const (
	// DefaultAddr is the bus address of the rover peripheral.
	DefaultAddr uint16 = 0x4F
	// StatusLen is the length of a status reply: marker, direction, distance.
	StatusLen = 3
)

// Motor is the motor actor.
type Motor struct {
	Inbox *msgs.Mailbox
	Bus   bus.Enqueuer
	Nav   msgs.Sender
	Addr  uint16

	state State
}

// New creates a Motor.
func New(inbox *msgs.Mailbox, b bus.Enqueuer, nav msgs.Sender) *Motor {
	return &Motor{Inbox: inbox, Bus: b, Nav: nav, Addr: DefaultAddr}
}

// Name implements framework.Named.
func (m *Motor) Name() string {
	return "motor"
}

// State returns the current state.
func (m *Motor) State() State {
	return m.state
}

// Run implements framework.Runnable.
func (m *Motor) Run(ctx context.Context) error {
	for {
		env, err := m.Inbox.Receive(ctx)
		if err != nil {
			return err
		}
		if err = m.Handle(ctx, env); err != nil {
			return err
		}
	}
}

// Handle processes one message.
func (m *Motor) Handle(ctx context.Context, env msgs.Envelope) error {
	switch env.Type {
	case msgs.TypeMotorCommand:
		if m.state == AwaitingStatus {
			glog.V(2).Infof("motor: drop command %s, awaiting status", env)
			metrics.MotorCommandsDropped.Inc()
			return nil
		}
		var direction byte
		if env.Len > 0 {
			direction = env.Buf[0]
		}
		if err := m.send(direction); err != nil {
			return err
		}
		m.state = AwaitingStatus
	case msgs.TypeMotorTimer:
		if m.state == AwaitingStatus {
			return m.sendError("timeout")
		}
	case msgs.TypeMotorStatus:
		if m.state == WaitForCommand {
			glog.V(2).Infof("motor: ignore status %s", env)
			return nil
		}
		return m.handleStatus(ctx, env.Payload())
	default:
		return fx.Fatal(int(env.Type), "motor: receive", fmt.Errorf("unexpected message %s", env.Type))
	}
	return nil
}

// handleStatus forwards the status even when it's malformed, after asking
// the peripheral to resend.
func (m *Motor) handleStatus(ctx context.Context, p []byte) error {
	var status [StatusLen]byte
	copy(status[:], p)
	if status[0] != msgs.MarkerMotor {
		if err := m.sendError("marker"); err != nil {
			return err
		}
	}
	for _, b := range status[1:] {
		if msgs.IsMarker(b) {
			if err := m.sendError("data"); err != nil {
				return err
			}
			break
		}
	}
	data := msgs.MotorData{Direction: status[1], Distance: status[2]}
	m.state = WaitForCommand
	if err := m.Nav.Send(ctx, data.Envelope()); err != nil {
		return fx.Fatal(int(msgs.TypeMotorStatus), "motor: forward status", err)
	}
	return nil
}

func (m *Motor) send(direction byte) error {
	err := m.Bus.Enqueue(bus.NewRequest(msgs.TypeMotorCommand, m.Addr, StatusLen, msgs.MarkerMotor, direction))
	if err != nil {
		if err == bus.ErrBusy {
			metrics.BusBusy.WithLabelValues("motor").Inc()
		}
		return fx.Fatal(int(msgs.TypeMotorCommand), "motor: send command", err)
	}
	return nil
}

func (m *Motor) sendError(reason string) error {
	glog.V(2).Infof("motor: error command (%s)", reason)
	metrics.MotorErrorCommands.WithLabelValues(reason).Inc()
	return m.send(msgs.MotorResync)
}
