// Package nav decides rover moves from sensor readings and matches
// traveled distances against the walls of a pre-known map.
package nav

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// State is the navigation state.
type State int

// States.
const (
	WaitForSensors State = iota
	Moving
)

func (s State) String() string {
	switch s {
	case WaitForSensors:
		return "WaitForSensors"
	case Moving:
		return "Moving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options tunes the Navigator.
type Options struct {
	// Threshold is the clearance used by exploration.
	Threshold uint8
	// DriveReactive sends the move decided by the last exploration
	// instead of a placeholder command.
	DriveReactive bool
	// FollowWall keeps the rover parallel to the closer side wall when
	// moving forward.
	FollowWall bool
}

// DefaultOptions are the defaults.
var DefaultOptions = Options{Threshold: DefaultThreshold}

// Navigator is the navigation actor.
type Navigator struct {
	Inbox   *msgs.Mailbox
	Motor   msgs.Sender
	Display msgs.Sender
	Ring    *Ring
	Options Options

	state     State
	exploring bool
	reading   msgs.SensorReading
	lastMove  uint8
	travel    uint8
	pending   Move
	current   int
}

// New creates a Navigator which starts exploring.
func New(inbox *msgs.Mailbox, ring *Ring, motor, display msgs.Sender) *Navigator {
	return &Navigator{
		Inbox:     inbox,
		Motor:     motor,
		Display:   display,
		Ring:      ring,
		Options:   DefaultOptions,
		exploring: true,
		lastMove:  uint8(NoMove),
		pending:   NoMove,
		current:   -1,
	}
}

// Name implements framework.Named.
func (n *Navigator) Name() string {
	return "nav"
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Exploring reports whether exploration is enabled.
func (n *Navigator) Exploring() bool {
	return n.exploring
}

// Pending returns the move decided by the last exploration.
func (n *Navigator) Pending() Move {
	return n.pending
}

// Last returns the last motor status received.
func (n *Navigator) Last() msgs.MotorData {
	return msgs.MotorData{Direction: n.lastMove, Distance: n.travel}
}

// Run implements framework.Runnable.
func (n *Navigator) Run(ctx context.Context) error {
	if n.Ring == nil || n.Ring.Len() == 0 {
		return fx.Fatal(0, "nav: start", fmt.Errorf("no walls"))
	}
	for {
		env, err := n.Inbox.Receive(ctx)
		if err != nil {
			return err
		}
		if err = n.Handle(ctx, env); err != nil {
			return err
		}
	}
}

// Handle processes one message.
func (n *Navigator) Handle(ctx context.Context, env msgs.Envelope) error {
	switch env.Type {
	case msgs.TypeSensorData:
		if n.state != WaitForSensors {
			return n.ignore(env)
		}
		reading, ok := msgs.DecodeSensorReading(env.Payload())
		if !ok {
			return fx.Fatal(int(env.Type), "nav: decode reading", fmt.Errorf("%d bytes", env.Len))
		}
		return n.sensed(ctx, reading)
	case msgs.TypeMotorData:
		if n.state != Moving {
			return n.ignore(env)
		}
		data, ok := msgs.DecodeMotorData(env.Payload())
		if !ok {
			return fx.Fatal(int(env.Type), "nav: decode motor data", fmt.Errorf("%d bytes", env.Len))
		}
		return n.moved(ctx, data)
	default:
		return fx.Fatal(int(env.Type), "nav: receive", fmt.Errorf("unexpected message %s", env.Type))
	}
}

func (n *Navigator) ignore(env msgs.Envelope) error {
	glog.V(2).Infof("nav: ignore %s in %s", env.Type, n.state)
	metrics.NavIgnored.WithLabelValues(env.Type.String()).Inc()
	return nil
}

func (n *Navigator) sensed(ctx context.Context, reading msgs.SensorReading) error {
	n.reading = reading
	if err := n.print(ctx, reading.String()); err != nil {
		return err
	}
	if err := n.graph(ctx, reading.Front); err != nil {
		return err
	}
	move := NoMove
	if n.Options.DriveReactive {
		move = n.pending
	}
	if err := n.Motor.Send(ctx, msgs.MotorCommand(uint8(move))); err != nil {
		return fx.Fatal(int(msgs.TypeSensorData), "nav: send motor command", err)
	}
	n.state = Moving
	return nil
}

func (n *Navigator) moved(ctx context.Context, data msgs.MotorData) error {
	n.lastMove, n.travel = data.Direction, data.Distance
	n.state = WaitForSensors
	if !n.exploring {
		return nil
	}
	wall, matched := n.Ring.GuessWall(int(n.travel))
	if matched {
		n.current = wall.Index
		metrics.WallMatches.Inc()
		glog.V(1).Infof("nav: traveled %d, on wall %d", n.travel, wall.Index)
		err := n.print(ctx, fmt.Sprintf("Wall %d", wall.Length))
		n.current = -1
		if err != nil {
			return err
		}
		if n.Options.DriveReactive {
			n.pending = n.decide()
		}
		return nil
	}
	n.pending = n.decide()
	metrics.Moves.WithLabelValues(n.pending.String()).Inc()
	return n.print(ctx, n.pending.Report())
}

func (n *Navigator) decide() Move {
	if n.Options.FollowWall {
		return FollowWall(n.reading, n.Options.Threshold)
	}
	return Explore(n.reading, n.Options.Threshold)
}

func (n *Navigator) print(ctx context.Context, text string) error {
	return n.report(ctx, msgs.TypeDisplayPrint, []byte(text))
}

func (n *Navigator) graph(ctx context.Context, value uint8) error {
	return n.report(ctx, msgs.TypeDisplayGraph, []byte{value})
}

func (n *Navigator) report(ctx context.Context, t msgs.MsgType, payload []byte) error {
	if n.Display == nil {
		return nil
	}
	env, err := msgs.NewEnvelope(t, payload)
	if err == nil {
		err = n.Display.Send(ctx, env)
	}
	if err != nil {
		return fx.Fatal(int(t), "nav: report", err)
	}
	return nil
}
