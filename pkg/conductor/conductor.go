// Package conductor routes bus completions to the actors that issued them.
package conductor

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/msgs"
)

// Completions is the source of bus completions.
type Completions interface {
	Dequeue(context.Context) (bus.Response, error)
}

// Conductor forwards sensor reads to the sensor actor and motor
// command completions, as motor status, to the motor actor.
type Conductor struct {
	Bus    Completions
	Sensor msgs.Sender
	Motor  msgs.Sender
}

// Name implements framework.Named.
func (c *Conductor) Name() string {
	return "conductor"
}

// Run implements framework.Runnable.
func (c *Conductor) Run(ctx context.Context) error {
	for {
		resp, err := c.Bus.Dequeue(ctx)
		if err != nil {
			return err
		}
		if err = c.Dispatch(ctx, resp); err != nil {
			return err
		}
	}
}

// Dispatch routes one completion.
func (c *Conductor) Dispatch(ctx context.Context, resp bus.Response) error {
	var (
		target msgs.Sender
		t      msgs.MsgType
	)
	switch resp.Type {
	case msgs.TypeSensorRead:
		target, t = c.Sensor, msgs.TypeSensorRead
	case msgs.TypeMotorCommand:
		target, t = c.Motor, msgs.TypeMotorStatus
	default:
		return fx.Fatal(int(resp.Type), "conductor: dispatch",
			fmt.Errorf("unexpected completion %s", resp.Type))
	}
	env, err := msgs.NewEnvelope(t, resp.Payload())
	if err == nil {
		glog.V(3).Infof("conductor: %s -> %s", resp.Type, env)
		err = target.Send(ctx, env)
	}
	if err != nil {
		return fx.Fatal(int(resp.Type), "conductor: forward", err)
	}
	return nil
}
