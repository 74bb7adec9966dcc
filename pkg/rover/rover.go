// Package rover wires the firmware actors into a running rover.
package rover

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus"
	"github.com/robotalks/rover.go/pkg/conductor"
	"github.com/robotalks/rover.go/pkg/display"
	"github.com/robotalks/rover.go/pkg/display/websocket"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/metrics"
	"github.com/robotalks/rover.go/pkg/motor"
	"github.com/robotalks/rover.go/pkg/msgs"
	"github.com/robotalks/rover.go/pkg/nav"
	"github.com/robotalks/rover.go/pkg/sensor"
	"github.com/robotalks/rover.go/pkg/telemetry"
	"github.com/robotalks/rover.go/pkg/telemetry/mqtt"
	"github.com/robotalks/rover.go/pkg/timer"
)

// ConnectTimeout bounds connecting the MQTT broker.
const ConnectTimeout = 5 * time.Second

// Rover is the assembled firmware.
type Rover struct {
	RoverID string
	Ring    *nav.Ring

	Bus       *bus.Bus
	Conductor *conductor.Conductor
	Sensor    *sensor.Sensor
	Motor     *motor.Motor
	Nav       *nav.Navigator
	Display   *display.Display
	Timer     *timer.Service

	Queue     *mqtt.Queue
	Publisher *telemetry.Publisher

	extras []fx.Runnable
}

// NewRover creates the rover on top of transport.
func (c *Config) NewRover(ring *nav.Ring, transport bus.Transport) (*Rover, error) {
	if ring == nil || ring.Len() == 0 {
		return nil, fmt.Errorf("no walls")
	}
	queueLen := c.QueueLen
	if queueLen <= 0 {
		queueLen = msgs.DefaultQueueLen
	}
	sensorBox := msgs.NewMailbox("sensor", queueLen, msgs.DefaultMaxLen)
	motorBox := msgs.NewMailbox("motor", queueLen, msgs.DefaultMaxLen)
	navBox := msgs.NewMailbox("nav", queueLen, msgs.DefaultMaxLen)
	displayBox := msgs.NewMailbox("display", queueLen, msgs.PayloadCap)

	r := &Rover{RoverID: c.RoverID, Ring: ring}
	r.Bus = bus.New(transport, queueLen)
	r.Conductor = &conductor.Conductor{Bus: r.Bus, Sensor: sensorBox, Motor: motorBox}
	r.Sensor = sensor.New(sensorBox, r.Bus, navBox)
	r.Sensor.Addr = uint16(c.Addr)
	r.Motor = motor.New(motorBox, r.Bus, navBox)
	r.Motor.Addr = uint16(c.Addr)
	r.Nav = nav.New(navBox, ring, motorBox, displayBox)
	r.Nav.Options = c.Options()
	r.Display = display.New(displayBox, display.LogSink{})

	r.Timer = timer.New()
	r.Timer.Add("sensor", c.SensorPeriod, msgs.TypeSensorTimer, sensorBox)
	r.Timer.Add("motor", c.MotorPeriod, msgs.TypeMotorTimer, motorBox)
	r.Timer.Add("display", c.DisplayPeriod, msgs.TypeDisplayTimer, displayBox)

	if c.WebsocketAddr != "" {
		hub := websocket.NewHub()
		r.AddSink(hub)
		r.Add(&websocket.Server{Addr: c.WebsocketAddr, Hub: hub})
	}
	if c.MetricsAddr != "" {
		r.Add(&metrics.Server{Addr: c.MetricsAddr})
	}
	if c.MQTTBrokerURL != "" {
		if r.RoverID == "" {
			r.RoverID = telemetry.RoverID()
		}
		q, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL, "rover-"+r.RoverID, telemetry.OfflineWill(r.RoverID))
		if err != nil {
			return nil, fmt.Errorf("create MQTT queue error: %w", err)
		}
		r.Queue = q
		r.Publisher = telemetry.NewPublisher(q, r.RoverID)
		r.AddSink(r.Publisher)
	}
	return r, nil
}

// Name implements framework.Named.
func (r *Rover) Name() string {
	return "rover"
}

// AddSink adds a display sink. It must be called before Run.
func (r *Rover) AddSink(sink display.Sink) {
	r.Display.Sinks = append(r.Display.Sinks, sink)
}

// Add adds Runnables to run along with the actors, e.g. the link.
func (r *Rover) Add(runnables ...fx.Runnable) {
	r.extras = append(r.extras, runnables...)
}

// Run implements framework.Runnable.
// It returns when ctx is canceled or any actor fails.
func (r *Rover) Run(ctx context.Context) error {
	if r.Queue != nil {
		if err := r.connect(); err != nil {
			return err
		}
		defer r.disconnect()
	}
	glog.Infof("rover %s started with %d walls", r.RoverID, r.Ring.Len())
	runner := fx.NewRunnerWith(ctx).HaltOnError()
	runner.Go(r.extras...)
	runner.Go(
		r.Bus,
		r.Conductor,
		r.Sensor,
		r.Motor,
		r.Nav,
		r.Display,
		r.Timer,
	)
	err := runner.Wait()
	if err != nil {
		glog.Errorf("rover %s halted: %v", r.RoverID, err)
	}
	return err
}

func (r *Rover) connect() error {
	token := r.Queue.Connect()
	if !token.WaitTimeout(ConnectTimeout) {
		return fmt.Errorf("connect MQTT broker: timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect MQTT broker: %w", err)
	}
	status := &telemetry.Status{Online: true, Walls: uint32(r.Ring.Len())}
	if err := r.Publisher.PublishStatus(status); err != nil {
		glog.Warningf("publish status: %v", err)
	}
	return nil
}

func (r *Rover) disconnect() {
	if err := r.Publisher.PublishStatus(&telemetry.Status{}); err != nil {
		glog.Warningf("publish status: %v", err)
	}
	r.Queue.Close()
}
