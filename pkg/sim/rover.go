package sim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"tinygo.org/x/drivers"

	"github.com/robotalks/rover.go/pkg/msgs"
	"github.com/robotalks/rover.go/pkg/nav"
)

var _ drivers.I2C = (*Rover)(nil)

var (
	// ErrNoDevice indicates a transaction to an unknown address.
	ErrNoDevice = errors.New("no device")
)

// CommandError indicates a malformed transaction.
type CommandError struct {
	W    []byte
	RLen int
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("bad command [% x] with %d bytes to read", e.W, e.RLen)
}

// Rover simulates the peripheral of a square rover: six infrared range
// sensors and a motor board executing discrete moves.
type Rover struct {
	Config Config

	walls []Segment

	lock     sync.Mutex
	pose     Pose2D
	traveled float64
	status   [3]byte
	polls    int
	moves    int
}

// sensor is an infrared sensor mounted on the rover.
type sensor struct {
	offset    Pos2D // from center, x forward, y left, in units of size
	direction float64
}

// sensors in reading order: front, frontRight, backRight, back,
// backLeft, frontLeft.
var sensors = [msgs.SensorReadingLen]sensor{
	{Pos2D{X: 0.5, Y: 0}, 0},
	{Pos2D{X: 0.25, Y: -0.5}, -90},
	{Pos2D{X: -0.25, Y: -0.5}, -90},
	{Pos2D{X: -0.5, Y: 0}, 180},
	{Pos2D{X: -0.25, Y: 0.5}, 90},
	{Pos2D{X: 0.25, Y: 0.5}, 90},
}

// NewRover creates a Rover inside the walls of ring.
func NewRover(ring *nav.Ring, conf Config) *Rover {
	r := &Rover{Config: conf, pose: conf.Start}
	for _, w := range ring.Walls() {
		r.walls = append(r.walls, Segment{
			From: Pos2D{X: float64(w.Start.X), Y: float64(w.Start.Y)},
			To:   Pos2D{X: float64(w.End.X), Y: float64(w.End.Y)},
		})
	}
	r.status = [3]byte{msgs.MarkerMotor, byte(nav.NoMove), 0}
	return r
}

// Pose returns the current pose.
func (r *Rover) Pose() Pose2D {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pose
}

// Stats returns the number of sensor polls and executed moves.
func (r *Rover) Stats() (polls, moves int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.polls, r.moves
}

// Tx implements drivers.I2C.
func (r *Rover) Tx(addr uint16, w, rx []byte) error {
	if addr != r.Config.Addr {
		return ErrNoDevice
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	switch {
	case len(w) == 2 && w[0] == msgs.MarkerSensor && w[1] == msgs.SensorPoll:
		r.polls++
		reply := make([]byte, 1+msgs.SensorReadingLen)
		reply[0] = msgs.MarkerSensor
		for n := range sensors {
			reply[n+1] = r.rangeOf(n)
		}
		copy(rx, reply)
		return nil
	case len(w) == 2 && w[0] == msgs.MarkerMotor:
		if w[1] != msgs.MotorResync {
			r.move(nav.Move(w[1]))
		}
		copy(rx, r.status[:])
		return nil
	}
	return &CommandError{W: w, RLen: len(rx)}
}

// Reading returns what the sensors see now.
func (r *Rover) Reading() msgs.SensorReading {
	r.lock.Lock()
	defer r.lock.Unlock()
	var p [msgs.SensorReadingLen]byte
	for n := range sensors {
		p[n] = r.rangeOf(n)
	}
	reading, _ := msgs.DecodeSensorReading(p[:])
	return reading
}

func (r *Rover) cast(n int) float64 {
	s := sensors[n]
	offset := Pos2D{X: s.offset.X * r.Config.Size, Y: s.offset.Y * r.Config.Size}
	from := r.pose.Pos2D.Add(r.pose.Orientation.Rotate(offset))
	heading := r.pose.Orientation.AddDegrees(s.direction)
	nearest := math.Inf(1)
	for _, wall := range r.walls {
		if dist, ok := wall.Cast(from, heading); ok && dist < nearest {
			nearest = dist
		}
	}
	return nearest
}

func (r *Rover) rangeOf(n int) byte {
	return clampDistance(r.cast(n), r.Config.MaxRange)
}

func (r *Rover) move(m nav.Move) {
	switch m {
	case nav.Forward:
		step := math.Min(r.Config.Step, r.cast(0)-r.Config.Clearance)
		if step > 0 {
			r.pose.Pos2D = r.pose.Pos2D.Add(r.pose.Orientation.Project(step))
			r.traveled += step
		}
	case nav.Right:
		r.turn(-90)
	case nav.Left:
		r.turn(90)
	case nav.Back:
		r.turn(180)
	default:
		return
	}
	r.moves++
	r.status = [3]byte{msgs.MarkerMotor, byte(m), clampDistance(r.traveled, 0xef)}
}

func (r *Rover) turn(degrees float64) {
	r.pose.Orientation = r.pose.Orientation.AddDegrees(degrees)
	r.traveled = 0
}

// clampDistance rounds into a byte below the framing markers.
func clampDistance(d float64, max byte) byte {
	if max == 0 || max >= msgs.MarkerSensor {
		max = msgs.MarkerSensor - 1
	}
	if math.IsInf(d, 1) || d >= float64(max) {
		return max
	}
	if d <= 0 {
		return 0
	}
	return byte(math.Round(d))
}
