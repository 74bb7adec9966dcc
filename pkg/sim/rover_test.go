package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/msgs"
	"github.com/robotalks/rover.go/pkg/nav"
)

func newTestRover(t *testing.T) *Rover {
	ring, err := nav.DefaultMap().Walls()
	require.NoError(t, err)
	conf := NewConfig()
	conf.Start = Pose2D{Pos2D: Pos2D{X: 20, Y: 20}}
	return NewRover(ring, *conf)
}

func poll(t *testing.T, r *Rover) []byte {
	rx := make([]byte, 7)
	require.NoError(t, r.Tx(DefaultAddr, []byte{msgs.MarkerSensor, msgs.SensorPoll}, rx))
	return rx
}

func drive(t *testing.T, r *Rover, m nav.Move) []byte {
	rx := make([]byte, 3)
	require.NoError(t, r.Tx(DefaultAddr, []byte{msgs.MarkerMotor, byte(m)}, rx))
	return rx
}

func TestRoverSensors(t *testing.T) {
	r := newTestRover(t)
	require.Equal(t, []byte{msgs.MarkerSensor, 72, 16, 16, 16, 72, 72}, poll(t, r))
	require.Equal(t, msgs.SensorReading{
		Front: 72, FrontRight: 16, BackRight: 16,
		Back: 16, BackLeft: 72, FrontLeft: 72,
	}, r.Reading())
	polls, moves := r.Stats()
	require.Equal(t, 1, polls)
	require.Zero(t, moves)
}

func TestRoverMoves(t *testing.T) {
	r := newTestRover(t)
	require.Equal(t, []byte{msgs.MarkerMotor, 0, 6}, drive(t, r, nav.Forward))
	require.Equal(t, []byte{msgs.MarkerMotor, 0, 12}, drive(t, r, nav.Forward))
	require.InDelta(t, 32, r.Pose().X, 1e-9)
	require.InDelta(t, 20, r.Pose().Y, 1e-9)

	require.Equal(t, []byte{msgs.MarkerMotor, 1, 0}, drive(t, r, nav.Right))
	require.InDelta(t, -90, r.Pose().Orientation.Degrees(), 1e-9)
	// facing the bottom wall, 4 inches from center to the front sensor.
	require.Equal(t, byte(16), poll(t, r)[1])

	// NoMove keeps the last status.
	require.Equal(t, []byte{msgs.MarkerMotor, 1, 0}, drive(t, r, nav.NoMove))

	require.Equal(t, []byte{msgs.MarkerMotor, 3, 0}, drive(t, r, nav.Back))
	require.InDelta(t, 90, r.Pose().Orientation.Degrees(), 1e-9)
	require.Equal(t, []byte{msgs.MarkerMotor, 2, 0}, drive(t, r, nav.Left))
	require.InDelta(t, 180, r.Pose().Orientation.Degrees(), 1e-9)

	_, moves := r.Stats()
	require.Equal(t, 5, moves)
}

func TestRoverStopsAtWall(t *testing.T) {
	r := newTestRover(t)
	for i := 0; i < 20; i++ {
		drive(t, r, nav.Forward)
	}
	// front sensor stops at the clearance from x=96
	require.InDelta(t, 96-DefaultClearance-DefaultSize/2, r.Pose().X, 1e-9)
	require.Equal(t, byte(DefaultClearance), poll(t, r)[1])
	status := drive(t, r, nav.Forward)
	require.Equal(t, byte(70), status[2])
}

func TestRoverResync(t *testing.T) {
	r := newTestRover(t)
	drive(t, r, nav.Forward)
	rx := make([]byte, 3)
	require.NoError(t, r.Tx(DefaultAddr, []byte{msgs.MarkerMotor, msgs.MotorResync}, rx))
	require.Equal(t, []byte{msgs.MarkerMotor, 0, 6}, rx)
	require.InDelta(t, 26, r.Pose().X, 1e-9)
}

func TestRoverBadTransactions(t *testing.T) {
	r := newTestRover(t)
	require.Equal(t, ErrNoDevice, r.Tx(0x10, []byte{msgs.MarkerSensor, msgs.SensorPoll}, make([]byte, 7)))
	err := r.Tx(DefaultAddr, []byte{0x01}, nil)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, []byte{0x01}, cmdErr.W)
}

func TestClampDistance(t *testing.T) {
	require.Equal(t, byte(80), clampDistance(200, 80))
	require.Equal(t, byte(0xef), clampDistance(1000, 0))
	require.Equal(t, byte(0), clampDistance(-1, 80))
	require.Equal(t, byte(13), clampDistance(12.6, 80))
}
