package nav

import (
	"fmt"

	"github.com/robotalks/rover.go/pkg/msgs"
)

// Move is a discrete rover motion, encoded as the motor direction byte.
type Move uint8

// Moves.
const (
	Forward Move = 0
	Right   Move = 1
	Left    Move = 2
	Back    Move = 3
	NoMove  Move = 10
)

// String implements fmt.Stringer.
func (m Move) String() string {
	switch m {
	case Forward:
		return "forward"
	case Right:
		return "right"
	case Left:
		return "left"
	case Back:
		return "back"
	case NoMove:
		return "none"
	}
	return fmt.Sprintf("Move(%d)", uint8(m))
}

// Report is the display text for the move.
func (m Move) Report() string {
	switch m {
	case Forward:
		return "Move forward"
	case Right:
		return "Turn right"
	case Left:
		return "Turn left"
	case Back:
		return "Turn around"
	case NoMove:
		return "I can't move"
	}
	return "CONFUSION :("
}

// DefaultThreshold is the min clearance in inches to move toward a side.
const DefaultThreshold = 12

// Explore decides the next move from the six distances. With something
// in front it prefers right, then left, then turning around.
func Explore(r msgs.SensorReading, threshold uint8) Move {
	if r.Front > threshold {
		return Forward
	}
	switch {
	case r.FrontRight > threshold && r.BackRight > threshold:
		return Right
	case r.FrontLeft > threshold && r.BackLeft > threshold:
		return Left
	case r.Back > threshold:
		return Back
	}
	return NoMove
}

// FollowWall is Explore, but when the way ahead is clear it keeps the
// rover parallel to the closer side wall by turning toward the end that
// reads farther.
func FollowWall(r msgs.SensorReading, threshold uint8) Move {
	if r.Front <= threshold {
		return Explore(r, threshold)
	}
	if r.FrontRight < r.FrontLeft {
		switch {
		case r.FrontRight > r.BackRight:
			return Right
		case r.FrontRight < r.BackRight:
			return Left
		}
		return Forward
	}
	switch {
	case r.FrontLeft > r.BackLeft:
		return Left
	case r.FrontLeft < r.BackLeft:
		return Right
	}
	return Forward
}
