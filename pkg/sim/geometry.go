// Package sim simulates the rover peripheral in a walled 2D map.
package sim

import "math"

// Pos2D defines the position in 2D.
type Pos2D struct {
	X, Y float64
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is in radians, normalized to (-Pi, Pi].
type Angle float64

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return Angle(normalizeRadians(d * math.Pi / 180.0))
}

// AddDegrees adds degress to current angle.
func (a Angle) AddDegrees(d float64) Angle {
	return Angle(normalizeRadians(float64(a) + d*math.Pi/180.0))
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}

// Rotate rotates a vector by the angle.
func (a Angle) Rotate(p Pos2D) Pos2D {
	c, s := math.Cos(float64(a)), math.Sin(float64(a))
	return Pos2D{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

func normalizeRadians(r float64) float64 {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// Segment is an axis-aligned wall segment.
type Segment struct {
	From, To Pos2D
}

const epsilon = 1e-9

// Cast returns the distance along a ray from p heading a to the segment.
func (s Segment) Cast(p Pos2D, a Angle) (float64, bool) {
	d := a.Project(1)
	if s.From.X == s.To.X {
		if math.Abs(d.X) < epsilon {
			return 0, false
		}
		t := (s.From.X - p.X) / d.X
		y := p.Y + t*d.Y
		return t, t >= 0 && within(y, s.From.Y, s.To.Y)
	}
	if math.Abs(d.Y) < epsilon {
		return 0, false
	}
	t := (s.From.Y - p.Y) / d.Y
	x := p.X + t*d.X
	return t, t >= 0 && within(x, s.From.X, s.To.X)
}

func within(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a-epsilon && v <= b+epsilon
}
