package sim

import (
	"flag"
)

// Config defines the simulated rover.
type Config struct {
	// Addr is the bus address of the peripheral.
	Addr uint16
	// Start is the initial pose.
	Start Pose2D
	// Size is the edge length of the square rover, in inches.
	Size float64
	// Step is the distance of one forward move.
	Step float64
	// Clearance is the min distance kept from the wall ahead.
	Clearance float64
	// MaxRange is the farthest distance a sensor reports.
	MaxRange byte
}

// Defaults
const (
	DefaultAddr      uint16  = 0x4F
	DefaultSize      float64 = 8
	DefaultStep      float64 = 6
	DefaultClearance float64 = 2
	DefaultMaxRange  byte    = 80
)

var (
	defaultConfig = Config{
		Addr:      DefaultAddr,
		Start:     Pose2D{Pos2D: Pos2D{X: 20, Y: 20}},
		Size:      DefaultSize,
		Step:      DefaultStep,
		Clearance: DefaultClearance,
		MaxRange:  DefaultMaxRange,
	}

	startHeading float64
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Start.X, "sim-x", defaultConfig.Start.X, "Simulated rover start X (inches).")
	flag.Float64Var(&defaultConfig.Start.Y, "sim-y", defaultConfig.Start.Y, "Simulated rover start Y (inches).")
	flag.Float64Var(&startHeading, "sim-heading", startHeading, "Simulated rover start heading (degrees, 0 is +X).")
	flag.Float64Var(&defaultConfig.Size, "sim-size", defaultConfig.Size, "Size (inches) of the rover, it's square.")
	flag.Float64Var(&defaultConfig.Step, "sim-step", defaultConfig.Step, "Distance (inches) of one forward move.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Start.Orientation = AngleFromDegrees(startHeading)
	return &conf
}
