// Package explore provides shell commands for the wall map and exploration.
package explore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover.go/pkg/cli/sh"
	"github.com/robotalks/rover.go/pkg/msgs"
	"github.com/robotalks/rover.go/pkg/nav"
	"github.com/robotalks/rover.go/pkg/telemetry"
)

// DefaultMonitorDuration is how long monitor watches without an argument.
const DefaultMonitorDuration = 10 * time.Second

var (
	// WallsCmd lists walls of the map.
	WallsCmd = ishell.Cmd{
		Name:    "walls",
		Aliases: []string{"w"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ring := sh.ShellFrom(c).Ring
			walls := ring.Walls()
			lines := make([]string, 0, len(walls))
			for _, w := range walls {
				lines = append(lines, FormatWall(w))
			}
			sh.Output(c, walls, strings.Join(lines, "\n"))
		},
	}

	// GuessCmd guesses the wall from the distance traveled.
	GuessCmd = ishell.Cmd{
		Name:    "guess",
		Aliases: []string{"g"},
		Help:    "DIST(inches)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("DIST required"))
				return
			}
			dist, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("Invalid DIST: %v", err))
				return
			}
			wall, ok := sh.ShellFrom(c).Ring.GuessWall(dist)
			if !ok {
				sh.Output(c, nil, "No unique match")
				return
			}
			sh.Output(c, wall, FormatWall(wall))
		},
	}

	// ExploreCmd decides the move for a sensor reading.
	ExploreCmd = ishell.Cmd{
		Name:    "explore",
		Aliases: []string{"x"},
		Help:    "F FR BR B BL FL",
		Func: func(c *ishell.Context) {
			reading, err := ParseReading(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			opts := sh.ShellFrom(c).Config.Options()
			move := nav.Explore(reading, opts.Threshold)
			if opts.FollowWall {
				move = nav.FollowWall(reading, opts.Threshold)
			}
			sh.Output(c, map[string]interface{}{
				"move":   move.String(),
				"report": move.Report(),
			}, fmt.Sprintf("%s: %s", move, move.Report()))
		},
	}

	// MonitorCmd prints display lines published by rovers.
	MonitorCmd = ishell.Cmd{
		Name:    "monitor",
		Aliases: []string{"m"},
		Help:    "[SECONDS]",
		Func: sh.MustHaveBroker(func(c *ishell.Context) {
			duration := DefaultMonitorDuration
			if len(c.Args) > 0 {
				secs, err := strconv.Atoi(c.Args[0])
				if err != nil || secs <= 0 {
					c.Err(fmt.Errorf("Invalid SECONDS: %s", c.Args[0]))
					return
				}
				duration = time.Duration(secs) * time.Second
			}
			q, err := sh.ShellFrom(c).Queue()
			if err != nil {
				c.Err(err)
				return
			}
			mon := &telemetry.Monitor{Queue: q}
			sub, err := mon.Watch(telemetry.TopicDisplay, func(roverID, topic string, msg telemetry.Message, err error) {
				if err != nil {
					c.Printf("%s: bad message: %v\n", topic, err)
					return
				}
				frame, ok := msg.(*telemetry.DisplayFrame)
				if !ok {
					return
				}
				for _, line := range FreshLines(frame) {
					c.Printf("[%s] %s\n", roverID, line)
				}
			})
			if err != nil {
				c.Err(err)
				return
			}
			defer sub.Close()
			time.Sleep(duration)
		}),
	}
)

// FormatWall prints a wall for display.
func FormatWall(w nav.Wall) string {
	return fmt.Sprintf("Wall %d: (%d,%d)-(%d,%d) length %d",
		w.Index, w.Start.X, w.Start.Y, w.End.X, w.End.Y, w.Length)
}

// ParseReading parses six distances in sensor order.
func ParseReading(args []string) (msgs.SensorReading, error) {
	var r msgs.SensorReading
	if len(args) != msgs.SensorReadingLen {
		return r, fmt.Errorf("%d distances required", msgs.SensorReadingLen)
	}
	var p [msgs.SensorReadingLen]byte
	for n, arg := range args {
		val, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return r, fmt.Errorf("Invalid distance %q: %v", arg, err)
		}
		p[n] = byte(val)
	}
	r, _ = msgs.DecodeSensorReading(p[:])
	return r, nil
}

// FreshLines returns the lines added since the previous frame.
func FreshLines(f *telemetry.DisplayFrame) []string {
	fresh := int(f.Fresh)
	if fresh > len(f.Lines) {
		fresh = len(f.Lines)
	}
	return f.Lines[len(f.Lines)-fresh:]
}

func init() {
	sh.AddCmds(
		&WallsCmd,
		&GuessCmd,
		&ExploreCmd,
		&MonitorCmd,
	)
}
