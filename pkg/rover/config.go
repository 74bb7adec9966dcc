package rover

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus"
	"github.com/robotalks/rover.go/pkg/bus/serial"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/msgs"
	"github.com/robotalks/rover.go/pkg/nav"
	"github.com/robotalks/rover.go/pkg/sensor"
	"github.com/robotalks/rover.go/pkg/sim"
	"github.com/robotalks/rover.go/pkg/timer"
)

// Link names.
const (
	LinkSim    = "sim"
	tcpLinkPfx = "tcp://"
)

// Config defines the rover firmware.
type Config struct {
	// Link selects the bus transport: "sim", a serial device path or
	// tcp://host:port of a bridge.
	Link string
	// Baud is the rate of a serial device link.
	Baud int
	// Addr is the bus address of the peripheral.
	Addr uint
	// QueueLen is the capacity of each actor mailbox.
	QueueLen int

	SensorPeriod  time.Duration
	MotorPeriod   time.Duration
	DisplayPeriod time.Duration

	// MapFile is a YAML map replacing the built-in one.
	MapFile       string
	Threshold     uint
	DriveReactive bool
	FollowWall    bool

	// MQTTBrokerURL enables telemetry, e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	RoverID       string
	MetricsAddr   string
	WebsocketAddr string
}

var defaultConfig = Config{
	Link:          LinkSim,
	Baud:          115200,
	Addr:          uint(sensor.DefaultAddr),
	QueueLen:      msgs.DefaultQueueLen,
	SensorPeriod:  timer.DefaultSensorPeriod,
	MotorPeriod:   timer.DefaultMotorPeriod,
	DisplayPeriod: timer.DefaultDisplayPeriod,
	Threshold:     nav.DefaultThreshold,
}

func init() {
	if val := os.Getenv("ROVER_LINK"); val != "" {
		defaultConfig.Link = val
	}
	if val := os.Getenv("ROVER_MAP"); val != "" {
		defaultConfig.MapFile = val
	}
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.RoverID = val
	}
	if val := os.Getenv("ROVER_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
	if val := os.Getenv("ROVER_WEBSOCKET_ADDR"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "Bus link: sim, serial device path or tcp://host:port.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate of a serial device link.")
	flag.UintVar(&defaultConfig.Addr, "addr", defaultConfig.Addr, "Bus address of the peripheral.")
	flag.IntVar(&defaultConfig.QueueLen, "queue-len", defaultConfig.QueueLen, "Capacity of actor mailboxes.")
	flag.DurationVar(&defaultConfig.SensorPeriod, "sensor-period", defaultConfig.SensorPeriod, "Sensor polling period, 0 to disable.")
	flag.DurationVar(&defaultConfig.MotorPeriod, "motor-period", defaultConfig.MotorPeriod, "Motor watchdog period, 0 to disable.")
	flag.DurationVar(&defaultConfig.DisplayPeriod, "display-period", defaultConfig.DisplayPeriod, "Display refresh period.")
	flag.StringVar(&defaultConfig.MapFile, "map", defaultConfig.MapFile, "YAML map file, built-in map if empty.")
	flag.UintVar(&defaultConfig.Threshold, "threshold", defaultConfig.Threshold, "Clearance (inches) used by exploration.")
	flag.BoolVar(&defaultConfig.DriveReactive, "drive-reactive", defaultConfig.DriveReactive, "Send explored moves to the motor.")
	flag.BoolVar(&defaultConfig.FollowWall, "follow-wall", defaultConfig.FollowWall, "Keep parallel to the side wall when moving forward.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, telemetry disabled if empty.")
	flag.StringVar(&defaultConfig.RoverID, "id", defaultConfig.RoverID, "Rover ID, derived from machine ID if empty.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics-addr", defaultConfig.MetricsAddr, "Listen address of /metrics.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "websocket-addr", defaultConfig.WebsocketAddr, "Listen address of the display websocket.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Map loads the map.
func (c *Config) Map() (*nav.Map, error) {
	if c.MapFile == "" {
		return nav.DefaultMap(), nil
	}
	return nav.LoadMap(c.MapFile)
}

// Options returns navigation options.
func (c *Config) Options() nav.Options {
	opts := nav.DefaultOptions
	if c.Threshold > 0 && c.Threshold < 0x100 {
		opts.Threshold = uint8(c.Threshold)
	}
	opts.DriveReactive = c.DriveReactive
	opts.FollowWall = c.FollowWall
	return opts
}

// OpenLink opens the bus transport. The returned Runnable, if not nil,
// must be running while the transport is used.
func (c *Config) OpenLink(ring *nav.Ring) (bus.Transport, fx.Runnable, error) {
	switch {
	case c.Link == "" || c.Link == LinkSim:
		conf := sim.NewConfig()
		conf.Addr = uint16(c.Addr)
		return sim.NewRover(ring, *conf), nil, nil
	case strings.HasPrefix(c.Link, tcpLinkPfx):
		conn, err := net.Dial("tcp", strings.TrimPrefix(c.Link, tcpLinkPfx))
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", c.Link, err)
		}
		link := serial.NewLink(conn)
		return link, link, nil
	}
	f, err := os.OpenFile(c.Link, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if err = serial.MakeRaw(f, c.Baud); err != nil {
		glog.Warningf("%s: keep tty settings: %v", c.Link, err)
	}
	link := serial.NewLink(f)
	return link, link, nil
}
