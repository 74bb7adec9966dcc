package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"net"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/bus/serial"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/nav"
	"github.com/robotalks/rover.go/pkg/sim"
)

var (
	listenAddr = ":7500"
	mapFile    string
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listen address for bridge connections.")
	flag.StringVar(&mapFile, "map", mapFile, "YAML map file, built-in map if empty.")
	sim.SetupFlags()
}

type server struct {
	ln    net.Listener
	rover *sim.Rover
}

func (s *server) Name() string {
	return "roversim"
}

func (s *server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.ln, func() error {
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				return err
			}
			glog.Infof("bridge connected from %s", conn.RemoteAddr())
			go func() {
				bridge := &serial.Bridge{ReadWriter: conn, Device: s.rover}
				err := bridge.Run(ctx)
				glog.Infof("bridge %s closed: %v", conn.RemoteAddr(), err)
			}()
		}
	})
}

func main() {
	flag.Parse()
	defer glog.Flush()

	m := nav.DefaultMap()
	if mapFile != "" {
		var err error
		if m, err = nav.LoadMap(mapFile); err != nil {
			glog.Exitf("load map: %v", err)
		}
	}
	ring, err := m.Walls()
	if err != nil {
		glog.Exitf("load map: %v", err)
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("simulated rover listening on %s", ln.Addr())

	runner := fx.NewRunner().HandleSignals()
	runner.Go(&server{ln: ln, rover: sim.NewRover(ring, *sim.NewConfig())})
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
