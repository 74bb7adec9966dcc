package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/rover"
	"github.com/robotalks/rover.go/pkg/sim"
)

func init() {
	rover.SetupFlags()
	sim.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := rover.NewConfig()
	m, err := conf.Map()
	if err != nil {
		glog.Exitf("load map: %v", err)
	}
	ring, err := m.Walls()
	if err != nil {
		glog.Exitf("load map: %v", err)
	}
	transport, link, err := conf.OpenLink(ring)
	if err != nil {
		glog.Exitf("open link %s: %v", conf.Link, err)
	}
	r, err := conf.NewRover(ring, transport)
	if err != nil {
		glog.Exit(err)
	}
	if link != nil {
		r.Add(link)
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(r)
	if err := runner.Wait(); err != nil {
		glog.Exitf("rover stopped: %v", err)
	}
}
