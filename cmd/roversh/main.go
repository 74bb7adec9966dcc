package main

import (
	"github.com/robotalks/rover.go/pkg/cli/sh"
	"github.com/robotalks/rover.go/pkg/rover"

	_ "github.com/robotalks/rover.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	rover.SetupFlags()
}

func main() {
	sh.Main()
}
