// Package all imports all shell commands.
package all

import (
	_ "github.com/robotalks/rover.go/pkg/cli/cmds/explore"
)
