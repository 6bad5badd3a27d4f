// Package cli is the thin entry layer shared by both binaries.
package cli

import (
	"github.com/snapwatch/snapwatch-daemon/internal/cli/cmd"
)

// Execute runs the root command.
func Execute() {
	cmd.Execute()
}

// SetVersionInfo forwards build-time version metadata to the command tree.
func SetVersionInfo(version, buildTime, commit string) {
	cmd.SetVersionInfo(version, buildTime, commit)
}
