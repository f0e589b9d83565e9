// Package main is the entry point for the mdt CLI.
package main

import (
	"os"

	"github.com/yaklabco/mdt/internal/cli"
	"github.com/yaklabco/mdt/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err != nil && !cli.IsExitError(err) {
		// A genuine cobra usage/parse error, not one of our own commands
		// signaling its exit code via *exitError.
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
