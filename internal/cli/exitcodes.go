package cli

import "github.com/yaklabco/mdt/pkg/sync"

// Exit codes for mdt. Unlike a linter with distinct error/warning severities,
// mdt only distinguishes "ran fine, nothing to report" from "ran fine but
// found something to fix" from "could not run at all".
const (
	// ExitSuccess indicates a clean run: nothing stale, nothing failed.
	ExitSuccess = 0

	// ExitStale indicates the run completed but found stale consumers or
	// render errors to report.
	ExitStale = 1

	// ExitError indicates invalid usage, a config error, or an I/O failure
	// that prevented the run from completing.
	ExitError = 2
)

// ExitCodeFromCheck determines the exit code for `mdt check`.
func ExitCodeFromCheck(result *sync.CheckResult) int {
	if result == nil {
		return ExitSuccess
	}
	if !result.IsOK() {
		return ExitStale
	}
	return ExitSuccess
}
