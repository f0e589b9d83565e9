package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/ui/pretty"
	"github.com/yaklabco/mdt/pkg/cache"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/sync"
)

type checkFlags struct {
	diff         bool
	format       string
	ignoreBlocks []string
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Report consumers whose content has drifted from their provider",
		Long: `Scan path for provider and consumer blocks, render each consumer's
expected content, and report every consumer whose current content no
longer matches.

Examples:
  mdt check                  Check the current directory
  mdt check docs/            Check a specific directory
  mdt check --diff           Show a unified diff for each stale consumer
  mdt check --format json    Emit a machine-readable report`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show a unified diff for each stale consumer")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, github")
	cmd.Flags().StringSliceVar(&flags.ignoreBlocks, "ignore", nil, "block names to ignore")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	ctx, err := scanProject(cmd.Context(), root, flags.ignoreBlocks)
	if err != nil {
		return err
	}

	result := sync.Check(ctx)

	switch flags.format {
	case "json":
		if err := writeCheckJSON(cmd, result); err != nil {
			return err
		}
	case "github":
		writeCheckGithub(cmd, result)
	default:
		writeCheckText(cmd, flags, result)
	}

	return &exitError{code: ExitCodeFromCheck(result)}
}

// scanProject wires pkg/project.ScanWithConfig to the cache-assisted
// scanner, additionally excluding any --ignore block names.
func scanProject(ctx context.Context, root string, ignoreBlocks []string) (*project.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pctx, err := project.ScanWithConfig(ctx, root, cache.Scan)
	if err != nil {
		return nil, err
	}
	if len(ignoreBlocks) == 0 {
		return pctx, nil
	}

	ignore := make(map[string]bool, len(ignoreBlocks))
	for _, name := range ignoreBlocks {
		ignore[name] = true
	}

	filtered := make([]project.ConsumerEntry, 0, len(pctx.Index.Consumers))
	for _, c := range pctx.Index.Consumers {
		if !ignore[c.Block.Name] {
			filtered = append(filtered, c)
		}
	}
	pctx.Index.Consumers = filtered
	return pctx, nil
}

func writeCheckText(cmd *cobra.Command, flags *checkFlags, result *sync.CheckResult) {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	out := cmd.OutOrStdout()

	for _, entry := range result.Stale {
		fmt.Fprint(out, styles.FormatStaleEntry(entry, flags.diff))
	}
	for _, re := range result.RenderErrors {
		fmt.Fprint(out, styles.FormatRenderError(re))
	}
	for _, w := range result.Warnings {
		fmt.Fprint(out, styles.FormatWarning(w))
	}

	fmt.Fprint(out, styles.FormatCheckSummaryOneLine(result))
}

func writeCheckGithub(cmd *cobra.Command, result *sync.CheckResult) {
	out := cmd.OutOrStdout()
	for _, entry := range result.Stale {
		fmt.Fprintf(out, "::warning file=%s,line=%d,col=%d::consumer %q is stale\n",
			entry.File, entry.Line, entry.Column, entry.BlockName)
	}
	for _, re := range result.RenderErrors {
		fmt.Fprintf(out, "::error file=%s,line=%d,col=%d::%s\n",
			re.File, re.Line, re.Column, re.Message)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "::warning file=%s::provider %q references undefined variables: %v\n",
			w.ProviderFile, w.BlockName, w.UndefinedVariables)
	}
}

type checkJSONEntry struct {
	File    string `json:"file"`
	Block   string `json:"block"`
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
	Message string `json:"message,omitempty"`
}

type checkJSONReport struct {
	Stale        []checkJSONEntry `json:"stale"`
	RenderErrors []checkJSONEntry `json:"renderErrors"`
	Warnings     []checkJSONEntry `json:"warnings"`
	OK           bool             `json:"ok"`
}

func writeCheckJSON(cmd *cobra.Command, result *sync.CheckResult) error {
	report := checkJSONReport{OK: result.IsOK()}

	for _, entry := range result.Stale {
		report.Stale = append(report.Stale, checkJSONEntry{
			File: entry.File, Block: entry.BlockName, Line: entry.Line, Column: entry.Column,
		})
	}
	for _, re := range result.RenderErrors {
		report.RenderErrors = append(report.RenderErrors, checkJSONEntry{
			File: re.File, Block: re.BlockName, Line: re.Line, Column: re.Column, Message: re.Message,
		})
	}
	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, checkJSONEntry{
			File: w.ProviderFile, Block: w.BlockName,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// exitError carries a deliberate exit code back to main without Cobra
// printing anything extra — SilenceErrors means Execute's returned error
// never reaches the default error-printing path, so main checks for this
// type directly.
type exitError struct{ code int }

func (e *exitError) Error() string { return "" }

// ExitCode extracts the code from err if it's an *exitError, defaulting to
// ExitError for any other non-nil error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return ExitError
}

// IsExitError reports whether err is an *exitError, i.e. a command already
// reported its own outcome and is only using err to carry an exit code.
func IsExitError(err error) bool {
	_, ok := err.(*exitError)
	return ok
}
