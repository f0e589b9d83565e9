package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/ui/pretty"
	"github.com/yaklabco/mdt/pkg/cache"
	"github.com/yaklabco/mdt/pkg/mdconfig"
	"github.com/yaklabco/mdt/pkg/project"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [path]",
		Short: "Print project diagnostics and cache telemetry",
		Long: `Scan path and print every parse diagnostic found, plus the cache
artifact's telemetry: scan counts, full-project-hit rate, and files
reused vs. reparsed on the most recent scan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args)
		},
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return &exitError{code: ExitError}
	}

	pctx, err := scanProject(cmd.Context(), root, nil)
	if err != nil {
		return &exitError{code: ExitError}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	out := cmd.OutOrStdout()

	for _, diag := range pctx.Index.Diagnostics {
		fmt.Fprint(out, styles.FormatTagDiagnostic(diag))
	}

	fmt.Fprintf(out, "\n%s\n", styles.SummaryTitle.Render("Project"))
	fmt.Fprintf(out, "  Providers: %d\n", len(pctx.Index.Providers))
	fmt.Fprintf(out, "  Consumers: %d\n", len(pctx.Index.Consumers))
	fmt.Fprintf(out, "  Diagnostics: %d\n", len(pctx.Index.Diagnostics))

	cfg, _ := mdconfig.Load(root)
	insp := cache.Inspect(root, project.OptionsFromConfig(cfg))
	printCacheInspection(out, styles, insp)

	return &exitError{code: ExitSuccess}
}

func printCacheInspection(out io.Writer, styles *pretty.Styles, insp cache.Inspection) {
	fmt.Fprintf(out, "\n%s\n", styles.SummaryTitle.Render("Cache"))
	fmt.Fprintf(out, "  Path:    %s\n", insp.Path)
	fmt.Fprintf(out, "  Exists:  %v\n", insp.Exists)
	if !insp.Exists {
		return
	}
	fmt.Fprintf(out, "  Valid:   %v\n", insp.Valid)
	fmt.Fprintf(out, "  Project key matches: %v\n", insp.ProjectKeyMatches)
	if insp.Telemetry == nil {
		return
	}
	t := insp.Telemetry
	fmt.Fprintf(out, "  Scans:   %d (full hits: %d)\n", t.ScanCount, t.FullProjectHitCount)
	fmt.Fprintf(out, "  Files reused/reparsed (cumulative): %d / %d\n",
		t.ReusedFileCountTotal, t.ReparsedFileCountTotal)
	if t.LastScan != nil {
		fmt.Fprintf(out, "  Last scan: %d reused, %d reparsed, %d total (full hit: %v)\n",
			t.LastScan.ReusedFiles, t.LastScan.ReparsedFiles, t.LastScan.TotalFiles, t.LastScan.FullProjectHit)
	}
}
