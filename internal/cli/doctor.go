package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/ui/pretty"
	"github.com/yaklabco/mdt/pkg/cache"
	"github.com/yaklabco/mdt/pkg/mdconfig"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/tag"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [path]",
		Short: "Check project health and exit non-zero on problems",
		Long: `Scan path and report on its health: unresolved providers, duplicate
providers, and cache artifact integrity. Unlike "info", which only
reports, "doctor" fails the run (non-zero exit) when it finds a problem.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args)
		},
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
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

	healthy := true

	for _, diag := range pctx.Index.Diagnostics {
		fmt.Fprint(out, styles.FormatTagDiagnostic(diag))
		if isHealthIssue(diag.Kind) {
			healthy = false
		}
	}

	if missing := pctx.Index.FindMissingProviders(); len(missing) > 0 {
		healthy = false
		for _, name := range missing {
			fmt.Fprintf(out, "  %s  %s\n", styles.Error.Render("error"),
				styles.Message.Render(fmt.Sprintf("consumer references undefined provider %q", name)))
		}
	}

	cfg, _ := mdconfig.Load(root)
	insp := cache.Inspect(root, project.OptionsFromConfig(cfg))
	if insp.Exists && !insp.Valid {
		healthy = false
		fmt.Fprintf(out, "  %s  %s\n", styles.Warning.Render("warning"),
			styles.Message.Render("cache artifact exists but failed validation; it will be discarded on next scan"))
	}

	if healthy {
		fmt.Fprintln(out, styles.Success.Render("project is healthy"))
		return &exitError{code: ExitSuccess}
	}

	fmt.Fprintln(out, styles.Failure.Render("project has health issues"))
	return &exitError{code: ExitError}
}

// isHealthIssue reports whether a diagnostic kind represents an actual
// project health problem, as opposed to an advisory note like an unused
// provider.
func isHealthIssue(kind tag.DiagnosticKind) bool {
	switch kind {
	case tag.DuplicateProvider, tag.NonTemplateProvider, tag.UnclosedBlock, tag.InvalidName,
		tag.UnknownTransformer, tag.InvalidTransformerArgs, tag.InlineMissingTemplate:
		return true
	default:
		return false
	}
}
