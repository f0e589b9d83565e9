package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/ui/pretty"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [path]",
		Short: "List providers and consumers with their link status",
		Long: `Scan path and print every provider and consumer block found, along with
whether each consumer successfully resolves to a provider.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args)
		},
	}
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return &exitError{code: ExitError}
	}

	pctx, err := scanProject(cmd.Context(), root, nil)
	if err != nil {
		return &exitError{code: ExitError}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	table := pretty.NewTableFormatter(styles, 0)
	rows := pretty.BuildRows(pctx.Index)

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), styles.Dim.Render("no provider or consumer blocks found"))
		return &exitError{code: ExitSuccess}
	}

	fmt.Fprint(cmd.OutOrStdout(), table.FormatTable(rows))
	return &exitError{code: ExitSuccess}
}
