package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/logging"
)

const scaffoldTemplate = `<!-- {@example} -->
Edit this block, then reference it from any Markdown file with:

<!-- {=example} -->
<!-- {/example} -->
<!-- {/example} -->
`

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Scaffold a starter template file",
		Long: `Create .templates/template.t.md with a single example provider block if
it doesn't already exist. Never overwrites an existing file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
	return cmd
}

func runInit(args []string) error {
	logger := logging.Default()

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	dir := filepath.Join(root, ".templates")
	path := filepath.Join(dir, "template.t.md")

	if _, err := os.Stat(path); err == nil {
		logger.Info("template already exists, leaving it untouched", logging.FieldPath, path)
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(scaffoldTemplate), 0644); err != nil {
		return err
	}

	logger.Info("created starter template", logging.FieldPath, path)
	return nil
}
