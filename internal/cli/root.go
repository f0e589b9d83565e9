package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdt",
		Short: "Keep duplicated documentation in sync",
		Long: `mdt keeps content duplicated across files in lockstep using HTML-comment
tags: a provider block is the source of truth, consumer blocks render it
(optionally through a template and a chain of transformers) and are kept in
sync by "mdt update", while "mdt check" reports which consumers have drifted.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level := os.Getenv("MDT_LOG_LEVEL"); level != "" {
				logging.SetLevel(level)
			}
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newDoctorCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// colorMode reads the persistent --color flag from cmd or its parents,
// defaulting to "auto" if it can't be found.
func colorMode(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("color"); f != nil {
		return f.Value.String()
	}
	return "auto"
}

// resolveRoot returns the project root to operate on: the first positional
// argument if given, otherwise the current working directory.
func resolveRoot(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}
