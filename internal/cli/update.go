package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdt/internal/logging"
	"github.com/yaklabco/mdt/internal/ui/pretty"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/sync"
)

// watchDebounce matches the ~200ms re-scan debounce a watch-mode loop is
// expected to apply against bursts of filesystem events.
const watchDebounce = 200 * time.Millisecond

type updateFlags struct {
	dryRun bool
	watch  bool
}

func newUpdateCommand() *cobra.Command {
	flags := &updateFlags{}

	cmd := &cobra.Command{
		Use:   "update [path]",
		Short: "Rewrite stale consumers to match their provider",
		Long: `Scan path, compute the expected content for every consumer, and write any
file whose consumers have drifted. Writes are atomic: each file is written
to a temporary path in the same directory, fsynced, then renamed over the
original.

Examples:
  mdt update                 Rewrite stale consumers under the current directory
  mdt update --dry-run       Show what would change without writing anything
  mdt update --watch         Re-run on every filesystem change, debounced`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-run on every filesystem change")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string, flags *updateFlags) error {
	root, err := resolveRoot(args)
	if err != nil {
		return &exitError{code: ExitError}
	}

	if err := runUpdateOnce(cmd, root, flags); err != nil {
		return err
	}
	if !flags.watch {
		return &exitError{code: ExitSuccess}
	}

	return watchAndUpdate(cmd, root, flags)
}

func runUpdateOnce(cmd *cobra.Command, root string, flags *updateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pctx, err := scanProject(ctx, root, nil)
	if err != nil {
		return &exitError{code: ExitError}
	}

	result, err := sync.ComputeUpdates(root, pctx)
	if err != nil {
		return &exitError{code: ExitError}
	}

	if !flags.dryRun && result.UpdatedCount > 0 {
		if err := sync.WriteUpdates(ctx, root, result); err != nil {
			return &exitError{code: ExitError}
		}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	out := cmd.OutOrStdout()

	for file := range result.UpdatedFiles {
		fmt.Fprintf(out, "  %s\n", styles.FilePath.Render(file))
	}
	fmt.Fprint(out, styles.FormatUpdateSummaryOneLine(result, flags.dryRun))

	return nil
}

// watchAndUpdate re-runs runUpdateOnce whenever a file under root changes,
// debouncing bursts of events into a single re-scan.
func watchAndUpdate(cmd *cobra.Command, root string, flags *updateFlags) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &exitError{code: ExitError}
	}
	defer watcher.Close()

	files, err := project.CollectScanFiles(root, project.DefaultScanOptions())
	if err != nil {
		return &exitError{code: ExitError}
	}
	dirs := map[string]bool{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		_ = watcher.Add(dir)
	}

	logger := logging.Default()
	logger.Info("watching for changes", logging.FieldPath, root)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return &exitError{code: ExitSuccess}
		case event, ok := <-watcher.Events:
			if !ok {
				return &exitError{code: ExitSuccess}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				if err := runUpdateOnce(cmd, root, flags); err != nil {
					logger.Error("update run failed", logging.FieldError, err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return &exitError{code: ExitSuccess}
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}
