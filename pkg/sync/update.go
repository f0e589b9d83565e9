package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yaklabco/mdt/pkg/fsutil"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/textedit"
)

// UpdateResult is the outcome of computing (and optionally writing) every
// consumer update across a project.
type UpdateResult struct {
	UpdatedFiles map[string]string
	UpdatedCount int
	Warnings     []TemplateWarning
	RenderErrors []RenderError
}

// ComputeUpdates renders every consumer's expected content and splices the
// changed ones into their file's in-memory content, without touching disk.
// root is used to resolve each consumer's relative file path for reading
// its current on-disk content.
func ComputeUpdates(root string, ctx *project.Context) (*UpdateResult, error) {
	result := &UpdateResult{
		UpdatedFiles: map[string]string{},
		Warnings:     collectTemplateWarnings(ctx.Index, ctx.Data),
	}

	byFile := map[string][]project.ConsumerEntry{}
	var order []string
	for _, consumer := range ctx.Index.Consumers {
		if _, seen := byFile[consumer.File]; !seen {
			order = append(order, consumer.File)
		}
		byFile[consumer.File] = append(byFile[consumer.File], consumer)
	}
	sort.Strings(order)

	for _, file := range order {
		consumers := byFile[file]
		absPath := filepath.Join(root, file)
		original, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("sync: reading %s: %w", file, err)
		}

		builder := textedit.NewEditBuilder()
		updatedHere := 0

		for _, consumer := range consumers {
			expected, err := expectedContent(ctx, consumer)
			if err != nil {
				result.RenderErrors = append(result.RenderErrors, renderErrorFor(consumer, err))
				continue
			}
			if expected == nil {
				continue
			}
			if consumer.Content == *expected {
				continue
			}

			start := int(consumer.Block.Open.End.ByteOffset)
			end := int(consumer.Block.Close.Start.ByteOffset)
			if start > end || end > len(original) {
				continue
			}
			builder.ReplaceRange(start, end, *expected)
			updatedHere++
		}

		if updatedHere == 0 {
			continue
		}

		edits, err := textedit.PrepareEdits(builder.Edits, len(original))
		if err != nil {
			return nil, fmt.Errorf("sync: %s: %w", file, err)
		}

		updated := textedit.ApplyEdits(original, edits)
		result.UpdatedFiles[file] = string(updated)
		result.UpdatedCount += updatedHere
	}

	return result, nil
}

// WriteUpdates persists every updated file atomically.
func WriteUpdates(ctx context.Context, root string, result *UpdateResult) error {
	for file, content := range result.UpdatedFiles {
		absPath := filepath.Join(root, file)
		if err := fsutil.WriteAtomic(ctx, absPath, []byte(content), 0); err != nil {
			return fmt.Errorf("sync: writing %s: %w", file, err)
		}
	}
	return nil
}
