package sync

import (
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/render"
	"github.com/yaklabco/mdt/pkg/tag"
)

// RenderError is a template render failure tied to a specific consumer
// block, collected rather than raised so a single bad block doesn't abort
// the rest of a check or update run.
type RenderError struct {
	File      string
	BlockName string
	Message   string
	Line      uint32
	Column    uint32
}

// StaleEntry is a consumer whose current body no longer matches what its
// provider (or inline template) would produce.
type StaleEntry struct {
	File            string
	BlockName       string
	CurrentContent  string
	ExpectedContent string
	Line            uint32
	Column          uint32
}

// CheckResult is the outcome of comparing every consumer's current content
// against its expected content.
type CheckResult struct {
	Stale        []StaleEntry
	RenderErrors []RenderError
	Warnings     []TemplateWarning
}

// IsOK reports whether every consumer matched and no renders failed.
func (r *CheckResult) IsOK() bool {
	return len(r.Stale) == 0 && len(r.RenderErrors) == 0
}

// HasErrors reports whether any consumer failed to render.
func (r *CheckResult) HasErrors() bool {
	return len(r.RenderErrors) > 0
}

// HasWarnings reports whether any provider referenced an undefined
// template variable.
func (r *CheckResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Check compares every consumer's current content against what it should
// contain, given ctx's providers, data context, and padding configuration.
// Consumers referencing a missing provider are silently skipped — that is
// reported separately via project.Index.FindMissingProviders.
func Check(ctx *project.Context) *CheckResult {
	result := &CheckResult{
		Warnings: collectTemplateWarnings(ctx.Index, ctx.Data),
	}

	for _, consumer := range ctx.Index.Consumers {
		expected, err := expectedContent(ctx, consumer)
		if err != nil {
			result.RenderErrors = append(result.RenderErrors, renderErrorFor(consumer, err))
			continue
		}
		if expected == nil {
			continue // missing provider
		}

		if consumer.Content != *expected {
			result.Stale = append(result.Stale, StaleEntry{
				File:            consumer.File,
				BlockName:       consumer.Block.Name,
				CurrentContent:  consumer.Content,
				ExpectedContent: *expected,
				Line:            consumer.Block.Open.Start.Line,
				Column:          consumer.Block.Open.Start.Column,
			})
		}
	}

	return result
}

// expectedContent computes what a consumer's body should be: render
// (provider lookup for ConsumerBlock, first-argument template for
// InlineBlock), apply the transformer chain, then pad. A ConsumerBlock's
// arguments are bound to its provider's parameter names for the render; a
// differing argument count is a render error. Returns nil with no error
// when a ConsumerBlock references a provider that doesn't exist.
func expectedContent(ctx *project.Context, consumer project.ConsumerEntry) (*string, error) {
	var templateSource string
	data := ctx.Data

	switch consumer.Block.Kind {
	case tag.InlineBlock:
		if len(consumer.Block.Arguments) == 0 {
			return nil, nil
		}
		templateSource = consumer.Block.Arguments[0]
	default:
		provider, ok := ctx.Index.Providers[consumer.Block.Name]
		if !ok {
			return nil, nil
		}
		params := provider.Block.Arguments
		if len(consumer.Block.Arguments) != len(params) {
			return nil, &render.RenderError{Message: "block `" + consumer.Block.Name + "` passes a different number of arguments than its provider declares"}
		}
		if len(params) > 0 {
			data = make(map[string]any, len(ctx.Data)+len(params))
			for k, v := range ctx.Data {
				data[k] = v
			}
			for i, p := range params {
				data[p] = consumer.Block.Arguments[i]
			}
		}
		templateSource = provider.Content
	}

	var warnings []string
	rendered, err := render.Render(templateSource, data, &warnings)
	if err != nil {
		return nil, err
	}

	expected := render.ApplyTransformers(rendered, consumer.Block.Transformers, ctx.Data)
	if ctx.Padding != nil {
		expected = render.PadContent(expected, consumer.Content, ctx.Padding)
	}
	return &expected, nil
}

func renderErrorFor(consumer project.ConsumerEntry, err error) RenderError {
	return RenderError{
		File:      consumer.File,
		BlockName: consumer.Block.Name,
		Message:   err.Error(),
		Line:      consumer.Block.Open.Start.Line,
		Column:    consumer.Block.Open.Start.Column,
	}
}
