// Package sync implements the check/update engine: rendering each
// consumer's expected content from its provider, diffing against what's
// currently on disk, and splicing updates back in.
package sync

import (
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/render"
)

// TemplateWarning reports a provider block whose template body references a
// variable absent from the data context, discovered at static-analysis time
// rather than during a specific render.
type TemplateWarning struct {
	ProviderFile       string
	BlockName          string
	UndefinedVariables []string
}

// collectTemplateWarnings checks each provider referenced by at least one
// consumer for undefined template variables, each provider checked at most
// once even when it has multiple consumers.
func collectTemplateWarnings(idx *project.Index, data map[string]any) []TemplateWarning {
	var warnings []TemplateWarning
	checked := map[string]bool{}

	for _, consumer := range idx.Consumers {
		name := consumer.Block.Name
		if checked[name] {
			continue
		}
		checked[name] = true

		provider, ok := idx.Providers[name]
		if !ok {
			continue
		}

		undefined := render.FindUndefinedVariables(provider.Content, data)
		if len(undefined) > 0 {
			warnings = append(warnings, TemplateWarning{
				ProviderFile:       provider.File,
				BlockName:          name,
				UndefinedVariables: undefined,
			})
		}
	}

	return warnings
}
