package project

import "github.com/yaklabco/mdt/pkg/tag"

// ProviderEntry is a provider block together with its source file and the
// raw content currently sitting between its opening and closing tags.
type ProviderEntry struct {
	Block   tag.Block
	File    string
	Content string
}

// ConsumerEntry is a consumer or inline block together with its source
// file and current content.
type ConsumerEntry struct {
	Block   tag.Block
	File    string
	Content string
}

// Index is the result of scanning a project: every provider keyed by name,
// every consumer/inline block found, and diagnostics collected along the
// way.
type Index struct {
	Providers   map[string]ProviderEntry
	Consumers   []ConsumerEntry
	Diagnostics []tag.Diagnostic
}

// FindMissingProviders returns the names of consumer blocks that reference
// a provider with no matching definition anywhere in the project.
func (idx *Index) FindMissingProviders() []string {
	var missing []string
	seen := map[string]bool{}
	for _, c := range idx.Consumers {
		if c.Block.Kind != tag.ConsumerBlock {
			continue
		}
		if _, ok := idx.Providers[c.Block.Name]; !ok && !seen[c.Block.Name] {
			seen[c.Block.Name] = true
			missing = append(missing, c.Block.Name)
		}
	}
	return missing
}
