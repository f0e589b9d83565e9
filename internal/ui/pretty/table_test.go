package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/internal/ui/pretty"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/tag"
)

func TestBuildRows_ProviderLinkedWhenConsumed(t *testing.T) {
	idx := &project.Index{
		Providers: map[string]project.ProviderEntry{
			"greeting": {File: "PROVIDER.t.md"},
		},
		Consumers: []project.ConsumerEntry{
			{Block: tag.Block{Name: "greeting", Kind: tag.ConsumerBlock}, File: "README.md"},
		},
	}

	rows := pretty.BuildRows(idx)
	require.Len(t, rows, 2)

	var providerRow, consumerRow pretty.TableRow
	for _, r := range rows {
		if r.Kind == "provider" {
			providerRow = r
		} else {
			consumerRow = r
		}
	}
	assert.Equal(t, "linked", providerRow.Status)
	assert.True(t, providerRow.Linked)
	assert.Equal(t, "linked", consumerRow.Status)
}

func TestBuildRows_UnusedProviderAndMissingConsumer(t *testing.T) {
	idx := &project.Index{
		Providers: map[string]project.ProviderEntry{
			"orphan": {File: "PROVIDER.t.md"},
		},
		Consumers: []project.ConsumerEntry{
			{Block: tag.Block{Name: "ghost", Kind: tag.ConsumerBlock}, File: "README.md"},
		},
	}

	rows := pretty.BuildRows(idx)
	require.Len(t, rows, 2)

	var providerRow, consumerRow pretty.TableRow
	for _, r := range rows {
		if r.Kind == "provider" {
			providerRow = r
		} else {
			consumerRow = r
		}
	}
	assert.Equal(t, "unused", providerRow.Status)
	assert.False(t, providerRow.Linked)
	assert.Equal(t, "missing", consumerRow.Status)
	assert.False(t, consumerRow.Linked)
}

func TestBuildRows_InlineBlocksAreAlwaysLinked(t *testing.T) {
	idx := &project.Index{
		Providers: map[string]project.ProviderEntry{},
		Consumers: []project.ConsumerEntry{
			{Block: tag.Block{Name: "snippet", Kind: tag.InlineBlock}, File: "README.md"},
		},
	}

	rows := pretty.BuildRows(idx)
	require.Len(t, rows, 1)
	assert.Equal(t, "inline", rows[0].Status)
	assert.True(t, rows[0].Linked)
}

func TestFormatTable_EmptyRowsProducesEmptyString(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 100)
	assert.Equal(t, "", formatter.FormatTable(nil))
}

func TestFormatTable_NonEmptyRowsIncludesHeader(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 100)
	rows := []pretty.TableRow{{Name: "greeting", Kind: "provider", File: "PROVIDER.t.md", Status: "linked", Linked: true}}

	out := formatter.FormatTable(rows)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "greeting")
	assert.Contains(t, out, "linked")
}
