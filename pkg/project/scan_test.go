package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/tag"
)

func TestScan_BuildsProviderConsumerIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PROVIDER.t.md"), "<!-- {@greeting} -->\nhello world\n<!-- {/greeting} -->\n")
	writeFile(t, filepath.Join(dir, "README.md"), "<!-- {=greeting} -->\nstale\n<!-- {/greeting} -->\n")

	idx, err := project.Scan(dir, project.DefaultScanOptions())
	require.NoError(t, err)

	require.Contains(t, idx.Providers, "greeting")
	assert.Equal(t, "\nhello world\n", idx.Providers["greeting"].Content)
	require.Len(t, idx.Consumers, 1)
	assert.Empty(t, idx.FindMissingProviders())
}

func TestScan_ProviderOutsideTemplateFileIsDiagnosed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "<!-- {@greeting} -->\nhello\n<!-- {/greeting} -->\n")

	idx, err := project.Scan(dir, project.DefaultScanOptions())
	require.NoError(t, err)

	assert.Empty(t, idx.Providers)
	require.Len(t, idx.Diagnostics, 1)
	assert.Equal(t, tag.NonTemplateProvider, idx.Diagnostics[0].Kind)
}

func TestScan_MissingProviderIsReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "<!-- {=ghost} -->\nstale\n<!-- {/ghost} -->\n")

	idx, err := project.Scan(dir, project.DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, idx.FindMissingProviders())
}

func TestScan_DuplicateProviderKeepsFirstAndDiagnosesSecond(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.t.md"), "<!-- {@greeting} -->\nfirst\n<!-- {/greeting} -->\n")
	writeFile(t, filepath.Join(dir, "b.t.md"), "<!-- {@greeting} -->\nsecond\n<!-- {/greeting} -->\n")

	idx, err := project.Scan(dir, project.DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, "\nfirst\n", idx.Providers["greeting"].Content)

	hasDuplicate := false
	for _, d := range idx.Diagnostics {
		if d.Kind == tag.DuplicateProvider && d.File == "b.t.md" {
			hasDuplicate = true
		}
	}
	assert.True(t, hasDuplicate)
}

func TestScan_ExcludedBlockNameIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.t.md"), "<!-- {@legacy} -->\nold\n<!-- {/legacy} -->\n")

	opts := project.DefaultScanOptions()
	opts.ExcludedBlocks = []string{"legacy"}

	idx, err := project.Scan(dir, opts)
	require.NoError(t, err)
	assert.Empty(t, idx.Providers)
}

func TestScan_FileOverMaxSizeErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.md"), "<!-- {@x} -->\ncontent\n<!-- {/x} -->\n")

	opts := project.DefaultScanOptions()
	opts.MaxFileSize = 1

	_, err := project.Scan(dir, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max_file_size")
}

func TestScanWithConfig_NoConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PROVIDER.t.md"), "<!-- {@greeting} -->\nhi\n<!-- {/greeting} -->\n")

	ctx, err := project.ScanWithConfig(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Nil(t, ctx.Padding)
	assert.Empty(t, ctx.Data)
	assert.Contains(t, ctx.Index.Providers, "greeting")
}

func TestScanWithConfig_LoadsDataFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mdt.toml"), "[data]\nstats = \"stats.json\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats.json"), []byte(`{"n": 7}`), 0644))

	fetched, err := project.ScanWithConfig(context.Background(), dir, nil)
	require.NoError(t, err)
	m, ok := fetched.Data["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), m["n"])
}

func TestScanWithConfig_UsesProvidedScannerFunction(t *testing.T) {
	dir := t.TempDir()
	called := false
	scanner := func(root string, opts project.ScanOptions) (*project.Index, error) {
		called = true
		return project.Scan(root, opts)
	}

	_, err := project.ScanWithConfig(context.Background(), dir, scanner)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCollectScanFiles_IncludesTemplatePathDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# root\n")
	writeFile(t, filepath.Join(dir, "templates/shared.t.md"), "<!-- {@x} -->\ny\n<!-- {/x} -->\n")

	opts := project.DefaultScanOptions()
	opts.TemplatePaths = []string{"templates"}

	files, err := project.CollectScanFiles(dir, opts)
	require.NoError(t, err)

	var found bool
	for _, f := range files {
		if filepath.Base(f) == "shared.t.md" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRelativeKey_NormalizesToSlashSeparated(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "sub", "doc.md")
	key := project.RelativeKey(dir, abs)
	assert.Equal(t, "sub/doc.md", key)
}
