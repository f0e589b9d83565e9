package mdconfig_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/pkg/mdconfig"
)

func TestLoad_DataPathSourceInfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data]
stats = "stats.json"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats.json"), []byte(`{"count": 3}`), 0644))

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	require.Contains(t, cfg.Data, "stats")
	assert.Equal(t, mdconfig.PathSource, cfg.Data["stats"].Kind)
	assert.Equal(t, "stats.json", cfg.Data["stats"].Path)

	data, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	m, ok := data["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), m["count"])
}

func TestLoad_DataTypedSourceUsesExplicitFormat(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data.notes]
path = "notes.txt"
format = "text"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi there"), 0644))

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	require.Contains(t, cfg.Data, "notes")
	assert.Equal(t, mdconfig.TypedSource, cfg.Data["notes"].Kind)

	data, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "hi there", data["notes"])
}

func TestLoad_DataScriptSourceRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh -c scripts require a POSIX shell")
	}
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data.version]
command = "echo -n hello"
format = "text"
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	require.Contains(t, cfg.Data, "version")
	assert.Equal(t, mdconfig.ScriptSource, cfg.Data["version"].Kind)

	data, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "hello", data["version"])
}

func TestLoad_DataScriptSourceWithoutFormatDefaultsToText(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh -c scripts require a POSIX shell")
	}
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data.version]
command = "echo -n plain"
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Data["version"].Format)

	data, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "plain", data["version"])
}

func TestLoad_DataScriptSourceCachesAcrossRunsWhenWatchUnchanged(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh -c scripts require a POSIX shell")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "counter.txt")
	require.NoError(t, os.WriteFile(marker, []byte("0"), 0644))
	watchedFile := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(watchedFile, []byte("v1"), 0644))

	writeConfig(t, dir, "mdt.toml", `[data.build]
command = "cat counter.txt; echo -n x >> counter.txt"
format = "text"
watch = ["watched.txt"]
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)

	first, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "0", first["build"])

	second, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "0", second["build"], "unchanged watch fingerprint should reuse the cached value")

	require.NoError(t, os.WriteFile(watchedFile, []byte("v2-changed"), 0644))

	third, err := cfg.LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEqual(t, "0", third["build"], "changed watch fingerprint should re-run the script")
}

func TestLoad_DataScriptSourceFailurePropagatesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh -c scripts require a POSIX shell")
	}
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data.broken]
command = "echo failure-message 1>&2; exit 1"
format = "text"
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)

	_, err = cfg.LoadData(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failure-message")
}

func TestLoad_DataUnsupportedShapeErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[data]
bogus = 42
`)

	_, err := mdconfig.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.bogus")
}

func TestLoad_ExcludeMarkdownCodeblocksBool(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", "[exclude]\nmarkdown_codeblocks = true\n")

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Exclude.MarkdownCodeblocks.All)
}

func TestLoad_ExcludeMarkdownCodeblocksSingleString(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[exclude]
markdown_codeblocks = "go"
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, cfg.Exclude.MarkdownCodeblocks.Infos)
	assert.False(t, cfg.Exclude.MarkdownCodeblocks.All)
}

func TestLoad_ExcludeMarkdownCodeblocksArray(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `[exclude]
markdown_codeblocks = ["go", "js"]
`)

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "js"}, cfg.Exclude.MarkdownCodeblocks.Infos)
}

func TestLoad_ExcludeMarkdownCodeblocksAbsentMeansNoFilter(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", "max_file_size = 10\n")

	cfg, err := mdconfig.Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Exclude.MarkdownCodeblocks.All)
	assert.Nil(t, cfg.Exclude.MarkdownCodeblocks.Infos)
}
