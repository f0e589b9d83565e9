package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/pkg/cache"
	"github.com/yaklabco/mdt/pkg/project"
)

func TestBuildProjectKey_StableAcrossPatternOrder(t *testing.T) {
	opts1 := project.ScanOptions{ExcludePatterns: []string{"b", "a"}, MaxFileSize: 10}
	opts2 := project.ScanOptions{ExcludePatterns: []string{"a", "b"}, MaxFileSize: 10}

	assert.Equal(t, cache.BuildProjectKey(opts1), cache.BuildProjectKey(opts2))
}

func TestBuildProjectKey_ChangesWithMaxFileSize(t *testing.T) {
	opts1 := project.ScanOptions{MaxFileSize: 10}
	opts2 := project.ScanOptions{MaxFileSize: 20}

	assert.NotEqual(t, cache.BuildProjectKey(opts1), cache.BuildProjectKey(opts2))
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	opts := project.ScanOptions{MaxFileSize: 10}
	key := cache.BuildProjectKey(opts)

	idx := &cache.Index{
		SchemaVersion: cache.SchemaVersion,
		ProjectKey:    key,
		Files:         map[string]cache.FileFingerprint{"a.md": {Size: 5}},
		FileData:      map[string]cache.FileData{},
	}
	cache.Save(dir, idx)

	loaded := cache.Load(dir, key)
	require.NotNil(t, loaded)
	assert.Equal(t, key, loaded.ProjectKey)
	assert.Equal(t, int64(5), loaded.Files["a.md"].Size)
}

func TestLoad_NilForMissingFile(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, cache.Load(dir, "anykey"))
}

func TestLoad_NilForMismatchedProjectKey(t *testing.T) {
	dir := t.TempDir()
	idx := &cache.Index{SchemaVersion: cache.SchemaVersion, ProjectKey: "old-key"}
	cache.Save(dir, idx)

	assert.Nil(t, cache.Load(dir, "new-key"))
}

func TestInspect_NonexistentCache(t *testing.T) {
	dir := t.TempDir()
	insp := cache.Inspect(dir, project.ScanOptions{})
	assert.False(t, insp.Exists)
	assert.False(t, insp.Valid)
}

func TestInspect_ValidCache(t *testing.T) {
	dir := t.TempDir()
	opts := project.ScanOptions{MaxFileSize: 10}
	key := cache.BuildProjectKey(opts)

	idx := &cache.Index{SchemaVersion: cache.SchemaVersion, ProjectKey: key}
	cache.Save(dir, idx)

	insp := cache.Inspect(dir, opts)
	assert.True(t, insp.Exists)
	assert.True(t, insp.Readable)
	assert.True(t, insp.SchemaSupported)
	assert.True(t, insp.ProjectKeyMatches)
	assert.True(t, insp.Valid)
}

func TestTelemetry_RecordScan(t *testing.T) {
	var tel cache.Telemetry
	tel.RecordScan(true, 8, 2, 10, 1000)

	assert.Equal(t, int64(1), tel.ScanCount)
	assert.Equal(t, int64(1), tel.FullProjectHitCount)
	assert.Equal(t, int64(8), tel.ReusedFileCountTotal)
	assert.Equal(t, int64(2), tel.ReparsedFileCountTotal)
	require.NotNil(t, tel.LastScan)
	assert.True(t, tel.LastScan.FullProjectHit)
	assert.Equal(t, int64(10), tel.LastScan.TotalFiles)
}
