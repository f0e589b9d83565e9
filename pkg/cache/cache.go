// Package cache implements the on-disk project index cache: a fingerprint
// per scanned file lets a rescan skip reparsing files that haven't changed,
// down to a full-project fast path when every fingerprint still matches.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/mdt/pkg/fsutil"
	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/tag"
)

const (
	SchemaVersion = 2
	fileName      = "index-v2.json"
)

// FileFingerprint is the tuple used to decide whether a file's cached parse
// output may be reused: its size and modification time, plus an optional
// content hash when hash verification is enabled.
type FileFingerprint struct {
	Size           int64   `json:"size"`
	ModifiedUnixMs int64   `json:"modified_unix_ms"`
	ContentHash    *uint64 `json:"content_hash,omitempty"`
}

// FileData is the per-file parse result cached across scans: the provider
// and consumer blocks found in that one file, plus any diagnostics.
type FileData struct {
	Providers   []project.ProviderEntry `json:"providers"`
	Consumers   []project.ConsumerEntry `json:"consumers"`
	Diagnostics []tag.Diagnostic        `json:"diagnostics"`
}

// LastScan records metrics for the most recent cache-assisted scan.
type LastScan struct {
	TimestampUnixMs int64 `json:"timestamp_unix_ms"`
	FullProjectHit  bool  `json:"full_project_hit"`
	ReusedFiles     int64 `json:"reused_files"`
	ReparsedFiles   int64 `json:"reparsed_files"`
	TotalFiles      int64 `json:"total_files"`
}

// Telemetry is cumulative cache effectiveness metrics persisted alongside
// the cache artifact, surfaced by `mdt info`/`mdt doctor`.
type Telemetry struct {
	ScanCount              int64     `json:"scan_count"`
	FullProjectHitCount    int64     `json:"full_project_hit_count"`
	ReusedFileCountTotal   int64     `json:"reused_file_count_total"`
	ReparsedFileCountTotal int64     `json:"reparsed_file_count_total"`
	LastScan               *LastScan `json:"last_scan,omitempty"`
}

// RecordScan updates cumulative counters after a scan completes.
func (t *Telemetry) RecordScan(fullProjectHit bool, reused, reparsed, total int, nowUnixMs int64) {
	t.ScanCount++
	if fullProjectHit {
		t.FullProjectHitCount++
	}
	t.ReusedFileCountTotal += int64(reused)
	t.ReparsedFileCountTotal += int64(reparsed)
	t.LastScan = &LastScan{
		TimestampUnixMs: nowUnixMs,
		FullProjectHit:  fullProjectHit,
		ReusedFiles:     int64(reused),
		ReparsedFiles:   int64(reparsed),
		TotalFiles:      int64(total),
	}
}

// Index is the on-disk cache artifact: a fingerprint and parsed file data
// per scanned file, keyed by the project's scan-option fingerprint so a
// config change invalidates the whole thing.
type Index struct {
	SchemaVersion int                        `json:"schema_version"`
	ProjectKey    string                     `json:"project_key"`
	Files         map[string]FileFingerprint `json:"files"`
	FileData      map[string]FileData        `json:"file_data"`
	Telemetry     Telemetry                  `json:"telemetry"`
}

// Path returns the absolute path to root's cache artifact.
func Path(root string) string {
	return filepath.Join(root, ".mdt", "cache", fileName)
}

// Load reads root's cache artifact, returning nil if it's missing, corrupt,
// schema-mismatched, or keyed for a different set of scan options — any of
// which means a full rescan is needed.
func Load(root, projectKey string) *Index {
	content, err := os.ReadFile(Path(root))
	if err != nil {
		return nil
	}
	var idx Index
	if err := json.Unmarshal(content, &idx); err != nil {
		return nil
	}
	if idx.SchemaVersion != SchemaVersion || idx.ProjectKey != projectKey {
		return nil
	}
	return &idx
}

// Save persists idx atomically, silently giving up on any error — the
// cache is a best-effort optimization, never load-bearing for correctness.
func Save(root string, idx *Index) {
	path := Path(root)
	payload, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	_ = fsutil.WriteAtomic(context.Background(), path, payload, fsutil.DefaultFileMode)
}

// BuildProjectKey derives a cache-invalidation key from a scan's options, so
// any option change (exclude patterns, template paths, max file size, …)
// forces a fresh scan rather than serving stale cached blocks.
func BuildProjectKey(opts project.ScanOptions) string {
	exclude := append([]string(nil), opts.ExcludePatterns...)
	sort.Strings(exclude)

	templates := append([]string(nil), opts.TemplatePaths...)
	sort.Strings(templates)

	excludedBlocks := append([]string(nil), opts.ExcludedBlocks...)
	sort.Strings(excludedBlocks)

	return fmt.Sprintf(
		"index-v2|max=%d|disable_gitignore=%t|markdown=%v|exclude=%s|templates=%s|excluded_blocks=%s|cache_verify_hash=%t",
		opts.MaxFileSize,
		opts.DisableGitignore,
		opts.MarkdownCodeblocks,
		strings.Join(exclude, "\x1f"),
		strings.Join(templates, "\x1f"),
		strings.Join(excludedBlocks, "\x1f"),
		opts.CacheVerifyHash,
	)
}

// Inspection is a read-only report on a project's cache artifact, used by
// `mdt info`/`mdt doctor` diagnostics.
type Inspection struct {
	Path                    string     `json:"path"`
	Exists                  bool       `json:"exists"`
	Readable                bool       `json:"readable"`
	Valid                   bool       `json:"valid"`
	SchemaVersion           *int       `json:"schema_version,omitempty"`
	SchemaSupported         bool       `json:"schema_supported"`
	ProjectKeyMatches       bool       `json:"project_key_matches"`
	HashVerificationEnabled bool       `json:"hash_verification_enabled"`
	Telemetry               *Telemetry `json:"telemetry,omitempty"`
}

// Inspect reports on root's cache artifact without mutating it.
func Inspect(root string, opts project.ScanOptions) Inspection {
	path := Path(root)
	insp := Inspection{
		Path:                    path,
		HashVerificationEnabled: opts.CacheVerifyHash,
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return insp
	}
	insp.Exists = true

	content, err := os.ReadFile(path)
	if err != nil {
		return insp
	}
	insp.Readable = true

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return insp
	}

	var schemaVersion int
	if v, ok := raw["schema_version"]; ok {
		if err := json.Unmarshal(v, &schemaVersion); err == nil {
			insp.SchemaVersion = &schemaVersion
		}
	}
	insp.SchemaSupported = insp.SchemaVersion != nil && *insp.SchemaVersion == SchemaVersion

	expectedKey := BuildProjectKey(opts)
	var projectKey string
	if v, ok := raw["project_key"]; ok {
		_ = json.Unmarshal(v, &projectKey)
	}
	insp.ProjectKeyMatches = projectKey == expectedKey

	var idx Index
	if err := json.Unmarshal(content, &idx); err != nil {
		return insp
	}
	insp.Valid = insp.SchemaSupported
	insp.Telemetry = &idx.Telemetry

	return insp
}
