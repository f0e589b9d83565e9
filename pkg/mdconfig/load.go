package mdconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/mdt/pkg/fsutil"
)

const (
	dataCacheSchemaVersion = 1
	dataCacheFileName      = "data-v1.json"
)

// LoadData resolves every `[data]` namespace in cfg into a JSON-like value,
// running script-backed sources and consulting the on-disk script cache.
// Namespaces are processed in sorted order so script execution is
// deterministic across runs.
func (cfg *Config) LoadData(ctx context.Context, root string) (map[string]any, error) {
	data := make(map[string]any, len(cfg.Data))
	cache := loadScriptCache(root)
	touched := false

	namespaces := make([]string, 0, len(cfg.Data))
	for ns := range cfg.Data {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	for _, namespace := range namespaces {
		src := cfg.Data[namespace]
		var value any
		var err error

		switch src.Kind {
		case PathSource:
			format := strings.ToLower(strings.TrimPrefix(filepath.Ext(src.Path), "."))
			value, err = loadFileSource(root, src.Path, format)
		case TypedSource:
			value, err = loadFileSource(root, src.Path, src.Format)
		case ScriptSource:
			touched = true
			value, err = loadScriptSource(ctx, root, namespace, src, &cache)
		}
		if err != nil {
			return nil, fmt.Errorf("mdconfig: data.%s: %w", namespace, err)
		}
		data[namespace] = value
	}

	if touched {
		saveScriptCache(root, &cache)
	}

	return data, nil
}

func loadFileSource(root, relPath, format string) (any, error) {
	absPath := filepath.Join(root, relPath)
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}
	return ParseDataFile(content, format, relPath)
}

type scriptCache struct {
	SchemaVersion int                          `json:"schema_version"`
	Entries       map[string]scriptCacheEntry `json:"entries"`
}

type scriptCacheEntry struct {
	Command           string                       `json:"command"`
	Format            string                       `json:"format"`
	Watch             []string                     `json:"watch"`
	WatchFingerprints map[string]watchFingerprint `json:"watch_fingerprints"`
	Value             any                          `json:"value"`
}

type watchFingerprint struct {
	Exists         bool  `json:"exists"`
	Size           int64 `json:"size"`
	ModifiedUnixMs int64 `json:"modified_unix_ms"`
}

func dataCachePath(root string) string {
	return filepath.Join(root, ".mdt", "cache", dataCacheFileName)
}

func loadScriptCache(root string) scriptCache {
	empty := scriptCache{SchemaVersion: dataCacheSchemaVersion, Entries: map[string]scriptCacheEntry{}}
	content, err := os.ReadFile(dataCachePath(root))
	if err != nil {
		return empty
	}
	var cache scriptCache
	if err := json.Unmarshal(content, &cache); err != nil {
		return empty
	}
	if cache.SchemaVersion != dataCacheSchemaVersion {
		return empty
	}
	if cache.Entries == nil {
		cache.Entries = map[string]scriptCacheEntry{}
	}
	return cache
}

func saveScriptCache(root string, cache *scriptCache) {
	path := dataCachePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	_ = fsutil.WriteAtomic(context.Background(), path, payload, fsutil.DefaultFileMode)
}

func normalizePathKey(path string) string {
	return filepath.ToSlash(path)
}

func fingerprint(path string) watchFingerprint {
	info, err := os.Stat(path)
	if err != nil {
		return watchFingerprint{Exists: false}
	}
	return watchFingerprint{Exists: true, Size: info.Size(), ModifiedUnixMs: info.ModTime().UnixMilli()}
}

func loadScriptSource(ctx context.Context, root, namespace string, src DataSource, cache *scriptCache) (any, error) {
	format := strings.ToLower(strings.TrimSpace(src.Format))
	if format == "" {
		format = "text"
	}

	watch := make([]string, 0, len(src.Watch))
	seen := make(map[string]bool, len(src.Watch))
	for _, w := range src.Watch {
		key := normalizePathKey(w)
		if !seen[key] {
			seen[key] = true
			watch = append(watch, key)
		}
	}
	sort.Strings(watch)

	fingerprints := make(map[string]watchFingerprint, len(watch))
	for _, w := range watch {
		fingerprints[w] = fingerprint(filepath.Join(root, w))
	}

	if len(watch) > 0 {
		if cached, ok := cache.Entries[namespace]; ok {
			if cached.Command == src.Command && cached.Format == format &&
				stringsEqual(cached.Watch, watch) && fingerprintsEqual(cached.WatchFingerprints, fingerprints) {
				return cached.Value, nil
			}
		}
	}

	stdout, err := runScript(ctx, root, namespace, src.Command)
	if err != nil {
		return nil, err
	}
	value, err := ParseDataFile([]byte(stdout), format, namespace)
	if err != nil {
		return nil, err
	}

	cache.Entries[namespace] = scriptCacheEntry{
		Command:           src.Command,
		Format:            format,
		Watch:             watch,
		WatchFingerprints: fingerprints,
		Value:             value,
	}

	return value, nil
}

func runScript(ctx context.Context, root, namespace, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return "", fmt.Errorf("data script %q: %s", namespace, stderr)
			}
			return "", fmt.Errorf("data script %q: exited with status %d", namespace, exitErr.ExitCode())
		}
		return "", fmt.Errorf("data script %q: %w", namespace, err)
	}
	return string(out), nil
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fingerprintsEqual(a, b map[string]watchFingerprint) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
