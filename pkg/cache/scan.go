package cache

import (
	"time"

	"github.com/yaklabco/mdt/pkg/project"
)

// Scan is the cache-assisted counterpart of project.Scan: it reuses a
// previous scan's parsed file data for any file whose fingerprint hasn't
// changed, down to a full-project fast path that reparses nothing at all
// when every fingerprint still matches.
func Scan(root string, opts project.ScanOptions) (*project.Index, error) {
	files, err := project.CollectScanFiles(root, opts)
	if err != nil {
		return nil, err
	}

	projectKey := BuildProjectKey(opts)
	fingerprints, err := CollectFingerprints(root, files, opts.MaxFileSize, opts.CacheVerifyHash)
	if err != nil {
		return nil, err
	}

	idx := Load(root, projectKey)
	now := time.Now().UnixMilli()

	if idx != nil && fingerprintsEqual(idx.Files, fingerprints) {
		idx.Telemetry.RecordScan(true, len(files), 0, len(files), now)
		Save(root, idx)
		return rebuildIndex(root, files, idx.FileData), nil
	}

	merged := make(map[string]FileData, len(files))
	var reused, reparsed int

	for _, file := range files {
		key := project.RelativeKey(root, file)
		var cachedEntry *FileData
		if idx != nil {
			if cachedFingerprint, ok := idx.Files[key]; ok && sameFingerprint(cachedFingerprint, fingerprints[key]) {
				if entry, ok := idx.FileData[key]; ok {
					cachedEntry = &entry
				}
			}
		}

		if cachedEntry != nil {
			merged[key] = *cachedEntry
			reused++
			continue
		}

		data, err := project.ScanFile(root, file, opts)
		if err != nil {
			return nil, err
		}
		merged[key] = FileData{Providers: data.Providers, Consumers: data.Consumers, Diagnostics: data.Diagnostics}
		reparsed++
	}

	nextIdx := &Index{
		SchemaVersion: SchemaVersion,
		ProjectKey:    projectKey,
		Files:         fingerprints,
		FileData:      merged,
	}
	if idx != nil {
		nextIdx.Telemetry = idx.Telemetry
	}
	nextIdx.Telemetry.RecordScan(false, reused, reparsed, len(files), now)
	Save(root, nextIdx)

	return rebuildIndex(root, files, merged), nil
}

func rebuildIndex(root string, files []string, fileData map[string]FileData) *project.Index {
	merged := make(map[string]project.FileData, len(fileData))
	for key, entry := range fileData {
		merged[key] = project.FileData{Providers: entry.Providers, Consumers: entry.Consumers, Diagnostics: entry.Diagnostics}
	}
	idx := project.MergeFileData(root, files, merged)
	project.AnnotateUnusedProviders(idx)
	return idx
}
