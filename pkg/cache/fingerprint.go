package cache

import (
	"fmt"
	"hash/fnv"
	"os"

	"github.com/yaklabco/mdt/pkg/project"
)

// CollectFingerprints stats every file and returns its fingerprint keyed by
// its path relative to root. verifyHash additionally hashes file contents
// so a cache hit requires byte-for-byte agreement, not just size+mtime.
func CollectFingerprints(root string, files []string, maxFileSize uint64, verifyHash bool) (map[string]FileFingerprint, error) {
	fingerprints := make(map[string]FileFingerprint, len(files))

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("cache: stat %s: %w", file, err)
		}
		if uint64(info.Size()) > maxFileSize {
			return nil, fmt.Errorf("cache: %s is %d bytes, exceeds max_file_size %d", file, info.Size(), maxFileSize)
		}

		var contentHash *uint64
		if verifyHash {
			h, err := hashFileContents(file)
			if err != nil {
				return nil, err
			}
			contentHash = &h
		}

		fingerprints[project.RelativeKey(root, file)] = FileFingerprint{
			Size:           info.Size(),
			ModifiedUnixMs: info.ModTime().UnixMilli(),
			ContentHash:    contentHash,
		}
	}

	return fingerprints, nil
}

func hashFileContents(path string) (uint64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("cache: reading %s: %w", path, err)
	}
	h := fnv.New64a()
	_, _ = h.Write(content)
	return h.Sum64(), nil
}

// sameFingerprint compares two fingerprints by value, since FileFingerprint
// carries a *uint64 whose pointer identity differs across JSON round-trips
// even when the pointed-to hash is equal.
func sameFingerprint(a, b FileFingerprint) bool {
	if a.Size != b.Size || a.ModifiedUnixMs != b.ModifiedUnixMs {
		return false
	}
	if (a.ContentHash == nil) != (b.ContentHash == nil) {
		return false
	}
	return a.ContentHash == nil || *a.ContentHash == *b.ContentHash
}

// fingerprintsEqual compares two fingerprint maps for exact equality,
// including key sets.
func fingerprintsEqual(a, b map[string]FileFingerprint) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		other, ok := b[k]
		if !ok {
			return false
		}
		if !sameFingerprint(v, other) {
			return false
		}
	}
	return true
}
