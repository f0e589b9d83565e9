package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/mdt/pkg/mdconfig"
)

// scannableExtensions is the closed set of file extensions a scan
// considers, beyond *.t.md template definitions which are matched by name.
var scannableExtensions = map[string]bool{
	".md": true, ".mdx": true, ".markdown": true,
	".rs": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".go": true, ".java": true, ".kt": true, ".swift": true,
	".c": true, ".cpp": true, ".h": true, ".cs": true,
}

var markdownExtensions = map[string]bool{".md": true, ".mdx": true, ".markdown": true}

// IsMarkdownFile reports whether path should be parsed with markdown-aware
// HTML comment extraction, as opposed to the lenient raw source scan.
func IsMarkdownFile(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsTemplateFile reports whether path is a *.t.md template definition
// file, the only place provider blocks are authoritative.
func IsTemplateFile(path string) bool {
	return strings.HasSuffix(path, ".t.md")
}

func isScannableFile(path string) bool {
	if scannableExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return isUnlistedSourceFile(path)
}

// isUnlistedSourceFile extends scannableExtensions with go-enry's linguist-
// derived classification, so a source language the fixed extension table
// was never updated for still gets lenient-mode tag scanning. Vendored,
// generated, and documentation files are excluded even when go-enry
// recognizes their language, since those trees are not where a project
// author places consumer tags. Only languages linguist classifies as
// programming languages qualify; data, markup and prose formats do not.
func isUnlistedSourceFile(path string) bool {
	if enry.IsVendor(path) || enry.IsGenerated(path, nil) || enry.IsDocumentation(path) {
		return false
	}
	lang, safe := enry.GetLanguageByExtension(path)
	return safe && enry.GetLanguageType(lang) == enry.Programming
}

func isIgnoredDirName(name string) bool {
	if name == ".templates" {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return name == "node_modules" || name == "target"
}

func hasProjectConfig(dir string) bool {
	_, ok := mdconfig.ResolvePath(dir)
	return ok
}

// SymlinkCycleError reports a directory revisited through a symlink loop.
type SymlinkCycleError struct {
	Path string
}

func (e *SymlinkCycleError) Error() string {
	return fmt.Sprintf("project: symlink cycle detected at %s", e.Path)
}

// CollectFiles walks root, returning a sorted list of absolute paths to
// every scannable file, honoring root's own .gitignore (unless
// disableGitignore; .gitignore files in subdirectories are not read),
// exclude patterns, hidden/vendor directory skipping, and sub-project
// boundary detection (a directory with its own mdt config file stops the
// walk from descending into it, except at root itself).
func CollectFiles(root string, excludePatterns []string, disableGitignore bool) ([]string, error) {
	gi := newIgnoreMatcher()
	if !disableGitignore {
		gi.addGitignoreFile(filepath.Join(root, ".gitignore"))
	}
	custom := newIgnoreMatcher()
	custom.addPatterns(excludePatterns)

	var files []string
	visited := map[string]bool{}
	if err := walkDir(root, root, &files, true, gi, custom, visited); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func walkDir(root, dir string, files *[]string, isRoot bool, gi, custom *ignoreMatcher, visited map[string]bool) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if visited[canonical] {
		return &SymlinkCycleError{Path: dir}
	}
	visited[canonical] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("project: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isIgnoredDirName(entry.Name()) {
			continue
		}

		isDir := entry.IsDir()
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		if gi.matched(rel, isDir) || custom.matched(rel, isDir) {
			continue
		}

		if isDir {
			if hasProjectConfig(path) {
				continue
			}
			if err := walkDir(root, path, files, false, gi, custom, visited); err != nil {
				return err
			}
			continue
		}

		if isScannableFile(path) {
			*files = append(*files, path)
		}
	}

	return nil
}

// CollectIncluded recursively walks root for files matching any of
// includeGlobs (patterns relative to root), applying exclude patterns and
// the same sub-project boundary detection as CollectFiles. existing lists
// paths already collected elsewhere, so a file already present is not
// duplicated.
func CollectIncluded(root string, includeGlobs []glob.Glob, excludePatterns []string, existing []string) ([]string, error) {
	if len(includeGlobs) == 0 {
		return nil, nil
	}

	custom := newIgnoreMatcher()
	custom.addPatterns(excludePatterns)

	have := make(map[string]bool, len(existing))
	for _, f := range existing {
		have[f] = true
	}

	var found []string
	err := collectIncludedDir(root, root, includeGlobs, custom, true, have, &found)
	return found, err
}

func collectIncludedDir(root, dir string, includeGlobs []glob.Glob, custom *ignoreMatcher, isRoot bool, have map[string]bool, found *[]string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("project: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isIgnoredDirName(entry.Name()) {
			continue
		}

		isDir := entry.IsDir()
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if custom.matched(rel, isDir) {
			continue
		}

		if !isDir && !have[path] {
			for _, g := range includeGlobs {
				if g.Match(rel) {
					have[path] = true
					*found = append(*found, path)
					break
				}
			}
		}

		if isDir {
			if hasProjectConfig(path) {
				continue
			}
			if err := collectIncludedDir(root, path, includeGlobs, custom, false, have, found); err != nil {
				return err
			}
		}
	}

	return nil
}
