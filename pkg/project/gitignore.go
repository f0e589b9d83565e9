package project

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreRule is one compiled line of a .gitignore-style pattern list.
// Patterns follow the common subset of gitignore syntax: `!` negation, a
// trailing `/` to match directories only, and glob wildcards compiled with
// gobwas/glob.
type ignoreRule struct {
	negate    bool
	dirOnly   bool
	anchored  bool
	g         glob.Glob
}

// ignoreMatcher tests relative paths against an ordered set of rules; later
// rules override earlier ones, matching git's own precedence.
type ignoreMatcher struct {
	rules []ignoreRule
}

func newIgnoreMatcher() *ignoreMatcher {
	return &ignoreMatcher{}
}

// addPatterns compiles and appends a list of gitignore-syntax pattern
// lines (as found in mdt.toml's [exclude].patterns, or read verbatim from
// a .gitignore file).
func (m *ignoreMatcher) addPatterns(patterns []string) {
	for _, line := range patterns {
		m.addLine(line)
	}
}

func (m *ignoreMatcher) addLine(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	rule := ignoreRule{}
	if strings.HasPrefix(line, "!") {
		rule.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		rule.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return
	}
	if strings.Contains(line, "/") {
		// A slash inside the pattern anchors it to the matcher's root, as in git.
		rule.anchored = true
	}

	g, err := glob.Compile(line, '/')
	if err != nil {
		return
	}
	rule.g = g
	m.rules = append(m.rules, rule)
}

// addGitignoreFile reads a .gitignore file at path, ignoring errors if it
// does not exist.
func (m *ignoreMatcher) addGitignoreFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m.addLine(scanner.Text())
	}
}

// matched reports whether relPath (slash-separated, relative to the
// matcher's root) is ignored. isDir indicates whether the path is a
// directory, for dirOnly rule matching.
func (m *ignoreMatcher) matched(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	ignored := false
	for _, rule := range m.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		target := relPath
		if !rule.anchored {
			// Unanchored single-segment patterns match at any depth, so
			// they are tested against the last path segment alone.
			target = path.Base(relPath)
		}
		if rule.g.Match(target) {
			ignored = !rule.negate
		}
	}
	return ignored
}
