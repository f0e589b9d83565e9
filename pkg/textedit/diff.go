package textedit

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between a consumer's current and expected content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines removed.
	Deletions int

	text string
}

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := difflib.SplitLines(string(original))
	modLines := difflib.SplitLines(string(modified))

	if linesEqual(origLines, modLines) {
		return nil
	}

	path = strings.TrimPrefix(path, "/")
	unified := difflib.UnifiedDiff{
		A:        origLines,
		B:        modLines,
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(unified)
	if err != nil || text == "" {
		return nil
	}

	additions, deletions := countChanges(text)

	return &Diff{
		Path:      path,
		Original:  original,
		Modified:  modified,
		Additions: additions,
		Deletions: deletions,
		text:      text,
	}
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("diff --git a/%s b/%s", d.Path, d.Path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.text
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || d.text == "" {
		return ""
	}
	return d.GitHeader() + "\n" + d.text
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && d.text != ""
}

func countChanges(unifiedText string) (additions, deletions int) {
	for _, line := range strings.Split(unifiedText, "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}

func linesEqual(a, b []string) bool {
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
