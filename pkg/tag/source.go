package tag

import "strings"

// CodeBlockFilter controls whether HTML comments found inside fenced code
// blocks of a source file's doc comments are excluded from scanning. The
// zero value disables filtering.
type CodeBlockFilter struct {
	All   bool
	Infos []string
}

// Enabled reports whether any filtering is configured.
func (f CodeBlockFilter) Enabled() bool {
	return f.All || len(f.Infos) > 0
}

// ShouldSkip reports whether a fenced block with the given info string
// should have its HTML comments excluded.
func (f CodeBlockFilter) ShouldSkip(infoString string) bool {
	if f.All {
		return true
	}
	for _, s := range f.Infos {
		if strings.Contains(infoString, s) {
			return true
		}
	}
	return false
}

var commentPrefixes = []string{"///!", "//!", "///", "//", "##", "#", "* ", "**", "*", ";", "--"}

func stripCommentPrefix(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	for _, p := range commentPrefixes {
		if rest, ok := cutPrefix(trimmed, p); ok {
			return strings.TrimPrefix(rest, " ")
		}
	}
	return trimmed
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// ExtractRawComments scans raw text (non-markdown source files) for
// `<!-- ... -->` spans directly, without any fenced-code-block or markdown
// awareness. This is how HTML comments embedded in doc comments of
// non-markdown source are found.
func ExtractRawComments(content []byte) []Comment {
	lt := NewLineTable(content)
	var comments []Comment
	searchFrom := 0
	for searchFrom < len(content) {
		openIdx := indexFrom(content, "<!--", searchFrom)
		if openIdx < 0 {
			break
		}
		afterOpen := openIdx + len("<!--")
		if afterOpen >= len(content) {
			break
		}
		closeIdx := indexFrom(content, "-->", afterOpen)
		if closeIdx < 0 {
			break
		}
		end := closeIdx + len("-->")
		comments = append(comments, Comment{
			Text:  string(content[openIdx:end]),
			Range: lt.RangeAt(openIdx, end),
		})
		searchFrom = end
	}
	return comments
}

func indexFrom(content []byte, needle string, from int) int {
	if from >= len(content) {
		return -1
	}
	idx := strings.Index(string(content[from:]), needle)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// findFencedCodeBlockRanges locates byte ranges spanned by fenced code
// blocks embedded in comment-prefixed source lines (``` or ~~~ fences
// stripped of a leading doc-comment marker such as `///` or `#`), so that
// tags embedded in example code inside doc comments can be excluded.
func findFencedCodeBlockRanges(content []byte, filter CodeBlockFilter) []Range {
	var ranges []Range
	lines := strings.Split(string(content), "\n")

	inBlock := false
	blockStart := 0
	shouldSkip := false
	fenceChar := byte('`')
	fenceLen := 0
	offset := 0

	lt := NewLineTable(content)

	for _, line := range lines {
		lineEnd := offset + len(line)
		stripped := stripCommentPrefix(line)

		if inBlock {
			closingLen := countLeading(stripped, fenceChar)
			after := strings.TrimSpace(stripped[closingLen:])
			if closingLen >= fenceLen && after == "" {
				if shouldSkip {
					ranges = append(ranges, lt.RangeAt(blockStart, lineEnd))
				}
				inBlock = false
			}
		} else {
			backtickLen := countLeading(stripped, '`')
			tildeLen := countLeading(stripped, '~')
			var fc byte
			var fl int
			switch {
			case backtickLen >= 3:
				fc, fl = '`', backtickLen
			case tildeLen >= 3:
				fc, fl = '~', tildeLen
			default:
				offset = lineEnd + 1
				continue
			}
			infoString := strings.TrimSpace(stripped[fl:])
			fenceChar, fenceLen = fc, fl
			inBlock = true
			blockStart = offset
			shouldSkip = filter.ShouldSkip(infoString)
		}

		offset = lineEnd + 1
	}

	return ranges
}

func countLeading(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// ParseSource extracts blocks from non-markdown source file content, using
// lenient EOF handling (no UnclosedBlock diagnostics for blocks left open
// at end of file). When filter is enabled, comments inside fenced code
// blocks embedded in doc comments are excluded first.
func ParseSource(content []byte, sourceFile string, filter CodeBlockFilter) ([]Block, []Diagnostic) {
	comments := ExtractRawComments(content)
	if filter.Enabled() {
		excluded := findFencedCodeBlockRanges(content, filter)
		comments = filterComments(comments, excluded)
	}
	return BuildBlocks(comments, sourceFile, true)
}

func filterComments(comments []Comment, excluded []Range) []Comment {
	if len(excluded) == 0 {
		return comments
	}
	kept := make([]Comment, 0, len(comments))
	for _, c := range comments {
		offset := c.Range.Start.ByteOffset
		skip := false
		for _, r := range excluded {
			if offset >= r.Start.ByteOffset && offset < r.End.ByteOffset {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, c)
		}
	}
	return kept
}
