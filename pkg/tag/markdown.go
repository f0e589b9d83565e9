package tag

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExtractMarkdownComments walks a Markdown document's AST and returns every
// `<!-- ... -->` HTML comment found in HTML blocks or inline raw HTML,
// skipping anything goldmark placed inside a fenced or indented code block
// — those are plain text to the parser and never become HTML nodes.
func ExtractMarkdownComments(content []byte) []Comment {
	reader := text.NewReader(content)
	doc := mdParser.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	lt := NewLineTable(content)
	var comments []Comment

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.HTMLBlock:
			start, end := segmentsSpan(v.Lines())
			comments = append(comments, extractCommentsInRange(content, lt, start, end)...)
		case *ast.RawHTML:
			start, end := segmentsSpan(v.Segments)
			comments = append(comments, extractCommentsInRange(content, lt, start, end)...)
		}
		return ast.WalkContinue, nil
	})

	return comments
}

// segmentsSpan returns the absolute [start, end) byte span covered by a
// goldmark text.Segments collection, taking the first segment's start and
// the last segment's stop.
func segmentsSpan(segs *text.Segments) (int, int) {
	if segs == nil || segs.Len() == 0 {
		return 0, 0
	}
	first := segs.At(0)
	last := segs.At(segs.Len() - 1)
	return first.Start, last.Stop
}

// extractCommentsInRange scans content[start:end) for `<!-- ... -->` spans,
// reusing a whole-file LineTable for position conversion so offsets stay
// absolute.
func extractCommentsInRange(content []byte, lt *LineTable, start, end int) []Comment {
	if start < 0 {
		start = 0
	}
	if end > len(content) {
		end = len(content)
	}
	if end <= start {
		return nil
	}

	var comments []Comment
	searchFrom := start
	for searchFrom < end {
		openIdx := indexFrom(content[:end], "<!--", searchFrom)
		if openIdx < 0 {
			break
		}
		afterOpen := openIdx + len("<!--")
		if afterOpen >= end {
			break
		}
		closeIdx := indexFrom(content[:end], "-->", afterOpen)
		if closeIdx < 0 {
			break
		}
		closeEnd := closeIdx + len("-->")
		comments = append(comments, Comment{
			Text:  string(content[openIdx:closeEnd]),
			Range: lt.RangeAt(openIdx, closeEnd),
		})
		searchFrom = closeEnd
	}
	return comments
}

// ParseMarkdown extracts blocks from Markdown file content using strict EOF
// handling: a block still open at end of file is reported as UnclosedBlock.
func ParseMarkdown(content []byte, sourceFile string) ([]Block, []Diagnostic) {
	comments := ExtractMarkdownComments(content)
	return BuildBlocks(comments, sourceFile, false)
}
