// Package tag implements the comment-tag grammar: lexing, parsing, and the
// Block/Diagnostic data model shared by the scanner and render engine.
package tag

import "sort"

// Position is a UTF-8 byte offset plus 1-based line and column.
type Position struct {
	ByteOffset uint64
	Line       uint32
	Column     uint32
}

// Range is a half-open span [Start, End) of Positions.
type Range struct {
	Start Position
	End   Position
}

// Len returns the byte length of the range.
func (r Range) Len() uint64 {
	if r.End.ByteOffset < r.Start.ByteOffset {
		return 0
	}
	return r.End.ByteOffset - r.Start.ByteOffset
}

// LineTable maps byte offsets to 1-based line/column pairs using a
// pre-computed table of line-start offsets, built once per file in O(n) and
// queried in O(log n) via binary search.
type LineTable struct {
	lineStarts []int
	length     int
}

// NewLineTable builds a LineTable for content, normalizing CRLF to LF first
// is the caller's responsibility; this table only tracks '\n' boundaries.
func NewLineTable(content []byte) *LineTable {
	lineStarts := make([]int, 1, 64)
	lineStarts[0] = 0
	for i, b := range content {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &LineTable{lineStarts: lineStarts, length: len(content)}
}

// Position converts a byte offset into a 1-based line/column Position.
func (lt *LineTable) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	idx := sort.Search(len(lt.lineStarts), func(i int) bool {
		return lt.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return Position{
		ByteOffset: uint64(offset),
		Line:       uint32(idx + 1),
		Column:     uint32(offset-lt.lineStarts[idx]) + 1,
	}
}

// RangeAt builds a Range from two byte offsets using the table.
func (lt *LineTable) RangeAt(start, end int) Range {
	return Range{Start: lt.Position(start), End: lt.Position(end)}
}
