// Package linecol converts between byte offsets and 1-based line and column
// positions. Lines are separated by '\n'; a preceding '\r' counts as the last
// column of its line. Columns count bytes.
package linecol

import (
	"sort"
	"strings"
)

// OffsetOf returns the offset of the 1-based line and column in text, or -1
// when text has fewer lines. Columns are not checked against the line length.
func OffsetOf(text string, line, column int) int {
	if line < 1 {
		return -1
	}
	if line == 1 {
		return column - 1
	}

	count := 1
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		count++
		if count == line {
			return i + column
		}
	}
	return -1
}

// LineColumnOf returns the 1-based line and column of offset. Offsets are
// clamped to [0, len(text)].
func LineColumnOf(text string, offset int) (line, column int) {
	offset = clamp(offset, len(text))
	line, column = 1, 1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			column = 0
		}
		column++
	}
	return line, column
}

func clamp(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}

// Index answers the same queries as OffsetOf and LineColumnOf from a table
// of line starts built once per text.
type Index struct {
	size       int
	lineStarts []int
}

func NewIndex(text string) *Index {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{size: len(text), lineStarts: starts}
}

// Lines returns the number of lines, which is one more than the number of
// line breaks.
func (x *Index) Lines() int {
	return len(x.lineStarts)
}

// LineStart returns the offset of the first byte of line, or -1.
func (x *Index) LineStart(line int) int {
	if line < 1 || line > len(x.lineStarts) {
		return -1
	}
	return x.lineStarts[line-1]
}

func (x *Index) OffsetOf(line, column int) int {
	start := x.LineStart(line)
	if start < 0 {
		return -1
	}
	return start + column - 1
}

func (x *Index) LineColumnOf(offset int) (line, column int) {
	offset = clamp(offset, x.size)
	line = sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > offset
	})
	return line, offset - x.lineStarts[line-1] + 1
}
