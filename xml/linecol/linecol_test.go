package linecol

import "testing"

var texts = []string{
	"",
	"a",
	"\n",
	"\n\n",
	"<a>\n  <b/>\n</a>",
	"<a>\r\n\t<b/>\r\n</a>\r\n",
	"line one\nline two\n\nline four",
	"é\nü",
}

func TestOffsetOf(t *testing.T) {
	text := "ab\ncd\n\nef"
	tests := []struct {
		line, column int
		want         int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 3},
		{2, 2, 4},
		{3, 1, 6},
		{4, 1, 7},
		{4, 2, 8},
		{5, 1, -1},
		{0, 1, -1},
	}
	idx := NewIndex(text)
	for _, tt := range tests {
		if got := OffsetOf(text, tt.line, tt.column); got != tt.want {
			t.Errorf("OffsetOf(%d, %d): got %d, want %d", tt.line, tt.column, got, tt.want)
		}
		if got := idx.OffsetOf(tt.line, tt.column); got != tt.want {
			t.Errorf("Index.OffsetOf(%d, %d): got %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestLineColumnOf(t *testing.T) {
	text := "ab\ncd\n\nef"
	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
		{-5, 1, 1},
		{100, 4, 3},
	}
	idx := NewIndex(text)
	for _, tt := range tests {
		line, column := LineColumnOf(text, tt.offset)
		if line != tt.line || column != tt.column {
			t.Errorf("LineColumnOf(%d): got %d:%d, want %d:%d", tt.offset, line, column, tt.line, tt.column)
		}
		line, column = idx.LineColumnOf(tt.offset)
		if line != tt.line || column != tt.column {
			t.Errorf("Index.LineColumnOf(%d): got %d:%d, want %d:%d", tt.offset, line, column, tt.line, tt.column)
		}
	}
}

func TestInverse(t *testing.T) {
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			idx := NewIndex(text)
			for offset := 0; offset <= len(text); offset++ {
				line, column := LineColumnOf(text, offset)
				if got := OffsetOf(text, line, column); got != offset {
					t.Errorf("offset %d -> %d:%d -> %d", offset, line, column, got)
				}
				iline, icolumn := idx.LineColumnOf(offset)
				if iline != line || icolumn != column {
					t.Errorf("offset %d: index gives %d:%d, scan gives %d:%d", offset, iline, icolumn, line, column)
				}
				if got := idx.OffsetOf(line, column); got != offset {
					t.Errorf("index: offset %d -> %d:%d -> %d", offset, line, column, got)
				}
			}
		})
	}
}

func TestIndexLines(t *testing.T) {
	idx := NewIndex("a\nb\n")
	if idx.Lines() != 3 {
		t.Errorf("Lines: got %d, want 3", idx.Lines())
	}
	if idx.LineStart(2) != 2 || idx.LineStart(3) != 4 || idx.LineStart(4) != -1 {
		t.Errorf("unexpected line starts")
	}
}
