package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/xmlsyntax/xml/linecol"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// Range is an editor range with 1-based lines and columns. EndColumn is
// exclusive.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
}

// RangeOf converts a span to an editor range. The end is computed from the
// span's last byte so a span ending a line stays on that line.
func RangeOf(idx *linecol.Index, span parser.Span) Range {
	startLine, startColumn := idx.LineColumnOf(span.Start)
	last := span.End - 1
	if last < span.Start {
		last = span.Start
	}
	endLine, endColumn := idx.LineColumnOf(last)
	if span.End > span.Start {
		endColumn++
	}
	return Range{StartLine: startLine, StartColumn: startColumn, EndLine: endLine, EndColumn: endColumn}
}

type Hover struct {
	Lines []string
	Range Range
}

func (h Hover) String() string {
	return strings.Join(h.Lines, "\n")
}

// NewHover describes node the way the inspector does:
//
//	*Type* text [start..end)
//	Line: l Col: c Length: n
func NewHover(idx *linecol.Index, node *parser.Node) Hover {
	data := FromNode(node)
	line, column := idx.LineColumnOf(data.SpanStart)
	return Hover{
		Lines: []string{
			fmt.Sprintf("*%s* %s [%d..%d)", data.Type, data.Text, data.SpanStart, data.SpanEnd),
			fmt.Sprintf("Line: %d Col: %d Length: %d", line, column, data.Length()),
		},
		Range: RangeOf(idx, node.FullSpan),
	}
}

// CaretInfo lists the node text, its type, the parent's type and the name
// of the enclosing element, one per line.
func CaretInfo(node *parser.Node) string {
	data := FromNode(node)
	parentType := ""
	if parent := node.Parent(); parent != nil {
		parentType = typeName(parent)
	}
	parentElement := ""
	if el := node.ParentElement(); el != nil {
		parentElement = el.Name()
	}

	var sb strings.Builder
	sb.WriteString(data.Text + "\n")
	sb.WriteString(data.Type + "\n")
	sb.WriteString("Parent:" + parentType + "\n")
	sb.WriteString("Parent Element:" + parentElement + "\n")
	return sb.String()
}
