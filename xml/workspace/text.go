package workspace

import (
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/linecol"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// positionToOffset converts a zero-based LSP position, whose character is
// counted in UTF-16 code units, to a byte offset. Characters past the end of
// the line clamp to the line end.
func positionToOffset(idx *linecol.Index, text string, pos protocol.Position) int {
	line, err := safecast.Conv[int](pos.Line)
	if err != nil {
		return len(text)
	}
	start := idx.LineStart(line + 1)
	if start < 0 {
		return len(text)
	}
	end := len(text)
	if next := idx.LineStart(line + 2); next >= 0 {
		end = next - 1
		if end > start && text[end-1] == '\r' {
			end--
		}
	}

	want, err := safecast.Conv[int](pos.Character)
	if err != nil {
		return end
	}
	units := 0
	offset := start
	for offset < end && units < want {
		r, size := utf8.DecodeRuneInString(text[offset:end])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
		offset += size
	}
	return offset
}

// offsetToPosition is the inverse of positionToOffset.
func offsetToPosition(idx *linecol.Index, text string, offset int) protocol.Position {
	line, column := idx.LineColumnOf(offset)
	start := idx.LineStart(line)
	end := start + column - 1

	units := 0
	for _, r := range text[start:end] {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	l, _ := safecast.Conv[protocol.UInteger](line - 1)
	c, _ := safecast.Conv[protocol.UInteger](units)
	return protocol.Position{Line: l, Character: c}
}

func spanToRange(idx *linecol.Index, text string, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(idx, text, span.Start),
		End:   offsetToPosition(idx, text, span.End),
	}
}

// lspDiagnostics converts parser diagnostics for publishing.
func lspDiagnostics(doc *Document, source string) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	diags := []protocol.Diagnostic{}
	for _, d := range parser.CollectDiagnostics(doc.Root) {
		diags = append(diags, protocol.Diagnostic{
			Range:    spanToRange(doc.Index(), doc.Text, d.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.ID.String()},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diags
}

// hoverContent renders format.Hover as markdown.
func hoverContent(h format.Hover) protocol.MarkupContent {
	return protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: h.Lines[0] + "\n\n" + h.Lines[1],
	}
}
