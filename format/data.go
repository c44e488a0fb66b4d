package format

import (
	"strings"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// SyntaxData is a flat, serialisable view of a node for tree views and
// inspectors.
type SyntaxData struct {
	ID        int           `json:"id" msgpack:"id"`
	Type      string        `json:"type" msgpack:"type"`
	TypeClass string        `json:"typeClass" msgpack:"typeClass"`
	Text      string        `json:"text,omitempty" msgpack:"text,omitempty"`
	Errors    []SyntaxError `json:"errors,omitempty" msgpack:"errors,omitempty"`
	SpanStart int           `json:"spanStart" msgpack:"spanStart"`
	SpanEnd   int           `json:"spanEnd" msgpack:"spanEnd"`
	Children  []*SyntaxData `json:"children,omitempty" msgpack:"children,omitempty"`
}

type SyntaxError struct {
	ID          string `json:"id" msgpack:"id"`
	Description string `json:"description" msgpack:"description"`
}

// FromNode converts n and its descendants. List nodes are typed
// "SyntaxList" and tokens by their token kind.
func FromNode(n *parser.Node) *SyntaxData {
	data := &SyntaxData{
		ID:        n.ID,
		Type:      typeName(n),
		TypeClass: n.TypeClass(),
		SpanStart: n.FullSpan.Start,
		SpanEnd:   n.FullSpan.End,
	}
	if n.IsToken() {
		data.Text = n.Token.Text
	}
	for _, d := range n.Diagnostics {
		data.Errors = append(data.Errors, SyntaxError{ID: d.ID.String(), Description: d.Message})
	}
	for _, child := range n.Children {
		data.Children = append(data.Children, FromNode(child))
	}
	return data
}

func typeName(n *parser.Node) string {
	switch {
	case n.IsList():
		return "SyntaxList"
	case n.IsToken():
		return n.Token.Kind.String()
	}
	return n.Kind.String()
}

func (d *SyntaxData) Length() int {
	return d.SpanEnd - d.SpanStart
}

func (d *SyntaxData) IsError() bool {
	return len(d.Errors) > 0
}

// ErrorText joins the node's errors as "ID: description".
func (d *SyntaxData) ErrorText() string {
	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.ID+": "+e.Description)
	}
	return strings.Join(parts, " ")
}

// Find returns the data entry with the given node ID.
func (d *SyntaxData) Find(id int) *SyntaxData {
	if d.ID == id {
		return d
	}
	for _, child := range d.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}
