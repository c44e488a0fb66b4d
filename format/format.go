// Package format renders syntax trees for hosts: the SyntaxData projection
// used by tree views, JSON and msgpack encodings, an indented dump, a
// tab-separated line listing, hover text and diagnostic listings.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

type Encoder interface {
	Encode(node *parser.Node) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"tree", "json", "msgpack", "lines"}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "tree":
		return &TreeEncoder{w: w, positions: positions}, nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "msgpack":
		return NewMsgpackEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

// TreeEncoder writes the indented dump of Node.String.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text := node.String()
	if e.positions {
		text = node.StringWithPositions()
	}
	_, err := io.WriteString(e.w, text)
	return err
}
