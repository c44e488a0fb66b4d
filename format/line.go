package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// LineEncoder writes one tab-separated line per node:
//
//	depth id type start end text errors
//
// Text is quoted and only present for tokens.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	var sb strings.Builder
	var write func(d *SyntaxData, depth int)
	write = func(d *SyntaxData, depth int) {
		text := ""
		if d.TypeClass == "token" {
			text = strconv.Quote(d.Text)
		}
		var ids []string
		for _, e := range d.Errors {
			ids = append(ids, e.ID)
		}
		fmt.Fprintf(&sb, "%d\t%d\t%s\t%d\t%d\t%s\t%s\n",
			depth, d.ID, d.Type, d.SpanStart, d.SpanEnd, text, strings.Join(ids, ","))
		for _, child := range d.Children {
			write(child, depth+1)
		}
	}
	write(FromNode(node), 0)
	return []byte(sb.String()), nil
}
