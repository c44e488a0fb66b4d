package format

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// MsgpackEncoder writes the SyntaxData tree as a msgpack document.
type MsgpackEncoder struct {
	w io.Writer
}

func NewMsgpackEncoder(w io.Writer) *MsgpackEncoder {
	return &MsgpackEncoder{w: w}
}

func (e *MsgpackEncoder) Encode(node *parser.Node) error {
	enc := msgpack.NewEncoder(e.w)
	if err := enc.Encode(FromNode(node)); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

// DecodeMsgpack reads a tree written by MsgpackEncoder.
func DecodeMsgpack(r io.Reader) (*SyntaxData, error) {
	var data SyntaxData
	if err := msgpack.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return &data, nil
}
