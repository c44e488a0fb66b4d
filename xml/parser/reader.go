package parser

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type readerConfig struct {
	ctx      context.Context
	encoding encoding.Encoding
}

type Option func(*readerConfig)

// WithContext makes ParseReader stop when ctx is done.
func WithContext(ctx context.Context) Option {
	return func(c *readerConfig) {
		c.ctx = ctx
	}
}

// WithEncoding sets the encoding assumed when the input has no byte order
// mark. The default is UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *readerConfig) {
		c.encoding = enc
	}
}

// ParseReader reads a whole document from r and parses it. A UTF-8 or
// UTF-16 byte order mark selects the encoding and is not part of the
// returned text; spans are byte offsets into the decoded UTF-8 text.
func ParseReader(r io.Reader, opts ...Option) (*Node, error) {
	cfg := readerConfig{
		ctx:      context.Background(),
		encoding: unicode.UTF8,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	decoder := unicode.BOMOverride(cfg.encoding.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return ParseContext(cfg.ctx, string(data))
}
