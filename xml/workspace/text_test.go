package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/xmlsyntax/xml/linecol"
)

// "😀" is four bytes in UTF-8 and two code units in UTF-16.
const utf16Text = "a\r\nb😀c\n"

func TestPositionToOffset(t *testing.T) {
	idx := linecol.NewIndex(utf16Text)
	tests := []struct {
		line, character protocol.UInteger
		want            int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0, 5, 1},
		{1, 0, 3},
		{1, 1, 4},
		{1, 3, 8},
		{1, 4, 9},
		{2, 0, 10},
		{5, 0, 10},
	}
	for _, tt := range tests {
		got := positionToOffset(idx, utf16Text, protocol.Position{Line: tt.line, Character: tt.character})
		require.Equal(t, tt.want, got, "position %d:%d", tt.line, tt.character)
	}
}

func TestOffsetToPosition(t *testing.T) {
	idx := linecol.NewIndex(utf16Text)
	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{3, protocol.Position{Line: 1, Character: 0}},
		{4, protocol.Position{Line: 1, Character: 1}},
		{8, protocol.Position{Line: 1, Character: 3}},
		{10, protocol.Position{Line: 2, Character: 0}},
		{99, protocol.Position{Line: 2, Character: 0}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, offsetToPosition(idx, utf16Text, tt.offset), "offset %d", tt.offset)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	idx := linecol.NewIndex(utf16Text)
	for _, offset := range []int{0, 1, 3, 4, 8, 9, 10} {
		pos := offsetToPosition(idx, utf16Text, offset)
		require.Equal(t, offset, positionToOffset(idx, utf16Text, pos), "offset %d", offset)
	}
}
