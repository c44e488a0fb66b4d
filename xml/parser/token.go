package parser

import "strings"

// Span is a half-open byte interval [Start, End) over the source text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies in [Start, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Markup
	TokenLessThan
	TokenLessThanSlash
	TokenGreaterThan
	TokenSlashGreaterThan
	TokenName
	TokenEquals
	TokenDoubleQuote
	TokenSingleQuote
	TokenAttributeValue

	// Content
	TokenText
	TokenCommentStart
	TokenCommentText
	TokenCommentEnd
	TokenCDataStart
	TokenCDataText
	TokenCDataEnd
	TokenPIStart
	TokenPIText
	TokenPIEnd
	TokenDocTypeStart
	TokenDocTypeText
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenError:            "Error",
	TokenLessThan:         "LessThan",
	TokenLessThanSlash:    "LessThanSlash",
	TokenGreaterThan:      "GreaterThan",
	TokenSlashGreaterThan: "SlashGreaterThan",
	TokenName:             "Name",
	TokenEquals:           "Equals",
	TokenDoubleQuote:      "DoubleQuote",
	TokenSingleQuote:      "SingleQuote",
	TokenAttributeValue:   "AttributeValue",
	TokenText:             "Text",
	TokenCommentStart:     "CommentStart",
	TokenCommentText:      "CommentText",
	TokenCommentEnd:       "CommentEnd",
	TokenCDataStart:       "CDataStart",
	TokenCDataText:        "CDataText",
	TokenCDataEnd:         "CDataEnd",
	TokenPIStart:          "ProcessingInstructionStart",
	TokenPIText:           "ProcessingInstructionText",
	TokenPIEnd:            "ProcessingInstructionEnd",
	TokenDocTypeStart:     "DocTypeStart",
	TokenDocTypeText:      "DocTypeText",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsQuote reports whether k opens or closes an attribute value.
func (k TokenKind) IsQuote() bool {
	return k == TokenDoubleQuote || k == TokenSingleQuote
}

type TriviaKind int

const (
	TriviaWhitespace TriviaKind = iota
	TriviaEndOfLine
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaEndOfLine:
		return "EndOfLine"
	}
	return "Unknown"
}

type Trivia struct {
	Kind TriviaKind
	Text string
}

// Token is a lexical token. Text excludes trivia; FullSpan includes it.
// A Missing token was synthesized by the parser for an expected delimiter
// and owns no source characters.
type Token struct {
	Kind     TokenKind
	Text     string
	Leading  []Trivia
	Trailing []Trivia
	FullSpan Span
	Missing  bool
}

func triviaLen(tr []Trivia) int {
	n := 0
	for _, t := range tr {
		n += len(t.Text)
	}
	return n
}

// FullWidth is the number of source bytes covered by the token and its trivia.
func (t *Token) FullWidth() int {
	return triviaLen(t.Leading) + len(t.Text) + triviaLen(t.Trailing)
}

// Span returns the token's span without leading and trailing trivia.
func (t *Token) Span() Span {
	start := t.FullSpan.Start + triviaLen(t.Leading)
	return Span{Start: start, End: start + len(t.Text)}
}

// FullText returns leading trivia, text and trailing trivia as they appear in
// the source.
func (t *Token) FullText() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t *Token) writeTo(sb *strings.Builder) {
	for _, tr := range t.Leading {
		sb.WriteString(tr.Text)
	}
	sb.WriteString(t.Text)
	for _, tr := range t.Trailing {
		sb.WriteString(tr.Text)
	}
}

// EndsLine reports whether the token's trailing trivia ends with a line break.
func (t *Token) EndsLine() bool {
	if n := len(t.Trailing); n > 0 {
		return t.Trailing[n-1].Kind == TriviaEndOfLine
	}
	return false
}

func (t *Token) clone() *Token {
	c := *t
	c.Leading = append([]Trivia(nil), t.Leading...)
	c.Trailing = append([]Trivia(nil), t.Trailing...)
	return &c
}
