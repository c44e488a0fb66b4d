package parser

import "strings"

type lexMode int

const (
	modeContent lexMode = iota
	modeTag
	modeAttributeValue
	modePITarget
	modePIBody
	modeCommentBody
	modeCDataBody
	modeDocTypeBody
)

// collectsTrivia reports whether whitespace is trivia in this mode. Inside
// comment, CDATA, processing instruction, DOCTYPE and attribute value bodies
// whitespace is part of the token text.
func (m lexMode) collectsTrivia() bool {
	return m == modeContent || m == modeTag
}

// Lexer splits XML text into tokens. It switches between content and markup
// modes on its own, so the token stream depends only on the input text.
type Lexer struct {
	input string
	pos   int
	mode  lexMode
	quote byte
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of text, ending with TokenEOF. Concatenating
// the tokens' full text reproduces the input.
func Tokenize(text string) []Token {
	l := NewLexer(text)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) NextToken() Token {
	start := l.pos
	var leading []Trivia
	if l.mode.collectsTrivia() {
		leading = l.scanTrivia(false)
	}

	bodyStart := l.pos
	kind := l.scanBody()
	tok := Token{
		Kind:    kind,
		Text:    l.input[bodyStart:l.pos],
		Leading: leading,
	}

	if kind != TokenEOF && l.mode.collectsTrivia() {
		tok.Trailing = l.scanTrivia(true)
	}
	tok.FullSpan = Span{Start: start, End: l.pos}
	return tok
}

// scanTrivia consumes whitespace. Trailing trivia stops after the first end
// of line; the rest belongs to the next token.
func (l *Lexer) scanTrivia(trailing bool) []Trivia {
	var out []Trivia
	for !l.eof() {
		start := l.pos
		switch ch := l.peek(); ch {
		case ' ', '\t':
			for l.peek() == ' ' || l.peek() == '\t' {
				l.pos++
			}
			out = append(out, Trivia{Kind: TriviaWhitespace, Text: l.input[start:l.pos]})
		case '\n', '\r':
			if ch == '\r' && l.peekN(1) == '\n' {
				l.pos++
			}
			l.pos++
			out = append(out, Trivia{Kind: TriviaEndOfLine, Text: l.input[start:l.pos]})
			if trailing {
				return out
			}
		default:
			return out
		}
	}
	return out
}

func (l *Lexer) scanBody() TokenKind {
	for {
		if l.eof() {
			return TokenEOF
		}
		switch l.mode {
		case modeContent:
			return l.scanContent()
		case modeTag:
			if l.peek() == '<' {
				l.mode = modeContent
				continue
			}
			return l.scanTag()
		case modeAttributeValue:
			if kind, ok := l.scanAttributeValue(); ok {
				return kind
			}
		case modePITarget:
			l.mode = modePIBody
			if isNameStart(l.peek()) {
				l.scanName()
				return TokenName
			}
		case modePIBody:
			return l.scanUntil("?>", TokenPIText, TokenPIEnd)
		case modeCommentBody:
			return l.scanUntil("-->", TokenCommentText, TokenCommentEnd)
		case modeCDataBody:
			return l.scanUntil("]]>", TokenCDataText, TokenCDataEnd)
		case modeDocTypeBody:
			if kind, ok := l.scanDocType(); ok {
				return kind
			}
		}
	}
}

func (l *Lexer) scanContent() TokenKind {
	switch {
	case l.hasPrefix("<!--"):
		l.pos += 4
		l.mode = modeCommentBody
		return TokenCommentStart
	case l.hasPrefix("<![CDATA["):
		l.pos += 9
		l.mode = modeCDataBody
		return TokenCDataStart
	case l.hasPrefix("<!DOCTYPE"):
		l.pos += 9
		l.mode = modeDocTypeBody
		return TokenDocTypeStart
	case l.hasPrefix("<?"):
		l.pos += 2
		l.mode = modePITarget
		return TokenPIStart
	case l.hasPrefix("</"):
		l.pos += 2
		l.mode = modeTag
		return TokenLessThanSlash
	case l.peek() == '<':
		l.pos++
		l.mode = modeTag
		return TokenLessThan
	}

	end := strings.IndexByte(l.input[l.pos:], '<')
	if end < 0 {
		end = len(l.input)
	} else {
		end += l.pos
	}
	for end > l.pos && isSpace(l.input[end-1]) {
		end--
	}
	l.pos = end
	return TokenText
}

func (l *Lexer) scanTag() TokenKind {
	ch := l.peek()
	switch {
	case ch == '>':
		l.pos++
		l.mode = modeContent
		return TokenGreaterThan
	case ch == '/' && l.peekN(1) == '>':
		l.pos += 2
		l.mode = modeContent
		return TokenSlashGreaterThan
	case ch == '=':
		l.pos++
		return TokenEquals
	case ch == '"' || ch == '\'':
		l.pos++
		l.quote = ch
		l.mode = modeAttributeValue
		if ch == '"' {
			return TokenDoubleQuote
		}
		return TokenSingleQuote
	case isNameStart(ch):
		l.scanName()
		return TokenName
	}

	l.pos++
	for !l.eof() && !l.isTagBoundary() {
		l.pos++
	}
	return TokenError
}

func (l *Lexer) isTagBoundary() bool {
	ch := l.peek()
	switch {
	case isSpace(ch), ch == '<', ch == '>', ch == '=', ch == '"', ch == '\'':
		return true
	case ch == '/' && l.peekN(1) == '>':
		return true
	}
	return isNameStart(ch)
}

// scanAttributeValue returns false when the mode changed without consuming
// input, so the caller rescans in the new mode.
func (l *Lexer) scanAttributeValue() (TokenKind, bool) {
	ch := l.peek()
	if ch == l.quote {
		l.pos++
		l.mode = modeTag
		if ch == '"' {
			return TokenDoubleQuote, true
		}
		return TokenSingleQuote, true
	}
	if ch == '<' {
		l.mode = modeTag
		return 0, false
	}

	for !l.eof() && l.peek() != l.quote && l.peek() != '<' {
		l.pos++
	}
	if l.peek() != l.quote {
		l.mode = modeTag
	}
	return TokenAttributeValue, true
}

// scanUntil scans a raw body up to the terminator. It returns endKind when
// positioned on the terminator itself.
func (l *Lexer) scanUntil(terminator string, textKind, endKind TokenKind) TokenKind {
	if l.hasPrefix(terminator) {
		l.pos += len(terminator)
		l.mode = modeContent
		return endKind
	}
	idx := strings.Index(l.input[l.pos:], terminator)
	if idx < 0 {
		l.pos = len(l.input)
	} else {
		l.pos += idx
	}
	return textKind
}

// scanDocType stops the body at the first '>' or '<' outside quotes and the
// internal subset brackets. A '<' there means the declaration was never
// closed, so lexing resumes in content mode.
func (l *Lexer) scanDocType() (TokenKind, bool) {
	switch l.peek() {
	case '>':
		l.pos++
		l.mode = modeContent
		return TokenGreaterThan, true
	case '<':
		l.mode = modeContent
		return 0, false
	}
	depth := 0
	var quote byte
	for !l.eof() {
		ch := l.peek()
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[':
			depth++
		case ch == ']' && depth > 0:
			depth--
		case depth == 0 && (ch == '>' || ch == '<'):
			if ch == '<' {
				l.mode = modeContent
			}
			return TokenDocTypeText, true
		}
		l.pos++
	}
	return TokenDocTypeText, true
}

func (l *Lexer) scanName() {
	for !l.eof() && isNameChar(l.peek()) {
		l.pos++
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// Bytes >= 0x80 are accepted as name characters so multi-byte UTF-8 names
// stay in one token.
func isNameStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == ':' || ch >= 0x80
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || ch >= '0' && ch <= '9' || ch == '-' || ch == '.'
}
