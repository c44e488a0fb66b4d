package parser

import (
	"context"
	"strings"
)

// Parser builds a syntax tree from the token stream of a single document.
// A Parser is used once; create a new one per parse.
type Parser struct {
	ctx    context.Context
	tokens []Token
	pos    int
	open   []string
	err    error
}

// Parse parses text into a Document node. It never fails: malformed input
// produces diagnostics on the nodes that could not be completed.
func Parse(text string) *Node {
	root, _ := ParseContext(context.Background(), text)
	return root
}

// ParseContext is Parse with cancellation. The context is checked between
// nodes; when it is done the partial tree is discarded and ctx.Err() is
// returned.
func ParseContext(ctx context.Context, text string) (*Node, error) {
	p := &Parser{
		ctx:    ctx,
		tokens: Tokenize(text),
	}
	doc := p.parseDocument()
	if p.err != nil {
		return nil, p.err
	}
	finishTree(doc)
	return doc, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// take consumes the current token into a token node.
func (p *Parser) take() *Node {
	return newTokenNode(p.advance())
}

// expect consumes a token of the given kind. When the current token has a
// different kind it returns a zero-width missing token and false.
func (p *Parser) expect(kind TokenKind) (*Node, bool) {
	if p.check(kind) {
		return p.take(), true
	}
	return newTokenNode(Token{Kind: kind, Missing: true}), false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made. Tokens are never skipped, so
// the tree keeps covering the whole input.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		return p.pos != saved
	}
}

// stopped reports whether the parse was cancelled.
func (p *Parser) stopped() bool {
	if p.err != nil {
		return true
	}
	if err := p.ctx.Err(); err != nil {
		p.err = err
		return true
	}
	return false
}

func (p *Parser) parseDocument() *Node {
	doc := newNode(KindDocument)
	prologue := newNode(KindList)
	epilogue := newNode(KindList)
	var root *Node

	for !p.check(TokenEOF) && !p.stopped() {
		progressed := p.mustProgress()

		var item *Node
		switch p.peek().Kind {
		case TokenLessThan:
			item = p.parseElement()
			if root == nil {
				root = item
				continue
			}
			item.addDiagnostic(ErrMultipleRootElements)
		case TokenLessThanSlash:
			item = p.parseStrayEndTag()
		default:
			item = p.parseMisc(true)
		}

		if root == nil {
			prologue.AddChild(item)
		} else {
			epilogue.AddChild(item)
		}
		if !progressed() {
			break
		}
	}

	if len(prologue.Children) > 0 {
		doc.AddChild(prologue)
	}
	doc.AddChild(root)
	if len(epilogue.Children) > 0 {
		doc.AddChild(epilogue)
	}
	if root == nil {
		doc.addDiagnostic(ErrMissingRootElement)
	}
	eof, _ := p.expect(TokenEOF)
	doc.AddChild(eof)
	return doc
}

// parseMisc parses one non-element content item. Tokens that cannot start
// content are wrapped in a Text node flagged IllegalCharacter.
func (p *Parser) parseMisc(topLevel bool) *Node {
	switch p.peek().Kind {
	case TokenText:
		text := newNode(KindText)
		text.AddChild(p.take())
		if topLevel {
			text.addDiagnostic(ErrTextOutsideRoot)
		}
		return text
	case TokenCommentStart:
		return p.parseComment()
	case TokenCDataStart:
		cdata := p.parseCData()
		if topLevel {
			cdata.addDiagnostic(ErrTextOutsideRoot)
		}
		return cdata
	case TokenPIStart:
		return p.parseProcessingInstruction()
	case TokenDocTypeStart:
		return p.parseDocType()
	}

	text := newNode(KindText)
	text.AddChild(p.take())
	text.addDiagnostic(ErrIllegalCharacter)
	return text
}

func (p *Parser) parseComment() *Node {
	node := newNode(KindComment)
	node.AddChild(p.take())
	if p.check(TokenCommentText) {
		body := p.peek().Text
		if strings.Contains(body, "--") || strings.HasSuffix(body, "-") {
			node.addDiagnostic(ErrInvalidCommentContent)
		}
		node.AddChild(p.take())
	}
	end, ok := p.expect(TokenCommentEnd)
	if !ok {
		node.addDiagnostic(ErrUnterminatedComment)
	}
	node.AddChild(end)
	return node
}

func (p *Parser) parseCData() *Node {
	node := newNode(KindCData)
	node.AddChild(p.take())
	if p.check(TokenCDataText) {
		node.AddChild(p.take())
	}
	end, ok := p.expect(TokenCDataEnd)
	if !ok {
		node.addDiagnostic(ErrUnterminatedCData)
	}
	node.AddChild(end)
	return node
}

// parseProcessingInstruction also recognises the XML declaration, which is
// the instruction targeting "xml" and must start at offset 0.
func (p *Parser) parseProcessingInstruction() *Node {
	start := p.peek()
	node := newNode(KindProcessingInstruction)
	node.AddChild(p.take())

	target, ok := p.expect(TokenName)
	if !ok {
		node.addDiagnostic(ErrExpectedName)
	}
	node.AddChild(target)
	if strings.EqualFold(target.Token.Text, "xml") {
		node.Kind = KindXmlDeclaration
		if start.FullSpan.Start != 0 || len(start.Leading) > 0 {
			node.addDiagnostic(ErrMisplacedXmlDeclaration)
		}
	}

	if p.check(TokenPIText) {
		node.AddChild(p.take())
	}
	end, ok := p.expect(TokenPIEnd)
	if !ok {
		node.addDiagnostic(ErrUnterminatedProcessingInstruction)
	}
	node.AddChild(end)
	return node
}

func (p *Parser) parseDocType() *Node {
	node := newNode(KindDocType)
	node.AddChild(p.take())
	if p.check(TokenDocTypeText) {
		node.AddChild(p.take())
	}
	end, ok := p.expect(TokenGreaterThan)
	if !ok {
		node.addDiagnostic(ErrUnterminatedDocType)
	}
	node.AddChild(end)
	return node
}

func (p *Parser) parseElement() *Node {
	element := newNode(KindElement)
	start := p.parseStartTag(element)
	element.AddChild(start)
	if start.IsSelfClosing() {
		return element
	}

	name := start.Name()
	p.open = append(p.open, name)
	defer func() { p.open = p.open[:len(p.open)-1] }()

	content := newNode(KindList)
	for !p.stopped() {
		if p.check(TokenEOF) {
			element.addDiagnostic(ErrMissingEndTag)
			break
		}
		if p.check(TokenLessThanSlash) {
			endName := p.endTagName()
			if endName != name && endName != "" && p.isOpenAncestor(endName) {
				element.addDiagnostic(ErrMissingEndTag)
				break
			}
			element.AddChild(contentOrNil(content))
			element.AddChild(p.parseEndTag(element))
			if endName != name && endName != "" {
				element.addDiagnostic(ErrMismatchedEndTag)
			}
			return element
		}

		progressed := p.mustProgress()
		if p.check(TokenLessThan) {
			content.AddChild(p.parseElement())
		} else {
			content.AddChild(p.parseMisc(false))
		}
		if !progressed() {
			break
		}
	}

	element.AddChild(contentOrNil(content))
	return element
}

func contentOrNil(list *Node) *Node {
	if len(list.Children) == 0 {
		return nil
	}
	return list
}

// endTagName returns the name of the end tag at the current position.
func (p *Parser) endTagName() string {
	if next := p.peekN(1); next.Kind == TokenName {
		return next.Text
	}
	return ""
}

func (p *Parser) isOpenAncestor(name string) bool {
	// The innermost open name is the element being parsed.
	for i := len(p.open) - 2; i >= 0; i-- {
		if p.open[i] == name {
			return true
		}
	}
	return false
}

// parseStartTag parses "<" Name [AttributeList] (">" | "/>"). Tag-level
// diagnostics are recorded on element.
func (p *Parser) parseStartTag(element *Node) *Node {
	tag := newNode(KindStartTag)
	tag.AddChild(p.take())

	name, ok := p.expect(TokenName)
	if !ok {
		element.addDiagnostic(ErrExpectedName)
	}
	tag.AddChild(name)

	attrs := newNode(KindAttributeList)
	seen := map[string]bool{}
	for p.isTagContent() && !p.stopped() {
		progressed := p.mustProgress()
		if p.check(TokenName) {
			attr := p.parseAttribute()
			if seen[attr.Name()] {
				attr.addDiagnostic(ErrDuplicateAttribute)
			}
			seen[attr.Name()] = true
			attrs.AddChild(attr)
		} else {
			attrs.AddChild(p.parseIllegalRun())
		}
		if !progressed() {
			break
		}
	}
	if len(attrs.Children) > 0 {
		tag.AddChild(attrs)
	}

	if p.match(TokenGreaterThan, TokenSlashGreaterThan) {
		tag.AddChild(p.take())
	} else {
		missing, _ := p.expect(TokenGreaterThan)
		tag.AddChild(missing)
		element.addDiagnostic(ErrExpectedGreater)
	}
	return tag
}

// parseEndTag parses "</" Name ">". Diagnostics go to element.
func (p *Parser) parseEndTag(element *Node) *Node {
	tag := newNode(KindEndTag)
	tag.AddChild(p.take())

	name, ok := p.expect(TokenName)
	if !ok {
		element.addDiagnostic(ErrExpectedName)
	}
	tag.AddChild(name)

	if p.isTagContent() {
		tag.AddChild(p.parseIllegalRun())
	}
	gt, ok := p.expect(TokenGreaterThan)
	if !ok {
		element.addDiagnostic(ErrExpectedGreater)
	}
	tag.AddChild(gt)
	return tag
}

// parseStrayEndTag wraps an end tag with no open element in an Element.
func (p *Parser) parseStrayEndTag() *Node {
	element := newNode(KindElement)
	element.AddChild(p.parseEndTag(element))
	element.addDiagnostic(ErrUnexpectedEndTag)
	return element
}

// isTagContent reports whether the current token belongs inside a tag but
// is not one of its closing delimiters.
func (p *Parser) isTagContent() bool {
	return p.match(TokenName, TokenEquals, TokenDoubleQuote, TokenSingleQuote, TokenAttributeValue, TokenError)
}

// parseIllegalRun consumes tag tokens that do not form an attribute up to
// the next name or the end of the tag.
func (p *Parser) parseIllegalRun() *Node {
	text := newNode(KindText)
	text.addDiagnostic(ErrIllegalCharacter)
	text.AddChild(p.take())
	for p.isTagContent() && !p.check(TokenName) {
		text.AddChild(p.take())
	}
	return text
}

// parseAttribute parses Name "=" Quote [AttributeValue] Quote.
func (p *Parser) parseAttribute() *Node {
	attr := newNode(KindAttribute)
	attr.AddChild(p.take())

	eq, ok := p.expect(TokenEquals)
	attr.AddChild(eq)
	if !ok {
		attr.addDiagnostic(ErrExpectedEquals)
		if !p.peek().Kind.IsQuote() {
			return attr
		}
	}

	if !p.peek().Kind.IsQuote() {
		attr.addDiagnostic(ErrExpectedAttributeValue)
		return attr
	}
	open := p.take()
	attr.AddChild(open)
	if p.check(TokenAttributeValue) {
		attr.AddChild(p.take())
	}
	closing, ok := p.expect(open.Token.Kind)
	if !ok {
		attr.addDiagnostic(ErrExpectedQuote)
	}
	attr.AddChild(closing)
	return attr
}

// finishTree assigns pre-order IDs starting at 1, parent links and spans.
// Spans are recomputed from token widths so rebuilt trees get positions
// that match their own text.
func finishTree(root *Node) {
	id := 0
	offset := 0
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		id++
		n.ID = id
		n.parent = parent
		start := offset
		if n.IsToken() {
			offset += n.Token.FullWidth()
			n.Token.FullSpan = Span{Start: start, End: offset}
		}
		for _, child := range n.Children {
			visit(child, n)
		}
		n.FullSpan = Span{Start: start, End: offset}
	}
	visit(root, nil)
}
