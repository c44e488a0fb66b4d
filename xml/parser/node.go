package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

const (
	KindDocument NodeKind = iota

	// Prologue and misc
	KindXmlDeclaration
	KindProcessingInstruction
	KindDocType

	// Elements
	KindElement
	KindStartTag
	KindEndTag
	KindAttribute
	KindAttributeList

	// Character data
	KindText
	KindComment
	KindCData

	// Structural
	KindList
	KindToken
)

var nodeKindNames = map[NodeKind]string{
	KindDocument:              "Document",
	KindXmlDeclaration:        "XmlDeclaration",
	KindProcessingInstruction: "ProcessingInstruction",
	KindDocType:               "DocType",
	KindElement:               "Element",
	KindStartTag:              "StartTag",
	KindEndTag:                "EndTag",
	KindAttribute:             "Attribute",
	KindAttributeList:         "AttributeList",
	KindText:                  "Text",
	KindComment:               "Comment",
	KindCData:                 "CData",
	KindList:                  "List",
	KindToken:                 "Token",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a syntax tree node. Token nodes are leaves holding exactly one
// token; every other kind holds children. FullSpan covers the node's tokens
// including their trivia.
type Node struct {
	Kind        NodeKind
	ID          int
	FullSpan    Span
	Children    []*Node
	Token       *Token
	Diagnostics []Diagnostic

	parent *Node
}

func newNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

func newTokenNode(tok Token) *Node {
	return &Node{Kind: KindToken, Token: &tok}
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) addDiagnostic(id ErrorID) {
	n.Diagnostics = append(n.Diagnostics, Diagnostic{ID: id, Message: id.Description()})
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) IsList() bool {
	return n.Kind == KindList || n.Kind == KindAttributeList
}

func (n *Node) IsToken() bool {
	return n.Kind == KindToken
}

// TypeClass is "list", "token" or "syntax".
func (n *Node) TypeClass() string {
	switch {
	case n.IsList():
		return "list"
	case n.IsToken():
		return "token"
	}
	return "syntax"
}

func (n *Node) HasDiagnostics() bool {
	return len(n.Diagnostics) > 0
}

// ContainsDiagnostics reports whether n or any of its descendants carries a
// diagnostic.
func (n *Node) ContainsDiagnostics() bool {
	if n.HasDiagnostics() {
		return true
	}
	for _, child := range n.Children {
		if child.ContainsDiagnostics() {
			return true
		}
	}
	return false
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// firstTokenOfKind returns the first direct token child of the given kind.
func (n *Node) firstTokenOfKind(kind TokenKind) *Token {
	for _, child := range n.Children {
		if child.IsToken() && child.Token.Kind == kind {
			return child.Token
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Tokens returns the leaf tokens under n in source order.
func (n *Node) Tokens() []*Token {
	var tokens []*Token
	n.Walk(func(c *Node) bool {
		if c.IsToken() {
			tokens = append(tokens, c.Token)
		}
		return true
	})
	return tokens
}

// ToFullString reconstructs the source text covered by n, trivia included.
func (n *Node) ToFullString() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n.IsToken() {
		n.Token.writeTo(sb)
		return
	}
	for _, child := range n.Children {
		child.writeTo(sb)
	}
}

// Span returns FullSpan without the leading trivia of the first token and the
// trailing trivia of the last one.
func (n *Node) Span() Span {
	tokens := n.Tokens()
	if len(tokens) == 0 {
		return n.FullSpan
	}
	return Span{
		Start: n.FullSpan.Start + triviaLen(tokens[0].Leading),
		End:   n.FullSpan.End - triviaLen(tokens[len(tokens)-1].Trailing),
	}
}

// Text returns the source text of n without its outer trivia.
func (n *Node) Text() string {
	full := n.ToFullString()
	span := n.Span()
	return full[span.Start-n.FullSpan.Start : span.End-n.FullSpan.Start]
}

// ParentElement returns the nearest enclosing element, not counting n itself.
func (n *Node) ParentElement() *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Kind == KindElement {
			return p
		}
	}
	return nil
}

// Name returns the name of an element, tag, attribute or processing
// instruction, or "" when n has none.
func (n *Node) Name() string {
	switch n.Kind {
	case KindElement:
		if tag := n.FirstChildOfKind(KindStartTag); tag != nil {
			return tag.Name()
		}
		if tag := n.FirstChildOfKind(KindEndTag); tag != nil {
			return tag.Name()
		}
	case KindStartTag, KindEndTag, KindAttribute, KindProcessingInstruction, KindXmlDeclaration:
		if tok := n.firstTokenOfKind(TokenName); tok != nil {
			return tok.Text
		}
	}
	return ""
}

func (n *Node) StartTag() *Node {
	return n.FirstChildOfKind(KindStartTag)
}

func (n *Node) EndTag() *Node {
	return n.FirstChildOfKind(KindEndTag)
}

// Attributes returns the attribute nodes of an element or start tag.
func (n *Node) Attributes() []*Node {
	tag := n
	if n.Kind == KindElement {
		tag = n.StartTag()
	}
	if tag == nil {
		return nil
	}
	list := tag.FirstChildOfKind(KindAttributeList)
	if list == nil {
		return nil
	}
	return list.ChildrenOfKind(KindAttribute)
}

// Attribute returns the value of the named attribute and whether it exists.
func (n *Node) Attribute(name string) (string, bool) {
	for _, attr := range n.Attributes() {
		if attr.Name() == name {
			return attr.Value(), true
		}
	}
	return "", false
}

// Value returns the unquoted value of an attribute.
func (n *Node) Value() string {
	if tok := n.firstTokenOfKind(TokenAttributeValue); tok != nil {
		return tok.Text
	}
	return ""
}

// Content returns the child nodes between an element's start and end tags.
func (n *Node) Content() []*Node {
	if list := n.FirstChildOfKind(KindList); list != nil {
		return list.Children
	}
	return nil
}

// IsSelfClosing reports whether an element's start tag ends with "/>".
func (n *Node) IsSelfClosing() bool {
	tag := n
	if n.Kind == KindElement {
		tag = n.StartTag()
	}
	return tag != nil && tag.firstTokenOfKind(TokenSlashGreaterThan) != nil
}

// Root returns the document element, or nil when the document has none.
func (n *Node) Root() *Node {
	if n.Kind != KindDocument {
		return nil
	}
	return n.FirstChildOfKind(KindElement)
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	if n.IsToken() {
		sb.WriteString(n.Token.Kind.String())
	} else {
		sb.WriteString(n.Kind.String())
	}
	if showPositions {
		sb.WriteString(" [" + strconv.Itoa(n.FullSpan.Start) + "-" + strconv.Itoa(n.FullSpan.End) + "]")
	}
	switch {
	case n.IsToken() && n.Token.Missing:
		sb.WriteString(" <missing>")
	case n.IsToken():
		sb.WriteString(" " + strconv.Quote(n.Token.Text))
	case n.Kind == KindElement || n.Kind == KindAttribute:
		if name := n.Name(); name != "" {
			sb.WriteString(" " + name)
		}
	}
	for _, d := range n.Diagnostics {
		sb.WriteString(" ERROR: " + d.ID.String())
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
