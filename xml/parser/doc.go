// Package parser provides a lossless, error-tolerant parser for XML text.
//
// # Overview
//
// The parser turns a whole document into a concrete syntax tree that keeps
// every byte of the input. Whitespace is stored as trivia on the tokens next
// to it, malformed markup is kept as tokens and flagged with diagnostics, and
// the parse never fails. It is meant for editor tooling, where the text is
// re-parsed on every change and is usually incomplete.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                           ┌───────────────────┼───────────────────┐
//	                           ▼                   ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	                    │  FindNode   │     │ Diagnostics │     │RemoveInvalid│
//	                    └─────────────┘     └─────────────┘     └─────────────┘
//
// # Tokens and Trivia
//
// A token's trailing trivia is the whitespace after it up to and including
// the first line break. Any further whitespace is leading trivia of the next
// token, and the final whitespace of the input is leading trivia of the EOF
// token. Comment, CDATA, processing instruction, DOCTYPE and attribute value
// bodies are single tokens with no trivia.
//
//	<a>
//	  <b/>
//	</a>
//
// Here ">" owns the first line break, "  " is leading trivia of the second
// "<", and "/>" owns the second line break.
//
// # Tree Shape
//
//	Document      := [List] [Element] [List] EOF
//	Element       := StartTag [List] [EndTag]
//	StartTag      := "<" Name [AttributeList] (">" | "/>")
//	EndTag        := "</" Name ">"
//	Attribute     := Name "=" Quote [AttributeValue] Quote
//
// List nodes group content and prologue items. Tokens are leaves of kind
// KindToken so the tree is homogeneous. Parent links, pre-order IDs and
// spans are set once the tree is complete.
//
// # Error Recovery
//
// A missing delimiter is inserted as a zero-width token marked Missing and
// the enclosing construct gets a diagnostic. Tokens that cannot appear where
// they are found are wrapped in a Text node flagged IllegalCharacter. An end
// tag naming an enclosing element closes the elements in between, each
// flagged MissingEndTag; any other mismatched end tag closes the innermost
// element, which is flagged MismatchedEndTag.
//
// # Positions
//
// Spans are half-open byte intervals. FindNode takes the byte index of the
// character under the caret. Use package linecol to convert editor line and
// column positions.
//
// # Usage
//
//	root := parser.Parse(`<a><b/></a>`)
//	fmt.Print(root.String())
//	b := parser.FindNode(root, 4).ParentElement()
//	valid := parser.RemoveInvalid(root).ToFullString()
package parser
