package parser

type ErrorID int

const (
	ErrExpectedName ErrorID = iota + 1
	ErrExpectedGreater
	ErrExpectedEquals
	ErrExpectedAttributeValue
	ErrExpectedQuote

	// Element structure
	ErrMissingEndTag
	ErrMismatchedEndTag
	ErrUnexpectedEndTag
	ErrDuplicateAttribute
	ErrIllegalCharacter

	// Document structure
	ErrTextOutsideRoot
	ErrMissingRootElement
	ErrMultipleRootElements
	ErrMisplacedXmlDeclaration

	// Unterminated constructs
	ErrUnterminatedComment
	ErrUnterminatedCData
	ErrUnterminatedProcessingInstruction
	ErrUnterminatedDocType
	ErrInvalidCommentContent
)

var errorIDNames = map[ErrorID]string{
	ErrExpectedName:                      "ExpectedName",
	ErrExpectedGreater:                   "ExpectedGreater",
	ErrExpectedEquals:                    "ExpectedEquals",
	ErrExpectedAttributeValue:            "ExpectedAttributeValue",
	ErrExpectedQuote:                     "ExpectedQuote",
	ErrMissingEndTag:                     "MissingEndTag",
	ErrMismatchedEndTag:                  "MismatchedEndTag",
	ErrUnexpectedEndTag:                  "UnexpectedEndTag",
	ErrDuplicateAttribute:                "DuplicateAttribute",
	ErrIllegalCharacter:                  "IllegalCharacter",
	ErrTextOutsideRoot:                   "TextOutsideRoot",
	ErrMissingRootElement:                "MissingRootElement",
	ErrMultipleRootElements:              "MultipleRootElements",
	ErrMisplacedXmlDeclaration:           "MisplacedXmlDeclaration",
	ErrUnterminatedComment:               "UnterminatedComment",
	ErrUnterminatedCData:                 "UnterminatedCData",
	ErrUnterminatedProcessingInstruction: "UnterminatedProcessingInstruction",
	ErrUnterminatedDocType:               "UnterminatedDocType",
	ErrInvalidCommentContent:             "InvalidCommentContent",
}

var errorIDDescriptions = map[ErrorID]string{
	ErrExpectedName:                      "Name expected.",
	ErrExpectedGreater:                   "'>' expected.",
	ErrExpectedEquals:                    "'=' expected after attribute name.",
	ErrExpectedAttributeValue:            "Attribute value expected.",
	ErrExpectedQuote:                     "Closing quote expected.",
	ErrMissingEndTag:                     "Element is not closed.",
	ErrMismatchedEndTag:                  "End tag does not match the start tag.",
	ErrUnexpectedEndTag:                  "End tag has no matching start tag.",
	ErrDuplicateAttribute:                "Attribute appears more than once.",
	ErrIllegalCharacter:                  "Illegal character in tag.",
	ErrTextOutsideRoot:                   "Character data is not allowed outside the root element.",
	ErrMissingRootElement:                "Root element is missing.",
	ErrMultipleRootElements:              "Only one root element is allowed.",
	ErrMisplacedXmlDeclaration:           "XML declaration must be at the very start of the document.",
	ErrUnterminatedComment:               "Comment is not terminated.",
	ErrUnterminatedCData:                 "CDATA section is not terminated.",
	ErrUnterminatedProcessingInstruction: "Processing instruction is not terminated.",
	ErrUnterminatedDocType:               "DOCTYPE declaration is not terminated.",
	ErrInvalidCommentContent:             "'--' is not allowed inside a comment.",
}

func (id ErrorID) String() string {
	if name, ok := errorIDNames[id]; ok {
		return name
	}
	return "Unknown"
}

func (id ErrorID) Description() string {
	return errorIDDescriptions[id]
}

type Diagnostic struct {
	ID      ErrorID
	Message string
}

func (d Diagnostic) String() string {
	return d.ID.String() + ": " + d.Message
}

// LocatedDiagnostic is a diagnostic together with the node carrying it and
// the source range a host should highlight.
type LocatedDiagnostic struct {
	Diagnostic
	Node *Node
	Span Span
}

// CollectDiagnostics returns every diagnostic under n in document order.
// Element diagnostics about the end tag point at the end tag; the rest point
// at the start tag.
func CollectDiagnostics(n *Node) []LocatedDiagnostic {
	var out []LocatedDiagnostic
	n.Walk(func(c *Node) bool {
		for _, d := range c.Diagnostics {
			out = append(out, LocatedDiagnostic{Diagnostic: d, Node: c, Span: diagnosticSpan(c, d.ID)})
		}
		return true
	})
	return out
}

func diagnosticSpan(n *Node, id ErrorID) Span {
	if n.Kind != KindElement {
		return n.Span()
	}
	switch id {
	case ErrMismatchedEndTag, ErrUnexpectedEndTag:
		if tag := n.EndTag(); tag != nil {
			return tag.Span()
		}
	}
	if tag := n.StartTag(); tag != nil {
		return tag.Span()
	}
	return n.Span()
}
