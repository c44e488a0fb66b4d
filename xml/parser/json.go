package parser

import "encoding/json"

type jsonNode struct {
	ID          int              `json:"id"`
	Kind        string           `json:"kind"`
	Span        jsonSpan         `json:"span"`
	Token       *jsonToken       `json:"token,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
	Children    []*jsonNode      `json:"children,omitempty"`
}

type jsonSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonToken struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Leading  string `json:"leading,omitempty"`
	Trailing string `json:"trailing,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

type jsonDiagnostic struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		ID:   n.ID,
		Kind: n.Kind.String(),
		Span: jsonSpan{Start: n.FullSpan.Start, End: n.FullSpan.End},
	}

	if n.Token != nil {
		jn.Token = &jsonToken{
			Kind:     n.Token.Kind.String(),
			Text:     n.Token.Text,
			Leading:  triviaText(n.Token.Leading),
			Trailing: triviaText(n.Token.Trailing),
			Missing:  n.Token.Missing,
		}
	}

	for _, d := range n.Diagnostics {
		jn.Diagnostics = append(jn.Diagnostics, jsonDiagnostic{ID: d.ID.String(), Message: d.Message})
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}

func triviaText(tr []Trivia) string {
	s := ""
	for _, t := range tr {
		s += t.Text
	}
	return s
}
