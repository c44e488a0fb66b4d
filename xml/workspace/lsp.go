package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// CommandValidText returns the text of the validity projection of the
// document whose URI is the first argument.
const CommandValidText = "xmlsyntax.validText"

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	name      string
	version   string
}

func NewLSPServer(cfg Config, version string) *LSPServer {
	ls := &LSPServer{
		workspace: New(cfg),
		name:      cfg.LSP.Name,
		version:   version,
	}
	if ls.name == "" {
		ls.name = DefaultConfig().LSP.Name
	}

	ls.handler = protocol.Handler{
		Initialize:                    ls.initialize,
		Initialized:                   ls.initialized,
		Shutdown:                      ls.shutdown,
		SetTrace:                      ls.setTrace,
		TextDocumentDidOpen:           ls.textDocumentDidOpen,
		TextDocumentDidChange:         ls.textDocumentDidChange,
		TextDocumentDidClose:          ls.textDocumentDidClose,
		TextDocumentHover:             ls.textDocumentHover,
		TextDocumentDocumentHighlight: ls.textDocumentDocumentHighlight,
		WorkspaceExecuteCommand:       ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, ls.name, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) Workspace() *Workspace {
	return ls.workspace
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandValidText},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ls.name,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("%s %s initialized", ls.name, ls.version)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, textChange.Text, params.TextDocument.Version)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Remove(path)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// update re-parses the document and publishes its diagnostics. A parse
// superseded by a newer change publishes nothing.
func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string, version protocol.Integer) {
	path, err := uriToPath(uri)
	if err != nil {
		log.Warningf("bad uri %s: %s", uri, err)
		return
	}
	doc, err := ls.workspace.Update(context.Background(), path, text, version)
	if errors.Is(err, ErrSuperseded) {
		return
	}
	if err != nil {
		log.Errorf("update %s: %s", path, err)
		return
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiagnostics(doc, ls.name),
	}
	if v, err := safecast.Conv[protocol.UInteger](version); err == nil {
		params.Version = &v
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// nodeAt returns the document and the node under an LSP position.
func (ls *LSPServer) nodeAt(params protocol.TextDocumentPositionParams) (*Document, *parser.Node) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.Get(path)
	if doc == nil {
		return nil, nil
	}
	offset := positionToOffset(doc.Index(), doc.Text, params.Position)
	return doc, parser.FindNode(doc.Root, offset)
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, node := ls.nodeAt(params.TextDocumentPositionParams)
	if node == nil {
		return nil, nil
	}
	hover := format.NewHover(doc.Index(), node)
	rng := spanToRange(doc.Index(), doc.Text, node.FullSpan)
	return &protocol.Hover{
		Contents: hoverContent(hover),
		Range:    &rng,
	}, nil
}

func (ls *LSPServer) textDocumentDocumentHighlight(ctx *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	doc, node := ls.nodeAt(params.TextDocumentPositionParams)
	if node == nil {
		return nil, nil
	}
	kind := protocol.DocumentHighlightKindText
	return []protocol.DocumentHighlight{{
		Range: spanToRange(doc.Index(), doc.Text, node.Span()),
		Kind:  &kind,
	}}, nil
}

func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandValidText {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("%s: expected a document URI", params.Command)
	}
	uri, ok := params.Arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("%s: expected a document URI, got %T", params.Command, params.Arguments[0])
	}
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}
	doc := ls.workspace.Get(path)
	if doc == nil {
		return nil, fmt.Errorf("%s: document is not open", uri)
	}
	return parser.RemoveInvalid(doc.Root).ToFullString(), nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
