// Package workspace keeps parsed XML documents for long-running hosts. It
// re-parses a document whenever its text changes, cancelling a parse of the
// same document that is still running, scans directories in parallel and
// serves the language server in lsp.go.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/xmlsyntax/xml/linecol"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

var log = commonlog.GetLogger("xmlsyntax.workspace")

// ErrSuperseded is returned by Update when a newer update of the same
// document started before the parse finished.
var ErrSuperseded = errors.New("superseded by a newer update")

type Document struct {
	Path    string
	Text    string
	Root    *parser.Node
	Version int32

	index *linecol.Index
}

// Index returns the line table of the document text.
func (d *Document) Index() *linecol.Index {
	return d.index
}

// Diagnostics returns the located diagnostics of the document.
func (d *Document) Diagnostics() []parser.LocatedDiagnostic {
	return parser.CollectDiagnostics(d.Root)
}

type pending struct {
	generation uint64
	cancel     context.CancelFunc
}

type Workspace struct {
	mu         sync.RWMutex
	config     Config
	docs       map[string]*Document
	inFlight   map[string]pending
	generation uint64
}

func New(cfg Config) *Workspace {
	return &Workspace{
		config:   cfg,
		docs:     make(map[string]*Document),
		inFlight: make(map[string]pending),
	}
}

func (w *Workspace) Config() Config {
	return w.config
}

// Update parses text and stores it as the current document for path.
func (w *Workspace) Update(ctx context.Context, path, text string, version int32) (*Document, error) {
	ctx, gen, done := w.begin(ctx, path)
	defer done()

	root, err := parser.ParseContext(ctx, text)
	if err != nil {
		if w.current(path, gen) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return nil, ErrSuperseded
	}
	doc := &Document{
		Path:    path,
		Text:    text,
		Root:    root,
		Version: version,
		index:   linecol.NewIndex(text),
	}
	return doc, w.commit(doc, gen)
}

// ScanFile reads path using the configured encoding and stores the result.
// The stored text is the decoded text.
func (w *Workspace) ScanFile(ctx context.Context, path string) (*Document, error) {
	enc, err := w.config.DecoderEncoding()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, gen, done := w.begin(ctx, path)
	defer done()

	root, err := parser.ParseReader(f, parser.WithContext(ctx), parser.WithEncoding(enc))
	if err != nil {
		if !w.current(path, gen) {
			return nil, ErrSuperseded
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	text := root.ToFullString()
	doc := &Document{
		Path:  path,
		Text:  text,
		Root:  root,
		index: linecol.NewIndex(text),
	}
	return doc, w.commit(doc, gen)
}

// begin cancels any parse of path still running and registers a new one.
func (w *Workspace) begin(ctx context.Context, path string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	if prev, ok := w.inFlight[path]; ok {
		prev.cancel()
		log.Debugf("cancelled parse of %s", path)
	}
	w.generation++
	gen := w.generation
	w.inFlight[path] = pending{generation: gen, cancel: cancel}
	w.mu.Unlock()

	return ctx, gen, func() {
		cancel()
		w.mu.Lock()
		if p, ok := w.inFlight[path]; ok && p.generation == gen {
			delete(w.inFlight, path)
		}
		w.mu.Unlock()
	}
}

func (w *Workspace) current(path string, gen uint64) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.inFlight[path]
	return ok && p.generation == gen
}

func (w *Workspace) commit(doc *Document, gen uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.inFlight[doc.Path]; !ok || p.generation != gen {
		return ErrSuperseded
	}
	w.docs[doc.Path] = doc
	return nil
}

func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.inFlight[path]; ok {
		p.cancel()
		delete(w.inFlight, path)
	}
	delete(w.docs, path)
}

func (w *Workspace) Get(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Paths returns the stored document paths in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.docs))
	for path := range w.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// NodeAt returns the deepest node at the 1-based line and column of the
// stored document.
func (w *Workspace) NodeAt(path string, line, column int) (*parser.Node, error) {
	doc := w.Get(path)
	if doc == nil {
		return nil, fmt.Errorf("%s: not open", path)
	}
	offset := doc.Index().OffsetOf(line, column)
	node := parser.FindNode(doc.Root, offset)
	if node == nil {
		return nil, fmt.Errorf("%s:%d:%d: position out of range", path, line, column)
	}
	return node, nil
}

// ScanAll parses the given files and every matching file below the given
// directories, using up to Config.Jobs goroutines. Documents are returned in
// the order the paths were found.
func (w *Workspace) ScanAll(ctx context.Context, paths ...string) ([]*Document, error) {
	files, err := w.collect(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := w.config.Jobs
	if jobs <= 0 {
		jobs = DefaultConfig().Jobs
	}

	docs := make([]*Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			doc, err := w.ScanFile(gctx, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Infof("scanned %d files", len(files))
	return docs, nil
}

// collect expands directories into the matching files below them. Hidden
// directories are skipped; explicitly named files are kept regardless of
// their extension.
func (w *Workspace) collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if w.config.Matches(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
