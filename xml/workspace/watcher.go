package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls a directory tree and re-parses files whose modification
// time changed. Files that disappear are removed from the workspace.
type FileWatcher struct {
	workspace    *Workspace
	root         string
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string, doc *Document)
}

// NewFileWatcher watches root. onChange, when not nil, is called after each
// re-parse with the new document, and with a nil document after a removal.
func NewFileWatcher(w *Workspace, root string, onChange func(path string, doc *Document)) *FileWatcher {
	interval := w.Config().PollInterval.Duration
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		workspace:    w,
		root:         root,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.run(ctx)
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
}

func (fw *FileWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()

	fw.scan(ctx)

	for {
		select {
		case <-fw.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			fw.scan(ctx)
		}
	}
}

// Prime records the current modification times without parsing, so the
// first poll only reports files that change afterwards.
func (fw *FileWatcher) Prime() {
	fw.walk(func(path string, info os.FileInfo) {
		fw.modTimes[path] = info.ModTime()
	})
}

func (fw *FileWatcher) walk(fn func(path string, info os.FileInfo)) {
	cfg := fw.workspace.Config()
	filepath.Walk(fw.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != fw.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.Matches(path) {
			fn(path, info)
		}
		return nil
	})
}

func (fw *FileWatcher) scan(ctx context.Context) {
	currentFiles := make(map[string]bool)

	fw.walk(func(path string, info os.FileInfo) {
		currentFiles[path] = true

		lastMod, known := fw.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		fw.modTimes[path] = info.ModTime()
		doc, err := fw.workspace.ScanFile(ctx, path)
		if err != nil {
			log.Warningf("rescan %s: %s", path, err)
			return
		}
		if fw.onChange != nil {
			fw.onChange(path, doc)
		}
	})

	for path := range fw.modTimes {
		if !currentFiles[path] {
			delete(fw.modTimes, path)
			fw.workspace.Remove(path)
			if fw.onChange != nil {
				fw.onChange(path, nil)
			}
		}
	}
}
