// Package watcher ingests PDF files dropped into an inbox directory.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsage-labs/docsage/internal/core/ports/driving"
	"github.com/docsage-labs/docsage/internal/logger"
)

// settleDelay is how long a file must be quiet before ingestion. Large
// PDFs arrive as a create followed by a stream of writes; ingesting on
// the first event would read a partial file.
const settleDelay = 500 * time.Millisecond

// Watcher monitors a directory and ingests every new or modified PDF.
// Ingestion failures are logged and skipped; a bad file never stops the
// watch loop.
type Watcher struct {
	ingestor driving.Ingestor
	dir      string
	settle   time.Duration
}

// New creates a watcher over the given directory.
func New(ingestor driving.Ingestor, dir string) *Watcher {
	return &Watcher{
		ingestor: ingestor,
		dir:      dir,
		settle:   settleDelay,
	}
}

// Run watches the directory until the context is cancelled. Files
// already present when the watch starts are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	logger.Info("watching %s for PDF files", w.dir)

	w.ingestExisting(ctx)

	// pending tracks files waiting for their settle timer to expire.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isPDF(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

// ingestExisting ingests PDFs already sitting in the inbox.
func (w *Watcher) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("reading inbox %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// ingestFile reads and ingests one PDF. Errors are logged, not returned.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	name := filepath.Base(path)
	receipt, err := w.ingestor.IngestPDF(ctx, name, data)
	if err != nil {
		logger.Warn("ingesting %s: %v", name, err)
		return
	}
	logger.Info("ingested %s (%d chunks)", receipt.DocumentName, receipt.ChunksWritten)
}

// isPDF reports whether the path has a .pdf extension.
func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
