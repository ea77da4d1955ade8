// ABOUTME: Inbox watcher that hands newly settled documents to a handler
// ABOUTME: Events arrive on fsnotify's goroutine; documents are handled one at a time
package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/harper/certpost/internal/models"
	"go.uber.org/zap"
)

// DefaultSettle is how long a file must be quiet before it is handled
const DefaultSettle = 750 * time.Millisecond

// HandlerFunc processes one settled document
type HandlerFunc func(ctx context.Context, doc models.Document)

// Watcher watches an inbox directory for new documents
type Watcher struct {
	dir     string
	settle  time.Duration
	match   glob.Glob
	logger  *zap.Logger
	pending map[string]time.Time
	handled map[string]fileStamp
	now     func() time.Time
}

// fileStamp identifies one version of a file on disk
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) fileStamp {
	return fileStamp{modTime: info.ModTime(), size: info.Size()}
}

func (s fileStamp) same(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// NewWatcher creates a watcher for dir; match may be nil
func NewWatcher(dir string, settle time.Duration, match glob.Glob, logger *zap.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:     dir,
		settle:  settle,
		match:   match,
		logger:  logger,
		pending: make(map[string]time.Time),
		handled: make(map[string]fileStamp),
		now:     time.Now,
	}
}

// Run watches until ctx is cancelled, calling handle for each document once its
// writes have settled. handle runs on the calling goroutine. A document still in
// the inbox after handle returns (a failed run) is not handled again until its
// contents change.
func (w *Watcher) Run(ctx context.Context, handle HandlerFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inbox: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching inbox", zap.String("dir", w.dir))

	tick := w.settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.observe(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ticker.C:
			for _, doc := range w.settled() {
				if ctx.Err() != nil {
					return nil
				}
				handle(ctx, doc)
				w.markHandled(doc.Path)
			}
		}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(event.Name)
	if !IsSupported(name) {
		return
	}
	if w.match != nil && !w.match.Match(name) {
		return
	}
	w.pending[event.Name] = w.now()
}

// markHandled remembers the version of path left in the inbox by a handler
func (w *Watcher) markHandled(path string) {
	info, err := os.Stat(path)
	if err != nil {
		delete(w.handled, path)
		return
	}
	w.handled[path] = stampOf(info)
}

// settled removes and returns the pending documents that have been quiet long enough
func (w *Watcher) settled() []models.Document {
	now := w.now()
	var ready []string
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)

	docs := make([]models.Document, 0, len(ready))
	for _, path := range ready {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if stamp, ok := w.handled[path]; ok && stamp.same(stampOf(info)) {
			w.logger.Debug("skipping unchanged document", zap.String("path", path))
			continue
		}
		docs = append(docs, models.NewDocument(path, MimeType(path)))
	}
	return docs
}
