// Package importer consumes media files dropped into an import
// directory, feeding them through the ingest pipeline.
//
// The directory is a drop folder: files are ingested and then removed
// from it, so nothing is imported twice. Only files with a known
// media extension are picked up; anything else is left alone.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"media-player/internal/filesystem"
	"media-player/internal/ingest"
	"media-player/internal/logging"
	"media-player/internal/mediatypes"
)

// settleDelay is how long a file must stay quiet after its last write
// event before we assume the copy into the drop folder has finished.
const settleDelay = 500 * time.Millisecond

// Importer watches a drop folder and ingests media files placed in it.
type Importer struct {
	dir string
	ing *ingest.Ingestor

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New starts watching dir, after ingesting any files already present.
func New(dir string, ing *ingest.Ingestor) (*Importer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	imp := &Importer{
		dir:     dir,
		ing:     ing,
		watcher: watcher,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}

	imp.scan()

	imp.wg.Add(1)
	go imp.run()

	logging.Info("importer: watching %s", dir)
	return imp, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (imp *Importer) Close() error {
	imp.closeOnce.Do(func() {
		close(imp.done)

		imp.mu.Lock()
		for path, timer := range imp.pending {
			timer.Stop()
			delete(imp.pending, path)
		}
		imp.mu.Unlock()

		imp.closeErr = imp.watcher.Close()
		imp.wg.Wait()
	})
	return imp.closeErr
}

// scan ingests whatever already sits in the drop folder.
func (imp *Importer) scan() {
	entries, err := os.ReadDir(imp.dir)
	if err != nil {
		logging.Warn("importer: scanning %s: %v", imp.dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		imp.ingestFile(filepath.Join(imp.dir, e.Name()))
	}
}

func (imp *Importer) run() {
	defer imp.wg.Done()

	for {
		select {
		case event, ok := <-imp.watcher.Events:
			if !ok {
				return
			}
			imp.handleEvent(event)
		case err, ok := <-imp.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("importer: watcher error: %v", err)
		case <-imp.done:
			return
		}
	}
}

// handleEvent schedules ingestion once a created or written file has
// settled. Each new write resets the file's timer, so a slow copy is
// not picked up mid-transfer.
func (imp *Importer) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !eligible(event.Name) {
		return
	}

	path := event.Name

	imp.mu.Lock()
	defer imp.mu.Unlock()

	if timer, ok := imp.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	imp.pending[path] = time.AfterFunc(settleDelay, func() {
		imp.mu.Lock()
		delete(imp.pending, path)
		imp.mu.Unlock()

		select {
		case <-imp.done:
			return
		default:
		}
		imp.ingestFile(path)
	})
}

// ingestFile runs one file through the pipeline and consumes it from
// the drop folder on success.
func (imp *Importer) ingestFile(path string) {
	if !eligible(path) {
		return
	}
	if info, err := filesystem.Stat(path, filesystem.DefaultRetryConfig()); err != nil || info.IsDir() {
		return
	}

	entry, err := imp.ing.FromFile(path)
	if err != nil {
		logging.Warn("importer: ingesting %s: %v", path, err)
		return
	}

	if err := os.Remove(path); err != nil {
		logging.Warn("importer: removing imported %s: %v", path, err)
	}
	logging.Info("importer: imported %s as %s", filepath.Base(path), entry.ID)
}

// eligible reports whether a path has a known media extension.
func eligible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := mediatypes.MimeTypes[ext]
	return ok
}
