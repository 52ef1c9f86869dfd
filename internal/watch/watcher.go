// Package watch maps filesystem events to stale top-level documents and fans
// them out to live-reload subscribers.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/ssiserve/internal/deps"
	"github.com/dgallion1/ssiserve/internal/ssi"
)

const debounceInterval = 100 * time.Millisecond

// Watcher observes a document root and, on each relevant change, looks up the
// affected top-level documents in the dependency index and notifies
// subscribers. Events are debounced so an editor's write burst produces one
// notification.
type Watcher struct {
	fsw   *fsnotify.Watcher
	index *deps.Index
	root  string
	log   *slog.Logger

	mu      sync.Mutex
	subs    map[chan []string]struct{}
	pending map[string]struct{}
	timer   *time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher over root. Start must be called before events flow.
func New(root string, index *deps.Index, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		index:   index,
		root:    root,
		log:     log,
		subs:    make(map[chan []string]struct{}),
		pending: make(map[string]struct{}),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Start launches the event loop.
func (w *Watcher) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-loopCtx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				w.handleEvent(ev)
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "error", err)
			}
		}
	}()
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
		return
	}

	path := ssi.Normalize(ev.Name)

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.index.Forget(path)
	}

	w.queue(w.index.Lookup(path))
}

// queue accumulates affected documents and arms the debounce timer.
func (w *Watcher) queue(docs []string) {
	if len(docs) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, doc := range docs {
		w.pending[doc] = struct{}{}
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(debounceInterval, w.flush)
	} else {
		w.timer.Reset(debounceInterval)
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	docs := make([]string, 0, len(w.pending))
	for doc := range w.pending {
		docs = append(docs, doc)
	}
	w.pending = make(map[string]struct{})

	for ch := range w.subs {
		select {
		case ch <- docs:
		default: // slow subscriber, drop
		}
	}
	w.mu.Unlock()

	w.log.Debug("stale documents", "count", len(docs))
}

// Subscribe registers a reload channel. The caller must Unsubscribe when done.
func (w *Watcher) Subscribe() chan []string {
	ch := make(chan []string, 4)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()
	return ch
}

func (w *Watcher) Unsubscribe(ch chan []string) {
	w.mu.Lock()
	delete(w.subs, ch)
	w.mu.Unlock()
}
