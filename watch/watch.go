// Package watch invalidates cached shader compositions when fragment files
// change on disk. It is development tooling: a Watcher observes a shader
// directory through fsnotify and forwards changed fragment paths, relative to
// that directory, to an Invalidator such as oil.Resolver.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Invalidator receives changed fragment paths. *oil.Resolver implements it.
type Invalidator interface {
	Invalidate(path string)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce sets the per-path debounce interval for editors that fire
// several events per save. Defaults to 100ms; zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExtensions restricts which file extensions trigger invalidation.
// Defaults to ".wgsl" only.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) { w.exts = exts }
}

// Watcher maps filesystem events under a base directory to Invalidate calls
// with loader-relative fragment paths.
type Watcher struct {
	base     string
	inv      Invalidator
	logger   *zap.Logger
	debounce time.Duration
	exts     []string

	fsw    *fsnotify.Watcher
	lastMu sync.Mutex
	last   map[string]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Watcher over base and all its subdirectories. base is the
// directory the resolver's loader is rooted at, so event paths translate
// directly into loader paths.
func New(base string, inv Invalidator, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		base:     base,
		inv:      inv,
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
		exts:     []string{".wgsl"},
		fsw:      fsw,
		last:     make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Stop stops the watcher and waits for its event loop to exit.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New subdirectories must be watched too.
	if event.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.Warn("shader watch add failed",
					zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	if !w.watched(event.Name) {
		return
	}
	if w.debounced(event.Name) {
		return
	}

	rel, err := filepath.Rel(w.base, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	fragment := filepath.ToSlash(rel)

	w.logger.Debug("shader fragment changed",
		zap.String("path", fragment), zap.String("op", event.Op.String()))
	w.inv.Invalidate(fragment)
}

// watched reports whether the file's extension is one we care about.
func (w *Watcher) watched(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range w.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// debounced reports whether an event for name arrived inside the debounce
// window and should be dropped.
func (w *Watcher) debounced(name string) bool {
	if w.debounce <= 0 {
		return false
	}
	now := time.Now()
	w.lastMu.Lock()
	defer w.lastMu.Unlock()
	if t, ok := w.last[name]; ok && now.Sub(t) < w.debounce {
		return true
	}
	w.last[name] = now
	return false
}
