// Package reload keeps the live Resolver behind an atomic pointer so a new
// catalog can replace the old one without readers taking a lock.
package reload

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/resolve"
)

// DefaultDebounce is how long Watch waits for a burst of file events to settle.
const DefaultDebounce = 250 * time.Millisecond

// LoadFunc builds a Resolver from the configured catalog source.
type LoadFunc func(ctx context.Context) (*resolve.Resolver, error)

// Option configures a Holder.
type Option func(*Holder)

// WithOnSwap registers a callback run after every successful load,
// including the initial one.
func WithOnSwap(fn func(*resolve.Resolver)) Option {
	return func(h *Holder) { h.onSwap = fn }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(h *Holder) {
		if d > 0 {
			h.debounce = d
		}
	}
}

// Holder serves the most recently loaded Resolver.
type Holder struct {
	load     LoadFunc
	onSwap   func(*resolve.Resolver)
	debounce time.Duration

	current atomic.Pointer[resolve.Resolver]
	mu      sync.Mutex // serializes Reload
}

// New performs the initial load. Its failure is returned to the caller,
// unlike failures in later reloads.
func New(ctx context.Context, load LoadFunc, opts ...Option) (*Holder, error) {
	if load == nil {
		return nil, eris.New("reload: load func is required")
	}
	h := &Holder{load: load, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(h)
	}

	r, err := load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "reload: initial load")
	}
	h.swap(r)
	return h, nil
}

// Static wraps an already-built Resolver that never reloads.
func Static(r *resolve.Resolver) *Holder {
	h := &Holder{
		load:     func(context.Context) (*resolve.Resolver, error) { return r, nil },
		debounce: DefaultDebounce,
	}
	h.current.Store(r)
	return h
}

func (h *Holder) swap(r *resolve.Resolver) {
	h.current.Store(r)
	if h.onSwap != nil {
		h.onSwap(r)
	}
}

// Resolver returns the live Resolver.
func (h *Holder) Resolver() *resolve.Resolver {
	return h.current.Load()
}

// ResolveOne delegates to the live Resolver.
func (h *Holder) ResolveOne(query string) resolve.MatchResult {
	return h.Resolver().ResolveOne(query)
}

// ListAll delegates to the live Resolver.
func (h *Holder) ListAll() (codes, names []string) {
	return h.Resolver().ListAll()
}

// Suggest delegates to the live Resolver.
func (h *Holder) Suggest(query string, n int) []string {
	return h.Resolver().Suggest(query, n)
}

// Reload rebuilds the Resolver. On failure the previous one keeps serving
// and the error is returned.
func (h *Holder) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	r, err := h.load(ctx)
	if err != nil {
		zap.L().Error("reload: keeping previous catalog", zap.Error(err))
		return eris.Wrap(err, "reload: load catalog")
	}
	h.swap(r)

	zap.L().Info("reload: catalog swapped",
		zap.Int("buildings", r.Catalog().Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Watch reloads whenever the file at path changes, until ctx is cancelled.
// The parent directory is watched so editors that save by rename are seen.
func (h *Holder) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return eris.Wrapf(err, "reload: resolve %s", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "reload: create watcher")
	}
	defer fw.Close() //nolint:errcheck

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return eris.Wrapf(err, "reload: watch %s", filepath.Dir(abs))
	}
	zap.L().Info("reload: watching catalog", zap.String("path", abs))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(h.debounce)
			} else {
				timer.Reset(h.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("reload: watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			_ = h.Reload(ctx)
		}
	}
}
