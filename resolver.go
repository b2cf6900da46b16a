package oil

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/naga"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/oil/compose"
	"github.com/gogpu/oil/graph"
	"github.com/gogpu/oil/macro"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithValidation controls whether composed output is parsed with naga before
// being cached. Enabled by default; disable when the downstream pipeline
// builder runs its own compile anyway and setup latency matters.
func WithValidation(enabled bool) Option {
	return func(r *Resolver) { r.validate = enabled }
}

// WithLimits sets the binding-slot limits the pipeline builder allows.
// The zero value disables the check.
func WithLimits(limits compose.Limits) Option {
	return func(r *Resolver) { r.limits = limits }
}

// WithLogger sets the logger for cache and resolution events.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// Resolver composes shaders and memoizes results per (root, environment).
// It is safe for concurrent use; concurrent Resolve calls for the same key
// share a single in-flight computation.
type Resolver struct {
	loader   Loader
	validate bool
	limits   compose.Limits
	logger   *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*ComposedShader
	byPath  map[string]map[string]struct{} // fragment path -> cache keys containing it

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResolver returns a Resolver reading fragments through loader.
func NewResolver(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader:   loader,
		validate: true,
		logger:   zap.NewNop(),
		entries:  make(map[string]*ComposedShader),
		byPath:   make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve composes the shader rooted at root under env, returning a cached
// result when one exists for an equal (root, env) pair. A nil env is empty.
// Failed resolutions are never cached; resolving again without changing
// inputs reproduces the same error.
func (r *Resolver) Resolve(root string, env *macro.Env) (*ComposedShader, error) {
	key := cacheKey(root, env)

	if shader := r.lookup(key); shader != nil {
		r.hits.Add(1)
		r.logger.Debug("shader cache hit", zap.String("root", root))
		return shader, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if shader := r.lookup(key); shader != nil {
			r.hits.Add(1)
			return shader, nil
		}
		r.misses.Add(1)
		return r.resolve(key, root, env)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ComposedShader), nil
}

// Invalidate drops every cached composition whose graph included path.
// Called by a file-watching collaborator when a fragment changes on disk.
func (r *Resolver) Invalidate(path string) {
	path = graph.Normalize(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := r.byPath[path]
	if len(keys) == 0 {
		return
	}
	dropped := 0
	for key := range keys {
		shader := r.entries[key]
		if shader == nil {
			continue
		}
		delete(r.entries, key)
		dropped++
		for _, fragment := range shader.Fragments {
			if set := r.byPath[fragment]; set != nil {
				delete(set, key)
				if len(set) == 0 {
					delete(r.byPath, fragment)
				}
			}
		}
	}
	r.logger.Debug("shader cache invalidated",
		zap.String("path", path), zap.Int("dropped", dropped))
}

// Stats reports cache counters.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Stats returns a snapshot of the cache counters.
func (r *Resolver) Stats() Stats {
	r.mu.RLock()
	entries := len(r.entries)
	r.mu.RUnlock()
	return Stats{Entries: entries, Hits: r.hits.Load(), Misses: r.misses.Load()}
}

func (r *Resolver) lookup(key string) *ComposedShader {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[key]
}

// resolve runs one full composition and commits it to the cache.
func (r *Resolver) resolve(key, root string, env *macro.Env) (*ComposedShader, error) {
	g, err := graph.Build(root, r.loader)
	if err != nil {
		return nil, err
	}
	result, err := compose.Compose(g, env, compose.Options{Limits: r.limits})
	if err != nil {
		return nil, err
	}
	if r.validate {
		if _, err := naga.Parse(result.Source); err != nil {
			return nil, fmt.Errorf("composed shader %q is not valid WGSL: %w", root, err)
		}
	}

	fragments := make([]string, len(g.Order))
	for i, f := range g.Order {
		fragments[i] = f.Path
	}
	shader := &ComposedShader{
		Root:        graph.Normalize(root),
		Env:         env.Clone(),
		Source:      result.Source,
		EntryPoints: result.EntryPoints,
		Bindings:    result.Bindings,
		Fragments:   fragments,
	}

	r.mu.Lock()
	r.entries[key] = shader
	for _, fragment := range fragments {
		set := r.byPath[fragment]
		if set == nil {
			set = make(map[string]struct{})
			r.byPath[fragment] = set
		}
		set[key] = struct{}{}
	}
	r.mu.Unlock()

	r.logger.Debug("shader composed",
		zap.String("root", root),
		zap.Int("fragments", len(fragments)),
		zap.Int("bytes", len(shader.Source)))
	return shader, nil
}

// cacheKey identifies a resolution by normalized root path and environment
// value. Environments with equal bindings share a key regardless of
// construction order.
func cacheKey(root string, env *macro.Env) string {
	return graph.Normalize(root) + "\x00" + env.Key()
}
