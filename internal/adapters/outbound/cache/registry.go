package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/logging"
)

// Registry wraps a domain.ModelRegistry and reuses Found and NotFound
// answers younger than the TTL. Unavailable answers are never cached.
type Registry struct {
	inner domain.ModelRegistry
	store *Store
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time

	mu sync.Mutex
}

// NewRegistry wraps inner. log may be nil.
func NewRegistry(inner domain.ModelRegistry, store *Store, ttl time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		inner: inner,
		store: store,
		ttl:   ttl,
		log:   logging.OrDiscard(log),
		now:   time.Now,
	}
}

// Lookup serves fresh cache hits and records definitive answers from the
// wrapped registry. Cache read and write failures fall through to inner.
func (r *Registry) Lookup(ctx context.Context, name string) domain.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.store.Load()
	if err != nil {
		r.log.Debug("model cache unreadable", "path", r.store.Path(), "error", err)
		entries = map[string]Entry{}
	}
	if e, ok := entries[name]; ok && r.now().Sub(e.StoredAt) < r.ttl {
		r.log.Debug("model cache hit", "model", name)
		return e.Info()
	}

	info := r.inner.Lookup(ctx, name)
	if info.Status == domain.ModelUnavailable {
		return info
	}

	entries[name] = Entry{Status: info.Status, Tags: info.Tags, Reason: info.Reason, StoredAt: r.now().UTC()}
	if err := r.store.Save(entries); err != nil {
		r.log.Debug("model cache not saved", "path", r.store.Path(), "error", err)
	}
	return info
}

// FromSettings wraps inner with the on-disk cache unless the settings
// disable it or run offline.
func FromSettings(inner domain.ModelRegistry, s domain.Settings, log *slog.Logger) domain.ModelRegistry {
	if s.Offline || s.Hub.CacheTTL <= 0 {
		return inner
	}
	path, err := DefaultPath()
	if err != nil {
		logging.OrDiscard(log).Debug("model cache disabled", "error", err)
		return inner
	}
	return NewRegistry(inner, New(path), s.Hub.CacheTTL, log)
}
