// Package lookup provides a cached remote lookup: a value kept in memory,
// persisted in a kv.Store as JSON and fetched from a remote source only on
// a miss or when the caller forces a refresh.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/apperr"
	"github.com/diewo77/go-salesagent/internal/kv"
)

// ErrNotFound is returned by Get when nothing is cached and there is no
// fetch function to fill the miss.
var ErrNotFound = errors.New("lookup: value not found")

// FetchFunc loads the authoritative value from the remote source.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Lookup caches a single value under key. A corrupt persisted value is
// logged and treated as a miss.
type Lookup[V any] struct {
	store kv.Store
	key   string
	fetch FetchFunc[V]
	log   *zap.Logger

	mu     sync.RWMutex
	value  V
	loaded bool

	// serializes loads so concurrent misses fetch once
	loadMu sync.Mutex
}

// New creates a lookup. fetch may be nil for values that are only written
// locally (Put) and never fetched.
func New[V any](store kv.Store, key string, fetch FetchFunc[V], log *zap.Logger) *Lookup[V] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lookup[V]{store: store, key: key, fetch: fetch, log: log.With(zap.String("key", key))}
}

func (l *Lookup[V]) Key() string { return l.key }

// Get returns the cached value, loading it from the store or fetching it
// remotely on a miss. forceRefresh always fetches. On a failed fetch the
// cache is left as it was.
func (l *Lookup[V]) Get(ctx context.Context, forceRefresh bool) (V, error) {
	if !forceRefresh {
		if v, ok := l.memory(); ok {
			return v, nil
		}
	}

	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	if !forceRefresh {
		// another caller may have filled it while we waited
		if v, ok := l.memory(); ok {
			return v, nil
		}
		v, ok, err := l.load(ctx)
		if err != nil {
			var zero V
			return zero, err
		}
		if ok {
			l.remember(v)
			return v, nil
		}
	}

	if l.fetch == nil {
		var zero V
		return zero, ErrNotFound
	}
	l.log.Debug("fetching", zap.Bool("force", forceRefresh))
	v, err := l.fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	if err := l.persist(ctx, v); err != nil {
		// the fetched value is still good for this process
		l.log.Warn("persist fetched value", zap.Error(err))
	}
	l.remember(v)
	return v, nil
}

// Peek returns the cached value without fetching. Store errors and corrupt
// entries report ok=false.
func (l *Lookup[V]) Peek(ctx context.Context) (V, bool) {
	if v, ok := l.memory(); ok {
		return v, true
	}
	v, ok, err := l.load(ctx)
	if err != nil {
		l.log.Warn("peek", zap.Error(err))
		var zero V
		return zero, false
	}
	if ok {
		l.remember(v)
	}
	return v, ok
}

// Put overwrites the cached value in the store and in memory.
func (l *Lookup[V]) Put(ctx context.Context, v V) error {
	if err := l.persist(ctx, v); err != nil {
		return err
	}
	l.remember(v)
	return nil
}

// Invalidate forgets the value in memory and in the store.
func (l *Lookup[V]) Invalidate(ctx context.Context) error {
	l.mu.Lock()
	var zero V
	l.value, l.loaded = zero, false
	l.mu.Unlock()
	return l.store.Delete(ctx, l.key)
}

func (l *Lookup[V]) memory() (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.loaded
}

func (l *Lookup[V]) remember(v V) {
	l.mu.Lock()
	l.value, l.loaded = v, true
	l.mu.Unlock()
}

// load reads the persisted value. A value that does not decode is logged
// and reported as absent.
func (l *Lookup[V]) load(ctx context.Context) (V, bool, error) {
	var v V
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		l.log.Warn("discarding cached value", zap.Error(apperr.NewCacheCorruption(l.key, err)))
		var zero V
		return zero, false, nil
	}
	return v, true, nil
}

func (l *Lookup[V]) persist(ctx context.Context, v V) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	return l.store.Set(ctx, l.key, string(b))
}
