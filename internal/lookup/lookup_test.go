package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/diewo77/go-salesagent/internal/kv"
)

type counter struct {
	calls atomic.Int32
	value []string
	err   error
}

func (c *counter) fetch(context.Context) ([]string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.value, nil
}

func TestGetFetchesOnceThenServesCache(t *testing.T) {
	store := kv.NewMemoryStore()
	src := &counter{value: []string{"a", "b"}}
	l := New(store, "cats", src.fetch, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := l.Get(ctx, false)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(v) != 2 {
			t.Fatalf("got %v", v)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
	if raw, ok, _ := store.Get(ctx, "cats"); !ok || raw != `["a","b"]` {
		t.Fatalf("persisted %q ok=%v", raw, ok)
	}
}

func TestGetUsesPersistedValueWithoutFetching(t *testing.T) {
	store := kv.NewMemoryStore()
	_ = store.Set(context.Background(), "cats", `["x"]`)
	src := &counter{value: []string{"remote"}}
	l := New(store, "cats", src.fetch, nil)

	v, err := l.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(v) != 1 || v[0] != "x" {
		t.Fatalf("got %v", v)
	}
	if src.calls.Load() != 0 {
		t.Fatal("populated cache must not fetch")
	}
}

func TestForceRefreshAlwaysFetches(t *testing.T) {
	src := &counter{value: []string{"a"}}
	l := New(kv.NewMemoryStore(), "cats", src.fetch, nil)
	ctx := context.Background()
	_, _ = l.Get(ctx, false)
	src.value = []string{"b"}
	v, err := l.Get(ctx, true)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v[0] != "b" || src.calls.Load() != 2 {
		t.Fatalf("got %v after %d calls", v, src.calls.Load())
	}
	if v, _ := l.Get(ctx, false); v[0] != "b" {
		t.Fatalf("refreshed value not cached: %v", v)
	}
}

func TestFailedRefreshKeepsCache(t *testing.T) {
	src := &counter{value: []string{"a"}}
	l := New(kv.NewMemoryStore(), "cats", src.fetch, nil)
	ctx := context.Background()
	_, _ = l.Get(ctx, false)

	boom := errors.New("offline")
	src.err = boom
	if _, err := l.Get(ctx, true); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	v, ok := l.Peek(ctx)
	if !ok || v[0] != "a" {
		t.Fatalf("cache lost after failed refresh: %v ok=%v", v, ok)
	}
}

func TestCorruptValueIsAMiss(t *testing.T) {
	store := kv.NewMemoryStore()
	_ = store.Set(context.Background(), "cats", `{not json`)
	src := &counter{value: []string{"fresh"}}
	l := New(store, "cats", src.fetch, nil)

	if _, ok := l.Peek(context.Background()); ok {
		t.Fatal("corrupt value must not be returned")
	}
	v, err := l.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v[0] != "fresh" || src.calls.Load() != 1 {
		t.Fatalf("expected fetch after corrupt cache, got %v", v)
	}
}

func TestNoFetchFunc(t *testing.T) {
	l := New[string](kv.NewMemoryStore(), "client", nil, nil)
	ctx := context.Background()
	if _, err := l.Get(ctx, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := l.Put(ctx, "C001"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if v, err := l.Get(ctx, false); err != nil || v != "C001" {
		t.Fatalf("got %q err=%v", v, err)
	}
	if err := l.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := l.Peek(ctx); ok {
		t.Fatal("expected miss after invalidate")
	}
}

func TestConcurrentMissesFetchOnce(t *testing.T) {
	src := &counter{value: []string{"a"}}
	l := New(kv.NewMemoryStore(), "cats", src.fetch, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Get(context.Background(), false)
		}()
	}
	wg.Wait()
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("expected a single fetch, got %d", n)
	}
}
