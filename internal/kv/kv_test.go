package kv

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormStoreGetMissing(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	v, ok, err := s.Get(context.Background(), "selectedClient")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("expected miss, got %q ok=%v", v, ok)
	}
}

func TestGormStoreSetOverwrites(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()

	if err := s.Set(ctx, "cachedCategories", `[1]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "cachedCategories", `[1,2]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "cachedCategories")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `[1,2]` {
		t.Fatalf("expected overwritten value, got %q", v)
	}
	var count int64
	if err := db.Model(&Entry{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row got %d", count)
	}
}

func TestGormStoreDelete(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected key to be gone")
	}
	// deleting a missing key is not an error
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	var s Store = NewMemoryStore()
	ctx := context.Background()
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss")
	}
	_ = s.Set(ctx, "k", "a")
	_ = s.Set(ctx, "k", "b")
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "b" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
	_ = s.Delete(ctx, "k")
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected key to be gone")
	}
}
