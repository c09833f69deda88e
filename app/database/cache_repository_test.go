package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T, ttl time.Duration) *FetchCacheRepository {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return NewFetchCacheRepository(db, ttl)
}

func TestFetchCachePutAndGet(t *testing.T) {
	repo := newTestRepository(t, time.Hour)

	url := "https://shop.example.com/feed.xml"
	if err := repo.Put(url, []byte("feed body")); err != nil {
		t.Fatal(err)
	}

	body, ok, err := repo.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if string(body) != "feed body" {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestFetchCacheMiss(t *testing.T) {
	repo := newTestRepository(t, time.Hour)

	_, ok, err := repo.Get("https://shop.example.com/unknown.xml")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected a cache miss")
	}
}

func TestFetchCacheExpiry(t *testing.T) {
	// TTL in the past: every entry is immediately stale
	repo := newTestRepository(t, -time.Second)

	url := "https://shop.example.com/feed.xml"
	if err := repo.Put(url, []byte("stale body")); err != nil {
		t.Fatal(err)
	}

	_, ok, err := repo.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected an expired entry to miss")
	}
}

func TestFetchCachePutReplaces(t *testing.T) {
	repo := newTestRepository(t, time.Hour)

	url := "https://shop.example.com/feed.xml"
	if err := repo.Put(url, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Put(url, []byte("new")); err != nil {
		t.Fatal(err)
	}

	body, ok, err := repo.Get(url)
	if err != nil || !ok {
		t.Fatalf("Expected a hit, got ok=%v err=%v", ok, err)
	}
	if string(body) != "new" {
		t.Errorf("Expected the replaced body, got %s", body)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after replace, got %d", count)
	}
}

func TestFetchCachePrune(t *testing.T) {
	repo := newTestRepository(t, -time.Second)

	if err := repo.Put("https://a.example.com/feed.xml", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Put("https://b.example.com/feed.xml", []byte("b")); err != nil {
		t.Fatal(err)
	}

	removed, err := repo.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 pruned entries, got %d", removed)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected an empty cache after prune, got %d", count)
	}
}
