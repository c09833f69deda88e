package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// FetchCacheRepository stores raw fetched feed bodies keyed by URL hash.
// Entries expire after the configured TTL; parse results are never stored
// here, only the bytes that came off the wire.
type FetchCacheRepository struct {
	db  *DB
	ttl time.Duration
}

func NewFetchCacheRepository(db *DB, ttl time.Duration) *FetchCacheRepository {
	return &FetchCacheRepository{db: db, ttl: ttl}
}

func hashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for a URL if present and fresh.
func (r *FetchCacheRepository) Get(url string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt time.Time

	err := r.db.QueryRow(`
		SELECT body, fetched_at FROM fetch_cache WHERE url_hash = ?
	`, hashURL(url)).Scan(&body, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read fetch cache: %w", err)
	}

	if time.Since(fetchedAt) > r.ttl {
		return nil, false, nil
	}

	return body, true, nil
}

// Put stores a freshly fetched body, replacing any stale entry.
func (r *FetchCacheRepository) Put(url string, body []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO fetch_cache (url_hash, url, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (url_hash) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, hashURL(url), url, body, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to write fetch cache: %w", err)
	}

	return nil
}

// Prune removes expired entries.
func (r *FetchCacheRepository) Prune() (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM fetch_cache WHERE fetched_at < ?
	`, time.Now().UTC().Add(-r.ttl))

	if err != nil {
		return 0, fmt.Errorf("failed to prune fetch cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}

	return removed, nil
}

// Count returns the number of cached entries.
func (r *FetchCacheRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fetch cache entries: %w", err)
	}
	return count, nil
}
