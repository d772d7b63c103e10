package resolvecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylus/internal/logging"
	"stylus/internal/media"
	"stylus/internal/resolver"
)

// Get looks up a prior resolution for the file's current identity. Expired
// entries behave as misses and are left for Prune. Storage failures degrade
// to a miss so a broken cache never blocks identification.
func (s *Store) Get(ctx context.Context, identity media.Identity) (*resolver.Result, bool, error) {
	ctx = ensureContext(ctx)
	key := identity.CacheKey()

	var (
		payload   string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT result, expires_at FROM resolutions WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		s.logger.Warn("cache read failed, treating as miss",
			logging.String(logging.FieldPath, identity.Path), logging.Error(err))
		return nil, false, nil
	}

	if expiresAt.Valid && time.Unix(expiresAt.Int64, 0).Before(time.Now()) {
		return nil, false, nil
	}

	var result resolver.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		s.logger.Warn("cache entry corrupt, treating as miss",
			logging.String(logging.FieldPath, identity.Path), logging.Error(err))
		return nil, false, nil
	}
	result.FromCache = true
	return &result, true, nil
}

// Put upserts the resolution for the file's identity.
func (s *Store) Put(ctx context.Context, identity media.Identity, result *resolver.Result) error {
	if result == nil {
		return errors.New("nil result")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	now := time.Now()
	var expiresAt any
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl).Unix()
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO resolutions (key, path, result, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   path = excluded.path,
		   result = excluded.result,
		   created_at = excluded.created_at,
		   expires_at = excluded.expires_at`,
		identity.CacheKey(), identity.Path, string(payload), now.Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("store resolution: %w", err)
	}
	return nil
}

// Invalidate removes entries whose path starts with prefix. An empty prefix
// purges the whole cache. Returns the number of rows removed.
func (s *Store) Invalidate(ctx context.Context, prefix string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if strings.TrimSpace(prefix) == "" {
		res, err = s.execWithRetry(ctx, "DELETE FROM resolutions")
	} else {
		res, err = s.execWithRetry(ctx,
			"DELETE FROM resolutions WHERE path LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	if err != nil {
		return 0, fmt.Errorf("invalidate cache: %w", err)
	}
	return res.RowsAffected()
}

// Prune deletes expired entries. Returns the number of rows removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM resolutions WHERE expires_at IS NOT NULL AND expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes cache occupancy.
type Stats struct {
	Entries int64
	Expired int64
	Oldest  time.Time
	Newest  time.Time
}

// Stats reports entry counts and the creation time range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var (
		stats  Stats
		oldest sql.NullInt64
		newest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), MIN(created_at), MAX(created_at) FROM resolutions",
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM resolutions WHERE expires_at IS NOT NULL AND expires_at < ?",
		time.Now().Unix(),
	).Scan(&stats.Expired)
	if err != nil {
		return Stats{}, fmt.Errorf("count expired entries: %w", err)
	}
	return stats, nil
}

// Entry is a cache row summary for listings.
type Entry struct {
	Key       string
	Path      string
	Status    resolver.Status
	Title     string
	Artist    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Entries lists cached resolutions, newest first. limit <= 0 lists all.
func (s *Store) Entries(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := "SELECT key, path, result, created_at, expires_at FROM resolutions ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			payload   string
			createdAt int64
			expiresAt sql.NullInt64
		)
		if err := rows.Scan(&entry.Key, &entry.Path, &payload, &createdAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entry.CreatedAt = time.Unix(createdAt, 0)
		if expiresAt.Valid {
			entry.ExpiresAt = time.Unix(expiresAt.Int64, 0)
		}
		var result resolver.Result
		if err := json.Unmarshal([]byte(payload), &result); err == nil {
			entry.Status = result.Status
			if result.Chosen != nil {
				entry.Title = result.Chosen.Tags.Title
				entry.Artist = result.Chosen.Tags.Artist
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in a literal path prefix.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
