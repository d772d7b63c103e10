package media_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stylus/internal/media"
	"stylus/internal/services"
)

func TestStatProducesStableCacheKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	first, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	second, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if first.CacheKey() != second.CacheKey() {
		t.Fatal("expected identical cache keys for unchanged file")
	}
	if len(first.CacheKey()) != 64 {
		t.Fatalf("expected hex sha256 key, got %q", first.CacheKey())
	}
}

func TestCacheKeyChangesWithSizeAndModTime(t *testing.T) {
	base := media.Identity{Path: "/music/track.flac", Size: 1000, ModTime: time.Unix(1700000000, 0)}

	grown := base
	grown.Size = 1001
	if base.CacheKey() == grown.CacheKey() {
		t.Fatal("expected size change to change cache key")
	}

	touched := base
	touched.ModTime = base.ModTime.Add(time.Nanosecond)
	if base.CacheKey() == touched.CacheKey() {
		t.Fatal("expected mtime change to change cache key")
	}

	moved := base
	moved.Path = "/music/other.flac"
	if base.CacheKey() == moved.CacheKey() {
		t.Fatal("expected path change to change cache key")
	}
}

func TestStatMissingFile(t *testing.T) {
	_, err := media.Stat(filepath.Join(t.TempDir(), "absent.flac"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrUnreadableFile) {
		t.Fatalf("expected unreadable file marker, got %v", err)
	}
}

func TestStatRejectsDirectory(t *testing.T) {
	_, err := media.Stat(t.TempDir())
	if !errors.Is(err, services.ErrUnreadableFile) {
		t.Fatalf("expected unreadable file marker for directory, got %v", err)
	}
}
