package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stylus/internal/services"
)

// Identity captures the attributes of a file that make cached resolutions
// valid. Content is deliberately not hashed; a file that changes size or
// modification time is treated as a different file.
type Identity struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stat resolves a path to its identity. The path is made absolute so the
// same file always yields the same cache key regardless of working
// directory.
func Stat(path string) (Identity, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Identity{}, services.Wrap(services.ErrUnreadableFile, "media", "stat", "resolve path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Identity{}, services.Wrap(services.ErrUnreadableFile, "media", "stat", "stat file", err)
	}
	if info.IsDir() {
		return Identity{}, services.Wrap(services.ErrUnreadableFile, "media", "stat", "path is a directory", nil)
	}
	return Identity{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// CacheKey derives the stable cache key for this identity. Any change to
// path, size, or modification time produces a different key.
func (id Identity) CacheKey() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s\x00%d\x00%d", id.Path, id.Size, id.ModTime.UnixNano()))
	return hex.EncodeToString(sum[:])
}
