// Package resolvecache persists resolved identifications in SQLite so a
// file is only pushed through the cascade once. Keys bind to path, size,
// and mtime; touching a file invalidates its entry naturally.
package resolvecache
