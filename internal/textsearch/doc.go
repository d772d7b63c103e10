// Package textsearch resolves recordings through progressively looser
// MusicBrainz text queries seeded from existing tags or the filename.
package textsearch
