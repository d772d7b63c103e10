// Package media describes audio files on disk: their cache identity and
// the tag metadata resolution produces for them.
package media
