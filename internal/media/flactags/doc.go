// Package flactags implements a media.TagStore backed by FLAC Vorbis
// comment blocks.
package flactags
