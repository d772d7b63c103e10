// Package musicbrainz queries the MusicBrainz web service for recording
// and release metadata.
package musicbrainz
