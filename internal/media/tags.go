package media

import "strings"

// Tags holds the canonical metadata for a recording. Zero values mean the
// field is unknown.
type Tags struct {
	Title         string
	Artist        string
	Album         string
	AlbumArtist   string
	Date          string
	TrackNumber   int
	TotalTracks   int
	Genre         string
	Label         string
	CatalogNumber string

	MusicBrainzRecordingID string
	MusicBrainzReleaseID   string
	AcoustIDTrackID        string
}

// Usable reports whether the tags carry enough metadata to identify the
// recording without further lookups. Title and artist are the minimum.
func (t Tags) Usable() bool {
	return strings.TrimSpace(t.Title) != "" && strings.TrimSpace(t.Artist) != ""
}

// Merge returns a copy of t with empty fields filled from other. Existing
// values always win.
func (t Tags) Merge(other Tags) Tags {
	merged := t
	if merged.Title == "" {
		merged.Title = other.Title
	}
	if merged.Artist == "" {
		merged.Artist = other.Artist
	}
	if merged.Album == "" {
		merged.Album = other.Album
	}
	if merged.AlbumArtist == "" {
		merged.AlbumArtist = other.AlbumArtist
	}
	if merged.Date == "" {
		merged.Date = other.Date
	}
	if merged.TrackNumber == 0 {
		merged.TrackNumber = other.TrackNumber
	}
	if merged.TotalTracks == 0 {
		merged.TotalTracks = other.TotalTracks
	}
	if merged.Genre == "" {
		merged.Genre = other.Genre
	}
	if merged.Label == "" {
		merged.Label = other.Label
	}
	if merged.CatalogNumber == "" {
		merged.CatalogNumber = other.CatalogNumber
	}
	if merged.MusicBrainzRecordingID == "" {
		merged.MusicBrainzRecordingID = other.MusicBrainzRecordingID
	}
	if merged.MusicBrainzReleaseID == "" {
		merged.MusicBrainzReleaseID = other.MusicBrainzReleaseID
	}
	if merged.AcoustIDTrackID == "" {
		merged.AcoustIDTrackID = other.AcoustIDTrackID
	}
	return merged
}

// TagStore reads and writes tags in a concrete container format.
type TagStore interface {
	ReadTags(path string) (Tags, error)
	WriteTags(path string, tags Tags) error
}
