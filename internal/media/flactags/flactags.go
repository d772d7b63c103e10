package flactags

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"stylus/internal/media"
	"stylus/internal/services"
)

// ErrUnsupportedFormat is returned for files this store cannot handle.
// Only FLAC containers are supported.
var ErrUnsupportedFormat = errors.New("unsupported container format")

// Vorbis comment field names without a flacvorbis constant.
const (
	fieldAlbumArtist   = "ALBUMARTIST"
	fieldTotalTracks   = "TOTALTRACKS"
	fieldLabel         = "LABEL"
	fieldCatalogNumber = "CATALOGNUMBER"
	fieldMBRecordingID = "MUSICBRAINZ_TRACKID"
	fieldMBReleaseID   = "MUSICBRAINZ_ALBUMID"
	fieldAcoustID      = "ACOUSTID_ID"
)

// Store reads and writes tags for FLAC files.
type Store struct{}

// New returns a FLAC tag store.
func New() *Store {
	return &Store{}
}

var _ media.TagStore = (*Store)(nil)

// ReadTags extracts tags from the file's Vorbis comment block. A FLAC file
// without one yields zero tags and no error.
func (s *Store) ReadTags(path string) (media.Tags, error) {
	if !isFLAC(path) {
		return media.Tags{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	file, err := flac.ParseFile(path)
	if err != nil {
		return media.Tags{}, services.Wrap(services.ErrUnreadableFile, "flactags", "read", "parse flac", err)
	}

	comment, err := findComment(file)
	if err != nil {
		return media.Tags{}, services.Wrap(services.ErrUnreadableFile, "flactags", "read", "decode vorbis comment", err)
	}
	if comment == nil {
		return media.Tags{}, nil
	}

	tags := media.Tags{
		Title:                  first(comment, flacvorbis.FIELD_TITLE),
		Artist:                 first(comment, flacvorbis.FIELD_ARTIST),
		Album:                  first(comment, flacvorbis.FIELD_ALBUM),
		AlbumArtist:            first(comment, fieldAlbumArtist),
		Date:                   first(comment, flacvorbis.FIELD_DATE),
		Genre:                  first(comment, flacvorbis.FIELD_GENRE),
		Label:                  first(comment, fieldLabel),
		CatalogNumber:          first(comment, fieldCatalogNumber),
		MusicBrainzRecordingID: first(comment, fieldMBRecordingID),
		MusicBrainzReleaseID:   first(comment, fieldMBReleaseID),
		AcoustIDTrackID:        first(comment, fieldAcoustID),
	}
	if raw := first(comment, flacvorbis.FIELD_TRACKNUMBER); raw != "" {
		tags.TrackNumber = parseTrackNumber(raw)
	}
	if raw := first(comment, fieldTotalTracks); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			tags.TotalTracks = n
		}
	}
	return tags, nil
}

// WriteTags replaces the file's Vorbis comment block with one built from
// tags. Other metadata blocks, including pictures, are preserved.
func (s *Store) WriteTags(path string, tags media.Tags) error {
	if !isFLAC(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	file, err := flac.ParseFile(path)
	if err != nil {
		return services.Wrap(services.ErrUnreadableFile, "flactags", "write", "parse flac", err)
	}

	kept := make([]*flac.MetaDataBlock, 0, len(file.Meta))
	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			kept = append(kept, block)
		}
	}
	file.Meta = kept

	comment := flacvorbis.New()
	addField(comment, flacvorbis.FIELD_TITLE, tags.Title)
	addField(comment, flacvorbis.FIELD_ARTIST, tags.Artist)
	addField(comment, flacvorbis.FIELD_ALBUM, tags.Album)
	addField(comment, fieldAlbumArtist, tags.AlbumArtist)
	addField(comment, flacvorbis.FIELD_DATE, tags.Date)
	addField(comment, flacvorbis.FIELD_GENRE, tags.Genre)
	addField(comment, fieldLabel, tags.Label)
	addField(comment, fieldCatalogNumber, tags.CatalogNumber)
	addField(comment, fieldMBRecordingID, tags.MusicBrainzRecordingID)
	addField(comment, fieldMBReleaseID, tags.MusicBrainzReleaseID)
	addField(comment, fieldAcoustID, tags.AcoustIDTrackID)
	if tags.TrackNumber > 0 {
		addField(comment, flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(tags.TrackNumber))
	}
	if tags.TotalTracks > 0 {
		addField(comment, fieldTotalTracks, strconv.Itoa(tags.TotalTracks))
	}

	block := comment.Marshal()
	file.Meta = append(file.Meta, &block)

	if err := file.Save(path); err != nil {
		return services.Wrap(services.ErrUnreadableFile, "flactags", "write", "save flac", err)
	}
	return nil
}

func isFLAC(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".flac")
}

func findComment(file *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, err
		}
		return comment, nil
	}
	return nil, nil
}

func first(comment *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := comment.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func addField(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	comment.Add(field, value)
}

// parseTrackNumber accepts both "7" and the "7/12" form some taggers write.
func parseTrackNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		raw = raw[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
