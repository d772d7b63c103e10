package flactags_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stylus/internal/media"
	"stylus/internal/media/flactags"
)

// writeMinimalFLAC writes a FLAC container with an empty STREAMINFO block
// and no audio frames. Enough structure for tag round trips.
func writeMinimalFLAC(t *testing.T, path string) {
	t.Helper()
	data := make([]byte, 0, 42)
	data = append(data, 'f', 'L', 'a', 'C')
	data = append(data, 0x80, 0x00, 0x00, 0x22)
	data = append(data, make([]byte, 34)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write flac: %v", err)
	}
}

func TestWriteThenReadTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	writeMinimalFLAC(t, path)

	store := flactags.New()
	want := media.Tags{
		Title:                  "So What",
		Artist:                 "Miles Davis",
		Album:                  "Kind of Blue",
		AlbumArtist:            "Miles Davis",
		Date:                   "1959",
		TrackNumber:            1,
		TotalTracks:            5,
		Genre:                  "Jazz",
		Label:                  "Columbia",
		CatalogNumber:          "CL 1355",
		MusicBrainzRecordingID: "c8f93a45-5b4b-4f3f-ba92-9e4e1e2a33b2",
		MusicBrainzReleaseID:   "e0f47a53-8af8-4d43-9b13-1cbb57e93084",
		AcoustIDTrackID:        "9ff43b6a-4f16-427c-93c2-92307ca505e0",
	}
	if err := store.WriteTags(path, want); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	got, err := store.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if got != want {
		t.Fatalf("tag round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriteTagsSkipsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	writeMinimalFLAC(t, path)

	store := flactags.New()
	if err := store.WriteTags(path, media.Tags{Title: "Solo", Artist: "Keith Jarrett"}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}
	got, err := store.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if got.Album != "" || got.TrackNumber != 0 || got.CatalogNumber != "" {
		t.Fatalf("expected empty fields to stay empty, got %+v", got)
	}
	if !got.Usable() {
		t.Fatal("expected title and artist to survive")
	}
}

func TestReadTagsWithoutCommentBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.flac")
	writeMinimalFLAC(t, path)

	got, err := flactags.New().ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if got != (media.Tags{}) {
		t.Fatalf("expected zero tags, got %+v", got)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	store := flactags.New()
	if _, err := store.ReadTags("song.mp3"); !errors.Is(err, flactags.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if err := store.WriteTags("song.ogg", media.Tags{Title: "x"}); !errors.Is(err, flactags.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}
