package musicbrainz

import "strings"

// Recording is a MusicBrainz recording with the credits and releases the
// search endpoints return.
type Recording struct {
	ID       string
	Score    int
	Title    string
	LengthMS int
	Artist   string
	Releases []Release
}

// Release summarizes one release a recording appears on.
type Release struct {
	ID            string
	Title         string
	Date          string
	Status        string
	Label         string
	CatalogNumber string
	TrackCount    int
}

// FirstRelease returns the first release, if any.
func (r Recording) FirstRelease() (Release, bool) {
	if len(r.Releases) == 0 {
		return Release{}, false
	}
	return r.Releases[0], true
}

// RecordingQuery is a fielded recording search.
type RecordingQuery struct {
	Artist string
	Title  string
	Album  string
}

// Empty reports whether no field is populated.
func (q RecordingQuery) Empty() bool {
	return strings.TrimSpace(q.Artist) == "" && strings.TrimSpace(q.Title) == "" && strings.TrimSpace(q.Album) == ""
}

// Lucene builds the fielded query string. Strict queries quote each value
// for exact phrase matching; permissive queries leave values bare so the
// search engine can tokenize them.
func (q RecordingQuery) Lucene(strict bool) string {
	parts := make([]string, 0, 3)
	if artist := strings.TrimSpace(q.Artist); artist != "" {
		parts = append(parts, "artist:"+fieldValue(artist, strict))
	}
	if title := strings.TrimSpace(q.Title); title != "" {
		parts = append(parts, "recording:"+fieldValue(title, strict))
	}
	if album := strings.TrimSpace(q.Album); album != "" && strict {
		parts = append(parts, "release:"+fieldValue(album, strict))
	}
	return strings.Join(parts, " AND ")
}

func fieldValue(value string, strict bool) string {
	if strict {
		return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	}
	return escapeLucene(value)
}

// escapeLucene neutralizes query syntax in bare values.
func escapeLucene(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if strings.ContainsRune(`+-&|!(){}[]^"~*?:\/`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
