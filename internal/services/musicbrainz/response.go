package musicbrainz

import "strings"

// Wire shapes for the ws/2 JSON payloads, decoded once at the boundary.

type recordingSearchResponse struct {
	Recordings []wireRecording `json:"recordings"`
}

type releaseSearchResponse struct {
	Releases []wireRelease `json:"releases"`
}

type wireRecording struct {
	ID           string        `json:"id"`
	Score        int           `json:"score"`
	Title        string        `json:"title"`
	Length       int           `json:"length"`
	ArtistCredit []wireCredit  `json:"artist-credit"`
	Releases     []wireRelease `json:"releases"`
}

type wireCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type wireRelease struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Date         string          `json:"date"`
	Status       string          `json:"status"`
	TrackCount   int             `json:"track-count"`
	LabelInfo    []wireLabelInfo `json:"label-info"`
	Media        []wireMedium    `json:"media"`
	ArtistCredit []wireCredit    `json:"artist-credit"`
}

type wireLabelInfo struct {
	CatalogNumber string    `json:"catalog-number"`
	Label         wireLabel `json:"label"`
}

type wireLabel struct {
	Name string `json:"name"`
}

type wireMedium struct {
	Tracks []wireTrack `json:"tracks"`
}

type wireTrack struct {
	Title        string        `json:"title"`
	ArtistCredit []wireCredit  `json:"artist-credit"`
	Recording    wireRecording `json:"recording"`
}

func (w wireRecording) toRecording() Recording {
	rec := Recording{
		ID:       w.ID,
		Score:    w.Score,
		Title:    w.Title,
		LengthMS: w.Length,
		Artist:   joinCredits(w.ArtistCredit),
	}
	for _, rel := range w.Releases {
		rec.Releases = append(rec.Releases, rel.toRelease())
	}
	return rec
}

func (w wireRelease) toRelease() Release {
	rel := Release{
		ID:         w.ID,
		Title:      w.Title,
		Date:       w.Date,
		Status:     w.Status,
		TrackCount: w.TrackCount,
	}
	if len(w.LabelInfo) > 0 {
		rel.Label = w.LabelInfo[0].Label.Name
		rel.CatalogNumber = w.LabelInfo[0].CatalogNumber
	}
	return rel
}

func joinCredits(credits []wireCredit) string {
	var b strings.Builder
	for _, credit := range credits {
		b.WriteString(credit.Name)
		b.WriteString(credit.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}
