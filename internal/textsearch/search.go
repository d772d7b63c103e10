package textsearch

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"stylus/internal/logging"
	"stylus/internal/media"
	"stylus/internal/services/musicbrainz"
	"stylus/internal/textutil"
)

// Strategy names a rung of the progressive relaxation ladder.
type Strategy string

const (
	StrategyRecordingID Strategy = "recording-id"
	StrategyCatalog     Strategy = "catalog-number"
	StrategyAlbumArtist Strategy = "albumartist-album-title"
	StrategyArtistAlbum Strategy = "artist-album-title"
	StrategyArtistTitle Strategy = "artist-title"
)

// Confidence weighting and ceiling for text matches. A perfect text match
// is still weaker evidence than an acoustic fingerprint.
const (
	titleWeight   = 0.6
	artistWeight  = 0.4
	maxConfidence = 0.95
)

// Candidate is one scored MusicBrainz match.
type Candidate struct {
	Tags       media.Tags
	Confidence float64
	Strategy   Strategy
}

// Seed carries what is already known about the file before searching.
type Seed struct {
	Tags media.Tags
}

// NewSeed builds a seed from existing tags, falling back to filename
// parsing when the tags cannot identify the recording on their own.
func NewSeed(tags media.Tags, path string) Seed {
	if !tags.Usable() && path != "" {
		tags = tags.Merge(ParseFilename(path))
	}
	return Seed{Tags: tags}
}

// Searcher is the MusicBrainz surface the resolver needs.
type Searcher interface {
	SearchRecordings(ctx context.Context, query musicbrainz.RecordingQuery) ([]musicbrainz.Recording, error)
	LookupRecording(ctx context.Context, mbid string) (*musicbrainz.Recording, error)
	SearchReleasesByCatalog(ctx context.Context, catno string) ([]musicbrainz.Release, error)
	ReleaseRecordings(ctx context.Context, releaseID string) ([]musicbrainz.Recording, error)
}

// Resolver walks the strategy ladder against a Searcher.
type Resolver struct {
	client        Searcher
	minConfidence float64
	logger        *slog.Logger
}

// NewResolver builds a text search resolver. minConfidence is the
// per-strategy acceptance threshold; a strategy whose best candidate
// scores below it does not stop the ladder.
func NewResolver(client Searcher, minConfidence float64, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:        client,
		minConfidence: minConfidence,
		logger:        logging.NewComponentLogger(logger, "textsearch"),
	}
}

// Resolve runs the ladder and returns all scored candidates in descending
// confidence order. Strategy failures are logged and skipped; the ladder
// stops early once a strategy's best candidate clears the threshold.
func (r *Resolver) Resolve(ctx context.Context, seed Seed) ([]Candidate, error) {
	tags := seed.Tags

	if mbid := strings.TrimSpace(tags.MusicBrainzRecordingID); mbid != "" {
		candidate, err := r.lookupByID(ctx, mbid)
		if err == nil && candidate != nil {
			return []Candidate{*candidate}, nil
		}
		if err != nil {
			r.logger.Warn("recording id lookup failed, walking ladder",
				logging.String("mbid", mbid), logging.Error(err))
		}
	}

	if strings.TrimSpace(tags.Title) == "" && strings.TrimSpace(tags.Artist) == "" {
		return nil, nil
	}

	var all []Candidate
	var lastErr error
	for _, rung := range r.ladder(tags) {
		if !rung.feasible {
			continue
		}
		candidates, err := rung.run(ctx)
		if err != nil {
			lastErr = err
			r.logger.Warn("search strategy failed",
				logging.String("strategy", string(rung.strategy)), logging.Error(err))
			continue
		}
		all = append(all, candidates...)
		if best := bestOf(candidates); best != nil && best.Confidence >= r.minConfidence {
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

type rung struct {
	strategy Strategy
	feasible bool
	run      func(ctx context.Context) ([]Candidate, error)
}

func (r *Resolver) ladder(tags media.Tags) []rung {
	title := strings.TrimSpace(tags.Title)
	artist := strings.TrimSpace(tags.Artist)
	albumArtist := strings.TrimSpace(tags.AlbumArtist)
	album := strings.TrimSpace(tags.Album)
	catno := strings.TrimSpace(tags.CatalogNumber)

	return []rung{
		{
			strategy: StrategyCatalog,
			feasible: catno != "",
			run: func(ctx context.Context) ([]Candidate, error) {
				return r.searchByCatalog(ctx, catno, artist, title)
			},
		},
		{
			strategy: StrategyAlbumArtist,
			feasible: albumArtist != "" && album != "" && title != "",
			run: func(ctx context.Context) ([]Candidate, error) {
				return r.searchRecordings(ctx, StrategyAlbumArtist, musicbrainz.RecordingQuery{
					Artist: albumArtist, Title: title, Album: album,
				}, albumArtist, title)
			},
		},
		{
			strategy: StrategyArtistAlbum,
			feasible: album != "" && title != "",
			run: func(ctx context.Context) ([]Candidate, error) {
				return r.searchRecordings(ctx, StrategyArtistAlbum, musicbrainz.RecordingQuery{
					Artist: artist, Title: title, Album: album,
				}, artist, title)
			},
		},
		{
			strategy: StrategyArtistTitle,
			feasible: title != "",
			run: func(ctx context.Context) ([]Candidate, error) {
				return r.searchRecordings(ctx, StrategyArtistTitle, musicbrainz.RecordingQuery{
					Artist: artist, Title: title,
				}, artist, title)
			},
		},
	}
}

func (r *Resolver) lookupByID(ctx context.Context, mbid string) (*Candidate, error) {
	recording, err := r.client.LookupRecording(ctx, mbid)
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, nil
	}
	candidate := candidateFrom(*recording, 1.0, StrategyRecordingID)
	return &candidate, nil
}

func (r *Resolver) searchRecordings(ctx context.Context, strategy Strategy, query musicbrainz.RecordingQuery, targetArtist, targetTitle string) ([]Candidate, error) {
	recordings, err := r.client.SearchRecordings(ctx, query)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(recordings))
	for _, recording := range recordings {
		confidence := Score(targetTitle, targetArtist, recording.Title, recording.Artist)
		candidates = append(candidates, candidateFrom(recording, confidence, strategy))
	}
	return candidates, nil
}

// searchByCatalog scores the recordings of every release that carries the
// catalog number.
func (r *Resolver) searchByCatalog(ctx context.Context, catno, targetArtist, targetTitle string) ([]Candidate, error) {
	releases, err := r.client.SearchReleasesByCatalog(ctx, catno)
	if err != nil {
		return nil, err
	}
	var candidates []Candidate
	for _, release := range releases {
		recordings, err := r.client.ReleaseRecordings(ctx, release.ID)
		if err != nil {
			r.logger.Warn("release listing failed",
				logging.String("release", release.ID), logging.Error(err))
			continue
		}
		for _, recording := range recordings {
			confidence := Score(targetTitle, targetArtist, recording.Title, recording.Artist)
			candidates = append(candidates, candidateFrom(recording, confidence, StrategyCatalog))
		}
	}
	return candidates, nil
}

// Score combines title and artist token-set similarity, weighted toward
// the title, and caps the result below fingerprint-grade confidence.
func Score(targetTitle, targetArtist, resultTitle, resultArtist string) float64 {
	confidence := titleWeight*textutil.TokenSetSimilarity(targetTitle, resultTitle) +
		artistWeight*textutil.TokenSetSimilarity(targetArtist, resultArtist)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}

func candidateFrom(recording musicbrainz.Recording, confidence float64, strategy Strategy) Candidate {
	tags := media.Tags{
		Title:                  recording.Title,
		Artist:                 recording.Artist,
		MusicBrainzRecordingID: recording.ID,
	}
	if release, ok := recording.FirstRelease(); ok {
		tags.Album = release.Title
		tags.Date = release.Date
		tags.Label = release.Label
		tags.CatalogNumber = release.CatalogNumber
		tags.MusicBrainzReleaseID = release.ID
	}
	return Candidate{Tags: tags, Confidence: confidence, Strategy: strategy}
}

func bestOf(candidates []Candidate) *Candidate {
	var best *Candidate
	for i := range candidates {
		if best == nil || candidates[i].Confidence > best.Confidence {
			best = &candidates[i]
		}
	}
	return best
}
