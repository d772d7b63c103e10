package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stylus/internal/fpcalc"
	"stylus/internal/media"
	"stylus/internal/services/acoustid"
	"stylus/internal/spectral"
	"stylus/internal/textsearch"
)

type stubGenerator struct {
	result fpcalc.Result
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, path string) (fpcalc.Result, error) {
	return s.result, s.err
}

type stubLookup struct {
	candidate *acoustid.Candidate
	err       error
	called    bool
}

func (s *stubLookup) Lookup(ctx context.Context, fingerprint string, durationSeconds float64) (*acoustid.Candidate, error) {
	s.called = true
	return s.candidate, s.err
}

func TestFingerprintMethodMapsCandidate(t *testing.T) {
	generator := &stubGenerator{result: fpcalc.Result{
		DurationSeconds: 212.5,
		Fingerprint:     "AQAAf0mUaEkSRQ",
	}}
	lookup := &stubLookup{candidate: &acoustid.Candidate{
		Score:       0.93,
		TrackID:     "acoustid-1",
		RecordingID: "mbid-1",
		Title:       "So What",
		Artist:      "Miles Davis",
		Album:       "Kind of Blue",
		ReleaseID:   "rel-1",
		Date:        "1959",
	}}
	method := NewFingerprintMethod(generator, lookup)

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate == nil {
		t.Fatal("Identify() returned no candidate")
	}
	if candidate.Source != SourceFingerprint || candidate.Confidence != 0.93 {
		t.Fatalf("candidate = %+v", candidate)
	}
	if candidate.Tags.MusicBrainzRecordingID != "mbid-1" || candidate.Tags.AcoustIDTrackID != "acoustid-1" {
		t.Fatalf("identifiers not carried over: %+v", candidate.Tags)
	}
}

func TestFingerprintMethodUnrepairableFingerprintIsNoMatch(t *testing.T) {
	generator := &stubGenerator{result: fpcalc.Result{Fingerprint: "!!!"}}
	lookup := &stubLookup{}
	method := NewFingerprintMethod(generator, lookup)

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate != nil {
		t.Fatalf("candidate = %+v, want none", candidate)
	}
	if lookup.called {
		t.Fatal("lookup was called with an unusable fingerprint")
	}
}

func TestFingerprintMethodPropagatesToolError(t *testing.T) {
	toolErr := errors.New("fpcalc missing")
	method := NewFingerprintMethod(&stubGenerator{err: toolErr}, &stubLookup{})

	_, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if !errors.Is(err, toolErr) {
		t.Fatalf("Identify() error = %v, want tool error", err)
	}
}

type stubExtractor struct {
	fv  spectral.FeatureVector
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, path string) (spectral.FeatureVector, error) {
	return s.fv, s.err
}

func TestSpectralMethodHeuristicCandidate(t *testing.T) {
	method := NewSpectralMethod(&stubExtractor{fv: spectral.FeatureVector{
		Energy:          0.5,
		ZeroCrossings:   900,
		Centroid:        1200,
		Rolloff:         4000,
		SampleRate:      22050,
		DurationSeconds: 180,
	}}, nil)

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate == nil {
		t.Fatal("Identify() returned no candidate")
	}
	if candidate.Source != SourceSpectral {
		t.Fatalf("source = %q", candidate.Source)
	}
	if candidate.Tags.Genre == "" {
		t.Fatal("heuristic candidate has no genre")
	}
	if candidate.Detail == "" || !strings.Contains(candidate.Detail, ",") {
		t.Fatalf("detail = %q, want classification summary", candidate.Detail)
	}
	if candidate.Confidence <= 0 || candidate.Confidence > 0.9 {
		t.Fatalf("confidence = %v outside heuristic range", candidate.Confidence)
	}
}

func TestSpectralMethodPrefersCloseReferenceMatch(t *testing.T) {
	fv := spectral.FeatureVector{
		Energy:          0.5,
		ZeroCrossings:   900,
		Centroid:        1200,
		Rolloff:         4000,
		RMSEnergy:       0.3,
		SampleRate:      22050,
		DurationSeconds: 180,
	}
	refdb := &spectral.ReferenceDB{References: []spectral.Reference{{
		ID:       "ref-1",
		Title:    "So What",
		Artist:   "Miles Davis",
		Album:    "Kind of Blue",
		Features: fv,
	}}}
	method := NewSpectralMethod(&stubExtractor{fv: fv}, refdb)

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate.Tags.Title != "So What" {
		t.Fatalf("reference match not chosen: %+v", candidate)
	}
	if candidate.Confidence != 1 {
		t.Fatalf("identical feature vectors scored %v, want 1", candidate.Confidence)
	}
}

type stubTextSearcher struct {
	candidates []textsearch.Candidate
	err        error
}

func (s *stubTextSearcher) Resolve(ctx context.Context, seed textsearch.Seed) ([]textsearch.Candidate, error) {
	return s.candidates, s.err
}

func TestTextSearchMethodTakesBestCandidate(t *testing.T) {
	method := NewTextSearchMethod(&stubTextSearcher{candidates: []textsearch.Candidate{
		{Tags: media.Tags{Title: "Roads", Artist: "Portishead"}, Confidence: 0.95, Strategy: textsearch.StrategyArtistTitle},
		{Tags: media.Tags{Title: "Roads (live)"}, Confidence: 0.6},
	}})

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate.Tags.Title != "Roads" || candidate.Confidence != 0.95 {
		t.Fatalf("candidate = %+v", candidate)
	}
	if !strings.Contains(candidate.Detail, string(textsearch.StrategyArtistTitle)) {
		t.Fatalf("detail = %q, want strategy name", candidate.Detail)
	}
}

func TestTextSearchMethodKeepsRunnersUp(t *testing.T) {
	candidates := []textsearch.Candidate{
		{Tags: media.Tags{Title: "Roads"}, Confidence: 0.65, Strategy: textsearch.StrategyArtistAlbum},
		{Tags: media.Tags{Title: "Roads (live)"}, Confidence: 0.6, Strategy: textsearch.StrategyArtistTitle},
		{Tags: media.Tags{Title: "Roads (edit)"}, Confidence: 0.55, Strategy: textsearch.StrategyArtistTitle},
	}
	for i := 0; i < maxAlternates+2; i++ {
		candidates = append(candidates, textsearch.Candidate{
			Tags: media.Tags{Title: "Roads (bootleg)"}, Confidence: 0.3,
		})
	}
	method := NewTextSearchMethod(&stubTextSearcher{candidates: candidates})

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate.Tags.Title != "Roads" {
		t.Fatalf("best candidate = %+v", candidate)
	}
	if len(candidate.Alternates) != maxAlternates {
		t.Fatalf("kept %d alternates, want %d", len(candidate.Alternates), maxAlternates)
	}
	if candidate.Alternates[0].Tags.Title != "Roads (live)" || candidate.Alternates[0].Confidence != 0.6 {
		t.Fatalf("first alternate = %+v", candidate.Alternates[0])
	}
	if !strings.Contains(candidate.Alternates[0].Detail, string(textsearch.StrategyArtistTitle)) {
		t.Fatalf("alternate detail = %q, want its own strategy", candidate.Alternates[0].Detail)
	}
}

func TestTextSearchMethodNoCandidatesIsNoMatch(t *testing.T) {
	method := NewTextSearchMethod(&stubTextSearcher{})

	candidate, err := method.Identify(context.Background(), Request{Identity: media.Identity{Path: "/a.flac"}})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if candidate != nil {
		t.Fatalf("candidate = %+v, want none", candidate)
	}
}
