package resolver

import (
	"context"
	"errors"

	"stylus/internal/fpcalc"
	"stylus/internal/media"
	"stylus/internal/services/acoustid"
)

// FingerprintGenerator produces an acoustic fingerprint for a file.
type FingerprintGenerator interface {
	Generate(ctx context.Context, path string) (fpcalc.Result, error)
}

// FingerprintLookup resolves a fingerprint to a scored candidate.
type FingerprintLookup interface {
	Lookup(ctx context.Context, fingerprint string, durationSeconds float64) (*acoustid.Candidate, error)
}

// FingerprintMethod chains fpcalc generation and the AcoustID lookup.
type FingerprintMethod struct {
	generator FingerprintGenerator
	lookup    FingerprintLookup
}

// NewFingerprintMethod wires the fingerprint rung of the cascade.
func NewFingerprintMethod(generator FingerprintGenerator, lookup FingerprintLookup) *FingerprintMethod {
	return &FingerprintMethod{generator: generator, lookup: lookup}
}

func (m *FingerprintMethod) Name() Source { return SourceFingerprint }

// Identify fingerprints the file and asks AcoustID for the best-scoring
// recording. A fingerprint that cannot be repaired, or zero lookup
// results, is a clean no-match.
func (m *FingerprintMethod) Identify(ctx context.Context, req Request) (*Candidate, error) {
	generated, err := m.generator.Generate(ctx, req.Identity.Path)
	if err != nil {
		return nil, err
	}

	fingerprint, err := fpcalc.Normalize(generated.Fingerprint)
	if err != nil {
		if errors.Is(err, fpcalc.ErrInvalidFingerprint) {
			return nil, nil
		}
		return nil, err
	}

	match, err := m.lookup.Lookup(ctx, fingerprint, generated.DurationSeconds)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	return &Candidate{
		Source:     SourceFingerprint,
		Confidence: match.Score,
		Tags: media.Tags{
			Title:                  match.Title,
			Artist:                 match.Artist,
			Album:                  match.Album,
			Date:                   match.Date,
			MusicBrainzRecordingID: match.RecordingID,
			MusicBrainzReleaseID:   match.ReleaseID,
			AcoustIDTrackID:        match.TrackID,
		},
	}, nil
}
