package resolver

import (
	"context"
	"fmt"

	"stylus/internal/media"
	"stylus/internal/spectral"
)

// FeatureExtractor produces a spectral feature vector for a file.
type FeatureExtractor interface {
	Extract(ctx context.Context, path string) (spectral.FeatureVector, error)
}

// SpectralMethod classifies a file from its own audio content. It only
// identifies a specific recording when the reference database holds a
// close match; otherwise its candidate is a genre-level description.
type SpectralMethod struct {
	extractor FeatureExtractor
	refdb     *spectral.ReferenceDB
}

// NewSpectralMethod wires the spectral rung of the cascade. refdb may be
// nil when no reference database is configured.
func NewSpectralMethod(extractor FeatureExtractor, refdb *spectral.ReferenceDB) *SpectralMethod {
	return &SpectralMethod{extractor: extractor, refdb: refdb}
}

func (m *SpectralMethod) Name() Source { return SourceSpectral }

func (m *SpectralMethod) Identify(ctx context.Context, req Request) (*Candidate, error) {
	fv, err := m.extractor.Extract(ctx, req.Identity.Path)
	if err != nil {
		return nil, err
	}

	classification := spectral.Classify(fv, req.Tags.Usable())
	detail := fmt.Sprintf("%s, %s, %s", classification.Genre, classification.EnergyProfile, classification.Style)

	// A reference match names an actual recording and can outrank the
	// heuristic classification.
	if m.refdb != nil {
		if ref, similarity, ok := m.refdb.BestMatch(fv); ok && similarity > classification.Confidence {
			return &Candidate{
				Source:     SourceSpectral,
				Confidence: similarity,
				Tags: media.Tags{
					Title:  ref.Title,
					Artist: ref.Artist,
					Album:  ref.Album,
				},
				Detail: detail,
			}, nil
		}
	}

	return &Candidate{
		Source:     SourceSpectral,
		Confidence: classification.Confidence,
		Tags:       media.Tags{Genre: classification.Genre},
		Detail:     detail,
	}, nil
}
