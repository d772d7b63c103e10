package resolver

import (
	"context"

	"stylus/internal/textsearch"
)

// TextSearcher runs the progressive relaxation ladder against MusicBrainz.
type TextSearcher interface {
	Resolve(ctx context.Context, seed textsearch.Seed) ([]textsearch.Candidate, error)
}

// TextSearchMethod resolves by metadata text search, seeded from the
// file's own tags or its filename.
type TextSearchMethod struct {
	searcher TextSearcher
}

// NewTextSearchMethod wires the text search rung of the cascade.
func NewTextSearchMethod(searcher TextSearcher) *TextSearchMethod {
	return &TextSearchMethod{searcher: searcher}
}

// maxAlternates bounds how many runner-up matches survive for review.
const maxAlternates = 4

func (m *TextSearchMethod) Name() Source { return SourceTextSearch }

func (m *TextSearchMethod) Identify(ctx context.Context, req Request) (*Candidate, error) {
	seed := textsearch.NewSeed(req.Tags, req.Identity.Path)
	candidates, err := m.searcher.Resolve(ctx, seed)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	result := asCandidate(candidates[0])
	for _, runner := range candidates[1:] {
		if len(result.Alternates) == maxAlternates {
			break
		}
		result.Alternates = append(result.Alternates, asCandidate(runner))
	}
	return &result, nil
}

func asCandidate(c textsearch.Candidate) Candidate {
	return Candidate{
		Source:     SourceTextSearch,
		Confidence: c.Confidence,
		Tags:       c.Tags,
		Detail:     "strategy " + string(c.Strategy),
	}
}
