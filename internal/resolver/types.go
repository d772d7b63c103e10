package resolver

import (
	"context"
	"fmt"
	"time"

	"stylus/internal/media"
)

// Source names an identification method.
type Source string

const (
	SourceFingerprint Source = "fingerprint"
	SourceSpectral    Source = "spectral"
	SourceTextSearch  Source = "text-search"
)

// Status is the terminal state of one cascade run.
type Status string

const (
	StatusResolved     Status = "resolved"
	StatusManualReview Status = "manual-review"
	StatusFailed       Status = "failed"
)

// Candidate is one scored identification proposal.
type Candidate struct {
	Source     Source     `json:"source"`
	Confidence float64    `json:"confidence"`
	Tags       media.Tags `json:"tags"`
	// Detail carries method-specific context, such as a spectral
	// classification or the search strategy that produced the match.
	Detail string `json:"detail,omitempty"`
	// Alternates holds lower-confidence matches from the same method so
	// the review path can present them alongside the best one.
	Alternates []Candidate `json:"alternates,omitempty"`
}

// Attempt records one method invocation for review explanations.
type Attempt struct {
	Source     Source  `json:"source"`
	Threshold  float64 `json:"threshold"`
	Confidence float64 `json:"confidence"`
	Err        string  `json:"error,omitempty"`
}

// Explain renders the attempt for a reviewer.
func (a Attempt) Explain() string {
	if a.Err != "" {
		return fmt.Sprintf("%s: failed: %s", a.Source, a.Err)
	}
	if a.Confidence == 0 {
		return fmt.Sprintf("%s: no match", a.Source)
	}
	return fmt.Sprintf("%s: confidence %.2f below required %.2f", a.Source, a.Confidence, a.Threshold)
}

// Result is the outcome of resolving a single file.
type Result struct {
	Path        string        `json:"path"`
	Key         string        `json:"key"`
	Status      Status        `json:"status"`
	Chosen      *Candidate    `json:"chosen,omitempty"`
	Attempts    []Attempt     `json:"attempts,omitempty"`
	Suggestions []Candidate   `json:"suggestions,omitempty"`
	Err         string        `json:"error,omitempty"`
	FromCache   bool          `json:"from_cache,omitempty"`
	ResolvedAt  time.Time     `json:"resolved_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Explanations returns one reviewer-facing line per attempted method. The
// resolved method, if any, is described by Chosen instead.
func (r Result) Explanations() []string {
	lines := make([]string, 0, len(r.Attempts))
	for _, attempt := range r.Attempts {
		if r.Chosen != nil && attempt.Source == r.Chosen.Source && attempt.Err == "" &&
			attempt.Confidence >= attempt.Threshold {
			continue
		}
		lines = append(lines, attempt.Explain())
	}
	return lines
}

// Request carries per-file input to a method.
type Request struct {
	Identity media.Identity
	// Tags are whatever the file's own metadata already claims. May be
	// zero; methods treat them as hints only.
	Tags media.Tags
}

// Method is one rung of the cascade.
type Method interface {
	Name() Source
	// Identify returns (nil, nil) when the method ran cleanly but found
	// nothing.
	Identify(ctx context.Context, req Request) (*Candidate, error)
}

// Thresholds holds the per-method acceptance confidence.
type Thresholds struct {
	Fingerprint float64
	Spectral    float64
	TextSearch  float64
}

// For returns the threshold for the given source.
func (t Thresholds) For(source Source) float64 {
	switch source {
	case SourceFingerprint:
		return t.Fingerprint
	case SourceSpectral:
		return t.Spectral
	case SourceTextSearch:
		return t.TextSearch
	}
	return 1
}

// ConfigProvider supplies the live tunables the cascade reads on every run,
// so a config reload takes effect without rebuilding the resolver.
type ConfigProvider interface {
	Thresholds() Thresholds
	WorkerCount() int
}

// Cache memoizes resolved results keyed by file identity.
type Cache interface {
	Get(ctx context.Context, identity media.Identity) (*Result, bool, error)
	Put(ctx context.Context, identity media.Identity, result *Result) error
}
