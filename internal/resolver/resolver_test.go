package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylus/internal/media"
)

type stubConfig struct {
	thresholds Thresholds
	workers    int
	reads      int
}

func (s *stubConfig) Thresholds() Thresholds {
	s.reads++
	return s.thresholds
}

func (s *stubConfig) WorkerCount() int { return s.workers }

type stubMethod struct {
	source    Source
	candidate *Candidate
	err       error
	calls     int
}

func (s *stubMethod) Name() Source { return s.source }

func (s *stubMethod) Identify(ctx context.Context, req Request) (*Candidate, error) {
	s.calls++
	return s.candidate, s.err
}

type stubCache struct {
	entries map[string]*Result
	puts    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*Result)}
}

func (s *stubCache) Get(ctx context.Context, identity media.Identity) (*Result, bool, error) {
	result, ok := s.entries[identity.CacheKey()]
	if !ok {
		return nil, false, nil
	}
	copied := *result
	copied.FromCache = true
	return &copied, true, nil
}

func (s *stubCache) Put(ctx context.Context, identity media.Identity, result *Result) error {
	s.puts++
	s.entries[identity.CacheKey()] = result
	return nil
}

type stubTagReader struct {
	tags media.Tags
	err  error
}

func (s *stubTagReader) ReadTags(path string) (media.Tags, error) {
	return s.tags, s.err
}

func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.flac")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func defaultThresholds() Thresholds {
	return Thresholds{Fingerprint: 0.85, Spectral: 0.70, TextSearch: 0.70}
}

func TestResolveUnreadableFileFailsBeforeMethods(t *testing.T) {
	method := &stubMethod{source: SourceFingerprint}
	r, err := New(nil, &stubConfig{thresholds: defaultThresholds()}, []Method{method}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.flac"))
	if result.Status != StatusFailed {
		t.Fatalf("status = %q, want %q", result.Status, StatusFailed)
	}
	if result.Err == "" {
		t.Fatal("failed result carries no error")
	}
	if method.calls != 0 {
		t.Fatalf("method ran %d times for unreadable file", method.calls)
	}
}

func TestResolveConfidentCandidateStopsCascade(t *testing.T) {
	path := writeTestFile(t)
	first := &stubMethod{source: SourceFingerprint, candidate: &Candidate{
		Source:     SourceFingerprint,
		Confidence: 0.92,
		Tags:       media.Tags{Title: "So What", Artist: "Miles Davis"},
	}}
	second := &stubMethod{source: SourceSpectral}
	cache := newStubCache()

	r, err := New(cache, &stubConfig{thresholds: defaultThresholds()}, []Method{first, second}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Resolve(context.Background(), path)
	if result.Status != StatusResolved {
		t.Fatalf("status = %q, want %q", result.Status, StatusResolved)
	}
	if result.Chosen == nil || result.Chosen.Tags.Title != "So What" {
		t.Fatalf("chosen = %+v", result.Chosen)
	}
	if second.calls != 0 {
		t.Fatalf("later method ran %d times after confident match", second.calls)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
}

func TestResolveCacheHitSkipsMethods(t *testing.T) {
	path := writeTestFile(t)
	method := &stubMethod{source: SourceFingerprint}
	cache := newStubCache()

	identity, err := media.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	cache.entries[identity.CacheKey()] = &Result{
		Path:   path,
		Status: StatusResolved,
		Chosen: &Candidate{Source: SourceFingerprint, Confidence: 0.9},
	}

	r, err := New(cache, &stubConfig{thresholds: defaultThresholds()}, []Method{method}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Resolve(context.Background(), path)
	if !result.FromCache {
		t.Fatal("result not marked FromCache")
	}
	if method.calls != 0 {
		t.Fatalf("method ran %d times despite cache hit", method.calls)
	}
}

func TestResolveErrorsAndWeakCandidatesReachManualReview(t *testing.T) {
	path := writeTestFile(t)
	failing := &stubMethod{source: SourceFingerprint, err: errors.New("fpcalc exploded")}
	weak := &stubMethod{source: SourceSpectral, candidate: &Candidate{
		Source:     SourceSpectral,
		Confidence: 0.4,
		Tags:       media.Tags{Genre: "jazz/blues"},
	}}
	weaker := &stubMethod{source: SourceTextSearch, candidate: &Candidate{
		Source:     SourceTextSearch,
		Confidence: 0.3,
	}}
	cache := newStubCache()

	r, err := New(cache, &stubConfig{thresholds: defaultThresholds()}, []Method{failing, weak, weaker}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Resolve(context.Background(), path)
	if result.Status != StatusManualReview {
		t.Fatalf("status = %q, want %q", result.Status, StatusManualReview)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(result.Suggestions))
	}
	if result.Suggestions[0].Confidence < result.Suggestions[1].Confidence {
		t.Fatal("suggestions not sorted descending")
	}
	if len(result.Attempts) != 3 {
		t.Fatalf("got %d attempts, want 3", len(result.Attempts))
	}
	if cache.puts != 0 {
		t.Fatalf("manual review result was cached (%d puts)", cache.puts)
	}

	explanations := result.Explanations()
	if len(explanations) != 3 {
		t.Fatalf("got %d explanations, want 3: %v", len(explanations), explanations)
	}
	if !strings.Contains(explanations[0], "fpcalc exploded") {
		t.Fatalf("method error missing from explanation: %q", explanations[0])
	}
	if !strings.Contains(explanations[1], "0.40") || !strings.Contains(explanations[1], "0.70") {
		t.Fatalf("explanation lacks actual vs required confidence: %q", explanations[1])
	}
}

func TestResolveSpreadsAlternatesIntoSuggestions(t *testing.T) {
	path := writeTestFile(t)
	method := &stubMethod{source: SourceTextSearch, candidate: &Candidate{
		Source:     SourceTextSearch,
		Confidence: 0.5,
		Tags:       media.Tags{Title: "Roads"},
		Alternates: []Candidate{
			{Source: SourceTextSearch, Confidence: 0.4, Tags: media.Tags{Title: "Roads (live)"}},
			{Source: SourceTextSearch, Confidence: 0.3, Tags: media.Tags{Title: "Roads (edit)"}},
		},
	}}

	r, err := New(nil, &stubConfig{thresholds: defaultThresholds()}, []Method{method}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Resolve(context.Background(), path)
	if result.Status != StatusManualReview {
		t.Fatalf("status = %q, want %q", result.Status, StatusManualReview)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(result.Suggestions))
	}
	for i, suggestion := range result.Suggestions {
		if suggestion.Alternates != nil {
			t.Fatalf("suggestion %d still nests alternates: %+v", i, suggestion)
		}
		if i > 0 && suggestion.Confidence > result.Suggestions[i-1].Confidence {
			t.Fatalf("suggestions not in descending order: %+v", result.Suggestions)
		}
	}
	if result.Suggestions[1].Tags.Title != "Roads (live)" {
		t.Fatalf("suggestions = %+v", result.Suggestions)
	}
}

func TestResolveReadsThresholdsEveryRun(t *testing.T) {
	path := writeTestFile(t)
	cfg := &stubConfig{thresholds: defaultThresholds()}
	method := &stubMethod{source: SourceFingerprint, candidate: &Candidate{
		Source: SourceFingerprint, Confidence: 0.8,
	}}

	r, err := New(nil, cfg, []Method{method}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if result := r.Resolve(context.Background(), path); result.Status != StatusManualReview {
		t.Fatalf("status = %q with threshold 0.85", result.Status)
	}

	cfg.thresholds.Fingerprint = 0.75
	if result := r.Resolve(context.Background(), path); result.Status != StatusResolved {
		t.Fatalf("status = %q after lowering threshold", result.Status)
	}
	if cfg.reads != 2 {
		t.Fatalf("thresholds read %d times, want 2", cfg.reads)
	}
}

func TestResolvePassesExistingTagsToMethods(t *testing.T) {
	path := writeTestFile(t)
	var seen media.Tags
	method := &methodFunc{source: SourceTextSearch, fn: func(ctx context.Context, req Request) (*Candidate, error) {
		seen = req.Tags
		return nil, nil
	}}

	reader := &stubTagReader{tags: media.Tags{Title: "Roads", Artist: "Portishead"}}
	r, err := New(nil, &stubConfig{thresholds: defaultThresholds()}, []Method{method}, reader, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r.Resolve(context.Background(), path)
	if seen.Title != "Roads" || seen.Artist != "Portishead" {
		t.Fatalf("method saw tags %+v", seen)
	}
}

type methodFunc struct {
	source Source
	fn     func(ctx context.Context, req Request) (*Candidate, error)
}

func (m *methodFunc) Name() Source { return m.source }

func (m *methodFunc) Identify(ctx context.Context, req Request) (*Candidate, error) {
	return m.fn(ctx, req)
}
