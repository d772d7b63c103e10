package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"stylus/internal/logging"
	"stylus/internal/media"
)

// TagReader reads a file's existing embedded metadata. Read failures,
// including unsupported formats, degrade to an empty hint and never abort
// the cascade.
type TagReader interface {
	ReadTags(path string) (media.Tags, error)
}

// Resolver runs the cascade. All collaborators are injected at
// construction; only thresholds are re-read per run.
type Resolver struct {
	cache   Cache
	config  ConfigProvider
	methods []Method
	tags    TagReader
	logger  *slog.Logger
}

// New builds a resolver. cache and tags may be nil; methods run in the
// given order.
func New(cache Cache, cfg ConfigProvider, methods []Method, tags TagReader, logger *slog.Logger) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("resolver requires a config provider")
	}
	if len(methods) == 0 {
		return nil, errors.New("resolver requires at least one method")
	}
	return &Resolver{
		cache:   cache,
		config:  cfg,
		methods: methods,
		tags:    tags,
		logger:  logging.NewComponentLogger(logger, "resolver"),
	}, nil
}

// Resolve runs the cascade for one file. An unreadable file fails before
// any method is attempted. A cache hit for the file's current identity
// short-circuits everything. Method errors are recorded and the cascade
// continues to the next rung; only a confident candidate stops it.
func (r *Resolver) Resolve(ctx context.Context, path string) Result {
	started := time.Now()
	logger := logging.WithContext(ctx, r.logger)

	identity, err := media.Stat(path)
	if err != nil {
		return Result{
			Path:       path,
			Status:     StatusFailed,
			Err:        err.Error(),
			ResolvedAt: started,
			Elapsed:    time.Since(started),
		}
	}

	if r.cache != nil {
		if cached, ok, _ := r.cache.Get(ctx, identity); ok {
			logger.Debug("cache hit", logging.String(logging.FieldPath, identity.Path))
			cached.Elapsed = time.Since(started)
			return *cached
		}
	}

	req := Request{Identity: identity}
	if r.tags != nil {
		if tags, err := r.tags.ReadTags(identity.Path); err == nil {
			req.Tags = tags
		} else {
			logger.Debug("existing tags unreadable",
				logging.String(logging.FieldPath, identity.Path), logging.Error(err))
		}
	}

	thresholds := r.config.Thresholds()
	result := Result{
		Path:       identity.Path,
		Key:        identity.CacheKey(),
		ResolvedAt: started,
	}

	for _, method := range r.methods {
		source := method.Name()
		threshold := thresholds.For(source)
		attempt := Attempt{Source: source, Threshold: threshold}

		candidate, err := method.Identify(ctx, req)
		switch {
		case err != nil:
			attempt.Err = err.Error()
			logger.Warn("identification method failed",
				logging.String(logging.FieldMethod, string(source)), logging.Error(err))
		case candidate == nil:
			logger.Debug("no match",
				logging.String(logging.FieldMethod, string(source)))
		default:
			attempt.Confidence = candidate.Confidence
			if candidate.Confidence >= threshold {
				result.Attempts = append(result.Attempts, attempt)
				result.Status = StatusResolved
				chosen := *candidate
				chosen.Alternates = nil
				result.Chosen = &chosen
				result.Elapsed = time.Since(started)
				r.storeResult(ctx, identity, &result, logger)
				return result
			}
			result.Suggestions = append(result.Suggestions, flatten(*candidate)...)
		}
		result.Attempts = append(result.Attempts, attempt)

		if ctx.Err() != nil {
			break
		}
	}

	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].Confidence > result.Suggestions[j].Confidence
	})
	result.Status = StatusManualReview
	result.Elapsed = time.Since(started)
	return result
}

// flatten turns a candidate and its alternates into a flat suggestion list.
func flatten(candidate Candidate) []Candidate {
	alternates := candidate.Alternates
	candidate.Alternates = nil
	out := append([]Candidate{candidate}, alternates...)
	return out
}

// storeResult memoizes a resolved outcome. Cache failures are logged only;
// the resolution already succeeded.
func (r *Resolver) storeResult(ctx context.Context, identity media.Identity, result *Result, logger *slog.Logger) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, identity, result); err != nil {
		logger.Warn("failed to cache resolution",
			logging.String(logging.FieldPath, identity.Path), logging.Error(err))
	}
}
