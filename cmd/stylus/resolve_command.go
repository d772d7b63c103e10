package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"stylus/internal/config"
	"stylus/internal/fileutil"
	"stylus/internal/fpcalc"
	"stylus/internal/logging"
	"stylus/internal/media/flactags"
	"stylus/internal/resolvecache"
	"stylus/internal/resolver"
	"stylus/internal/services/acoustid"
	"stylus/internal/services/musicbrainz"
	"stylus/internal/spectral"
	"stylus/internal/textsearch"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noCache bool
	var reviewCopy bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Identify audio files and report canonical metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			var cache resolver.Cache
			if cfg.Cache.Enabled && !noCache {
				store, err := resolvecache.Open(cfg.Cache, logger)
				switch {
				case errors.Is(err, resolvecache.ErrLocked):
					return fmt.Errorf("open resolution cache: %w", err)
				case err != nil:
					logger.Warn("resolution cache unavailable, resolving without it",
						logging.Error(err))
				default:
					defer store.Close()
					cache = store
				}
			}

			r, err := buildResolver(cfg, cache, logger)
			if err != nil {
				return err
			}

			var tracker *progress.Tracker
			var writer progress.Writer
			if !jsonOutput && isInteractive(cmd.OutOrStdout()) {
				writer = progress.NewWriter()
				writer.SetOutputWriter(cmd.ErrOrStderr())
				writer.SetUpdateFrequency(100 * time.Millisecond)
				tracker = &progress.Tracker{Message: "resolving", Total: int64(len(args))}
				writer.AppendTracker(tracker)
				go writer.Render()
			}

			results := make([]resolver.Result, 0, len(args))
			for result := range r.ResolveBatch(cmd.Context(), args, func(done, total int, result resolver.Result) {
				if tracker != nil {
					tracker.Increment(1)
				}
			}) {
				results = append(results, result)
			}
			if writer != nil {
				tracker.MarkAsDone()
				writer.Stop()
			}

			sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

			if reviewCopy {
				if err := copyReviewFiles(cmd, cfg.Paths.ReviewDir, results); err != nil {
					return err
				}
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(results)
			}
			renderResults(cmd, results)

			for _, result := range results {
				if result.Status == resolver.StatusFailed {
					return fmt.Errorf("%d of %d files failed", countStatus(results, resolver.StatusFailed), len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the resolution cache")
	cmd.Flags().BoolVar(&reviewCopy, "review", false, "Copy files needing manual review into the review directory")

	return cmd
}

// copyReviewFiles routes unresolved files to the review directory with
// verified copies.
func copyReviewFiles(cmd *cobra.Command, reviewDir string, results []resolver.Result) error {
	for _, result := range results {
		if result.Status != resolver.StatusManualReview {
			continue
		}
		dst, err := fileutil.CopyToDir(result.Path, reviewDir)
		if err != nil {
			return fmt.Errorf("copy %s for review: %w", result.Path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "copied %s to %s\n", result.Path, dst)
	}
	return nil
}

// buildResolver wires every cascade method from configuration. Construction
// is explicit; nothing is created lazily during a resolve.
func buildResolver(cfg *config.Config, cache resolver.Cache, logger *slog.Logger) (*resolver.Resolver, error) {
	generator, err := fpcalc.New(cfg.Fingerprint.Binary, cfg.Fingerprint.LengthSeconds, cfg.Fingerprint.ToolTimeout)
	if err != nil {
		return nil, err
	}
	lookup, err := acoustid.New(cfg.Fingerprint.APIKey, cfg.Fingerprint.BaseURL, cfg.Fingerprint.LookupTimeout)
	if err != nil {
		return nil, err
	}

	extractor := spectral.NewExtractor(cfg.Spectral.FFmpegBinary, cfg.Spectral.SampleRate,
		cfg.Spectral.WindowSeconds, cfg.Spectral.ToolTimeout)
	refdb, err := spectral.LoadReferenceDB(cfg.Spectral.ReferenceDBPath)
	if err != nil {
		return nil, fmt.Errorf("load spectral reference database: %w", err)
	}

	mbClient, err := musicbrainz.New(cfg.Search.BaseURL, cfg.Search.UserAgent,
		cfg.Search.Timeout, cfg.Search.MaxResults)
	if err != nil {
		return nil, err
	}
	searcher := textsearch.NewResolver(mbClient, cfg.Search.MinConfidence, logger)

	methods := []resolver.Method{
		resolver.NewFingerprintMethod(generator, lookup),
		resolver.NewSpectralMethod(extractor, refdb),
		resolver.NewTextSearchMethod(searcher),
	}
	return resolver.New(cache, configProvider{cfg}, methods, flactags.New(), logger)
}

// configProvider exposes the live config to the resolver.
type configProvider struct {
	cfg *config.Config
}

func (p configProvider) Thresholds() resolver.Thresholds {
	return resolver.Thresholds{
		Fingerprint: p.cfg.Fingerprint.MinConfidence,
		Spectral:    p.cfg.Spectral.MinConfidence,
		TextSearch:  p.cfg.Search.MinConfidence,
	}
}

func (p configProvider) WorkerCount() int {
	return p.cfg.Workers.Count
}

func renderResults(cmd *cobra.Command, results []resolver.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		title, artist, confidence, source := "", "", "", ""
		if result.Chosen != nil {
			title = result.Chosen.Tags.Title
			artist = result.Chosen.Tags.Artist
			confidence = fmt.Sprintf("%.2f", result.Chosen.Confidence)
			source = string(result.Chosen.Source)
		}
		status := string(result.Status)
		if result.FromCache {
			status += " (cached)"
		}
		rows = append(rows, []string{result.Path, status, title, artist, confidence, source})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Path", "Status", "Title", "Artist", "Confidence", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))

	for _, result := range results {
		switch result.Status {
		case resolver.StatusManualReview:
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s needs manual review:\n", result.Path)
			for _, line := range result.Explanations() {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", line)
			}
			for _, suggestion := range result.Suggestions {
				label := strings.TrimSpace(suggestion.Tags.Artist + " / " + suggestion.Tags.Title)
				if label == "/" {
					label = suggestion.Detail
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  suggestion (%.2f, %s): %s\n",
					suggestion.Confidence, suggestion.Source, label)
			}
		case resolver.StatusFailed:
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s failed: %s\n", result.Path, result.Err)
		}
	}
}

func countStatus(results []resolver.Result, status resolver.Status) int {
	count := 0
	for _, result := range results {
		if result.Status == status {
			count++
		}
	}
	return count
}
