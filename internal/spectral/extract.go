package spectral

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/go-flac/go-flac"

	"stylus/internal/services"
)

// Executor abstracts ffmpeg execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Option configures the extractor.
type Option func(*Extractor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(e *Extractor) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// Extractor produces feature vectors through a decode ladder: native WAV
// first, ffmpeg transcode next, container-metadata estimates last.
type Extractor struct {
	ffmpegBinary  string
	sampleRate    int
	windowSeconds int
	timeout       time.Duration
	exec          Executor
}

// NewExtractor builds an extractor. ffmpegBinary may be empty; the
// transcode rung is skipped then.
func NewExtractor(ffmpegBinary string, sampleRate, windowSeconds, timeoutSeconds int, opts ...Option) *Extractor {
	if sampleRate <= 0 {
		sampleRate = 22050
	}
	if windowSeconds <= 0 {
		windowSeconds = 30
	}
	e := &Extractor{
		ffmpegBinary:  strings.TrimSpace(ffmpegBinary),
		sampleRate:    sampleRate,
		windowSeconds: windowSeconds,
		timeout:       time.Duration(timeoutSeconds) * time.Second,
		exec:          commandExecutor{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the decode ladder against the file. It fails only when the
// file itself is unreadable; decode failures degrade to a metadata-only
// vector instead.
func (e *Extractor) Extract(ctx context.Context, path string) (FeatureVector, error) {
	if _, err := os.Stat(path); err != nil {
		return FeatureVector{}, services.Wrap(services.ErrUnreadableFile, "spectral", "extract", "stat file", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		samples, sampleRate, duration, err := decodeWAV(path, e.windowSeconds)
		if err == nil {
			return computeFeatures(samples, sampleRate, duration, SourceWAV), nil
		}
	}

	if e.ffmpegBinary != "" {
		if fv, err := e.transcodeAndDecode(ctx, path); err == nil {
			return fv, nil
		}
	}

	return metadataVector(path), nil
}

func (e *Extractor) transcodeAndDecode(ctx context.Context, path string) (FeatureVector, error) {
	tmp, err := os.CreateTemp("", "stylus-spectral-*.wav")
	if err != nil {
		return FeatureVector{}, fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := []string{
		"-y",
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(e.sampleRate),
		"-t", strconv.Itoa(e.windowSeconds),
		"-f", "wav",
		"-acodec", "pcm_s16le",
		tmpPath,
	}
	if output, err := e.exec.Run(runCtx, e.ffmpegBinary, args); err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 200 {
			detail = detail[:200]
		}
		return FeatureVector{}, services.Wrap(services.ErrExternalTool, "spectral", "transcode", detail, err)
	}

	samples, sampleRate, duration, err := decodeWAV(tmpPath, e.windowSeconds)
	if err != nil {
		return FeatureVector{}, err
	}
	return computeFeatures(samples, sampleRate, duration, SourceFFmpeg), nil
}

// metadataVector builds a low-trust vector when no decode succeeded.
// Duration and sample rate come from the container header where one can
// be read; the spectral fields stay at neutral estimates.
func metadataVector(path string) FeatureVector {
	fv := FeatureVector{
		Energy:        0.5,
		ZeroCrossings: 1000,
		Centroid:      2000,
		Rolloff:       8000,
		SampleRate:    44100,
		Source:        SourceMetadata,
		Degraded:      true,
	}
	if duration, sampleRate, ok := containerEstimates(path); ok {
		fv.DurationSeconds = duration
		if sampleRate > 0 {
			fv.SampleRate = sampleRate
		}
	}
	return fv
}

// containerEstimates reads duration and sample rate from the container
// header without decoding audio frames.
func containerEstimates(path string) (durationSeconds float64, sampleRate int, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		file, err := flac.ParseFile(path)
		if err != nil {
			return 0, 0, false
		}
		info, err := file.GetStreamInfo()
		if err != nil || info.SampleRate <= 0 {
			return 0, 0, false
		}
		return float64(info.SampleCount) / float64(info.SampleRate), info.SampleRate, true
	case ".wav":
		file, err := os.Open(path)
		if err != nil {
			return 0, 0, false
		}
		defer file.Close()
		decoder := wav.NewDecoder(file)
		if !decoder.IsValidFile() {
			return 0, 0, false
		}
		duration, err := decoder.Duration()
		if err != nil || decoder.SampleRate == 0 {
			return 0, 0, false
		}
		return duration.Seconds(), int(decoder.SampleRate), true
	}
	return 0, 0, false
}
