package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFingerprint()
	c.normalizeSpectral()
	c.normalizeSearch()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeWorkers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReviewDir) == "" {
		c.Paths.ReviewDir = defaultReviewDir
	}
	if c.Paths.ReviewDir, err = expandPath(c.Paths.ReviewDir); err != nil {
		return fmt.Errorf("paths.review_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFingerprint() {
	c.Fingerprint.APIKey = strings.TrimSpace(c.Fingerprint.APIKey)
	if c.Fingerprint.APIKey == "" {
		c.Fingerprint.APIKey = strings.TrimSpace(os.Getenv("ACOUSTID_API_KEY"))
	}
	if strings.TrimSpace(c.Fingerprint.BaseURL) == "" {
		c.Fingerprint.BaseURL = defaultAcoustIDURL
	}
	c.Fingerprint.BaseURL = strings.TrimRight(strings.TrimSpace(c.Fingerprint.BaseURL), "/")
	if strings.TrimSpace(c.Fingerprint.Binary) == "" {
		c.Fingerprint.Binary = defaultFpcalcBinary
	}
	if c.Fingerprint.LengthSeconds <= 0 {
		c.Fingerprint.LengthSeconds = defaultFpcalcLength
	}
	if c.Fingerprint.ToolTimeout <= 0 {
		c.Fingerprint.ToolTimeout = defaultToolTimeout
	}
	if c.Fingerprint.LookupTimeout <= 0 {
		c.Fingerprint.LookupTimeout = defaultLookupTimeout
	}
	if c.Fingerprint.MinConfidence <= 0 || c.Fingerprint.MinConfidence > 1 {
		c.Fingerprint.MinConfidence = defaultFingerprintMinConfidence
	}
}

func (c *Config) normalizeSpectral() {
	if strings.TrimSpace(c.Spectral.FFmpegBinary) == "" {
		c.Spectral.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Spectral.SampleRate <= 0 {
		c.Spectral.SampleRate = defaultSampleRate
	}
	if c.Spectral.WindowSeconds <= 0 {
		c.Spectral.WindowSeconds = defaultWindowSeconds
	}
	if c.Spectral.ToolTimeout <= 0 {
		c.Spectral.ToolTimeout = defaultToolTimeout
	}
	if c.Spectral.MinConfidence <= 0 || c.Spectral.MinConfidence > 1 {
		c.Spectral.MinConfidence = defaultSpectralMinConfidence
	}
}

func (c *Config) normalizeSearch() {
	if strings.TrimSpace(c.Search.BaseURL) == "" {
		c.Search.BaseURL = defaultMBBaseURL
	}
	c.Search.BaseURL = strings.TrimRight(strings.TrimSpace(c.Search.BaseURL), "/")
	if strings.TrimSpace(c.Search.UserAgent) == "" {
		c.Search.UserAgent = defaultMBUserAgent
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = defaultLookupTimeout
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultMBMaxResults
	}
	if c.Search.MinConfidence <= 0 || c.Search.MinConfidence > 1 {
		c.Search.MinConfidence = defaultSearchMinConfidence
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLDays < 0 {
		c.Cache.TTLDays = 0
	}
	return nil
}

func (c *Config) normalizeWorkers() {
	if c.Workers.Count <= 0 {
		c.Workers.Count = defaultWorkerCount
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}
