package config

const (
	defaultCacheDir      = "~/.cache/stylus"
	defaultLogDir        = "~/.local/share/stylus/logs"
	defaultReviewDir     = "~/.local/share/stylus/review"
	defaultAcoustIDURL   = "https://api.acoustid.org/v2/lookup"
	defaultFpcalcBinary  = "fpcalc"
	defaultFpcalcLength  = 120
	defaultToolTimeout   = 30
	defaultLookupTimeout = 10
	defaultFFmpegBinary  = "ffmpeg"
	defaultSampleRate    = 22050
	defaultWindowSeconds = 30
	defaultMBBaseURL     = "https://musicbrainz.org/ws/2"
	defaultMBUserAgent   = "Stylus/1.0 (https://github.com/stylus/stylus)"
	defaultMBMaxResults  = 5
	defaultCachePath     = "~/.cache/stylus/resolutions.db"
	defaultCacheTTLDays  = 0
	defaultWorkerCount   = 4
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	// Method acceptance thresholds. These are heuristics, not calibrated
	// probabilities; see the per-method docs before changing them.
	defaultFingerprintMinConfidence = 0.85
	defaultSpectralMinConfidence    = 0.70
	defaultSearchMinConfidence      = 0.70
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			ReviewDir: defaultReviewDir,
		},
		Fingerprint: Fingerprint{
			BaseURL:       defaultAcoustIDURL,
			Binary:        defaultFpcalcBinary,
			LengthSeconds: defaultFpcalcLength,
			ToolTimeout:   defaultToolTimeout,
			LookupTimeout: defaultLookupTimeout,
			MinConfidence: defaultFingerprintMinConfidence,
		},
		Spectral: Spectral{
			FFmpegBinary:  defaultFFmpegBinary,
			SampleRate:    defaultSampleRate,
			WindowSeconds: defaultWindowSeconds,
			ToolTimeout:   defaultToolTimeout,
			MinConfidence: defaultSpectralMinConfidence,
		},
		Search: Search{
			BaseURL:       defaultMBBaseURL,
			UserAgent:     defaultMBUserAgent,
			Timeout:       defaultLookupTimeout,
			MaxResults:    defaultMBMaxResults,
			MinConfidence: defaultSearchMinConfidence,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath,
			TTLDays: defaultCacheTTLDays,
		},
		Workers: Workers{
			Count: defaultWorkerCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
