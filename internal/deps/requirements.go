package deps

import "stylus/internal/config"

// For builds the requirement list for the configured toolchain. fpcalc is
// mandatory for fingerprint resolution; ffmpeg is only needed when spectral
// analysis has to transcode non-WAV input, so its absence degrades rather
// than blocks.
func For(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "fpcalc",
			Command:     cfg.Fingerprint.Binary,
			Description: "Chromaprint fingerprint generator",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Spectral.FFmpegBinary,
			Description: "Transcodes compressed audio for spectral analysis",
			Optional:    true,
		},
	}
}
