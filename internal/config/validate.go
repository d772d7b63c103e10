package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFingerprint(); err != nil {
		return err
	}
	if err := c.validateSpectral(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFingerprint() error {
	if c.Fingerprint.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stylus/config.toml"
		}
		return fmt.Errorf("fingerprint.api_key is required. Set ACOUSTID_API_KEY env var or edit %s (create with 'stylus config init')", defaultPath)
	}
	if c.Fingerprint.MinConfidence < 0 || c.Fingerprint.MinConfidence > 1 {
		return errors.New("fingerprint.min_confidence must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSpectral() error {
	if c.Spectral.MinConfidence < 0 || c.Spectral.MinConfidence > 1 {
		return errors.New("spectral.min_confidence must be between 0 and 1")
	}
	if c.Spectral.SampleRate < 8000 {
		return fmt.Errorf("spectral.sample_rate %d is too low for analysis", c.Spectral.SampleRate)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.MinConfidence < 0 || c.Search.MinConfidence > 1 {
		return errors.New("search.min_confidence must be between 0 and 1")
	}
	if strings.TrimSpace(c.Search.UserAgent) == "" {
		return errors.New("search.user_agent must be set: MusicBrainz rejects anonymous clients")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
