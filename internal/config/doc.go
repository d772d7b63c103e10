// Package config loads, normalizes, and validates the Stylus configuration.
//
// Configuration lives in a TOML file (default ~/.config/stylus/config.toml).
// Thresholds for the identification methods are plain config values so
// operators can tune sensitivity without touching code; the resolver re-reads
// them on every run through a Provider, so edits picked up by a reload apply
// to long-running batches without reconstruction.
package config
