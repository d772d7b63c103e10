// Package spectral extracts frequency-domain features from audio files and
// classifies them when no external identification source succeeds.
package spectral
