package fpcalc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFingerprint reports a fingerprint that is not valid base64 even
// after cleanup. Recoverable: the caller moves on to the next resolution
// method.
var ErrInvalidFingerprint = errors.New("invalid fingerprint")

// Normalize cleans a raw fingerprint before submission to AcoustID.
// Whitespace and non-printable bytes are dropped, anything outside the
// base64 alphabet is stripped, and padding is rebuilt to a multiple of
// four. Some fpcalc builds emit broken padding; AcoustID rejects those
// fingerprints outright.
func Normalize(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFingerprint)
	}

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		if isBase64Rune(r) {
			b.WriteRune(r)
		}
	}
	cleaned = strings.TrimRight(b.String(), "=")
	if cleaned == "" {
		return "", fmt.Errorf("%w: no base64 content", ErrInvalidFingerprint)
	}
	if pad := len(cleaned) % 4; pad != 0 {
		cleaned += strings.Repeat("=", 4-pad)
	}

	if _, err := base64.StdEncoding.DecodeString(cleaned); err != nil {
		if _, urlErr := base64.URLEncoding.DecodeString(cleaned); urlErr != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
		}
	}
	return cleaned, nil
}

// fpcalc emits URL-safe base64, so - and _ belong to the alphabet too.
func isBase64Rune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+' || r == '/' || r == '=' || r == '-' || r == '_':
		return true
	}
	return false
}
