package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of external binaries (fpcalc, ffmpeg):
	// missing from PATH, abnormal exit, unusable output. Fatal for the
	// method that needed the tool, never for the cascade.
	ErrExternalTool = errors.New("external tool error")
	// ErrToolTimeout marks an external binary that exceeded its deadline.
	ErrToolTimeout = errors.New("tool timeout")
	// ErrNetworkTimeout marks a remote service call that exceeded its
	// deadline after the retry budget was spent.
	ErrNetworkTimeout = errors.New("network timeout")
	// ErrMalformedResponse marks a remote service payload that could not be
	// decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnreadableFile marks a file that cannot be opened or stat'd. This
	// is the only error that aborts a cascade before any method runs.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks retriable failures that exhausted their retries.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
