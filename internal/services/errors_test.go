package services

import (
	"context"
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(ErrNetworkTimeout, "acoustid", "lookup", "after retry", base)
	if !errors.Is(err, ErrNetworkTimeout) {
		t.Fatalf("wrapped error should match marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should preserve cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "musicbrainz", "search", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("nil marker should default to ErrTransient, got %v", err)
	}
}

func TestWrapDetailOrdering(t *testing.T) {
	err := Wrap(ErrExternalTool, "fpcalc", "generate", "exit status 2", nil)
	want := "external tool error: fpcalc: generate: exit status 2"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithBatchID(context.Background(), "batch-1")
	ctx = WithRequestID(ctx, "req-9")

	if id, ok := BatchIDFromContext(ctx); !ok || id != "batch-1" {
		t.Fatalf("batch id round trip failed: %q %v", id, ok)
	}
	if id, ok := RequestIDFromContext(ctx); !ok || id != "req-9" {
		t.Fatalf("request id round trip failed: %q %v", id, ok)
	}
	if _, ok := BatchIDFromContext(context.Background()); ok {
		t.Fatal("empty context should not carry a batch id")
	}
}
