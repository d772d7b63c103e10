package media_test

import (
	"testing"

	"stylus/internal/media"
)

func TestTagsUsable(t *testing.T) {
	cases := []struct {
		name string
		tags media.Tags
		want bool
	}{
		{"title and artist", media.Tags{Title: "Blue in Green", Artist: "Miles Davis"}, true},
		{"title only", media.Tags{Title: "Blue in Green"}, false},
		{"artist only", media.Tags{Artist: "Miles Davis"}, false},
		{"whitespace title", media.Tags{Title: "   ", Artist: "Miles Davis"}, false},
		{"empty", media.Tags{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tags.Usable(); got != tc.want {
				t.Fatalf("Usable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTagsMergePrefersExisting(t *testing.T) {
	have := media.Tags{Title: "So What", TrackNumber: 1}
	other := media.Tags{Title: "so what (remaster)", Artist: "Miles Davis", Album: "Kind of Blue", TrackNumber: 9}

	merged := have.Merge(other)
	if merged.Title != "So What" {
		t.Fatalf("expected existing title to win, got %q", merged.Title)
	}
	if merged.Artist != "Miles Davis" {
		t.Fatalf("expected artist filled from other, got %q", merged.Artist)
	}
	if merged.Album != "Kind of Blue" {
		t.Fatalf("expected album filled from other, got %q", merged.Album)
	}
	if merged.TrackNumber != 1 {
		t.Fatalf("expected existing track number to win, got %d", merged.TrackNumber)
	}
}
