package textutil

import (
	"math"
	"testing"
)

func TestTokenSetSimilarityIdentical(t *testing.T) {
	if got := TokenSetSimilarity("Blue Monday", "Blue Monday"); got != 1 {
		t.Fatalf("identical strings: got %v, want 1", got)
	}
}

func TestTokenSetSimilarityCaseAndPunctuation(t *testing.T) {
	if got := TokenSetSimilarity("Don't Stop Me Now!", "dont stop me now"); got != 1 {
		t.Fatalf("case/punctuation variants should match exactly, got %v", got)
	}
}

func TestTokenSetSimilarityDiacritics(t *testing.T) {
	if got := TokenSetSimilarity("Björk", "bjork"); got != 1 {
		t.Fatalf("diacritic folding failed, got %v", got)
	}
}

func TestTokenSetSimilarityPartialOverlap(t *testing.T) {
	// {blue, monday} vs {blue, train}: intersection 1, union 3.
	got := TokenSetSimilarity("Blue Monday", "Blue Train")
	if math.Abs(got-1.0/3.0) > 1e-9 {
		t.Fatalf("partial overlap: got %v, want 1/3", got)
	}
}

func TestTokenSetSimilarityDisjoint(t *testing.T) {
	if got := TokenSetSimilarity("Aurora", "Midnight Sun"); got != 0 {
		t.Fatalf("disjoint strings: got %v, want 0", got)
	}
}

func TestTokenSetSimilarityEmpty(t *testing.T) {
	if got := TokenSetSimilarity("", ""); got != 1 {
		t.Fatalf("both empty: got %v, want 1", got)
	}
	if got := TokenSetSimilarity("something", ""); got != 0 {
		t.Fatalf("one empty: got %v, want 0", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Café del Mar  ", "cafe del mar"},
		{"AC/DC", "ac dc"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripNoise(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Song Title (Original Mix)", "Song Title"},
		{"Artist - Track [XYZ Records]", "Artist - Track"},
		{"Plain Name", "Plain Name"},
		{"Under_Score", "Under Score"},
	}
	for _, tc := range cases {
		if got := StripNoise(tc.in); got != tc.want {
			t.Errorf("StripNoise(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenizeKeepsShortTokens(t *testing.T) {
	tokens := Tokenize("Go To It")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %v", tokens)
	}
}
