package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)
	bracketPattern    = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	spacesPattern     = regexp.MustCompile(`\s+`)
)

// foldTransformer strips diacritics after NFD decomposition so "Björk"
// compares equal to "Bjork".
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases text, folds diacritics, and collapses punctuation
// runs into single spaces. The result is suitable for token comparison,
// not for display.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	text = tokenSplitPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize splits text into normalized lowercase tokens. Unlike document
// fingerprinting, short tokens are kept: artist and title strings are short
// and words like "go" or "ai" carry signal.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// StripNoise removes bracketed and parenthetical segments such as
// "(Original Mix)" or "[Remastered]" and collapses leftover whitespace.
// Used before parsing filenames into artist/title guesses.
func StripNoise(text string) string {
	text = bracketPattern.ReplaceAllString(text, " ")
	text = strings.NewReplacer("_", " ", "{", " ", "}", " ").Replace(text)
	return strings.TrimSpace(spacesPattern.ReplaceAllString(text, " "))
}
