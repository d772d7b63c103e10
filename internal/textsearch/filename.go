package textsearch

import (
	"path/filepath"
	"regexp"
	"strings"

	"stylus/internal/media"
)

// Ordered by precision; the first matching pattern wins. Underscores are
// preserved here because the last pattern relies on them.
var filenamePatterns = []*regexp.Regexp{
	// "02. Artist - Title"
	regexp.MustCompile(`^\d+\.?\s*(.+?)\s*-\s*(.+)$`),
	// "Artist - Title"
	regexp.MustCompile(`^(.+?)\s*-\s*(.+)$`),
	// "Artist_Title"
	regexp.MustCompile(`^(.+?)_(.+)$`),
}

var bracketNoisePattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

// ParseFilename guesses artist and title from a file name. Bracketed and
// parenthetical noise is stripped first. When no pattern applies the whole
// name becomes the title.
func ParseFilename(path string) media.Tags {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = bracketNoisePattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(strings.Join(strings.Fields(name), " "))

	for _, pattern := range filenamePatterns {
		match := pattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		artist := cleanFragment(match[1])
		title := cleanFragment(match[2])
		if artist != "" && title != "" {
			return media.Tags{Artist: artist, Title: title}
		}
	}
	return media.Tags{Title: name}
}

// cleanFragment flattens separators left over from pattern matching.
func cleanFragment(text string) string {
	replacer := strings.NewReplacer("_", " ", "[", " ", "]", " ", "(", " ", ")", " ", "{", " ", "}", " ")
	text = replacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
