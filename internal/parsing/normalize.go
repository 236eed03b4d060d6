package parsing

import (
	"regexp"
	"strings"
)

var (
	controlPattern    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	spaceRunPattern   = regexp.MustCompile(`[ \t]+`)
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText cleans extracted resume text: control characters from PDF
// text layers are dropped, runs of spaces collapse to one, runs of blank
// lines collapse to a single blank line.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = controlPattern.ReplaceAllString(text, " ")
	text = spaceRunPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = newlineRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// NameFromFilename derives a display name from an uploaded file's name:
// the extension is dropped and underscores and hyphens become spaces.
// Unusable filenames yield "Unknown".
func NameFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.TrimSpace(spaceRunPattern.ReplaceAllString(base, " "))
	if base == "" {
		return "Unknown"
	}
	return base
}
