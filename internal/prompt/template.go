package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// InsertToken splits a template into prompt and suffix for insert-mode
// completions.
const InsertToken = "[insert]"

var insertPattern = regexp.MustCompile(`(?i)\[insert\]`)

// Render substitutes every {{key}} placeholder in the template with its
// value. Placeholder matching is case-insensitive; keys without a
// placeholder are ignored, placeholders without a key are left in place.
func Render(template string, inputs map[string]string) string {
	text := template
	for key, value := range inputs {
		pattern := regexp.MustCompile(`(?i)\{\{` + regexp.QuoteMeta(key) + `\}\}`)
		text = pattern.ReplaceAllLiteralString(text, value)
	}
	return text
}

// Placeholders returns the placeholder names found in the template, in
// order of first appearance, lowercased.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)

	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// SplitInsert splits a template on the insert token for insert-mode
// requests. The template must contain exactly one token.
func SplitInsert(template string) (prompt string, suffix string, err error) {
	locs := insertPattern.FindAllStringIndex(template, -1)
	if len(locs) != 1 {
		return "", "", fmt.Errorf("template must contain exactly 1 instance of %q, found %d", InsertToken, len(locs))
	}

	parts := insertPattern.Split(template, 2)
	return parts[0], parts[1], nil
}

// NormalizeStop expands the stop-sequence aliases "newline" and
// "double-newline" into literal newlines. Order of the remaining
// sequences is preserved.
func NormalizeStop(stop []string) []string {
	if len(stop) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(stop))
	for _, s := range stop {
		switch s {
		case "newline":
			normalized = append(normalized, "\n")
		case "double-newline":
			normalized = append(normalized, "\n\n")
		default:
			normalized = append(normalized, s)
		}
	}
	return normalized
}
