package extract

import "regexp"

// LLMs wrap JSON in markdown fences more often than not; accept both.
var (
	jsonArrayBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	jsonArrayPattern      = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	trailingCommaPattern  = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONArray pulls a JSON array out of a completion, stripping
// markdown code fences and trailing commas. Returns "" when no array is
// present.
func ExtractJSONArray(content string) string {
	if matches := jsonArrayBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return trailingCommaPattern.ReplaceAllString(matches[1], "$1")
	}
	if match := jsonArrayPattern.FindString(content); match != "" {
		return trailingCommaPattern.ReplaceAllString(match, "$1")
	}
	return ""
}
