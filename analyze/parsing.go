package analyze

import (
	"strings"

	"github.com/proposive/rfpbase/dispatch"
)

// parseLineList parses generator output as a newline-separated list.
// Blank lines and dash-prefixed bullet leftovers are dropped; at most
// limit entries are kept. Any shape of model output degrades to fewer
// entries, never to an error.
func parseLineList(response string, limit int) []string {
	var entries []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		entries = append(entries, line)
		if len(entries) == limit {
			break
		}
	}
	return entries
}

// nonEmptyLines keeps every non-blank trimmed line, up to limit.
func nonEmptyLines(response string, limit int) []string {
	var entries []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
		if len(entries) == limit {
			break
		}
	}
	return entries
}

// dedupe removes duplicates keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func capSlice(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}

// excerpt returns the first n runes of text.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// stringSlice unwraps a dispatch result holding a []string.
// A failed task yields an empty list.
func stringSlice(result dispatch.Result) []string {
	if values, ok := result.Value.([]string); ok {
		return values
	}
	return nil
}

// stringValue unwraps a dispatch result holding a string.
func stringValue(result dispatch.Result) string {
	if s, ok := result.Value.(string); ok {
		return s
	}
	return notSpecified
}
