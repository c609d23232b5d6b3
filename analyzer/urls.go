// ABOUTME: URL extraction from raw script text via an ordered list of navigation idiom patterns.
// ABOUTME: Patterns are evaluated independently and merged; a final pass dedupes by first occurrence.
package analyzer

import (
	"regexp"
	"strings"
)

// urlPatterns is the ordered list of navigation/assertion idioms that carry a
// URL argument, plus a generic quoted-URL fallback. Each pattern is evaluated
// over the whole text; results are merged before deduplication.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`cy\.visit\s*\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`cy\.url\(\)\s*\.should\s*\(\s*["']eq["'],\s*["']([^"']+)["']`),
	regexp.MustCompile(`page\.goto\s*\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`await\s+page\.goto\s*\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`driver\.get\s*\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`get\s*\(\s*["']([^"']+)["']`),
	regexp.MustCompile(`["']https?://[^"']+["']`),
}

// ExtractURLs collects every absolute http/https URL matched by any pattern,
// strips surrounding quotes, and returns them deduplicated in first-seen order.
func ExtractURLs(code string) []string {
	var found []string
	for _, pat := range urlPatterns {
		for _, match := range pat.FindAllStringSubmatch(code, -1) {
			candidate := match[0]
			if len(match) > 1 {
				candidate = match[1]
			}
			candidate = strings.Trim(candidate, `'"`)
			if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
				found = append(found, candidate)
			}
		}
	}

	seen := make(map[string]bool, len(found))
	unique := make([]string, 0, len(found))
	for _, u := range found {
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}
