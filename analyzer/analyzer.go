// ABOUTME: Entry point for script analysis, assembling the immutable Result from the extractors.
// ABOUTME: Analyze is pure and deterministic; malformed or empty input yields an empty Result, never an error.
package analyzer

import "strings"

// Analyze turns raw source text into a Result. It never fails: absence of
// URLs or steps is a valid, empty result.
func Analyze(code, filename string) *Result {
	urls := ExtractURLs(code)
	steps := ParseSteps(code)

	primary := ""
	if len(urls) > 0 {
		primary = urls[0]
	}

	return &Result{
		Filename:           filename,
		NormalizedFilename: NormalizeFilename(filename),
		Language:           DetectLanguage(filename),
		Frameworks:         DetectFrameworks(code),
		URLs:               urls,
		PrimaryURL:         primary,
		Steps:              steps,
		ComplexityScore:    ComplexityScore(steps),
		CodeLength:         len(code),
		LineCount:          len(strings.Split(code, "\n")),
	}
}
