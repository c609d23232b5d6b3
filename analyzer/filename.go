// ABOUTME: Filename normalization producing filesystem-safe artifact base names.
// ABOUTME: Deterministic but not globally unique; callers must also key by run id.
package analyzer

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NormalizeFilename rewrites known test suffix markers, collapses the final
// extension into an underscore-joined suffix, and replaces every remaining
// character outside [A-Za-z0-9_-] with an underscore.
func NormalizeFilename(filename string) string {
	normalized := strings.NewReplacer(
		".test.", "_test_",
		".spec.", "_spec_",
		".cy.", "_cy_",
	).Replace(filename)

	if idx := strings.LastIndex(normalized, "."); idx >= 0 && idx < len(normalized)-1 {
		normalized = normalized[:idx] + "_" + normalized[idx+1:]
	}

	return unsafeChars.ReplaceAllString(normalized, "_")
}
