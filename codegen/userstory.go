// ABOUTME: User story generator producing a deterministic Markdown summary of the analysis.
// ABOUTME: Template expansion only; no inference beyond what the analysis already contains.
package codegen

import (
	"fmt"
	"strings"

	"github.com/2389-research/qaforge/analyzer"
)

// GenerateUserStory renders a Markdown user story derived from the analysis.
func GenerateUserStory(result *analyzer.Result) string {
	framework := "web"
	if len(result.Frameworks) > 0 {
		framework = result.Frameworks[0]
	}

	primary := result.PrimaryURL
	if primary == "" {
		primary = "No URL found"
	}

	frameworks := "Standard web application"
	if len(result.Frameworks) > 0 {
		shown := result.Frameworks
		if len(shown) > 3 {
			shown = shown[:3]
		}
		frameworks = strings.Join(shown, ", ")
	}

	var out strings.Builder
	fmt.Fprintf(&out, "**User Story for %s**\n\n", result.Filename)
	fmt.Fprintf(&out, "As a QA Engineer testing a %s application with %s framework\n", result.Language, framework)
	out.WriteString("I want to verify all functionality works correctly\n")
	out.WriteString("So that users can interact with the application reliably\n\n")
	out.WriteString("**Technical Details:**\n")
	fmt.Fprintf(&out, "- Primary URL: %s\n", primary)
	fmt.Fprintf(&out, "- Test Steps Identified: %d\n", result.StepCount())
	fmt.Fprintf(&out, "- Frameworks Detected: %s\n", frameworks)
	fmt.Fprintf(&out, "- Language: %s\n\n", result.Language)
	out.WriteString(`**Acceptance Criteria:**
- All navigation flows work correctly
- User interactions (clicks, form inputs) function properly
- Assertions validate expected behavior
- Coverage metrics meet quality standards`)
	return out.String()
}
