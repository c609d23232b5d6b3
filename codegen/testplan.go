// ABOUTME: Test plan generator producing a deterministic Markdown plan from the analysis.
package codegen

import (
	"fmt"
	"strings"

	"github.com/2389-research/qaforge/analyzer"
)

// GenerateTestPlan renders a Markdown test plan derived from the analysis.
func GenerateTestPlan(result *analyzer.Result) string {
	framework := "Standard web application"
	if len(result.Frameworks) > 0 {
		framework = result.Frameworks[0]
	}

	primary := result.PrimaryURL
	if primary == "" {
		primary = "No URL found"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## Test Plan for %s\n\n", result.Filename)
	out.WriteString("### Overview\n")
	fmt.Fprintf(&out, "- **Application**: %s\n", result.Filename)
	fmt.Fprintf(&out, "- **Technology**: %s\n", result.Language)
	fmt.Fprintf(&out, "- **Framework**: %s\n", framework)
	fmt.Fprintf(&out, "- **Target URL**: %s\n", primary)
	fmt.Fprintf(&out, "- **Test Steps**: %d\n\n", result.StepCount())
	out.WriteString(`### Test Strategy
1. **Functional Testing**
   - Verify all user interactions work correctly
   - Validate navigation flows
   - Test form inputs and submissions

2. **UI Testing**
   - Check element visibility and accessibility
   - Validate CSS properties and styling
   - Test responsive behavior

3. **Integration Testing**
   - Verify API calls and data flow
   - Test external service integrations
   - Validate error handling

### Coverage Goals
- Minimum 80% code coverage
- All critical user paths tested
- Error scenarios covered

### Test Environment
- Browser: Chromium (Playwright)
- Test Framework: Playwright
- Coverage Tool: c8
- Reporting: HTML + JSON`)
	return out.String()
}
