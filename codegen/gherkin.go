// ABOUTME: Gherkin feature generator: a pure function from an analysis Result to .feature text.
// ABOUTME: Verb and phrasing are selected solely by step kind; empty operands render as empty strings.
package codegen

import (
	"fmt"
	"strings"

	"github.com/2389-research/qaforge/analyzer"
)

// GenerateGherkin renders one Feature with an optional Background (present
// only when a primary URL exists) and one Scenario carrying a When/Then line
// per step. Gherkin tolerates empty selector/value strings, so no degradation
// logic is needed.
func GenerateGherkin(result *analyzer.Result) string {
	var out strings.Builder

	fmt.Fprintf(&out, `Feature: %s Functionality
As a user of the application
I want to interact with the %s
So that I can achieve my testing goals
`, result.Filename, strings.ToLower(result.Filename))

	if result.PrimaryURL != "" {
		fmt.Fprintf(&out, `
Background:
  Given I open the application at "%s"
  And the page loads successfully
`, result.PrimaryURL)
	}

	out.WriteString("\nScenario: Application functionality test\n")

	for _, step := range result.Steps {
		switch {
		case step.Kind == analyzer.KindNavigation:
			fmt.Fprintf(&out, "  When I navigate to %q\n", step.URL)
		case step.Kind == analyzer.KindClick:
			fmt.Fprintf(&out, "  When I click on the element %q\n", step.Selector)
		case step.Kind == analyzer.KindInput:
			fmt.Fprintf(&out, "  When I enter %q in %q\n", step.Value, step.Selector)
		case step.Kind.IsAssertion():
			fmt.Fprintf(&out, "  Then the element %q should be validated\n", step.Selector)
		}
	}

	return out.String()
}
