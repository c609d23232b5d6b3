// ABOUTME: Playwright test generator: a pure function from an analysis Result to JavaScript test text.
// ABOUTME: A dispatch table maps each step kind to a snippet rule; missing operands degrade, never fail.
package codegen

import (
	"fmt"
	"strings"

	"github.com/2389-research/qaforge/analyzer"
)

// playwrightRules maps each step kind to its snippet-producing rule. Steps
// whose kind has no registered rule are skipped, not fatal.
var playwrightRules = map[analyzer.StepKind]func(analyzer.Step) string{
	analyzer.KindNavigation:  playwrightNavigation,
	analyzer.KindClick:       playwrightClick,
	analyzer.KindInput:       playwrightInput,
	analyzer.KindAssertURL:   playwrightURLAssertion,
	analyzer.KindAssertValue: playwrightValueAssertion,
	analyzer.KindAssertCSS:   playwrightCSSAssertion,
	analyzer.KindAssertion:   playwrightGenericAssertion,
	analyzer.KindWait:        playwrightWait,
}

func playwrightNavigation(step analyzer.Step) string {
	if step.URL == "" {
		return "  //Navigation step - URL not found"
	}
	return fmt.Sprintf("  await page.goto('%s');\n  await page.waitForLoadState('networkidle');", step.URL)
}

func playwrightClick(step analyzer.Step) string {
	if step.Selector == "" {
		return "  //Click step - selector not found"
	}
	return fmt.Sprintf("  await page.locator('%s').click();", CleanSelector(step.Selector))
}

func playwrightInput(step analyzer.Step) string {
	switch {
	case step.Selector != "" && step.Value != "":
		return fmt.Sprintf("  await page.locator('%s').fill('%s');", CleanSelector(step.Selector), step.Value)
	case step.Selector != "":
		return fmt.Sprintf("  await page.locator('%s').fill('');", CleanSelector(step.Selector))
	}
	return "  //Input step - selector not found"
}

func playwrightURLAssertion(step analyzer.Step) string {
	if step.ExpectedValue == "" {
		return "  //URL assertion - expected URL not found"
	}
	return fmt.Sprintf("  expect(page.url()).toBe('%s');", step.ExpectedValue)
}

func playwrightValueAssertion(step analyzer.Step) string {
	selector := CleanSelector(step.Selector)
	switch {
	case step.Selector != "" && step.ExpectedValue != "":
		return fmt.Sprintf("  await expect(page.locator('%s')).toHaveValue('%s');", selector, step.ExpectedValue)
	case step.Selector != "":
		return fmt.Sprintf("  await expect(page.locator('%s')).toBeVisible();", selector)
	}
	return "  //Value assertion - selector not found"
}

func playwrightCSSAssertion(step analyzer.Step) string {
	selector := CleanSelector(step.Selector)
	switch {
	case step.Selector != "" && step.CSSProperty != "" && step.ExpectedValue != "":
		return fmt.Sprintf("  await expect(page.locator('%s')).toHaveCSS('%s','%s');", selector, step.CSSProperty, step.ExpectedValue)
	case step.Selector != "":
		return fmt.Sprintf("  await expect(page.locator('%s')).toBeVisible();", selector)
	}
	return "  //CSS assertion - missing properties"
}

func playwrightGenericAssertion(step analyzer.Step) string {
	selector := CleanSelector(step.Selector)
	switch step.AssertionType {
	case "have.text", "contain.text", "contain":
		if step.ExpectedValue != "" {
			return fmt.Sprintf("  await expect(page.locator('%s')).toContainText('%s');", selector, step.ExpectedValue)
		}
	}
	return fmt.Sprintf("  await expect(page.locator('%s')).toBeVisible();", selector)
}

func playwrightWait(step analyzer.Step) string {
	return "  await page.waitForLoadState('networkidle');"
}

// CleanSelector strips surrounding quote characters from a selector. Applying
// it to an already-clean selector returns it unchanged.
func CleanSelector(selector string) string {
	return strings.Trim(selector, `'"`)
}

// GeneratePlaywright renders one Playwright test suite for the analysis:
// a describe block named after the normalized filename, a beforeEach that
// navigates to the primary URL when one exists, and a single test case with
// one rendered line per recognized step, in step order.
func GeneratePlaywright(result *analyzer.Result) string {
	var out strings.Builder

	fmt.Fprintf(&out, "const { test, expect } = require('@playwright/test');\n\n")
	fmt.Fprintf(&out, "test.describe('%s - Generated Tests', () => {", result.NormalizedFilename)

	if result.PrimaryURL != "" {
		fmt.Fprintf(&out, `
  test.beforeEach(async ({ page }) => {
    await page.goto('%s');
    await page.waitForLoadState('networkidle');
  });`, result.PrimaryURL)
	}

	out.WriteString("\n  test('Application functionality test', async ({ page }) => {\n")

	for _, step := range result.Steps {
		rule, ok := playwrightRules[step.Kind]
		if !ok {
			continue
		}
		out.WriteString("  ")
		out.WriteString(rule(step))
		out.WriteString("\n")
	}

	out.WriteString("  });\n});\n")
	return out.String()
}
