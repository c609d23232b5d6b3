// ABOUTME: Tests for the Gherkin generator covering feature shape, background, and per-kind phrasing.
package codegen

import (
	"strings"
	"testing"

	"github.com/2389-research/qaforge/analyzer"
)

func TestGenerateGherkinFullFeature(t *testing.T) {
	result := &analyzer.Result{
		Filename:   "login.cy.js",
		PrimaryURL: "https://example.com/login",
		Steps: []analyzer.Step{
			{Kind: analyzer.KindNavigation, URL: "https://example.com/login"},
			{Kind: analyzer.KindInput, Selector: "#user", Value: "alice"},
			{Kind: analyzer.KindClick, Selector: "#go"},
			{Kind: analyzer.KindAssertURL, Selector: "url", ExpectedValue: "https://example.com/home"},
		},
	}

	feature := GenerateGherkin(result)

	for _, want := range []string{
		"Feature: login.cy.js Functionality",
		"Background:",
		`Given I open the application at "https://example.com/login"`,
		"Scenario: Application functionality test",
		`When I navigate to "https://example.com/login"`,
		`When I enter "alice" in "#user"`,
		`When I click on the element "#go"`,
		`Then the element "url" should be validated`,
	} {
		if !strings.Contains(feature, want) {
			t.Errorf("missing %q in:\n%s", want, feature)
		}
	}
}

func TestGenerateGherkinEmptyAnalysis(t *testing.T) {
	// Empty input still renders a valid Feature header and an empty scenario body.
	feature := GenerateGherkin(&analyzer.Result{Filename: "empty.js"})

	if !strings.HasPrefix(feature, "Feature: empty.js Functionality") {
		t.Errorf("feature header missing:\n%s", feature)
	}
	if strings.Contains(feature, "Background:") {
		t.Errorf("background should be absent without a primary URL:\n%s", feature)
	}
	if !strings.Contains(feature, "Scenario: Application functionality test") {
		t.Errorf("scenario header missing:\n%s", feature)
	}
	if strings.Contains(feature, "When ") || strings.Contains(feature, "Then ") {
		t.Errorf("empty analysis should produce no steps:\n%s", feature)
	}
}

func TestGenerateGherkinAssertionVariantsAllValidate(t *testing.T) {
	result := &analyzer.Result{
		Filename: "asserts.js",
		Steps: []analyzer.Step{
			{Kind: analyzer.KindAssertValue, Selector: "#a"},
			{Kind: analyzer.KindAssertCSS, Selector: "#b"},
			{Kind: analyzer.KindAssertion, Selector: "#c"},
		},
	}
	feature := GenerateGherkin(result)
	for _, sel := range []string{"#a", "#b", "#c"} {
		want := `Then the element "` + sel + `" should be validated`
		if !strings.Contains(feature, want) {
			t.Errorf("missing %q in:\n%s", want, feature)
		}
	}
}
