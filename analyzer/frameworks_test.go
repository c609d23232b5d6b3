// ABOUTME: Tests for framework scoring and language detection.
// ABOUTME: Verifies import strings score double weight and ties keep table order.
package analyzer

import (
	"reflect"
	"testing"
)

func TestDetectFrameworksScoring(t *testing.T) {
	code := `import { test, expect } from '@playwright/test';
test('loads', async ({ page }) => {
  await page.goto('https://example.com');
  await page.locator('#go').click();
});`

	got := DetectFrameworks(code)
	if len(got) == 0 || got[0] != "playwright" {
		t.Errorf("frameworks = %v, want playwright ranked first", got)
	}
}

func TestDetectFrameworksNoMatch(t *testing.T) {
	got := DetectFrameworks("SELECT * FROM users;")
	if len(got) != 0 {
		t.Errorf("expected no frameworks, got %v", got)
	}
}

func TestDetectFrameworksImportsScoreDouble(t *testing.T) {
	// One cypress keyword ("cy.") scores 3; playwright import mentions score
	// double weight each, so playwright ranks first.
	got := DetectFrameworks("cy. @playwright/test")
	want := []string{"playwright", "cypress"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frameworks = %v, want %v", got, want)
	}
}

func TestDetectFrameworksTieKeepsTableOrder(t *testing.T) {
	// "beforeEach" alone scores jest at weight 2; "findElement" alone scores
	// selenium at weight 2. With both present the tie resolves to table order:
	// selenium is declared before jest.
	got := DetectFrameworks("findElement beforeEach")
	want := []string{"selenium", "jest"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frameworks = %v, want %v", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"app.spec.ts", "typescript"},
		{"app.test.js", "javascript"},
		{"widget.tsx", "typescript"},
		{"test_login.py", "python"},
		{"LoginTest.java", "java"},
		{"unknown.xyz", "javascript"},
		{"noext", "javascript"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.filename); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
