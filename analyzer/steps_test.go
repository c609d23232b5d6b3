// ABOUTME: Tests for the ordered step rule cascade, covering priority, skipping, and complexity.
// ABOUTME: Verifies the chain rule claims lines before the plain type rule can double-count them.
package analyzer

import "testing"

func TestParseStepsRulePriority(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKinds []StepKind
	}{
		{
			name:      "chain beats plain type",
			line:      `cy.get('#email').type('a@b.c').should('have.value', 'a@b.c');`,
			wantKinds: []StepKind{KindInput, KindAssertValue},
		},
		{
			name:      "url assertion",
			line:      `cy.url().should('eq', 'https://example.com/home');`,
			wantKinds: []StepKind{KindAssertURL},
		},
		{
			name:      "cypress navigation",
			line:      `cy.visit('https://example.com');`,
			wantKinds: []StepKind{KindNavigation},
		},
		{
			name:      "playwright navigation",
			line:      `await page.goto('https://example.com');`,
			wantKinds: []StepKind{KindNavigation},
		},
		{
			name:      "selenium navigation",
			line:      `driver.get('https://example.com');`,
			wantKinds: []StepKind{KindNavigation},
		},
		{
			name:      "click",
			line:      `cy.get('[data-test=login]').click();`,
			wantKinds: []StepKind{KindClick},
		},
		{
			name:      "plain type",
			line:      `cy.get('#q').type('search term');`,
			wantKinds: []StepKind{KindInput},
		},
		{
			name:      "type with non-value should is not an input",
			line:      `cy.get('#q').type('x').should('be.visible');`,
			wantKinds: nil,
		},
		{
			name:      "comment skipped",
			line:      `// cy.visit('https://example.com');`,
			wantKinds: nil,
		},
		{
			name:      "unrecognized line",
			line:      `const x = 42;`,
			wantKinds: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := ParseSteps(tt.line)
			if len(steps) != len(tt.wantKinds) {
				t.Fatalf("got %d steps (%+v), want %d", len(steps), steps, len(tt.wantKinds))
			}
			for i, kind := range tt.wantKinds {
				if steps[i].Kind != kind {
					t.Errorf("step %d kind = %q, want %q", i, steps[i].Kind, kind)
				}
			}
		})
	}
}

func TestParseStepsIsLineLocal(t *testing.T) {
	// A chained call split across lines is deliberately not recognized.
	code := "cy.get('#name')\n  .type('Alice')\n  .should('have.value', 'Alice');"
	steps := ParseSteps(code)
	if len(steps) != 0 {
		t.Errorf("multi-line statement should not parse, got %+v", steps)
	}
}

func TestComplexityScoreIsLinear(t *testing.T) {
	a := ParseSteps("cy.visit('https://a.example');\ncy.get('#x').click();")
	b := ParseSteps("cy.get('#y').type('v');\ncy.url().should('eq', 'https://a.example/done');")

	combined := append(append([]Step{}, a...), b...)
	if got, want := ComplexityScore(combined), ComplexityScore(a)+ComplexityScore(b); got != want {
		t.Errorf("combined score = %d, want %d", got, want)
	}
}

func TestComplexityWeights(t *testing.T) {
	tests := []struct {
		kind StepKind
		want int
	}{
		{KindNavigation, 1},
		{KindClick, 2},
		{KindInput, 3},
		{KindAssertURL, 2},
		{KindAssertValue, 2},
		{KindAssertCSS, 2},
		{KindAssertion, 2},
		{KindWait, 0},
	}
	for _, tt := range tests {
		if got := complexityWeight(tt.kind); got != tt.want {
			t.Errorf("weight(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
