// ABOUTME: Tests for the deterministic execution and coverage simulation.
package runner

import (
	"testing"

	"github.com/2389-research/qaforge/analyzer"
)

func TestSimulateExecutionDeterministic(t *testing.T) {
	result := analyzer.Analyze(`cy.visit('https://a.example');
cy.get('#x').click();`, "a.cy.js")

	first := SimulateExecution(result)
	second := SimulateExecution(result)
	if *first != *second {
		t.Errorf("not deterministic: %+v vs %+v", first, second)
	}
	if first.TestsRun != 2 || first.TestsPassed != 2 || first.TestsFailed != 0 {
		t.Errorf("counts = %+v", first)
	}
	if first.ExecutionMode != "simulated" {
		t.Errorf("mode = %q", first.ExecutionMode)
	}
}

func TestSimulateExecutionEmptyAnalysisDefaults(t *testing.T) {
	exec := SimulateExecution(analyzer.Analyze("", "empty.js"))
	if exec.TestsRun != defaultTestCount {
		t.Errorf("tests_run = %d, want %d", exec.TestsRun, defaultTestCount)
	}
}

func TestSimulateCoverageBands(t *testing.T) {
	for _, complexity := range []int{0, 1, 5, 11, 40, 200} {
		cov := SimulateCoverage(complexity)

		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"statements", cov.Statements, 50, 95},
			{"branches", cov.Branches, 45, 90},
			{"functions", cov.Functions, 60, 100},
			{"lines", cov.Lines, 55, 92},
		}
		for _, c := range checks {
			if c.v < c.lo || c.v > c.hi {
				t.Errorf("complexity %d: %s = %.1f outside [%.0f, %.0f]", complexity, c.name, c.v, c.lo, c.hi)
			}
		}
		if cov.Source != "simulated" {
			t.Errorf("source = %q", cov.Source)
		}
	}
}

func TestSimulateCoverageDeterministic(t *testing.T) {
	a := SimulateCoverage(11)
	b := SimulateCoverage(11)
	if *a != *b {
		t.Errorf("not deterministic: %+v vs %+v", a, b)
	}
}

func TestSimulateCoverageScalesWithComplexity(t *testing.T) {
	// Higher complexity pushes the base up until it clamps.
	low := SimulateCoverage(0)
	high := SimulateCoverage(12)
	if high.Overall <= low.Overall {
		t.Errorf("overall did not increase: %.1f vs %.1f", low.Overall, high.Overall)
	}
}
