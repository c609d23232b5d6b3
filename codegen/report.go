// ABOUTME: Final report document shapes and assembly: metadata, analysis/execution/coverage
// ABOUTME: summaries, artifact basenames, and accumulated errors, serialized as JSON.
package codegen

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/2389-research/qaforge/analyzer"
)

// ExecutionSummary describes a (simulated) test execution.
type ExecutionSummary struct {
	TestsRun      int    `json:"tests_run"`
	TestsPassed   int    `json:"tests_passed"`
	TestsFailed   int    `json:"tests_failed"`
	DurationMS    int    `json:"duration_ms"`
	ExecutionMode string `json:"execution_mode"`
}

// CoverageSummary describes (simulated) coverage percentages.
type CoverageSummary struct {
	Statements float64 `json:"statements"`
	Branches   float64 `json:"branches"`
	Functions  float64 `json:"functions"`
	Lines      float64 `json:"lines"`
	Overall    float64 `json:"overall"`
	Source     string  `json:"source"`
}

// ReportMetadata is the header block of a final report.
type ReportMetadata struct {
	Filename            string `json:"filename"`
	NormalizedFilename  string `json:"normalized_filename"`
	Status              string `json:"status"`
	AllContentGenerated bool   `json:"all_content_generated"`
	GeneratedAt         string `json:"generated_at"`
}

// AnalysisSummary is the condensed analysis block of a final report.
type AnalysisSummary struct {
	Language        string   `json:"language"`
	Frameworks      []string `json:"frameworks"`
	PrimaryURL      string   `json:"primary_url,omitempty"`
	URLCount        int      `json:"url_count"`
	StepCount       int      `json:"step_count"`
	ComplexityScore int      `json:"complexity_score"`
}

// FinalReport is the run's closing artifact, the durable source of truth
// for a finished run.
type FinalReport struct {
	Metadata  ReportMetadata    `json:"metadata"`
	Analysis  AnalysisSummary   `json:"analysis"`
	Execution *ExecutionSummary `json:"execution,omitempty"`
	Coverage  *CoverageSummary  `json:"coverage,omitempty"`
	Artifacts []string          `json:"artifacts"`
	Errors    []string          `json:"errors"`
}

// BuildFinalReport assembles a final report from the run's analysis and
// summaries. Artifact names are sorted for a stable document.
func BuildFinalReport(result *analyzer.Result, exec *ExecutionSummary, cov *CoverageSummary, artifacts []string, errs []string) *FinalReport {
	status := "completed"
	if len(errs) > 0 {
		status = "completed_with_errors"
	}

	sorted := append(make([]string, 0, len(artifacts)), artifacts...)
	sort.Strings(sorted)

	if errs == nil {
		errs = make([]string, 0)
	}

	return &FinalReport{
		Metadata: ReportMetadata{
			Filename:            result.Filename,
			NormalizedFilename:  result.NormalizedFilename,
			Status:              status,
			AllContentGenerated: len(errs) == 0,
			GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
		},
		Analysis: AnalysisSummary{
			Language:        result.Language,
			Frameworks:      result.Frameworks,
			PrimaryURL:      result.PrimaryURL,
			URLCount:        result.URLCount(),
			StepCount:       result.StepCount(),
			ComplexityScore: result.ComplexityScore,
		},
		Execution: exec,
		Coverage:  cov,
		Artifacts: sorted,
		Errors:    errs,
	}
}

// JSON serializes the report as indented JSON.
func (r *FinalReport) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal final report: %w", err)
	}
	return string(data), nil
}
