// ABOUTME: Exports an analysis Result as a structured YAML document for the run's artifact set.
// ABOUTME: Uses gopkg.in/yaml.v3 with explicit wire types for deterministic field ordering.
package codegen

import (
	"fmt"

	"github.com/2389-research/qaforge/analyzer"
	"gopkg.in/yaml.v3"
)

// yamlStep is the serializable YAML representation of one parsed step.
type yamlStep struct {
	Kind          string `yaml:"kind"`
	Selector      string `yaml:"selector,omitempty"`
	Value         string `yaml:"value,omitempty"`
	ExpectedValue string `yaml:"expected_value,omitempty"`
	URL           string `yaml:"url,omitempty"`
	SourceLine    int    `yaml:"source_line"`
}

// yamlAnalysis is the top-level serializable YAML representation of a Result.
type yamlAnalysis struct {
	Filename           string     `yaml:"filename"`
	NormalizedFilename string     `yaml:"normalized_filename"`
	Language           string     `yaml:"language"`
	Frameworks         []string   `yaml:"frameworks,omitempty"`
	PrimaryURL         string     `yaml:"primary_url,omitempty"`
	URLs               []string   `yaml:"urls,omitempty"`
	ComplexityScore    int        `yaml:"complexity_score"`
	Steps              []yamlStep `yaml:"steps"`
}

// ExportAnalysisYAML serializes the analysis as YAML text.
func ExportAnalysisYAML(result *analyzer.Result) (string, error) {
	doc := yamlAnalysis{
		Filename:           result.Filename,
		NormalizedFilename: result.NormalizedFilename,
		Language:           result.Language,
		Frameworks:         result.Frameworks,
		PrimaryURL:         result.PrimaryURL,
		URLs:               result.URLs,
		ComplexityScore:    result.ComplexityScore,
		Steps:              make([]yamlStep, 0, len(result.Steps)),
	}

	for _, s := range result.Steps {
		doc.Steps = append(doc.Steps, yamlStep{
			Kind:          string(s.Kind),
			Selector:      s.Selector,
			Value:         s.Value,
			ExpectedValue: s.ExpectedValue,
			URL:           s.URL,
			SourceLine:    s.SourceLine,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal analysis yaml: %w", err)
	}
	return string(data), nil
}
