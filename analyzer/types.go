// ABOUTME: Core data model for script analysis: StepKind, Step, and the immutable Result.
// ABOUTME: A Result is produced once per input file and never mutated afterward.
package analyzer

// StepKind classifies a normalized user action extracted from source code.
type StepKind string

const (
	KindNavigation  StepKind = "navigation"
	KindClick       StepKind = "click"
	KindInput       StepKind = "input"
	KindAssertURL   StepKind = "assert_url"
	KindAssertValue StepKind = "assert_value"
	KindAssertCSS   StepKind = "assert_css"
	KindAssertion   StepKind = "assertion"
	KindWait        StepKind = "wait"
)

// IsAssertion reports whether the kind is any of the assert_* variants.
func (k StepKind) IsAssertion() bool {
	switch k {
	case KindAssertURL, KindAssertValue, KindAssertCSS, KindAssertion:
		return true
	}
	return false
}

// Step is one normalized user action extracted from a test script.
// Kind determines which of the optional fields are meaningful.
type Step struct {
	Kind          StepKind `json:"kind"`
	Action        string   `json:"action,omitempty"`
	Selector      string   `json:"selector,omitempty"`
	Value         string   `json:"value,omitempty"`
	ExpectedValue string   `json:"expected_value,omitempty"`
	AssertionType string   `json:"assertion_type,omitempty"`
	CSSProperty   string   `json:"css_property,omitempty"`
	URL           string   `json:"url,omitempty"`
	SourceLine    int      `json:"source_line"`
	OriginalCode  string   `json:"original_code,omitempty"`
}

// Result is the immutable output of analyzing one input file.
type Result struct {
	Filename           string   `json:"filename"`
	NormalizedFilename string   `json:"normalized_filename"`
	Language           string   `json:"language"`
	Frameworks         []string `json:"frameworks"`
	URLs               []string `json:"urls"`
	PrimaryURL         string   `json:"primary_url,omitempty"`
	Steps              []Step   `json:"steps"`
	ComplexityScore    int      `json:"complexity_score"`
	CodeLength         int      `json:"code_length"`
	LineCount          int      `json:"line_count"`
}

// URLCount returns the number of distinct URLs found.
func (r *Result) URLCount() int { return len(r.URLs) }

// StepCount returns the number of parsed steps.
func (r *Result) StepCount() int { return len(r.Steps) }

// AssertionKinds returns the distinct assert_* kinds present, in first-seen order.
func (r *Result) AssertionKinds() []StepKind {
	seen := make(map[StepKind]bool)
	kinds := make([]StepKind, 0)
	for _, s := range r.Steps {
		if s.Kind.IsAssertion() && !seen[s.Kind] {
			seen[s.Kind] = true
			kinds = append(kinds, s.Kind)
		}
	}
	return kinds
}
