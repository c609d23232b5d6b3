// ABOUTME: Line-local step parser built as an explicit ordered rule list, first match wins.
// ABOUTME: The chain rule may emit two logical steps (input then assert_value) from one line.
package analyzer

import (
	"regexp"
	"strings"
)

// stepRule pairs a predicate/extractor over a single source line. Rules are
// evaluated top-to-bottom; the first rule whose extract returns steps claims
// the line.
type stepRule struct {
	name    string
	extract func(line string, lineNum int) []Step
}

var (
	chainPattern     = regexp.MustCompile(`cy\.get\s*\(\s*["']([^"']+)["']\s*\)\s*\.type\s*\(\s*["']([^"']*)["'].*\.should\s*\(\s*["']have\.value["']\s*,\s*["']([^"']*)["']`)
	urlAssertPattern = regexp.MustCompile(`cy\.url\(\)\s*\.should\s*\(\s*["']eq["']\s*,\s*["']([^"']+)["']`)
	navPattern       = regexp.MustCompile(`(cy\.visit|page\.goto|driver\.get)\s*\(\s*["']([^"']+)["']`)
	clickPattern     = regexp.MustCompile(`cy\.get\s*\(\s*["']([^"']+)["'].*\.click\s*\(`)
	typePattern      = regexp.MustCompile(`cy\.get\s*\(\s*["']([^"']+)["'].*\.type\s*\(\s*["']([^"']*)["']`)
)

// stepRules is the fixed priority order for line classification. The plain
// type rule is last and refuses lines containing ".should(" so the chain rule
// is the only producer of input steps on chained lines.
var stepRules = []stepRule{
	{name: "type_then_assert_value", extract: extractChain},
	{name: "assert_url", extract: extractURLAssert},
	{name: "navigation", extract: extractNavigation},
	{name: "click", extract: extractClick},
	{name: "input", extract: extractType},
}

func extractChain(line string, lineNum int) []Step {
	m := chainPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	selector, typed, expected := m[1], m[2], m[3]
	return []Step{
		{
			Kind:         KindInput,
			Action:       "type",
			Selector:     selector,
			Value:        typed,
			SourceLine:   lineNum,
			OriginalCode: line,
		},
		{
			Kind:          KindAssertValue,
			Action:        "should",
			Selector:      selector,
			AssertionType: "have.value",
			ExpectedValue: expected,
			SourceLine:    lineNum,
			OriginalCode:  line,
		},
	}
}

func extractURLAssert(line string, lineNum int) []Step {
	m := urlAssertPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return []Step{{
		Kind:          KindAssertURL,
		Action:        "should",
		Selector:      "url",
		AssertionType: "eq",
		ExpectedValue: m[1],
		SourceLine:    lineNum,
		OriginalCode:  line,
	}}
}

func extractNavigation(line string, lineNum int) []Step {
	m := navPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return []Step{{
		Kind:         KindNavigation,
		Action:       m[1],
		URL:          m[2],
		SourceLine:   lineNum,
		OriginalCode: line,
	}}
}

func extractClick(line string, lineNum int) []Step {
	m := clickPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return []Step{{
		Kind:         KindClick,
		Action:       "click",
		Selector:     m[1],
		SourceLine:   lineNum,
		OriginalCode: line,
	}}
}

func extractType(line string, lineNum int) []Step {
	// A .should( fragment means the chain rule already had its chance;
	// matching here would double-count the input step.
	if strings.Contains(line, ".should(") {
		return nil
	}
	m := typePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return []Step{{
		Kind:         KindInput,
		Action:       "type",
		Selector:     m[1],
		Value:        m[2],
		SourceLine:   lineNum,
		OriginalCode: line,
	}}
}

// ParseSteps walks the source line by line and classifies each line with the
// first matching rule. Comments and blank lines are skipped. The parser is
// deliberately line-local: a statement spanning multiple source lines is not
// recognized.
func ParseSteps(code string) []Step {
	steps := make([]Step, 0)
	for i, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "*") {
			continue
		}
		lineNum := i + 1
		for _, rule := range stepRules {
			if extracted := rule.extract(line, lineNum); extracted != nil {
				steps = append(steps, extracted...)
				break
			}
		}
	}
	return steps
}

// complexityWeights assigns a fixed cost per step kind. Assertions all share
// one weight regardless of variant.
func complexityWeight(kind StepKind) int {
	switch {
	case kind == KindNavigation:
		return 1
	case kind == KindClick:
		return 2
	case kind == KindInput:
		return 3
	case kind.IsAssertion():
		return 2
	}
	return 0
}

// ComplexityScore sums the per-kind weights over all steps. The score is
// linear: concatenating two step lists sums their scores.
func ComplexityScore(steps []Step) int {
	score := 0
	for _, s := range steps {
		score += complexityWeight(s.Kind)
	}
	return score
}
