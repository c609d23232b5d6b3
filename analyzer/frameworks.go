// ABOUTME: Framework and language detection from keyword/import scoring over raw script text.
// ABOUTME: Framework table order is the tiebreaker for equal scores (stable sort).
package analyzer

import (
	"path/filepath"
	"sort"
	"strings"
)

// frameworkPattern describes the scoring signals for one known framework.
type frameworkPattern struct {
	name     string
	keywords []string
	imports  []string
	weight   int
}

// frameworkTable lists known frameworks in declaration order. Order matters:
// equal scores preserve this order after the stable descending sort.
var frameworkTable = []frameworkPattern{
	{
		name:     "cypress",
		keywords: []string{"cy.", "cypress", "cy.visit", "cy.get", "cy.click", "cy.type", "cy.should"},
		imports:  []string{"cypress"},
		weight:   3,
	},
	{
		name:     "playwright",
		keywords: []string{"page.", "test(", "expect(", "page.goto", "page.locator", "page.click", "page.fill"},
		imports:  []string{"@playwright/test", "playwright"},
		weight:   3,
	},
	{
		name:     "selenium",
		keywords: []string{"driver", "WebDriver", "findElement", "By.", "selenium"},
		imports:  []string{"selenium-webdriver", "webdriver"},
		weight:   2,
	},
	{
		name:     "jest",
		keywords: []string{"describe(", "test(", "it(", "expect(", "beforeEach", "afterEach"},
		imports:  []string{"jest", "@jest/globals"},
		weight:   2,
	},
}

// languageByExt maps file extensions to language names. Unknown extensions
// default to javascript.
var languageByExt = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".vue":   "vue",
	".py":    "python",
	".rb":    "ruby",
	".dart":  "dart",
	".kt":    "kotlin",
	".swift": "swift",
	".java":  "java",
	".cs":    "csharp",
}

// DetectLanguage returns the language implied by the filename extension.
func DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "javascript"
}

// DetectFrameworks scores each known framework against the code and returns
// the names of all frameworks with a positive score, highest first. Each
// keyword present contributes its framework weight; each import string present
// contributes twice the weight. Ties keep table declaration order.
func DetectFrameworks(code string) []string {
	type scored struct {
		name  string
		score int
	}

	var hits []scored
	for _, fw := range frameworkTable {
		score := 0
		for _, kw := range fw.keywords {
			if strings.Contains(code, kw) {
				score += fw.weight
			}
		}
		for _, imp := range fw.imports {
			if strings.Contains(code, imp) {
				score += fw.weight * 2
			}
		}
		if score > 0 {
			hits = append(hits, scored{name: fw.name, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}
