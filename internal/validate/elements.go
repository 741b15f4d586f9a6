package validate

import (
	"fmt"
	"regexp"
	"strings"

	"optivet/internal/config"
)

// Element categories, in report order.
const (
	CategoryVariable = "variable"
	CategoryFunction = "function"
	CategoryClass    = "class"
	CategoryImport   = "import"
)

var categoryOrder = []string{CategoryVariable, CategoryFunction, CategoryClass, CategoryImport}

// Per-line lexical extractors. This is deliberately not a parser: the
// check only needs the names a rewrite is likely to drop, across the
// handful of language families the pipeline sees.
var elementPatterns = map[string][]*regexp.Regexp{
	CategoryVariable: {
		regexp.MustCompile(`\b(?:var|let|const)\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`\b([A-Za-z_]\w*)\s*:=`),
		regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=[^=]`),
	},
	CategoryFunction: {
		regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`\bdef\s+([A-Za-z_]\w*)`),
		regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`),
		regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:function\b|\()`),
	},
	CategoryClass: {
		regexp.MustCompile(`\bclass\s+([A-Za-z_]\w*)`),
		regexp.MustCompile(`\btype\s+([A-Za-z_]\w*)\s+(?:struct|interface)\b`),
	},
	CategoryImport: {
		regexp.MustCompile(`\bfrom\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`\bimport\s+[^'"\n]*['"]([^'"]+)['"]`),
		regexp.MustCompile(`^\s*import\s+([A-Za-z_][\w.]*)`),
		regexp.MustCompile(`^\s*from\s+([A-Za-z_][\w.]*)\s+import\b`),
		regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`),
		regexp.MustCompile(`\brequire\(\s*['"]([^'"]+)['"]`),
	},
}

// MissingElements maps a category to the original's names the candidate
// no longer declares, in first-appearance order.
type MissingElements map[string][]string

// Empty reports whether no category has missing names.
func (m MissingElements) Empty() bool {
	for _, names := range m {
		if len(names) > 0 {
			return false
		}
	}
	return true
}

// Warning renders the missing names per category, e.g.
// "dropped 2 function(s): foo, bar; 1 import(s): os".
func (m MissingElements) Warning() string {
	var parts []string
	for _, cat := range categoryOrder {
		if names := m[cat]; len(names) > 0 {
			parts = append(parts, fmt.Sprintf("%d %s(s): %s", len(names), cat, strings.Join(names, ", ")))
		}
	}
	return "candidate dropped named elements: " + strings.Join(parts, "; ")
}

// CheckElements extracts declared names per category from both texts and
// returns the names the candidate lost. Trivial variable names (single
// lowercase letters and the configured allowlist) are discarded before
// judging: a faithful rewrite routinely inlines loop counters and
// scratch variables, and losing one is not evidence of data loss.
func CheckElements(original, candidate string, cfg *config.Config) MissingElements {
	origNames := extractElements(original)
	candNames := extractElements(candidate)

	missing := make(MissingElements)
	for _, cat := range categoryOrder {
		candSet := make(map[string]struct{}, len(candNames[cat]))
		for _, n := range candNames[cat] {
			candSet[n] = struct{}{}
		}

		for _, name := range origNames[cat] {
			if cat == CategoryVariable && cfg.IsTrivialName(name) {
				continue
			}
			if _, ok := candSet[name]; !ok {
				missing[cat] = append(missing[cat], name)
			}
		}
	}
	return missing
}

// extractElements runs every category's patterns over each line,
// collecting names in first-appearance order.
func extractElements(text string) map[string][]string {
	found := make(map[string][]string, len(categoryOrder))
	seen := make(map[string]map[string]struct{}, len(categoryOrder))
	for _, cat := range categoryOrder {
		seen[cat] = make(map[string]struct{})
	}

	for _, line := range strings.Split(text, "\n") {
		for _, cat := range categoryOrder {
			for _, re := range elementPatterns[cat] {
				for _, m := range re.FindAllStringSubmatch(line, -1) {
					name := m[1]
					if _, dup := seen[cat][name]; dup {
						continue
					}
					seen[cat][name] = struct{}{}
					found[cat] = append(found[cat], name)
				}
			}
		}
	}
	return found
}
