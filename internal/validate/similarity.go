package validate

import (
	"math"
	"strings"
)

// Similarity scores how closely the candidate resembles the original at
// the line level, 0..100. Both texts are reduced to trimmed non-blank
// lines; positions up to the shorter length count a match when the lines
// are equal, or when both exceed fuzzyLen characters and the first
// fuzzyLen characters of either line occur in the other (tolerating
// reformatting).
//
// The score multiplies the match ratio by shorter/longer even though the
// ratio's denominator is already the longer length, so length mismatch
// is penalized twice. That is the shipped behavior and downstream
// thresholds are tuned to it; do not "fix" it without retuning.
func Similarity(original, candidate string, fuzzyLen int) int {
	a := contentLines(original)
	b := contentLines(candidate)

	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if linesMatch(a[i], b[i], fuzzyLen) {
			matches++
		}
	}

	lengthRatio := float64(shorter) / float64(longer)
	score := math.Round(float64(matches) / float64(longer) * lengthRatio * 100)
	return int(score)
}

func linesMatch(x, y string, fuzzyLen int) bool {
	if x == y {
		return true
	}
	if len(x) <= fuzzyLen || len(y) <= fuzzyLen {
		return false
	}
	return strings.Contains(y, x[:fuzzyLen]) || strings.Contains(x, y[:fuzzyLen])
}

func contentLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
