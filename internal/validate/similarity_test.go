package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"optivet/internal/config"
)

func TestSimilarity_Identical(t *testing.T) {
	t.Run("short lines", func(t *testing.T) {
		text := "a = 1\nb = 2\nc = 3"
		assert.Equal(t, 100, Similarity(text, text, config.DefaultFuzzyPrefixLen))
	})

	t.Run("long lines", func(t *testing.T) {
		text := "const runningTotal = values.reduce((a, b) => a + b, 0);\nreturn runningTotal * scalingFactor;"
		assert.Equal(t, 100, Similarity(text, text, config.DefaultFuzzyPrefixLen))
	})

	t.Run("blank lines and indentation ignored", func(t *testing.T) {
		a := "x = 1\n\n  y = 2\n"
		b := "  x = 1\ny = 2"
		assert.Equal(t, 100, Similarity(a, b, config.DefaultFuzzyPrefixLen))
	})
}

func TestSimilarity_FuzzyPrefix(t *testing.T) {
	// Both lines exceed the prefix length and share their first ten
	// characters, so reformatting the tail still counts as a match.
	a := "result = compute(alpha, beta)"
	b := "result = compute(alpha, beta, gamma)"
	assert.Equal(t, 100, Similarity(a, b, config.DefaultFuzzyPrefixLen))
}

func TestSimilarity_NoFuzzyForShortLines(t *testing.T) {
	// Under ten characters only exact equality counts.
	assert.Equal(t, 0, Similarity("x = 1", "x = 2", config.DefaultFuzzyPrefixLen))
}

func TestSimilarity_LengthPenaltyAppliedTwice(t *testing.T) {
	// Four matching positions, candidate twice as long: the match ratio
	// is 4/8 and the length ratio 4/8 again, so the score is 25, not 50.
	orig := "alpha line one longer\nbeta line two longer\ngamma line three x\ndelta line four xx"
	cand := orig + "\nextra one\nextra two\nextra three\nextra four"
	assert.Equal(t, 25, Similarity(orig, cand, config.DefaultFuzzyPrefixLen))
}

func TestSimilarity_Disjoint(t *testing.T) {
	orig := "for (let i = 0; i < n; i++) { total += data[i]; }"
	cand := "print('hello world')"
	assert.Equal(t, 0, Similarity(orig, cand, config.DefaultFuzzyPrefixLen))
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 100, Similarity("", "", config.DefaultFuzzyPrefixLen))
	assert.Equal(t, 0, Similarity("x = 1", "", config.DefaultFuzzyPrefixLen))
	assert.Equal(t, 0, Similarity("", "x = 1", config.DefaultFuzzyPrefixLen))
}

func TestSimilarity_LargeEqualInputs(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "accumulator += values[index] * weights[index];"
	}
	text := strings.Join(lines, "\n")
	assert.Equal(t, 100, Similarity(text, text, config.DefaultFuzzyPrefixLen))
}
