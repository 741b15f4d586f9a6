// Package validate holds the integrity checks that decide whether a
// candidate rewrite can be trusted: a meaningful-line size ratio, an
// element-preservation check over declared names, and a positional
// line-similarity score. Every check is a pure function; thresholds come
// from the caller so each boundary can be probed independently.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"optivet/internal/config"
)

var (
	// Comment-block furniture: lines that are only /, #, or * characters.
	commentMarkerRe = regexp.MustCompile(`^[/#*]+$`)

	// A lone structural brace, optionally with trailing ; or ,.
	loneBraceRe = regexp.MustCompile(`^[{}\[\]()][;,]?$`)
)

// MeaningfulLines counts lines that carry content: non-blank, not a pure
// comment marker, not a lone brace.
func MeaningfulLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if commentMarkerRe.MatchString(t) {
			continue
		}
		if loneBraceRe.MatchString(t) {
			continue
		}
		count++
	}
	return count
}

// SizeReport describes a candidate that shrank below the acceptable
// ratio of the original's meaningful lines.
type SizeReport struct {
	OriginalLines  int
	CandidateLines int
	Ratio          float64
	Threshold      float64
}

// Warning renders the report as a human-readable rejection reason.
func (r *SizeReport) Warning() string {
	return fmt.Sprintf(
		"candidate dropped too much content: %d meaningful line(s) vs %d in the original (ratio %.2f, minimum %.2f)",
		r.CandidateLines, r.OriginalLines, r.Ratio, r.Threshold)
}

// CheckSize compares meaningful-line counts and returns a report when
// the candidate is strictly below the size threshold for originals of
// this size, or nil when the check passes. An original with no
// meaningful lines always passes.
func CheckSize(original, candidate string, cfg config.ValidationConfig) *SizeReport {
	origLines := MeaningfulLines(original)
	candLines := MeaningfulLines(candidate)

	ratio := 1.0
	if origLines > 0 {
		ratio = float64(candLines) / float64(origLines)
	}

	threshold := cfg.LargeSizeRatio
	switch {
	case origLines <= cfg.SmallSizeLines:
		threshold = cfg.SmallSizeRatio
	case origLines <= cfg.MediumSizeLines:
		threshold = cfg.MediumSizeRatio
	}

	if ratio < threshold {
		return &SizeReport{
			OriginalLines:  origLines,
			CandidateLines: candLines,
			Ratio:          ratio,
			Threshold:      threshold,
		}
	}
	return nil
}
