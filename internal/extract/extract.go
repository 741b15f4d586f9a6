// Package extract pulls candidate code out of raw model output. The
// model is untrusted: output may be a JSON envelope, a fenced block, a
// fence cut off mid-generation, or chatty prose around the code. The
// strategies run in a fixed order and the first success wins; callers
// treat a failed extraction as an immediate fallback.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// optimizedEnvelope is the JSON shape some prompts ask the model for.
type optimizedEnvelope struct {
	OptimizedCode string `json:"optimized_code"`
}

var (
	// Closed fenced block with optional language tag.
	fencedBlockRe = regexp.MustCompile("(?s)```[^\\n`]*\\n(.*?)```")

	// A lone inline-fenced token on its own line.
	inlineFenceRe = regexp.MustCompile("^`([^`\\n]+)`$")

	// Salvage path for an envelope that fails strict JSON parsing.
	optimizedFieldRe = regexp.MustCompile(`"optimized_code"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	// Preamble sentences models prepend to code.
	preambleRe = regexp.MustCompile(`(?i)^\s*(here('s| is| are)?\b.*|sure[,!.].*|certainly[,!.].*|of course[,!.].*|below is\b.*|the following\b.*|output\s*:.*|optimized (code|version)\s*:?.*|i('ve| have) (optimized|rewritten)\b.*)$`)
)

// Extract returns the candidate code found in raw, or ok=false when the
// input is empty or nothing code-like survives filtering.
func Extract(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if code, ok := fromJSONEnvelope(trimmed); ok {
		return code, true
	}
	if code, ok := fromFencedBlock(trimmed); ok {
		return code, true
	}
	if code, ok := fromUnclosedFence(trimmed); ok {
		return code, true
	}
	if m := inlineFenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1], true
	}
	return fromRawText(trimmed)
}

// fromJSONEnvelope handles output that is (or tries to be) a JSON object
// carrying an optimized_code field. Parse failures fall through to a
// regex salvage of the field value.
func fromJSONEnvelope(s string) (string, bool) {
	if !strings.HasPrefix(s, "{") || !strings.Contains(s, `"optimized_code"`) {
		return "", false
	}

	var env optimizedEnvelope
	if err := json.Unmarshal([]byte(s), &env); err == nil && env.OptimizedCode != "" {
		return env.OptimizedCode, true
	}

	if m := optimizedFieldRe.FindStringSubmatch(s); m != nil {
		code := unescape(m[1])
		if strings.TrimSpace(code) != "" {
			return code, true
		}
	}
	return "", false
}

func fromFencedBlock(s string) (string, bool) {
	m := fencedBlockRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	interior := strings.TrimSpace(m[1])
	if interior == "" {
		return "", false
	}
	return interior, true
}

// fromUnclosedFence recovers output where generation stopped before the
// closing fence. The interior is a candidate for truncation repair, not
// an immediate failure.
func fromUnclosedFence(s string) (string, bool) {
	if strings.Count(s, "```") != 1 {
		return "", false
	}
	idx := strings.Index(s, "```")
	rest := s[idx+3:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	interior := strings.TrimSpace(rest[nl+1:])
	if interior == "" {
		return "", false
	}
	return interior, true
}

// fromRawText strips preamble sentences and prose-looking lines,
// returning whatever code-like text remains.
func fromRawText(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if preambleRe.MatchString(line) {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		if looksLikeProse(line) {
			continue
		}
		kept = append(kept, line)
	}

	code := strings.TrimSpace(strings.Join(kept, "\n"))
	if code == "" {
		return "", false
	}
	return code, true
}

// looksLikeProse flags a capitalized multi-word sentence ending in
// punctuation with no code-like characters. Comment lines are valid code
// and are always kept.
func looksLikeProse(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false // blank lines are neutral, keep layout
	}
	for _, marker := range []string{"//", "#", "*", "--", ";;", "/*"} {
		if strings.HasPrefix(t, marker) {
			return false
		}
	}
	if strings.ContainsAny(t, "{}[]()=;`") {
		return false
	}
	if t[0] < 'A' || t[0] > 'Z' {
		return false
	}
	if len(strings.Fields(t)) < 3 {
		return false
	}
	last := t[len(t)-1]
	return last == '.' || last == '!' || last == '?' || last == ':'
}

// unescape reverses the embedded \n, \t, \r, \", and \\ sequences of a
// salvaged JSON string value.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			// Unknown escape, keep it as written.
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
