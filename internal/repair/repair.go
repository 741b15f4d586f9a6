// Package repair detects candidate code that was cut off mid-generation
// and recovers the recoverable cases by balancing unmatched brackets.
// Repair never fails; it may only be insufficient, in which case the
// pipeline treats the candidate as unrepairable and falls back.
package repair

import "strings"

// openers maps each opening bracket to the closer it expects.
var openers = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
}

// blockKeywords are trailing tokens that promise a body which never
// arrived.
var blockKeywords = []string{
	"if", "else", "elif", "for", "while", "do", "try", "then",
	"func", "def", "switch", "case", "with", "class",
}

// IsTruncated reports whether code reads as incomplete: a trailing
// ellipsis, a dangling arrow, a block-opening keyword with nothing after
// it, or a trailing unmatched opening bracket.
func IsTruncated(code string) bool {
	t := strings.TrimSpace(code)
	if t == "" {
		return false
	}

	if strings.HasSuffix(t, "...") || strings.HasSuffix(t, "…") {
		return true
	}
	if strings.HasSuffix(t, "->") || strings.HasSuffix(t, "=>") {
		return true
	}

	last := t[len(t)-1]
	if _, ok := openers[last]; ok {
		return true
	}
	if len(Scan(t)) > 0 {
		return true
	}

	// Last token is a bare block keyword, optionally colon-suffixed.
	fields := strings.Fields(t)
	token := strings.TrimSuffix(fields[len(fields)-1], ":")
	for _, kw := range blockKeywords {
		if token == kw {
			return true
		}
	}
	return false
}

// Repair appends the closing brackets a truncated candidate still owes,
// in LIFO order, one per line. It returns the (possibly unchanged) code
// and whether anything was appended. Mutation is append-only: the body of
// the candidate is never rewritten.
func Repair(code string) (string, bool) {
	missing := Scan(code)
	if len(missing) == 0 {
		return code, false
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(code, " \t\r\n"))
	for i := len(missing) - 1; i >= 0; i-- {
		b.WriteByte('\n')
		b.WriteByte(missing[i])
	}
	return b.String(), true
}

// Scan walks code once left to right and returns the stack of closing
// brackets still expected at the end, bottom first. The scanner tracks
// string literals opened by ", ', or a backtick so that brackets inside
// literals are ignored, and treats a backslash-escaped quote as
// non-terminating. A closing bracket pops the stack only when it matches
// the expected closer; stray or already-balanced closers are skipped and
// never error.
//
// Iterating bytes is safe here: the delimiters are ASCII, and UTF-8
// guarantees ASCII bytes never occur inside a multi-byte sequence.
func Scan(code string) []byte {
	var stack []byte
	var inString bool
	var quote byte
	var escape bool

	for i := 0; i < len(code); i++ {
		c := code[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			if c == '\\' {
				escape = true
			} else if c == quote {
				inString = false
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			inString = true
			quote = c
		case '(', '[', '{':
			stack = append(stack, openers[c])
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return stack
}
