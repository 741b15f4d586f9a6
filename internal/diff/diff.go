// Package diff computes a line-level edit script between two code
// strings for display, using a bounded longest-common-subsequence
// alignment. Alignment cost is capped: only the first MaxLines lines per
// side participate, so the DP table never exceeds a fixed worst case no
// matter how large the inputs are.
package diff

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"

	"optivet/internal/config"
)

// LineType classifies a line in the edit script.
type LineType string

const (
	Added     LineType = "added"
	Removed   LineType = "removed"
	Unchanged LineType = "unchanged"
)

// Line is a single entry in the edit script. OriginalLineNo is set for
// removed and unchanged lines, NewLineNo for added and unchanged lines;
// both are 1-based and strictly increasing within their side. The
// synthetic elision entry carries neither.
type Line struct {
	Type           LineType `json:"type"`
	Content        string   `json:"content"`
	OriginalLineNo *int     `json:"originalLineNo"`
	NewLineNo      *int     `json:"newLineNo"`
}

// Stats summarizes an edit script.
type Stats struct {
	Added         int `json:"added"`
	Removed       int `json:"removed"`
	Unchanged     int `json:"unchanged"`
	ChangePercent int `json:"changePercent"`
}

// Engine computes diffs with result caching for identical input pairs.
type Engine struct {
	maxLines int
	dmp      *diffmatchpatch.DiffMatchPatch
	cache    sync.Map
}

type cacheKey struct {
	aHash uint64
	bHash uint64
}

// NewEngine creates an engine with the given per-side line cap.
func NewEngine(maxLines int) *Engine {
	if maxLines <= 0 {
		maxLines = config.DefaultDiffMaxLines
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Engine{
		maxLines: maxLines,
		dmp:      dmp,
	}
}

// DefaultEngine is a singleton for general use.
var DefaultEngine = NewEngine(config.DefaultDiffMaxLines)

// Compute returns the edit script between original and candidate using
// the default engine.
func Compute(original, candidate string) []Line {
	return DefaultEngine.Compute(original, candidate)
}

// Compute returns the minimal-edit line alignment between original and
// candidate. Any two strings yield a well-formed script; there are no
// error paths.
func (e *Engine) Compute(original, candidate string) []Line {
	key := cacheKey{hash(original), hash(candidate)}
	if cached, ok := e.cache.Load(key); ok {
		if lines, ok := cached.([]Line); ok {
			return lines
		}
	}

	lines := e.compute(original, candidate)
	e.cache.Store(key, lines)
	return lines
}

func (e *Engine) compute(original, candidate string) []Line {
	a := strings.Split(original, "\n")
	b := strings.Split(candidate, "\n")

	elided := 0
	if over := len(a) - e.maxLines; over > 0 && over > elided {
		elided = over
	}
	if over := len(b) - e.maxLines; over > 0 && over > elided {
		elided = over
	}
	if len(a) > e.maxLines {
		a = a[:e.maxLines]
	}
	if len(b) > e.maxLines {
		b = b[:e.maxLines]
	}

	script := backtrack(a, b, lcsTable(a, b))

	if elided > 0 {
		script = append(script, Line{
			Type:    Unchanged,
			Content: fmt.Sprintf("… %d more line(s) not compared", elided),
		})
	}
	return script
}

// lcsTable builds the (m+1)x(n+1) LCS length table by standard dynamic
// programming; table[i][j] is the LCS length of a[:i] and b[:j].
func lcsTable(a, b []string) [][]int {
	m, n := len(a), len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	return table
}

// backtrack recovers the edit script by walking the table iteratively
// from (m,n) to (0,0) — a loop, never recursion, so input size cannot
// overflow the call stack. Equal lines move diagonally; otherwise the
// walk follows the larger neighbor, and on ties it takes the column
// move, which is what lists removals before additions within a change
// run once the collected script is reversed.
func backtrack(a, b []string, table [][]int) []Line {
	i, j := len(a), len(b)
	reversed := make([]Line, 0, i+j)

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			reversed = append(reversed, Line{Type: Unchanged, Content: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			reversed = append(reversed, Line{Type: Added, Content: b[j-1]})
			j--
		default:
			reversed = append(reversed, Line{Type: Removed, Content: a[i-1]})
			i--
		}
	}

	// Reverse in place and assign the per-side 1-based counters.
	script := reversed
	for l, r := 0, len(script)-1; l < r; l, r = l+1, r-1 {
		script[l], script[r] = script[r], script[l]
	}
	origNo, newNo := 0, 0
	for k := range script {
		switch script[k].Type {
		case Removed:
			origNo++
			script[k].OriginalLineNo = intPtr(origNo)
		case Added:
			newNo++
			script[k].NewLineNo = intPtr(newNo)
		case Unchanged:
			origNo++
			newNo++
			script[k].OriginalLineNo = intPtr(origNo)
			script[k].NewLineNo = intPtr(newNo)
		}
	}
	return script
}

// ComputeStats summarizes an edit script. The change percentage is the
// changed share of all entries, rounded; an empty script reports 0.
func ComputeStats(script []Line) Stats {
	var s Stats
	for _, line := range script {
		switch line.Type {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Unchanged:
			s.Unchanged++
		}
	}
	total := s.Added + s.Removed + s.Unchanged
	if total > 0 {
		changed := float64(s.Added + s.Removed)
		s.ChangePercent = int(changed/float64(total)*100 + 0.5)
	}
	return s
}

// WordDiff computes the intra-line differences between two lines, for
// highlighting what changed within a replaced pair.
func (e *Engine) WordDiff(oldLine, newLine string) []diffmatchpatch.Diff {
	diffs := e.dmp.DiffMain(oldLine, newLine, false)
	return e.dmp.DiffCleanupSemantic(diffs)
}

// ClearCache drops all cached scripts.
func (e *Engine) ClearCache() {
	e.cache = sync.Map{}
}

func intPtr(v int) *int { return &v }

// hash computes FNV-1a over s for cache keying.
func hash(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
