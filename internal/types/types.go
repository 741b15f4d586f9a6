// Package types holds the shared records exchanged across the validation
// pipeline: the static-analysis metadata supplied by the caller and the
// terminal optimization result consumed by presentation and downstream
// assembly. Both are plain data; all behavior lives in the pipeline
// packages.
package types

// Pattern is a single inefficiency detected by the static analyzer.
type Pattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Optimization is a single rewrite suggestion from the static analyzer.
type Optimization struct {
	Action         string `json:"action"`
	Rationale      string `json:"rationale"`
	ExpectedImpact string `json:"expectedImpact"`
}

// StaticAnalysis is the read-only metadata derived from the original code
// by the external pattern detector. The pipeline never mutates it and
// never lets the generated text override it: strategy and explanation in
// the final result come from here, not from the model's own claims.
type StaticAnalysis struct {
	Language              string         `json:"language"`
	DetectedPatterns      []Pattern      `json:"detected_patterns"`
	PossibleOptimizations []Optimization `json:"possible_optimizations"`
	ConfidenceScore       float64        `json:"confidence_score"`
	EstimatedComplexity   string         `json:"estimated_complexity"`
	DetectedAlgorithm     string         `json:"detected_algorithm"`
}

// FirstPattern returns the first detected pattern, or a zero Pattern.
func (a StaticAnalysis) FirstPattern() Pattern {
	if len(a.DetectedPatterns) > 0 {
		return a.DetectedPatterns[0]
	}
	return Pattern{}
}

// FirstOptimization returns the first suggested optimization, or a zero
// Optimization.
func (a StaticAnalysis) FirstOptimization() Optimization {
	if len(a.PossibleOptimizations) > 0 {
		return a.PossibleOptimizations[0]
	}
	return Optimization{}
}

// OptimizationResult is the terminal output of one validation pass.
//
// Invariants:
//   - if Parsed is false, OptimizedCode equals the original text exactly
//     and Confidence is 0;
//   - Confidence is always within [0,100];
//   - NoChange is true whenever the whitespace-normalized candidate
//     equals the whitespace-normalized original.
type OptimizationResult struct {
	Algorithm            string `json:"algorithm"`
	ComplexityBefore     string `json:"complexity_before"`
	ComplexityAfter      string `json:"complexity_after"`
	Bottleneck           string `json:"bottleneck"`
	Strategy             string `json:"strategy"`
	OptimizationStrategy string `json:"optimization_strategy"`
	Tradeoffs            string `json:"tradeoffs"`
	EstimatedImprovement string `json:"estimated_improvement"`
	Confidence           int    `json:"confidence"`
	Explanation          string `json:"explanation"`
	OptimizedCode        string `json:"optimized_code"`

	DetectedPatterns      []Pattern      `json:"detected_patterns,omitempty"`
	PossibleOptimizations []Optimization `json:"possible_optimizations,omitempty"`
	StaticConfidenceScore float64        `json:"static_confidence_score,omitempty"`

	Parsed       bool   `json:"_parsed"`
	NoChange     bool   `json:"_no_change"`
	CLanguage    bool   `json:"_c_language,omitempty"`
	ParseWarning string `json:"_parse_warning,omitempty"`
}
