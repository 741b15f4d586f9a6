// Package pipeline orchestrates the validation stages into an
// accept-or-fallback verdict. The flow is linear and synchronous:
// extract, truncation check (with bracket repair), size check, element
// check, similarity check, accept. Any stage can short-circuit to a
// fallback result that preserves the original code untouched; no defect
// in model output ever escapes as an error or panic.
package pipeline

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"optivet/internal/config"
	"optivet/internal/extract"
	"optivet/internal/repair"
	"optivet/internal/types"
	"optivet/internal/validate"
)

// Fallback reasons. Exact substrings are part of the observable
// contract; tests and downstream messaging match on them.
const (
	ReasonNoExtract     = "could not extract code from model output"
	ReasonUnrepairable  = "output is truncated and could not be repaired"
	ReasonLowSimilarity = "similarity too low - rewrite is likely a hallucination"
)

// Pipeline validates raw model output against the original code. It is
// stateless across calls: every invocation is a pure function of its
// inputs plus the immutable configuration, safe to share between any
// number of concurrent callers.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger for stage-level diagnostics. The default
// is a nop logger; the validation logic itself never depends on it.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline. A nil cfg uses defaults.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Pipeline{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize runs the full validation pass over one piece of raw model
// output and returns the terminal result. The original code and the
// analysis are never mutated. The language parameter overrides the
// analysis language when non-empty.
func (p *Pipeline) Normalize(rawText, originalCode string, analysis types.StaticAnalysis, language string) types.OptimizationResult {
	lang := language
	if lang == "" {
		lang = analysis.Language
	}
	log := p.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("language", lang),
	)

	candidate, ok := extract.Extract(rawText)
	if !ok {
		log.Warn("extraction failed", zap.Int("raw_len", len(rawText)))
		return p.makeFallback(originalCode, analysis, lang, ReasonNoExtract)
	}
	log.Debug("candidate extracted", zap.Int("candidate_len", len(candidate)))

	wasRepaired := false
	if repair.IsTruncated(candidate) {
		repaired, didRepair := repair.Repair(candidate)
		if repair.IsTruncated(repaired) {
			log.Warn("truncated output not recoverable by bracket balancing")
			return p.makeFallback(originalCode, analysis, lang, ReasonUnrepairable)
		}
		candidate = repaired
		wasRepaired = didRepair
		log.Debug("candidate repaired", zap.Bool("was_repaired", wasRepaired))
	}

	if report := validate.CheckSize(originalCode, candidate, p.cfg.Validation); report != nil {
		log.Warn("size check failed",
			zap.Int("original_lines", report.OriginalLines),
			zap.Int("candidate_lines", report.CandidateLines))
		return p.makeFallback(originalCode, analysis, lang, report.Warning())
	}

	if missing := validate.CheckElements(originalCode, candidate, p.cfg); !missing.Empty() {
		log.Warn("element check failed", zap.String("missing", missing.Warning()))
		return p.makeFallback(originalCode, analysis, lang, missing.Warning())
	}

	simScore := validate.Similarity(originalCode, candidate, p.cfg.Validation.FuzzyPrefixLen)
	if simScore < p.cfg.Validation.MinSimilarity && candidate != originalCode {
		log.Warn("similarity check failed", zap.Int("score", simScore))
		return p.makeFallback(originalCode, analysis, lang, ReasonLowSimilarity)
	}

	result := p.makeAccepted(originalCode, candidate, analysis, lang, simScore, wasRepaired)
	log.Info("candidate accepted",
		zap.Int("confidence", result.Confidence),
		zap.Bool("no_change", result.NoChange),
		zap.Bool("repaired", wasRepaired),
		zap.Int("similarity", simScore))
	return result
}

// makeAccepted assembles the accepted result. Strategy and explanation
// come from the static analysis alone: the generated text is not trusted
// to describe itself accurately.
func (p *Pipeline) makeAccepted(original, candidate string, analysis types.StaticAnalysis, lang string, simScore int, wasRepaired bool) types.OptimizationResult {
	noChange := normalizeWhitespace(candidate) == normalizeWhitespace(original)
	conservative := p.cfg.IsConservativeLanguage(lang)

	confidence := 100
	if !noChange {
		confidence = int(math.Round(analysis.ConfidenceScore * 100))
	}
	if conservative && !noChange && confidence > p.cfg.Validation.ConservativeCap {
		confidence = p.cfg.Validation.ConservativeCap
	}
	if simScore < p.cfg.Validation.HighSimilarity && confidence > p.cfg.Validation.SimilarityCap {
		confidence = p.cfg.Validation.SimilarityCap
	}
	if wasRepaired && confidence > p.cfg.Validation.RepairCap {
		confidence = p.cfg.Validation.RepairCap
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	result := baseResult(analysis, lang, conservative)
	result.Confidence = confidence
	result.OptimizedCode = candidate
	result.Parsed = true
	result.NoChange = noChange
	return result
}

// makeFallback builds the terminal fallback result: the original code is
// preserved verbatim, confidence is zero, and the rejection reason is
// recorded for the user.
func (p *Pipeline) makeFallback(original string, analysis types.StaticAnalysis, lang, reason string) types.OptimizationResult {
	result := baseResult(analysis, lang, p.cfg.IsConservativeLanguage(lang))
	result.Confidence = 0
	result.OptimizedCode = original
	result.Parsed = false
	result.NoChange = true
	result.ParseWarning = reason
	return result
}

// baseResult fills the display fields every outcome carries. All of them
// derive from the trusted static analysis, never from the candidate.
func baseResult(analysis types.StaticAnalysis, lang string, conservative bool) types.OptimizationResult {
	pattern := analysis.FirstPattern()
	opt := analysis.FirstOptimization()

	algorithm := analysis.DetectedAlgorithm
	if algorithm == "" {
		algorithm = "unknown"
	}
	strategy := pattern.Type
	if strategy == "" {
		strategy = "general optimization"
	}
	bottleneck := pattern.Description
	if bottleneck == "" {
		bottleneck = "no specific bottleneck identified"
	}
	explanation := opt.Rationale
	if explanation == "" {
		explanation = "rewrite validated against the original code"
	}

	return types.OptimizationResult{
		Algorithm:            algorithm,
		ComplexityBefore:     analysis.EstimatedComplexity,
		ComplexityAfter:      complexityAfter(analysis),
		Bottleneck:           bottleneck,
		Strategy:             strategy,
		OptimizationStrategy: opt.Action,
		Tradeoffs:            tradeoffs(pattern),
		EstimatedImprovement: opt.ExpectedImpact,
		Explanation:          explanation,

		DetectedPatterns:      analysis.DetectedPatterns,
		PossibleOptimizations: analysis.PossibleOptimizations,
		StaticConfidenceScore: analysis.ConfidenceScore,

		CLanguage: conservative,
	}
}

// complexityAfter reports the first optimization's expected impact when
// it names a complexity class, otherwise the analysis estimate: there is
// no trusted source for a post-rewrite complexity.
func complexityAfter(analysis types.StaticAnalysis) string {
	impact := analysis.FirstOptimization().ExpectedImpact
	if strings.Contains(impact, "O(") {
		return impact
	}
	return analysis.EstimatedComplexity
}

func tradeoffs(pattern types.Pattern) string {
	if pattern.Severity == "" {
		return ""
	}
	return "addresses a " + pattern.Severity + " severity pattern; readability may differ from the original"
}

// normalizeWhitespace right-trims each line and trims the whole text, so
// formatting-only differences do not count as a change.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
