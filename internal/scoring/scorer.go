// Package scoring implements the core of the screening agent: scoring one
// resume against each feature of a job's rubric and aggregating the results
// into an incremental, append-only workbook.
package scoring

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/types"
)

// Generation bounds for one feature evaluation. Low temperature favors
// deterministic scores over creative prose.
const (
	scoreMaxTokens   = 600
	scoreTemperature = 0.3
)

// scorePattern matches the model's "<numerator>/<denominator>" score string.
// Anchored at the start so trailing prose after the fraction is tolerated.
var scorePattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)

// ParseScore extracts the numerator and denominator from a score string such
// as "4/5" or "10 / 10". ok is false when the string does not start with a
// fraction or the denominator is zero; the caller substitutes the default
// (0, 5) pair.
func ParseScore(s string) (score, maxScore int, ok bool) {
	m := scorePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	score, _ = strconv.Atoi(m[1])
	maxScore, _ = strconv.Atoi(m[2])
	if maxScore == 0 {
		return 0, 0, false
	}
	return score, maxScore, true
}

// scoreResponse is the JSON object the model is instructed to return.
// Score stays a string here; the fraction is parsed separately.
type scoreResponse struct {
	FeatureName string `json:"feature_name"`
	Score       string `json:"score"`
	Reason      string `json:"reason"`
}

// Scorer evaluates one resume against one feature at a time.
type Scorer struct {
	client llm.Client
	log    zerolog.Logger
}

// NewScorer creates a feature scorer over the given generation client.
func NewScorer(client llm.Client, log zerolog.Logger) *Scorer {
	return &Scorer{client: client, log: log}
}

// ScoreFeature evaluates resumeContent against a single feature. It always
// returns exactly one result: any generation, parse, or validation failure
// is converted into the fixed substitution result so the orchestrator never
// receives fewer results than features.
func (s *Scorer) ScoreFeature(ctx context.Context, resumeContent string, feature types.FeatureDefinition) types.FeatureScore {
	result, err := s.scoreFeature(ctx, resumeContent, feature)
	if err != nil {
		s.log.Warn().Err(err).Str("feature", feature.FeatureName).Msg("feature scoring failed, substituting default")
		return types.FailedFeatureScore(feature.FeatureName)
	}
	return result
}

// scoreFeature is the fallible inner path. It is separated from ScoreFeature
// so tests can assert the failure category, not just the substitution.
func (s *Scorer) scoreFeature(ctx context.Context, resumeContent string, feature types.FeatureDefinition) (types.FeatureScore, error) {
	prompt := buildFeaturePrompt(resumeContent, feature)
	system := prompts.MustGet("scoring.json", "score-feature-system")

	out, err := s.client.Generate(ctx, prompt, system, llm.GenerateOptions{
		MaxTokens:   scoreMaxTokens,
		Temperature: scoreTemperature,
	})
	if err != nil {
		return types.FeatureScore{}, &GenerationError{Message: "feature evaluation call failed", Cause: err}
	}

	var resp scoreResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(out)), &resp); err != nil {
		return types.FeatureScore{}, &ParseError{Message: "failed to decode feature score", Cause: err}
	}

	if resp.FeatureName == "" {
		return types.FeatureScore{}, &ValidationError{Field: "feature_name", Message: "missing or empty"}
	}
	if resp.Score == "" {
		return types.FeatureScore{}, &ValidationError{Field: "score", Message: "missing or empty"}
	}
	if resp.Reason == "" {
		return types.FeatureScore{}, &ValidationError{Field: "reason", Message: "missing or empty"}
	}

	score, maxScore, ok := ParseScore(resp.Score)
	if !ok {
		// A present but unparseable fraction keeps the model's reasoning and
		// takes the default pair, mirroring the historical behavior.
		score, maxScore = 0, types.DefaultMaxScore
	}

	// The requested feature name is authoritative: it is the workbook column
	// key, so the model's echo must not be allowed to rename a column.
	return types.FeatureScore{
		FeatureName: feature.FeatureName,
		Score:       score,
		MaxScore:    maxScore,
		Reason:      resp.Reason,
	}, nil
}

// buildFeaturePrompt renders the evaluation prompt for one feature.
func buildFeaturePrompt(resumeContent string, feature types.FeatureDefinition) string {
	template := prompts.MustGet("scoring.json", "score-feature")
	return prompts.Format(template, map[string]string{
		"FeatureName":        feature.FeatureName,
		"FeatureDescription": feature.FeatureDescription,
		"Explanation":        feature.Explanation,
		"ScoringCriteria":    feature.ScoringCriteria,
		"ResumeContent":      resumeContent,
	})
}
