package types

// DefaultMaxScore is the denominator substituted when a feature score cannot
// be obtained or parsed.
const DefaultMaxScore = 5

// FailureReason is the fixed justification recorded when scoring a feature
// fails for any reason. Kept verbatim for compatibility with existing
// workbooks.
const FailureReason = "Scoring failed or feature not found in resume."

// FeatureScore is the outcome of scoring one resume against one feature.
type FeatureScore struct {
	FeatureName string `json:"feature_name"`
	Score       int    `json:"score"`
	MaxScore    int    `json:"max_score"`
	Reason      string `json:"reason"`
}

// FailedFeatureScore returns the substitution result for a feature whose
// scoring failed: zero out of the default maximum, with the fixed reason.
func FailedFeatureScore(featureName string) FeatureScore {
	return FeatureScore{
		FeatureName: featureName,
		Score:       0,
		MaxScore:    DefaultMaxScore,
		Reason:      FailureReason,
	}
}

// ScoreRow is one candidate's row in the workbook's Scores sheet.
// FeatureScores is keyed by feature name; column order comes from the schema.
type ScoreRow struct {
	CandidateID   string
	ResumePath    string
	TotalScore    float64 // normalized 0-100
	Comments      string
	FeatureScores map[string]int
}

// ReasonRow is one candidate's row in the workbook's Reasons sheet,
// keyed by feature name (the workbook column gets a "_reason" suffix).
type ReasonRow struct {
	CandidateID string
	Reasons     map[string]string
}
