// Package types provides type definitions for structured data used throughout the resume-screener system.
package types

import (
	"fmt"
	"time"
)

// FeatureDefinition is one named evaluation criterion in a job's rubric.
// JSON tags match the persisted schema document keys.
type FeatureDefinition struct {
	FeatureName        string `json:"feature_name"`
	FeatureDescription string `json:"feature_description"`
	Explanation        string `json:"explanation"`
	ScoringCriteria    string `json:"scoring_criteria"` // free text, e.g. "out of 5"
}

// FeatureSchema is the persisted rubric for one job: the source job
// description and checklist plus the ordered feature list. Feature order is
// significant for workbook column layout.
type FeatureSchema struct {
	JobID          string              `json:"job_id"`
	CreatedAt      time.Time           `json:"created_at"`
	JobDescription string              `json:"job_description"`
	Checklist      string              `json:"checklist"`
	Features       []FeatureDefinition `json:"features"`
}

// Validate checks the structural invariants of a loaded schema.
// Feature names are used as workbook column keys, so a duplicate name would
// silently overwrite a column; we reject it here instead.
func (s *FeatureSchema) Validate() error {
	if s.JobID == "" {
		return fmt.Errorf("schema is missing job_id")
	}
	seen := make(map[string]bool, len(s.Features))
	for i, f := range s.Features {
		if f.FeatureName == "" {
			return fmt.Errorf("feature %d is missing feature_name", i)
		}
		if seen[f.FeatureName] {
			return fmt.Errorf("duplicate feature_name %q", f.FeatureName)
		}
		seen[f.FeatureName] = true
	}
	return nil
}

// FeatureNames returns the feature names in schema order.
func (s *FeatureSchema) FeatureNames() []string {
	names := make([]string, len(s.Features))
	for i, f := range s.Features {
		names[i] = f.FeatureName
	}
	return names
}
