// Package workspace defines the on-disk layout of the screening agent's data
// directory. Every persisted artifact is keyed by job_id under one root.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRoot is used when no data directory is configured.
const DefaultRoot = "data"

// Paths resolves artifact locations under a data root:
//
//	<root>/outputs/feature_schemas/<job_id>_features.json
//	<root>/outputs/scoring_sheets/<job_id>_scored_candidates.xlsx
//	<root>/resumes/<job_id>/<uploaded files>
type Paths struct {
	Root string
}

// New returns Paths rooted at dir, falling back to DefaultRoot.
func New(dir string) Paths {
	if dir == "" {
		dir = DefaultRoot
	}
	return Paths{Root: dir}
}

// SchemaDir is the directory holding feature schema documents.
func (p Paths) SchemaDir() string {
	return filepath.Join(p.Root, "outputs", "feature_schemas")
}

// ScoringDir is the directory holding scoring workbooks.
func (p Paths) ScoringDir() string {
	return filepath.Join(p.Root, "outputs", "scoring_sheets")
}

// ResumesDir is the per-job folder holding uploaded resume files.
func (p Paths) ResumesDir(jobID string) string {
	return filepath.Join(p.Root, "resumes", jobID)
}

// SchemaPath is the canonical feature schema document path for a job.
func (p Paths) SchemaPath(jobID string) string {
	return filepath.Join(p.SchemaDir(), fmt.Sprintf("%s_features.json", jobID))
}

// WorkbookPath is the canonical scoring workbook path for a job.
func (p Paths) WorkbookPath(jobID string) string {
	return filepath.Join(p.ScoringDir(), fmt.Sprintf("%s_scored_candidates.xlsx", jobID))
}

// RecordPath is the extracted candidate record path for one resume.
func (p Paths) RecordPath(jobID, candidateID string) string {
	return filepath.Join(p.ResumesDir(jobID), fmt.Sprintf("%s_record.json", candidateID))
}

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
