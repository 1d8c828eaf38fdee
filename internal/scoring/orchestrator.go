package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/features"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/workspace"
)

// Orchestrator drives a full scoring run for one job: it loads the feature
// schema, scores every unprocessed resume in the job's folder, and merges the
// new rows into the job's workbook. Runs are incremental and idempotent:
// candidates already present in the workbook are never re-scored, and a run
// with nothing new leaves the workbook untouched.
type Orchestrator struct {
	paths     workspace.Paths
	store     *features.Store
	extractor *extraction.FileExtractor
	scorer    *Scorer
	client    llm.Client
	log       zerolog.Logger
}

// NewOrchestrator wires a scoring run's collaborators together.
func NewOrchestrator(paths workspace.Paths, store *features.Store, extractor *extraction.FileExtractor, client llm.Client, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		paths:     paths,
		store:     store,
		extractor: extractor,
		scorer:    NewScorer(client, log),
		client:    client,
		log:       log,
	}
}

// RunResult summarizes what one scoring run did.
type RunResult struct {
	WorkbookPath string   `json:"workbook_path"`
	Scored       []string `json:"scored"`
	Skipped      int      `json:"skipped"`
	Dropped      []string `json:"dropped,omitempty"`
}

// Run executes the scoring pipeline for jobID. A missing or invalid feature
// schema is fatal; a corrupt prior workbook is not, the run simply starts
// fresh. Candidates whose text cannot be extracted are dropped from this run
// and picked up again on the next one.
func (o *Orchestrator) Run(ctx context.Context, jobID string) (*RunResult, error) {
	schema, err := o.store.LoadByJobID(jobID)
	if err != nil {
		return nil, err
	}

	workbookPath := o.paths.WorkbookPath(jobID)
	wb := o.loadPrior(workbookPath)
	firstRun := wb == nil
	if firstRun {
		wb = NewWorkbook(schema.FeatureNames())
	}
	processed := wb.ProcessedIDs()

	candidates, err := o.listResumes(jobID)
	if err != nil {
		return nil, err
	}

	result := &RunResult{WorkbookPath: workbookPath}
	pending := make([]resumeFile, 0, len(candidates))
	for _, c := range candidates {
		if processed[c.candidateID] {
			// Also covers two files sharing a stem within one run: the
			// lexically first wins, the rest count as already processed.
			result.Skipped++
			continue
		}
		processed[c.candidateID] = true
		pending = append(pending, c)
	}

	if len(pending) == 0 && !firstRun {
		o.log.Info().Str("job_id", jobID).Int("skipped", result.Skipped).
			Msg("no new resumes; workbook unchanged")
		return result, nil
	}

	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := o.extractor.Extract(ctx, c.path)
		if err != nil {
			o.log.Warn().Err(err).Str("candidate_id", c.candidateID).Str("path", c.path).
				Msg("resume text extraction failed; candidate deferred to next run")
			result.Dropped = append(result.Dropped, c.candidateID)
			continue
		}

		o.persistRecord(ctx, jobID, c.candidateID, text)

		scoreRow, reasonRow := o.scoreCandidate(ctx, c, text, schema.Features)
		wb.Append(scoreRow, reasonRow)
		result.Scored = append(result.Scored, c.candidateID)

		o.log.Info().Str("candidate_id", c.candidateID).
			Float64("total_score", scoreRow.TotalScore).
			Msg("candidate scored")
	}

	if err := wb.Write(workbookPath); err != nil {
		return nil, err
	}
	o.log.Info().Str("job_id", jobID).Str("path", workbookPath).
		Int("scored", len(result.Scored)).Int("skipped", result.Skipped).
		Msg("scoring workbook written")
	return result, nil
}

// loadPrior returns the existing workbook, or nil when there is none or it
// cannot be read. An unreadable workbook is logged and the run proceeds as a
// first run.
func (o *Orchestrator) loadPrior(path string) *Workbook {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	wb, err := ReadWorkbook(path)
	if err != nil {
		o.log.Warn().Err(err).Str("path", path).
			Msg("prior workbook unreadable; starting fresh")
		return nil
	}
	return wb
}

type resumeFile struct {
	candidateID string
	path        string
}

// listResumes enumerates supported resume files for the job in lexical
// order. The candidate id is the filename without its extension.
func (o *Orchestrator) listResumes(jobID string) ([]resumeFile, error) {
	dir := o.paths.ResumesDir(jobID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list resumes in %s: %w", dir, err)
	}

	files := make([]resumeFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !extraction.IsSupported(entry.Name()) {
			continue
		}
		name := entry.Name()
		files = append(files, resumeFile{
			candidateID: strings.TrimSuffix(name, filepath.Ext(name)),
			path:        filepath.Join(dir, name),
		})
	}
	return files, nil
}

// scoreCandidate scores one resume against every feature and aggregates the
// normalized total. The denominator is floored at 1 so an empty schema still
// produces a row instead of a division by zero.
func (o *Orchestrator) scoreCandidate(ctx context.Context, c resumeFile, text string, feats []types.FeatureDefinition) (types.ScoreRow, types.ReasonRow) {
	scores := make(map[string]int, len(feats))
	reasons := make(map[string]string, len(feats))
	total, max := 0, 0
	for _, feature := range feats {
		fs := o.scorer.ScoreFeature(ctx, text, feature)
		scores[feature.FeatureName] = fs.Score
		reasons[feature.FeatureName] = fs.Reason
		total += fs.Score
		max += fs.MaxScore
	}
	if max < 1 {
		max = 1
	}
	normalized := math.Round(float64(total)/float64(max)*100*100) / 100

	return types.ScoreRow{
			CandidateID:   c.candidateID,
			ResumePath:    c.path,
			TotalScore:    normalized,
			FeatureScores: scores,
		}, types.ReasonRow{
			CandidateID: c.candidateID,
			Reasons:     reasons,
		}
}

// persistRecord extracts structured candidate fields and writes them next to
// the resume. This is best effort: scoring proceeds on the raw text either
// way, so failures are only logged.
func (o *Orchestrator) persistRecord(ctx context.Context, jobID, candidateID, text string) {
	record, err := extraction.ExtractFields(ctx, o.client, text)
	if err != nil {
		o.log.Warn().Err(err).Str("candidate_id", candidateID).
			Msg("candidate field extraction failed")
		return
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		o.log.Warn().Err(err).Str("candidate_id", candidateID).
			Msg("candidate record serialization failed")
		return
	}
	path := o.paths.RecordPath(jobID, candidateID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		o.log.Warn().Err(err).Str("path", path).
			Msg("candidate record write failed")
	}
}
