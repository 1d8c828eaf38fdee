package features

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/types"
)

// Generation bounds for rubric derivation.
const (
	generateMaxTokens   = 1500
	generateTemperature = 0.3
)

// noChecklist is substituted into the prompt when the recruiter provided none.
const noChecklist = "(No checklist provided)"

// Generator derives a feature schema from a job description via one
// generation call and persists it.
type Generator struct {
	client llm.Client
	store  *Store
	log    zerolog.Logger
}

// NewGenerator creates a schema generator.
func NewGenerator(client llm.Client, store *Store, log zerolog.Logger) *Generator {
	return &Generator{client: client, store: store, log: log}
}

// Generate builds the rubric for jobID and writes the schema document,
// returning its path. A failed or unparseable generation does not abort job
// creation: the document is still written with an empty feature list and the
// failure is only logged. Downstream consumers must tolerate an empty
// rubric.
func (g *Generator) Generate(ctx context.Context, jobID, jd, checklist string) (string, error) {
	schema := &types.FeatureSchema{
		JobID:          jobID,
		CreatedAt:      time.Now().UTC(),
		JobDescription: jd,
		Checklist:      checklist,
		// Marshals as an empty array, not null, when derivation fails.
		Features: []types.FeatureDefinition{},
	}

	featureList, err := g.derive(ctx, jd, checklist)
	if err != nil {
		g.log.Error().Err(err).Str("job_id", jobID).Msg("feature generation failed, writing empty schema")
	} else {
		schema.Features = featureList
	}

	return g.store.Save(schema)
}

// derive runs the generation call and decodes the returned feature array.
func (g *Generator) derive(ctx context.Context, jd, checklist string) ([]types.FeatureDefinition, error) {
	checklistText := strings.TrimSpace(checklist)
	if checklistText == "" {
		checklistText = noChecklist
	}

	template := prompts.MustGet("features.json", "generate-features")
	prompt := prompts.Format(template, map[string]string{
		"JDText":        strings.TrimSpace(jd),
		"ChecklistText": checklistText,
	})
	system := prompts.MustGet("features.json", "generate-features-system")

	out, err := g.client.Generate(ctx, prompt, system, llm.GenerateOptions{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, err
	}

	var featureList []types.FeatureDefinition
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(out)), &featureList); err != nil {
		return nil, err
	}
	if featureList == nil {
		featureList = []types.FeatureDefinition{}
	}

	return featureList, nil
}
