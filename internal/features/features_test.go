package features

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/workspace"
)

type stubClient struct {
	out string
	err error
}

func (s *stubClient) Generate(_ context.Context, _, _ string, _ llm.GenerateOptions) (string, error) {
	return s.out, s.err
}

func (s *stubClient) Close() error { return nil }

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(workspace.New(t.TempDir()))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	schema := &types.FeatureSchema{
		JobID:          "job-1",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		JobDescription: "Backend engineer, Go",
		Checklist:      "Go, Kubernetes",
		Features: []types.FeatureDefinition{
			{FeatureName: "Go Experience", FeatureDescription: "Production Go work", Explanation: "5 means expert", ScoringCriteria: "out of 5"},
			{FeatureName: "Kubernetes", ScoringCriteria: "out of 5"},
		},
	}

	path, err := store.Save(schema)
	require.NoError(t, err)
	assert.Equal(t, "job-1_features.json", filepath.Base(path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.JobID, loaded.JobID)
	assert.Equal(t, schema.Features, loaded.Features)
	assert.True(t, store.Exists("job-1"))
	assert.False(t, store.Exists("job-2"))
}

func TestStore_LoadMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Load(filepath.Join(t.TempDir(), "nope_features.json"))
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestStore_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(workspace.New(dir))

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{{"},
		{"missing job_id", `{"created_at": "x", "job_description": "jd", "features": []}`},
		{"feature without name", `{"job_id": "j", "created_at": "x", "job_description": "jd", "features": [{"feature_description": "d"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad_features.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := store.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestStore_LoadRejectsDuplicateFeatureNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(workspace.New(dir))

	doc := `{
		"job_id": "j",
		"created_at": "2026-01-01T00:00:00Z",
		"job_description": "jd",
		"features": [
			{"feature_name": "Go"},
			{"feature_name": "Go"}
		]
	}`
	path := filepath.Join(dir, "dup_features.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := store.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate feature_name")
}

func TestGenerator_Generate(t *testing.T) {
	store := testStore(t)
	client := &stubClient{out: "```json\n" + `[
		{"feature_name": "Go Experience", "feature_description": "d", "explanation": "e", "scoring_criteria": "out of 5"},
		{"feature_name": "Kubernetes", "feature_description": "d2", "explanation": "e2", "scoring_criteria": "out of 5"}
	]` + "\n```"}
	g := NewGenerator(client, store, zerolog.Nop())

	path, err := g.Generate(context.Background(), "job-7", "Backend engineer", "Go required")
	require.NoError(t, err)

	schema, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "job-7", schema.JobID)
	assert.Equal(t, "Backend engineer", schema.JobDescription)
	assert.Equal(t, []string{"Go Experience", "Kubernetes"}, schema.FeatureNames())
	assert.False(t, schema.CreatedAt.IsZero())
}

func TestGenerator_FailedGenerationStillWritesSchema(t *testing.T) {
	tests := []struct {
		name   string
		client *stubClient
	}{
		{"generation error", &stubClient{err: fmt.Errorf("model offline")}},
		{"invalid json", &stubClient{out: "sorry, I cannot help with that"}},
		{"json object not array", &stubClient{out: `{"feature_name": "Go"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testStore(t)
			g := NewGenerator(tt.client, store, zerolog.Nop())

			path, err := g.Generate(context.Background(), "job-9", "jd text", "")
			require.NoError(t, err, "schema must be written even when generation fails")

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.Equal(t, "job-9", doc["job_id"])
			assert.Empty(t, doc["features"])
		})
	}
}
