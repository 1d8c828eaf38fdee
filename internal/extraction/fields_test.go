package extraction

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/llm"
)

type stubClient struct {
	out string
	err error
}

func (s *stubClient) Generate(_ context.Context, _, _ string, _ llm.GenerateOptions) (string, error) {
	return s.out, s.err
}

func (s *stubClient) Close() error { return nil }

func TestExtractFields(t *testing.T) {
	client := &stubClient{out: "```json\n" + `{
		"name": "Alice Example",
		"email": "alice@example.com",
		"skills": ["Go", "Kubernetes"],
		"past_roles": [{"title": "Backend Engineer", "company": "Acme", "duration": "3 years"}]
	}` + "\n```"}

	record, err := ExtractFields(context.Background(), client, "raw resume text")
	require.NoError(t, err)

	assert.Equal(t, "Alice Example", record.Name)
	assert.Equal(t, []string{"Go", "Kubernetes"}, record.Skills)
	require.Len(t, record.PastRoles, 1)
	assert.Equal(t, "Backend Engineer", record.PastRoles[0].Title)
	assert.Equal(t, "raw resume text", record.RawText)
}

func TestExtractFields_GenerationError(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("model offline")}
	_, err := ExtractFields(context.Background(), client, "resume")
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestExtractFields_NotAnObject(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"array", `["not", "an", "object"]`},
		{"prose", "I could not parse this resume."},
		{"invalid json", `{"name": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractFields(context.Background(), &stubClient{out: tt.out}, "resume")
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
