package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/types"
)

// Generation bounds for structured field extraction; low temperature keeps
// the output stable across retries.
const (
	fieldsMaxTokens   = 1000
	fieldsTemperature = 0.2
)

// ExtractFields asks the model for a structured candidate record from resume
// text. The raw text is carried along on the returned record.
func ExtractFields(ctx context.Context, client llm.Client, resumeText string) (*types.CandidateRecord, error) {
	template := prompts.MustGet("extraction.json", "extract-resume")
	prompt := prompts.Format(template, map[string]string{
		"ResumeText": resumeText,
	})
	system := prompts.MustGet("extraction.json", "extract-resume-system")

	out, err := client.Generate(ctx, prompt, system, llm.GenerateOptions{
		MaxTokens:   fieldsMaxTokens,
		Temperature: fieldsTemperature,
	})
	if err != nil {
		return nil, &GenerationError{Message: "resume field extraction call failed", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(out)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, &ParseError{Message: "model did not return a JSON object"}
	}

	var record types.CandidateRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, &ParseError{Message: "failed to decode candidate record", Cause: err}
	}

	record.RawText = resumeText
	return &record, nil
}
