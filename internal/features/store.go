// Package features builds and persists the per-job scoring rubric: an
// ordered list of feature definitions derived from a job description.
package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/workspace"
)

// ErrSchemaNotFound is returned when a job has no persisted feature schema.
var ErrSchemaNotFound = errors.New("feature schema not found")

// documentSchema is the JSON Schema every persisted feature schema document
// must satisfy. Validated on load so a hand-edited or truncated document
// fails loudly at scoring start instead of producing a broken workbook.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["job_id", "created_at", "job_description", "features"],
  "properties": {
    "job_id": {"type": "string", "minLength": 1},
    "created_at": {"type": "string"},
    "job_description": {"type": "string"},
    "checklist": {"type": "string"},
    "features": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["feature_name"],
        "properties": {
          "feature_name": {"type": "string", "minLength": 1},
          "feature_description": {"type": "string"},
          "explanation": {"type": "string"},
          "scoring_criteria": {"type": "string"}
        }
      }
    }
  }
}`

// Store persists feature schema documents under the workspace schema
// directory.
type Store struct {
	paths workspace.Paths
}

// NewStore creates a schema store over the given workspace layout.
func NewStore(paths workspace.Paths) *Store {
	return &Store{paths: paths}
}

// Exists reports whether a feature schema document is present for jobID.
func (s *Store) Exists(jobID string) bool {
	_, err := os.Stat(s.paths.SchemaPath(jobID))
	return err == nil
}

// Save writes the schema document for its job id and returns the path.
// The write goes through a temp file and rename so a concurrent reader
// never sees a partial document.
func (s *Store) Save(schema *types.FeatureSchema) (string, error) {
	if err := workspace.EnsureDir(s.paths.SchemaDir()); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal feature schema: %w", err)
	}

	path := s.paths.SchemaPath(schema.JobID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write feature schema: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize feature schema: %w", err)
	}

	return path, nil
}

// Load reads and validates a schema document from an explicit path.
// A missing file maps to ErrSchemaNotFound; structural problems (bad JSON,
// schema violations, duplicate feature names) are fatal errors the caller
// must propagate.
func (s *Store) Load(path string) (*types.FeatureSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, path)
		}
		return nil, fmt.Errorf("failed to read feature schema %s: %w", path, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("invalid feature schema %s: %w", path, err)
	}

	var schema types.FeatureSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse feature schema %s: %w", path, err)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature schema %s: %w", path, err)
	}

	return &schema, nil
}

// LoadByJobID loads the schema at the job's canonical path.
func (s *Store) LoadByJobID(jobID string) (*types.FeatureSchema, error) {
	return s.Load(s.paths.SchemaPath(jobID))
}

// validateDocument checks raw document bytes against the embedded JSON Schema.
func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	field := first.Field()
	if field == "" {
		field = "(root)"
	}
	return fmt.Errorf("document does not match schema: %s: %s", field, first.Description())
}
