package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata records where a job description came from and a digest of its
// cleaned text, so re-ingestions of the same posting can be recognized.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA-256 hex of the cleaned text
	Platform  string `json:"platform,omitempty"`
}

// NewMetadata stamps metadata for one ingested text.
func NewMetadata(content, url string) *Metadata {
	digest := sha256.Sum256([]byte(content))
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      hex.EncodeToString(digest[:]),
	}
}
