package extraction

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTikaTimeout bounds one extraction call against the Tika server.
const DefaultTikaTimeout = 60 * time.Second

// TikaExtractor extracts text from PDF/DOCX files via an Apache Tika server.
type TikaExtractor struct {
	serverURL string
	client    *http.Client
}

// TikaOption configures a TikaExtractor.
type TikaOption func(*TikaExtractor)

// WithTikaTimeout overrides the HTTP client timeout.
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		e.client.Timeout = timeout
	}
}

// NewTikaExtractor creates an extractor for the Tika server at serverURL,
// e.g. "http://localhost:9998".
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	e := &TikaExtractor{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client:    &http.Client{Timeout: DefaultTikaTimeout},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ExtractFile extracts plain text from the document at path.
func (e *TikaExtractor) ExtractFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return e.extract(ctx, f)
}

// extract sends the document body to Tika's text endpoint.
func (e *TikaExtractor) extract(ctx context.Context, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.serverURL+"/tika", body)
	if err != nil {
		return "", fmt.Errorf("failed to build tika request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read tika response: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
