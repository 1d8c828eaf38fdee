package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`
			<html><body>
				<nav>Menu</nav>
				<div class="job-description">
					<h2>Backend Engineer</h2>
					<p>We   build   Go services.</p>
				</div>
			</body></html>`))
	}))
	defer server.Close()

	text, meta, err := FromURL(context.Background(), server.URL, Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "We build Go services.")
	assert.NotContains(t, text, "Menu")

	require.NotNil(t, meta)
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, "unknown", meta.Platform)
	assert.Len(t, meta.Hash, 64)
	assert.NotEmpty(t, meta.Timestamp)
}

func TestFromURL_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _, err := FromURL(context.Background(), server.URL, Options{Log: zerolog.Nop()})
	require.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "crlf normalized", input: "line one\r\nline two\r\n", expected: "line one\nline two"},
		{name: "inner spaces collapsed", input: "too   many    spaces", expected: "too many spaces"},
		{
			name:     "blank runs collapsed",
			input:    "first\n\n\n\n\nsecond",
			expected: "first\n\nsecond",
		},
		{
			name:     "headings dedented",
			input:    "   ## Requirements",
			expected: "## Requirements",
		},
		{
			name:     "bullets keep indentation",
			input:    "Requirements:\n  - Go\n  - Kubernetes",
			expected: "Requirements:\n  - Go\n  - Kubernetes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Go   Engineer\r\n\r\n\r\n- Go\n"), 0o644))

	text, meta, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\n\n- Go", text)
	require.NotNil(t, meta)
	assert.Empty(t, meta.URL)
	assert.Len(t, meta.Hash, 64)
}

func TestFromFile_Missing(t *testing.T) {
	_, _, err := FromFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
