package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"resume.pdf", true},
		{"resume.PDF", true},
		{"resume.docx", true},
		{"resume.txt", true},
		{"resume.doc", false},
		{"resume.html", false},
		{"alice_record.json", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupported(tt.name))
		})
	}
}

func TestFileExtractor_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alice. 5 years of Go."), 0o644))

	e := NewFileExtractor(nil)
	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Alice. 5 years of Go.", text)
}

func TestFileExtractor_UnsupportedExtension(t *testing.T) {
	e := NewFileExtractor(nil)
	_, err := e.Extract(context.Background(), "resume.odt")
	require.Error(t, err)

	var unsupported *UnsupportedFileError
	assert.ErrorAs(t, err, &unsupported)
}

func TestFileExtractor_BinaryWithoutTika(t *testing.T) {
	e := NewFileExtractor(nil)
	_, err := e.Extract(context.Background(), "resume.pdf")
	assert.Error(t, err)
}

func TestTikaExtractor_ExtractFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tika", r.URL.Path)
		require.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("  extracted resume text \n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "bob.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	e := NewFileExtractor(NewTikaExtractor(srv.URL))
	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "extracted resume text", text)
}

func TestTikaExtractor_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "bob.docx")
	require.NoError(t, os.WriteFile(path, []byte("not really a docx"), 0o644))

	e := NewTikaExtractor(srv.URL)
	_, err := e.ExtractFile(context.Background(), path)
	assert.Error(t, err)
}
