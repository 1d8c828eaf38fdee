package llm

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns canned output or a canned error and records calls.
type stubClient struct {
	out   string
	err   error
	calls int
}

func (s *stubClient) Generate(_ context.Context, _, _ string, _ GenerateOptions) (string, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubClient) Close() error { return nil }

func TestFallbackClient_LocalSucceeds(t *testing.T) {
	local := &stubClient{out: "local answer"}
	remote := &stubClient{out: "remote answer"}
	c := NewFallbackClientWith(local, remote, false, zerolog.Nop())

	out, err := c.Generate(context.Background(), "prompt", "system", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "local answer", out)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, 0, remote.calls, "remote must not be called when local succeeds")
}

func TestFallbackClient_TransientLocalFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection error", &url.Error{Op: "Post", URL: "http://localhost:11434", Err: fmt.Errorf("connection refused")}},
		{"server error", &StatusError{Code: 500}},
		{"deadline", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &stubClient{err: tt.err}
			remote := &stubClient{out: "remote answer"}
			c := NewFallbackClientWith(local, remote, false, zerolog.Nop())

			out, err := c.Generate(context.Background(), "prompt", "", GenerateOptions{})
			require.NoError(t, err)
			assert.Equal(t, "remote answer", out)
			assert.Equal(t, 1, remote.calls)
		})
	}
}

func TestFallbackClient_NonTransientFailurePropagates(t *testing.T) {
	local := &stubClient{err: &StatusError{Code: 400, Body: "bad model"}}
	remote := &stubClient{out: "remote answer"}
	c := NewFallbackClientWith(local, remote, false, zerolog.Nop())

	_, err := c.Generate(context.Background(), "prompt", "", GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, 0, remote.calls, "client errors must not trigger fallback")
}

func TestFallbackClient_LocalDisabled(t *testing.T) {
	local := &stubClient{out: "local answer"}
	remote := &stubClient{out: "remote answer"}
	c := NewFallbackClientWith(local, remote, true, zerolog.Nop())

	out, err := c.Generate(context.Background(), "prompt", "", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "remote answer", out)
	assert.Equal(t, 0, local.calls)
}

func TestFallbackClient_NoBackend(t *testing.T) {
	c := NewFallbackClientWith(nil, nil, true, zerolog.Nop())
	_, err := c.Generate(context.Background(), "prompt", "", GenerateOptions{})
	assert.Error(t, err)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultLocalHost, cfg.LocalHost)
	assert.Equal(t, DefaultLocalModel, cfg.LocalModel)
	assert.Equal(t, DefaultLocalTimeout, cfg.LocalTimeout)
	assert.Equal(t, DefaultRemoteModel, cfg.RemoteModel)
}
