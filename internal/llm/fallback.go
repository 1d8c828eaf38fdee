package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// StatusError reports a non-200 response from the local model server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("ollama returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("ollama returned status %d", e.Code)
}

// FallbackClient is the generation adapter's policy object: try the local
// model first, and on a transient network failure fall back to the remote
// model. When the local model is disabled by configuration every call goes
// straight to the remote.
type FallbackClient struct {
	local         Client
	remote        Client
	localDisabled bool
	log           zerolog.Logger
}

// NewFallbackClient builds the adapter from an explicit Config. The remote
// client is optional when the local model is enabled; without it, local
// failures propagate instead of degrading.
func NewFallbackClient(ctx context.Context, cfg Config, log zerolog.Logger) (*FallbackClient, error) {
	cfg.ApplyDefaults()

	var remote Client
	if cfg.APIKey != "" {
		gc, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		remote = gc
	}

	if cfg.LocalDisabled && remote == nil {
		return nil, fmt.Errorf("local model disabled and no remote API key configured")
	}

	return &FallbackClient{
		local:         NewOllamaClient(cfg),
		remote:        remote,
		localDisabled: cfg.LocalDisabled,
		log:           log,
	}, nil
}

// NewFallbackClientWith wires explicit local and remote clients; used by
// tests and anywhere the defaults don't fit.
func NewFallbackClientWith(local, remote Client, localDisabled bool, log zerolog.Logger) *FallbackClient {
	return &FallbackClient{local: local, remote: remote, localDisabled: localDisabled, log: log}
}

// Generate applies the local-first policy.
func (c *FallbackClient) Generate(ctx context.Context, prompt, system string, opts GenerateOptions) (string, error) {
	if c.localDisabled || c.local == nil {
		if c.remote == nil {
			return "", fmt.Errorf("no generation backend available")
		}
		return c.remote.Generate(ctx, prompt, system, opts)
	}

	out, err := c.local.Generate(ctx, prompt, system, opts)
	if err == nil {
		return out, nil
	}
	if c.remote == nil || !isTransient(err) {
		return "", err
	}

	c.log.Warn().Err(err).Msg("local model unavailable, falling back to remote")
	return c.remote.Generate(ctx, prompt, system, opts)
}

// Close releases both backends.
func (c *FallbackClient) Close() error {
	var firstErr error
	if c.local != nil {
		firstErr = c.local.Close()
	}
	if c.remote != nil {
		if err := c.remote.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// isTransient reports whether err looks like a transient network failure
// worth retrying against the remote: transport errors, timeouts, and server
// errors from the local endpoint. Malformed requests and similar caller bugs
// are not transient.
func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
