// Package llm provides the text generation capability used by the screening
// pipeline: a local Ollama model tried first, with a Gemini fallback.
package llm

import (
	"os"
	"time"
)

// Default local model settings, matching the environment the agent has
// historically run against.
const (
	DefaultLocalHost   = "http://localhost:11434"
	DefaultLocalModel  = "orca-mini"
	DefaultRemoteModel = "gemini-2.5-flash"

	// DefaultLocalTimeout bounds one local generation call. The local path is
	// meant to be fast; anything slower should fall through to the remote.
	DefaultLocalTimeout = 20 * time.Second
)

// Config is the explicit configuration for the generation adapter. It is
// built once (usually from the environment) and injected into the client
// constructors; nothing in this package reads the environment ad hoc.
type Config struct {
	// LocalDisabled forces every call straight to the remote model.
	LocalDisabled bool
	// LocalHost is the Ollama endpoint, e.g. "http://localhost:11434".
	LocalHost string
	// LocalModel is the Ollama model name.
	LocalModel string
	// LocalTimeout bounds one local generation call.
	LocalTimeout time.Duration

	// RemoteModel is the Gemini model used for the fallback path.
	RemoteModel string
	// APIKey authenticates the remote client.
	APIKey string
}

// ConfigFromEnv builds a Config from the process environment. The variable
// names are kept from the original deployment: OLLAMA_DISABLED, OLLAMA_HOST,
// OLLAMA_MODEL, GEMINI_MODEL, GEMINI_API_KEY.
func ConfigFromEnv() Config {
	cfg := Config{
		LocalDisabled: os.Getenv("OLLAMA_DISABLED") == "1",
		LocalHost:     os.Getenv("OLLAMA_HOST"),
		LocalModel:    os.Getenv("OLLAMA_MODEL"),
		RemoteModel:   os.Getenv("GEMINI_MODEL"),
		APIKey:        os.Getenv("GEMINI_API_KEY"),
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with package defaults.
func (c *Config) ApplyDefaults() {
	if c.LocalHost == "" {
		c.LocalHost = DefaultLocalHost
	}
	if c.LocalModel == "" {
		c.LocalModel = DefaultLocalModel
	}
	if c.LocalTimeout == 0 {
		c.LocalTimeout = DefaultLocalTimeout
	}
	if c.RemoteModel == "" {
		c.RemoteModel = DefaultRemoteModel
	}
}
