// Package config provides configuration loading for the screening agent.
// Values come from an optional JSON file, overridden by environment
// variables, overridden again by CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Defaults applied when neither file, environment, nor flags set a value.
const (
	DefaultAddr     = ":8000"
	DefaultDataDir  = "data"
	DefaultLogLevel = "info"
)

// Config is the agent's runtime configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8000".
	Addr string `json:"addr,omitempty"`
	// DataDir is the root of the artifact workspace.
	DataDir string `json:"data_dir,omitempty"`
	// TikaURL points at an Apache Tika server for PDF/DOCX text extraction.
	// Empty disables binary resume formats.
	TikaURL string `json:"tika_url,omitempty"`
	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	// UseBrowser enables headless-browser rendering for JD URLs.
	UseBrowser bool `json:"use_browser,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`  // trace..panic
	LogFormat string `json:"log_format,omitempty"` // "json" or "pretty"
}

// Load reads an optional JSON config file and overlays environment
// variables. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCREENER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SCREENER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TIKA_SERVER_URL"); v != "" {
		c.TikaURL = v
	}
	if v := os.Getenv("SCREENER_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.AllowedOrigins = origins
	}
	if v := os.Getenv("SCREENER_USE_BROWSER"); v == "true" || v == "1" {
		c.UseBrowser = true
	}
	if v := os.Getenv("SCREENER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SCREENER_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks value ranges that would otherwise surface late.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: log_format must be \"json\" or \"pretty\", got %q", c.LogFormat)
	}
	if c.TikaURL != "" && !strings.HasPrefix(c.TikaURL, "http://") && !strings.HasPrefix(c.TikaURL, "https://") {
		return fmt.Errorf("config error: tika_url must be an http(s) URL, got %q", c.TikaURL)
	}
	return nil
}
