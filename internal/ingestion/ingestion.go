// Package ingestion turns a job posting URL or file into the cleaned job
// description text a screening job is created from.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the posting page cannot be fetched.
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when the page HTML cannot be reduced to text.
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// Options configures URL ingestion.
type Options struct {
	// UseBrowser enables the headless-browser fallback for pages that render
	// their content with JavaScript.
	UseBrowser     bool
	BrowserTimeout time.Duration
	Log            zerolog.Logger
}

// FromURL fetches a job posting page, extracts and cleans its text, and
// returns it with provenance metadata. Platform-specific selectors are used
// when the posting is hosted on a recognized job board.
func FromURL(ctx context.Context, rawURL string, opts Options) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(rawURL)
	log := opts.Log.With().Str("url", rawURL).Str("platform", string(platform)).Logger()

	result, err := fetch.URL(ctx, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug().Int("bytes", len(result.HTML)).Msg("job posting page fetched")

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		log.Info().Int("chars", len(text)).Msg("extracted text too short, rendering with browser")
		timeout := opts.BrowserTimeout
		if timeout <= 0 {
			timeout = fetch.DefaultTimeout
		}
		html, browserErr := fetch.WithBrowser(ctx, rawURL, timeout)
		if browserErr != nil {
			// Keep the HTTP content; a missing Chrome must not fail ingestion.
			log.Warn().Err(browserErr).Msg("browser rendering failed, using HTTP content")
		} else if rendered, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...); extractErr == nil {
			text = rendered
		}
	}

	cleaned := CleanText(text)
	metadata := NewMetadata(cleaned, rawURL)
	metadata.Platform = string(platform)
	log.Info().Int("chars", len(cleaned)).Msg("job description ingested")
	return cleaned, metadata, nil
}
