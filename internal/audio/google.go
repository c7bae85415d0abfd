package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// DefaultEndpoint is the anonymous translate speech endpoint
const DefaultEndpoint = "http://translate.google.com/translate_tts"

// GoogleProvider implements Provider by calling the translate speech endpoint directly
type GoogleProvider struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

// NewGoogleProvider creates a provider for the configured endpoint
func NewGoogleProvider(config *Config) (Provider, error) {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: unsupported scheme", endpoint)
	}

	return &GoogleProvider{
		client:   &http.Client{},
		endpoint: endpoint,
		timeout:  config.Timeout,
	}, nil
}

// SpeechURL builds the request URL, e.g.
// http://translate.google.com/translate_tts?tl=en&q=hello&total=5&idx=0
func (p *GoogleProvider) SpeechURL(req *SpeechRequest) string {
	return fmt.Sprintf("%s?tl=%s&q=%s&total=%d&idx=0",
		p.endpoint, url.QueryEscape(req.Language), req.Query, utf8.RuneCountInString(req.Text))
}

// GenerateAudio downloads the speech for one word and writes the response body verbatim
func (p *GoogleProvider) GenerateAudio(ctx context.Context, req *SpeechRequest, outputFile string) error {
	reqCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	speechURL := p.SpeechURL(req)
	log.Debug("Requesting speech", "url", speechURL)

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, speechURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header = SpeechHeaders()

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// transportError tags timeouts of the request itself with ErrTimeout.
// Cancellation of the parent context is passed through unchanged.
func transportError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("request aborted: %w", parent.Err())
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return fmt.Errorf("request failed: %w", err)
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable checks that an endpoint is configured; the endpoint needs no credentials
func (p *GoogleProvider) IsAvailable() error {
	if p.endpoint == "" {
		return fmt.Errorf("speech endpoint not configured")
	}
	return nil
}
