package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrTimeout marks a request that did not finish within the configured timeout
	ErrTimeout = errors.New("request timed out")

	// ErrWriteOutput marks a failure to store received audio on disk
	ErrWriteOutput = errors.New("failed to write audio file")
)

// StatusError is returned when the speech endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("speech endpoint returned %s", e.Status)
}

// SpeechRequest describes one word to synthesize
type SpeechRequest struct {
	Text     string // Word as read from the input
	Language string // Speech locale, e.g. "en" or "ru"
	Query    string // Text percent-encoded in the active input encoding
}

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio synthesizes the request and saves the audio to outputFile
	GenerateAudio(ctx context.Context, req *SpeechRequest, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "google", "htgotts" or "openai"
	Fallback string // Optional provider used when the primary one fails

	// Google translate endpoint settings
	Endpoint string
	Timeout  time.Duration

	// Circuit breaker, disabled when MaxFailures is 0
	MaxFailures     uint32
	BreakerCooldown time.Duration

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice string
	OpenAISpeed float64
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:        "google",
		Endpoint:        DefaultEndpoint,
		Timeout:         30 * time.Second,
		BreakerCooldown: time.Minute,
		OpenAIModel:     "tts-1",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     1.0,
	}
}

// NewProvider creates the audio provider named in the configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "google", "":
		return NewGoogleProvider(config)
	case "htgotts":
		return NewHTGoTTSProvider(), nil
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// NewProviderChain creates the primary provider and wraps it with the
// configured fallback and circuit breaker.
func NewProviderChain(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	if config.Fallback != "" && config.Fallback != config.Provider {
		fallbackConfig := *config
		fallbackConfig.Provider = config.Fallback
		fallback, err := NewProvider(&fallbackConfig)
		if err != nil {
			return nil, fmt.Errorf("fallback provider: %w", err)
		}
		provider = NewProviderWithFallback(provider, fallback)
	}

	if config.MaxFailures > 0 {
		provider = NewBreakerProvider(provider, config.MaxFailures, config.BreakerCooldown)
	}

	return provider, nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, req *SpeechRequest, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, req, outputFile)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Warn("Primary provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "err", err)

		return p.fallback.GenerateAudio(ctx, req, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
