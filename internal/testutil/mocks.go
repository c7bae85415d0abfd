package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/vocabtts/internal/audio"
)

// MockProvider is an audio.Provider that records every request and writes
// canned data instead of calling a speech endpoint.
type MockProvider struct {
	mu sync.Mutex

	ProviderName string
	Data         []byte           // Written for every successful request
	Errors       map[string]error // Per-word errors, keyed by SpeechRequest.Text
	AvailableErr error

	Requests    []audio.SpeechRequest
	OutputFiles []string
}

// NewMockProvider returns a mock writing data for every word
func NewMockProvider(data []byte) *MockProvider {
	return &MockProvider{
		ProviderName: "mock",
		Data:         data,
		Errors:       make(map[string]error),
	}
}

// GenerateAudio records the request and writes Data to outputFile
func (m *MockProvider) GenerateAudio(ctx context.Context, req *audio.SpeechRequest, outputFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, *req)
	m.OutputFiles = append(m.OutputFiles, outputFile)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.Errors[req.Text]; ok {
		return err
	}

	if err := os.WriteFile(outputFile, m.Data, 0644); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrWriteOutput, err)
	}
	return nil
}

// Name returns the configured provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns AvailableErr
func (m *MockProvider) IsAvailable() error {
	return m.AvailableErr
}

// Calls returns the number of recorded requests
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Texts returns the text of every recorded request in order
func (m *MockProvider) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	texts := make([]string, len(m.Requests))
	for i, req := range m.Requests {
		texts[i] = req.Text
	}
	return texts
}

// CountingPacer counts Wait calls without sleeping
type CountingPacer struct {
	mu    sync.Mutex
	Waits int
	Err   error
}

// Wait records the call and returns Err
func (p *CountingPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Waits++
	if p.Err != nil {
		return p.Err
	}
	return ctx.Err()
}
