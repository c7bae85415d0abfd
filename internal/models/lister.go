package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// NewListerWithBaseURL creates a lister talking to an OpenAI compatible API
// at baseURL, e.g. "http://localhost:8080/v1"
func NewListerWithBaseURL(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// TTSModels returns the sorted IDs of all speech models
func (l *Lister) TTSModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .vocabtts.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ttsModels := []string{}
	for _, model := range models.Models {
		if strings.Contains(model.ID, "tts") {
			ttsModels = append(ttsModels, model.ID)
		}
	}
	sort.Strings(ttsModels)

	return ttsModels, nil
}

// ListAvailableModels prints the speech models usable with --openai-model
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	ttsModels, err := l.TTSModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(ttsModels) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
		return nil
	}
	for _, model := range ttsModels {
		fmt.Fprintf(w, "  %s\n", model)
	}

	return nil
}
