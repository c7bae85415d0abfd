package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htgotts "github.com/hegedustibor/htgo-tts"
)

// HTGoTTSProvider implements Provider on top of the htgo-tts client, which
// talks to the same translate endpoint with its own request format.
// The client does not take a context, so requests cannot be cancelled.
type HTGoTTSProvider struct{}

// NewHTGoTTSProvider creates a new htgo-tts provider
func NewHTGoTTSProvider() Provider {
	return &HTGoTTSProvider{}
}

// GenerateAudio generates audio using htgo-tts
func (p *HTGoTTSProvider) GenerateAudio(ctx context.Context, req *SpeechRequest, outputFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ext := filepath.Ext(outputFile)
	if !strings.EqualFold(ext, ".mp3") {
		return fmt.Errorf("htgo-tts only produces mp3 files, got %q", outputFile)
	}

	// htgo-tts keeps existing files, remove the old one so a new run overwrites it
	if err := os.Remove(outputFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	speech := htgotts.Speech{
		Folder:   filepath.Dir(outputFile),
		Language: req.Language,
	}
	if _, err := speech.CreateSpeechFile(req.Text, strings.TrimSuffix(filepath.Base(outputFile), ext)); err != nil {
		return fmt.Errorf("htgo-tts failed: %w", err)
	}

	return nil
}

// Name returns the provider name
func (p *HTGoTTSProvider) Name() string {
	return "htgotts"
}

// IsAvailable always succeeds, htgo-tts needs no configuration
func (p *HTGoTTSProvider) IsAvailable() error {
	return nil
}
