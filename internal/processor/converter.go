package processor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"codeberg.org/snonux/vocabtts/internal"
	"codeberg.org/snonux/vocabtts/internal/audio"
	"codeberg.org/snonux/vocabtts/internal/textenc"
)

// DefaultInterval is the minimum time between two requests of a batch
const DefaultInterval = 500 * time.Millisecond

// Pacer blocks until the next request may be sent. *rate.Limiter implements it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a limiter letting one request through per interval.
// The first request is not delayed.
func NewPacer(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Converter synthesizes words one after another
type Converter struct {
	provider  audio.Provider
	pacer     Pacer
	outputDir string
}

// NewConverter creates a converter writing into outputDir. A nil pacer
// disables pacing.
func NewConverter(provider audio.Provider, pacer Pacer, outputDir string) *Converter {
	return &Converter{
		provider:  provider,
		pacer:     pacer,
		outputDir: outputDir,
	}
}

// ConvertWords converts every word in order and returns one result per word.
// A failing word never stops the batch; once ctx is done the remaining words
// are marked canceled without sending requests.
func (c *Converter) ConvertWords(ctx context.Context, words []string, language, encoding string) []Result {
	results := make([]Result, 0, len(words))

	for i, word := range words {
		index := i + 1

		if err := ctx.Err(); err != nil {
			results = append(results, failed(index, word, FailureCanceled, err))
			continue
		}

		log.Info("Processing", "word", word, "n", index, "of", len(words))
		result := c.convert(ctx, index, word, language, encoding, true)
		logResult(result)
		results = append(results, result)
	}

	return results
}

// ConvertOne converts a single word into <word>.mp3 without pacing
func (c *Converter) ConvertOne(ctx context.Context, word, language, encoding string) Result {
	result := c.convert(ctx, 0, word, language, encoding, false)
	logResult(result)
	return result
}

func (c *Converter) convert(ctx context.Context, index int, word, language, encoding string, paced bool) Result {
	if err := audio.ValidateWord(word); err != nil {
		return Result{Index: index, Word: word, Outcome: Skipped, Reason: err.Error()}
	}

	query, err := textenc.QueryEscape(word, encoding)
	if err != nil {
		return failed(index, word, FailureEncoding, err)
	}

	// Only requests are paced, skipped words go through immediately
	if paced && c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return failed(index, word, FailureCanceled, err)
		}
	}

	outputPath := filepath.Join(c.outputDir, internal.AudioFileName(index, word))
	req := &audio.SpeechRequest{
		Text:     word,
		Language: language,
		Query:    query,
	}

	if err := c.provider.GenerateAudio(ctx, req, outputPath); err != nil {
		kind, status := classify(err)
		result := failed(index, word, kind, err)
		result.StatusCode = status
		return result
	}

	return Result{Index: index, Word: word, Outcome: Success, OutputPath: outputPath}
}

func logResult(r Result) {
	switch r.Outcome {
	case Success:
		var size uint64
		if info, err := os.Stat(r.OutputPath); err == nil {
			size = uint64(info.Size())
		}
		log.Info("Saved audio", "file", r.OutputPath, "size", humanize.Bytes(size))
	case Skipped:
		log.Warn("Skipping word", "word", r.Word, "reason", r.Reason)
	case Failed:
		log.Warn("Failed to convert word", "word", r.Word, "kind", r.Failure.String(), "err", r.Err)
	}
}
