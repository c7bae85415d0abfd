package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/vocabtts/internal/archive"
	"codeberg.org/snonux/vocabtts/internal/audio"
	"codeberg.org/snonux/vocabtts/internal/batch"
	"codeberg.org/snonux/vocabtts/internal/cli"
	"codeberg.org/snonux/vocabtts/internal/textenc"
)

// Processor handles the main word processing logic
type Processor struct {
	flags    *cli.Flags
	provider audio.Provider
	pacer    Pacer
}

// NewProcessor creates a processor with the provider chain and pacing
// configured by flags
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	provider, err := audio.NewProviderChain(audioConfig(flags))
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	if err := provider.IsAvailable(); err != nil {
		return nil, fmt.Errorf("audio provider not available: %w", err)
	}

	return NewProcessorWithProvider(flags, provider, NewPacer(flags.Interval)), nil
}

// NewProcessorWithProvider creates a processor for a given provider and pacer
func NewProcessorWithProvider(flags *cli.Flags, provider audio.Provider, pacer Pacer) *Processor {
	return &Processor{
		flags:    flags,
		provider: provider,
		pacer:    pacer,
	}
}

func audioConfig(flags *cli.Flags) *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = flags.Provider
	config.Fallback = flags.Fallback
	config.Endpoint = flags.Endpoint
	config.Timeout = flags.Timeout
	config.MaxFailures = flags.MaxFailures
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = flags.OpenAIModel
	config.OpenAIVoice = flags.OpenAIVoice
	config.OpenAISpeed = flags.OpenAISpeed
	return config
}

// BatchOptions returns the ingestion options given by the flags
func BatchOptions(flags *cli.Flags) batch.Options {
	return batch.Options{
		Encoding:          flags.Encoding,
		LineDelimiter:     cli.Unescape(flags.NewlineDelimiter),
		WordDelimiter:     cli.Unescape(flags.WordDelimiter),
		Language:          flags.Language,
		SourceLanguage:    flags.SourceLanguage(),
		SecondaryLanguage: flags.Language2,
	}
}

// TablePath returns where the vocabulary table is written. Relative names
// are placed in the output directory.
func TablePath(flags *cli.Flags) string {
	if filepath.IsAbs(flags.TableFile) {
		return flags.TableFile
	}
	return filepath.Join(flags.OutputDir, flags.TableFile)
}

func (p *Processor) prepareOutput() error {
	// Create output directory (including parent directories)
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Handle --archive flag
	if p.flags.Archive {
		if _, err := archive.ArchiveOutputs(p.flags.OutputDir, filepath.Base(TablePath(p.flags))); err != nil {
			return fmt.Errorf("failed to archive earlier outputs: %w", err)
		}
	}

	return nil
}

// ProcessFile converts every word of the input file. Only unreadable input
// or invalid options are returned as errors; per-word failures are in the
// results.
func (p *Processor) ProcessFile(ctx context.Context) ([]Result, error) {
	result, err := batch.ReadWordFile(p.flags.InputFile, BatchOptions(p.flags))
	if err != nil {
		return nil, err
	}

	if err := p.prepareOutput(); err != nil {
		return nil, err
	}

	encoding := result.Encoding.Effective()

	if result.Table != nil {
		tablePath := TablePath(p.flags)
		log.Info("Writing vocabulary table", "file", tablePath, "rows", result.Table.Len())
		if err := result.Table.WriteFile(tablePath, encoding); err != nil {
			log.Warn("Failed to write vocabulary table", "file", tablePath, "err", err)
		}
	}

	converter := NewConverter(p.provider, p.pacer, p.flags.OutputDir)
	results := converter.ConvertWords(ctx, result.Words, p.flags.Language, encoding)

	p.printSummary(results)

	return results, ctx.Err()
}

// ProcessString converts a literal text as one word, without pacing and
// without a vocabulary table
func (p *Processor) ProcessString(ctx context.Context, text string) (Result, error) {
	if _, err := textenc.Lookup(p.flags.Encoding); err != nil {
		return Result{}, err
	}

	if err := p.prepareOutput(); err != nil {
		return Result{}, err
	}

	converter := NewConverter(p.provider, nil, p.flags.OutputDir)
	return converter.ConvertOne(ctx, text, p.flags.Language, p.flags.Encoding), nil
}

func (p *Processor) printSummary(results []Result) {
	summary := Summarize(results)

	fmt.Printf("\n=== Conversion Summary ===\n")
	fmt.Printf("Total words: %d\n", summary.Total)
	fmt.Printf("Converted: %d\n", summary.Converted)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	if summary.Failed > 0 {
		fmt.Printf("Failed: %d\n", summary.Failed)
		for _, r := range results {
			if r.Outcome == Failed {
				fmt.Printf("  %d %q: %s\n", r.Index, r.Word, r.Failure)
			}
		}
	}
	fmt.Printf("==========================\n")
}
