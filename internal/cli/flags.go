package cli

import (
	"strings"
	"time"

	"codeberg.org/snonux/vocabtts/internal/audio"
	"codeberg.org/snonux/vocabtts/internal/vocab"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputDir  string
	TableFile  string
	InputFile  string
	InputText  string
	Archive    bool
	ListModels bool
	Verbose    bool

	// Text flags
	Language         string
	Language1        string
	Language2        string
	Encoding         string
	NewlineDelimiter string
	WordDelimiter    string

	// Audio flags
	Provider    string
	Fallback    string
	Endpoint    string
	Timeout     time.Duration
	Interval    time.Duration
	MaxFailures uint32

	// OpenAI flags
	OpenAIModel string
	OpenAIVoice string
	OpenAISpeed float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir:        ".",
		TableFile:        vocab.DefaultFileName,
		Language:         "en",
		Encoding:         "utf-8",
		NewlineDelimiter: `\n`,
		WordDelimiter:    ",",
		Provider:         "google",
		Endpoint:         audio.DefaultEndpoint,
		Timeout:          30 * time.Second,
		Interval:         500 * time.Millisecond,
		OpenAIModel:      "tts-1",
		OpenAIVoice:      "alloy",
		OpenAISpeed:      1.0,
	}
}

// SourceLanguage returns the language of the first column, which
// defaults to the output language
func (f *Flags) SourceLanguage() string {
	if f.Language1 != "" {
		return f.Language1
	}
	return f.Language
}

// Text joins the --string value with the remaining positional words
func (f *Flags) Text(args []string) string {
	if f.InputText == "" {
		return strings.Join(args, " ")
	}
	return strings.Join(append([]string{f.InputText}, args...), " ")
}
