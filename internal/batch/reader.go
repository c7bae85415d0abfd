package batch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"codeberg.org/snonux/vocabtts/internal/textenc"
	"codeberg.org/snonux/vocabtts/internal/vocab"
)

// ErrEmptyDelimiter is returned when a line or word delimiter is empty
var ErrEmptyDelimiter = errors.New("delimiter must not be empty")

// Options controls how a word list is parsed
type Options struct {
	Encoding      string // Declared encoding of the input
	LineDelimiter string // Separates records, "\n" by default
	WordDelimiter string // Separates the two words of a pair, "," by default

	Language          string // Language to synthesize
	SourceLanguage    string // Language of the first column, defaults to Language
	SecondaryLanguage string // Language of the second column, empty disables pairs
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Encoding:      textenc.UTF8,
		LineDelimiter: "\n",
		WordDelimiter: ",",
		Language:      "en",
	}
}

// Result is the outcome of one ingestion call
type Result struct {
	Words    []string         // Words to synthesize, in input order, blank lines included
	Table    *vocab.Table     // Vocabulary table, nil unless pairs were parsed
	Encoding textenc.Decision // Declared and BOM-detected encoding
}

// WordPair is one line of a bilingual word list
type WordPair struct {
	Source string
	Target string
}

// ReadWordFile reads a word list from a file.
// Supports formats:
// - one word or phrase per line: "hello"
// - pairs with a secondary language: "hello, привет"
func ReadWordFile(filename string, opts Options) (*Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	return ParseBytes(content, opts)
}

// ParseBytes detects the encoding of raw input and parses it
func ParseBytes(content []byte, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	decision := textenc.Decision{Declared: opts.Encoding}
	detected, rest := textenc.DetectBOM(content)
	if detected != "" {
		decision.Detected = detected
		content = rest
	}
	if decision.Overridden() {
		log.Warn("Declared encoding does not match byte-order mark, using the detected one",
			"declared", opts.Encoding, "detected", detected)
	}

	text, err := textenc.Decode(content, decision.Effective())
	if err != nil {
		return nil, err
	}

	result := parse(text, opts)
	result.Encoding = decision
	return result, nil
}

func (o Options) validate() error {
	if o.LineDelimiter == "" {
		return fmt.Errorf("line %w", ErrEmptyDelimiter)
	}
	if o.WordDelimiter == "" {
		return fmt.Errorf("word %w", ErrEmptyDelimiter)
	}
	if _, err := textenc.Lookup(o.Encoding); err != nil {
		return err
	}
	return nil
}

func parse(text string, opts Options) *Result {
	text = cases.Lower(language.Und).String(text)

	sourceLanguage := opts.SourceLanguage
	if sourceLanguage == "" {
		sourceLanguage = opts.Language
	}

	records := strings.Split(text, opts.LineDelimiter)
	if len(records) <= 1 {
		// No record delimiter, the text is a plain newline separated list
		return &Result{Words: splitLines(text)}
	}

	var table *vocab.Table
	if opts.SecondaryLanguage != "" {
		table = vocab.NewTable()
	}

	var selected strings.Builder
	for _, record := range records {
		pair := WordPair{Source: strings.TrimSpace(record)}
		if opts.SecondaryLanguage != "" {
			pair = SplitPair(record, opts.WordDelimiter)
		}

		// Blank lines and lines without a second word are ignored
		if pair.Source == "" || (opts.SecondaryLanguage != "" && pair.Target == "") {
			continue
		}

		if table != nil {
			table.Add(pair.Target, pair.Source)
		}

		switch opts.Language {
		case sourceLanguage:
			selected.WriteString(pair.Source + "\n")
		case opts.SecondaryLanguage:
			selected.WriteString(pair.Target + "\n")
		default:
			log.Warn("Language matches neither column, pair not synthesized",
				"language", opts.Language, "source", pair.Source)
		}
	}

	result := &Result{Words: splitLines(selected.String())}
	if table != nil && table.Len() > 0 {
		result.Table = table
	}
	return result
}

// SplitPair splits a line at the last occurrence of delimiter, so the source
// phrase may contain the delimiter while the target word may not. Without a
// delimiter the whole line is the target and the source is empty.
func SplitPair(line, delimiter string) WordPair {
	i := strings.LastIndex(line, delimiter)
	if i < 0 {
		return WordPair{Target: strings.TrimSpace(line)}
	}

	return WordPair{
		Source: strings.TrimSpace(line[:i]),
		Target: strings.TrimSpace(line[i+len(delimiter):]),
	}
}

// splitLines splits a string by line breaks. "\r\n" counts as one break and a
// lone "\r" as another.
func splitLines(s string) []string {
	var lines []string
	var current strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			fallthrough
		case '\n':
			lines = append(lines, current.String())
			current.Reset()
		default:
			current.WriteByte(s[i])
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
