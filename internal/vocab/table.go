package vocab

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/vocabtts/internal/textenc"
)

// DefaultFileName is where the table is written when nothing else is configured
const DefaultFileName = "out.csv"

// Row is one word pair, target-language word first
type Row struct {
	Target string
	Source string
}

// Table is an ordered list of rows
type Table struct {
	rows []Row
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{
		rows: make([]Row, 0),
	}
}

// Add appends a row
func (t *Table) Add(target, source string) {
	t.rows = append(t.rows, Row{Target: target, Source: source})
}

// Rows returns the rows in insertion order
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// WriteFile writes the table to path, replacing any previous content.
// Each row is the target word, a tab and the source word. Fields are written
// as is, without quoting, and the text is encoded with the named encoding.
func (t *Table) WriteFile(path, encoding string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary file: %w", err)
	}
	defer file.Close()

	encoder, err := textenc.NewWriter(file, encoding)
	if err != nil {
		return err
	}

	for _, row := range t.rows {
		if _, err := io.WriteString(encoder, row.Target+"\t"+row.Source+"\n"); err != nil {
			return fmt.Errorf("failed to write vocabulary file: %w", err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode vocabulary file: %w", err)
	}

	return file.Close()
}
