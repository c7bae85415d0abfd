// Package vocab holds the two-column vocabulary table built from a bilingual
// word list and writes it as a tab-separated file that Anki and spreadsheet
// tools can import.
package vocab
