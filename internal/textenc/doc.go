// Package textenc resolves text encodings by name, sniffs byte-order marks
// and converts between raw bytes and Go strings for word-list input, the
// vocabulary table and the percent-encoded speech query.
package textenc
