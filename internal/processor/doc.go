// Package processor turns word lists into speech files. The Converter runs
// the sequential, paced request loop and reports one Result per word; the
// Processor wires ingestion, the vocabulary table and the converter to the
// command-line flags.
package processor
