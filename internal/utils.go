package internal

import "strconv"

// AudioExtension is the extension of every saved speech file
const AudioExtension = ".mp3"

// AudioFileName builds the output file name for a word.
// Batch conversions prefix the 1-based position of the word, single conversions pass seq <= 0.
// The word is used verbatim, so identical words overwrite each other.
func AudioFileName(seq int, word string) string {
	if seq <= 0 {
		return word + AudioExtension
	}
	return strconv.Itoa(seq) + word + AudioExtension
}
