package indexer

import "strings"

// Preprocess collapses runs of whitespace to single spaces and trims the ends.
// Chunk offsets are computed over the preprocessed text.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
