package embedding

import (
	"hash/fnv"
	"strings"
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

const (
	clsTokenID       = 101
	sepTokenID       = 102
	hashVocabSize    = 30000
	defaultMaxTokens = 256
)

// HashTokenizer is a word-split tokenizer with hash-based token IDs. It is not a
// real WordPiece vocabulary, so embedding quality with it is approximate; swap in
// a proper tokenizer when the model ships with a vocab file.
type HashTokenizer struct{}

// Tokenize wraps hashed word IDs in [CLS]/[SEP] and pads out to maxTokens.
func (t *HashTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	words := SplitWords(text)
	limit := maxTokens - 2
	if limit < 0 {
		limit = 0
	}
	if len(words) > limit {
		words = words[:limit]
	}

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1
	for i, word := range words {
		inputIDs[i+1] = int64(HashString(word) % hashVocabSize)
		attentionMask[i+1] = 1
	}
	if sep := len(words) + 1; sep < maxTokens {
		inputIDs[sep] = sepTokenID
		attentionMask[sep] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on whitespace, returning nil for blank input.
func SplitWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	return words
}

// HashString returns a deterministic non-negative hash for use as a token ID.
func HashString(s string) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() & 0x7fffffff)
}
