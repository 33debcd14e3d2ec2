package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain treats content as UTF-8 text. Invalid byte sequences are
// replaced rather than rejected so partially corrupt files still index.
func extractPlain(content []byte) (string, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return text, nil
}
