// Package fileid derives stable document IDs for files ingested from disk.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "file:"

// FileDocID maps a file path to a document ID. The path is cleaned first, so
// repeated index runs over the same file update one document instead of
// creating duplicates.
func FileDocID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return prefix + hex.EncodeToString(sum[:])
}
