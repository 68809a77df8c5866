// Package sourceid provides a deterministic document ID from a source key.
package sourceid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "src:"

// DocID returns a stable document ID for the given source key. Same source
// always yields the same ID. Used for index/update/delete by source.
func DocID(source string) string {
	hash := sha256.Sum256([]byte(source))
	return prefix + hex.EncodeToString(hash[:])
}

// FileSource normalizes a file path into a source key: cleaned absolute path.
func FileSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
