package extract

import (
	"strings"
	"unicode/utf8"
)

// parsePlain returns content as a string. Invalid UTF-8 sequences are
// replaced with the replacement character so downstream indexing never sees
// broken runes.
func parsePlain(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}
