// Package extract turns document files into raw text for ingestion. Plain
// text passes through; PDF, OOXML (docx/pptx/xlsx) and OpenDocument
// (odt/odp/ods) formats are unpacked and their text nodes harvested.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// parser turns raw file bytes into plain text.
type parser func(content []byte) (string, error)

// Extractor extracts plain text from document files.
type Extractor struct {
	parsers map[string]parser
}

// NewExtractor returns an Extractor covering every supported format.
func NewExtractor() *Extractor {
	return &Extractor{parsers: map[string]parser{
		".pdf":  parsePDF,
		".docx": parseWordXML,
		".odt":  parseWordXML,
		".rtf":  parseWordXML,
		".xlsx": parseWorkbook,
		".pptx": parseSlidesXML,
		".odp":  parseOpenDocument(textParagraph, textSpan, textHeading),
		".ods":  parseOpenDocument(textParagraph, textSpan),
	}}
}

// Supported reports whether ext (with leading dot) has a dedicated parser.
// Unsupported extensions still extract, as plain text.
func (e *Extractor) Supported(ext string) bool {
	_, ok := e.parsers[strings.ToLower(ext)]
	return ok
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Extensions without a
// dedicated parser are treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	if p, ok := e.parsers[strings.ToLower(ext)]; ok {
		return p(content)
	}
	return parsePlain(content)
}
