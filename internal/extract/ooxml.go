package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// OOXML packages (.docx, .pptx) are zips of XML parts. Text lives in <w:t>
// (Word) and <a:t> (Drawing/PowerPoint) nodes; matching the nodes directly is
// robust against the attribute soup real-world documents carry (a fixed
// <w:p>...</w:p> match without attributes yields empty text on most files).
var (
	wordTextNode    = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	drawingTextNode = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

	// [Content_Types].xml Override entries name the main document part; the
	// two patterns cover both attribute orders.
	wordMainPart  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"`)
	wordMainPart2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

const (
	wordDefaultDocumentPath = "word/document.xml"
	wordMainContentType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	slidePathPrefix         = "ppt/slides/slide"
	contentTypesPath        = "[Content_Types].xml"
)

// zipPart returns the decompressed bytes of the named file inside zr, or nil
// when the entry does not exist.
func zipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, nil
}

// harvest joins the first submatch of every pattern occurrence with single
// spaces, trimming each piece.
func harvest(xml string, patterns ...*regexp.Regexp) string {
	var b strings.Builder
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(xml, -1) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(m[1]))
		}
	}
	return strings.TrimSpace(b.String())
}

// parseWordXML extracts text from .docx (and .odt/.rtf routed through the
// same Word XML shape) by harvesting <w:t> nodes from the main document part.
func parseWordXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	docPath := wordDocumentPath(zr)
	docXML, err := zipPart(zr, docPath)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	if docXML == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", docPath)
	}
	return harvest(string(docXML), wordTextNode), nil
}

// wordDocumentPath resolves the main document part from [Content_Types].xml,
// falling back to the conventional word/document.xml.
func wordDocumentPath(zr *zip.Reader) string {
	types, err := zipPart(zr, contentTypesPath)
	if err != nil || types == nil {
		return wordDefaultDocumentPath
	}
	for _, re := range []*regexp.Regexp{wordMainPart, wordMainPart2} {
		if m := re.FindStringSubmatch(string(types)); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
	}
	return wordDefaultDocumentPath
}

// parseSlidesXML extracts text from .pptx by harvesting <a:t> nodes from
// every ppt/slides/slideN.xml part.
func parseSlidesXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract PPTX: not a zip: %w", err)
	}
	var b strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, slidePathPrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		slideXML, err := zipPart(zr, f.Name)
		if err != nil {
			return "", fmt.Errorf("extract PPTX: %w", err)
		}
		if text := harvest(string(slideXML), drawingTextNode); text != "" {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}
