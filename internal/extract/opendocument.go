package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
)

// OpenDocument files (.odp, .ods) are zips with a single content.xml; the
// formats differ only in which text elements carry content.
const odfContentPath = "content.xml"

var (
	textParagraph = regexp.MustCompile(`<text:p[^>]*>([^<]*)</text:p>`)
	textSpan      = regexp.MustCompile(`<text:span[^>]*>([^<]*)</text:span>`)
	textHeading   = regexp.MustCompile(`<text:h[^>]*>([^<]*)</text:h>`)
)

// parseOpenDocument returns a parser that harvests the given text elements
// from content.xml.
func parseOpenDocument(patterns ...*regexp.Regexp) parser {
	return func(content []byte) (string, error) {
		zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			return "", fmt.Errorf("extract OpenDocument: not a zip: %w", err)
		}
		contentXML, err := zipPart(zr, odfContentPath)
		if err != nil {
			return "", fmt.Errorf("extract OpenDocument: %w", err)
		}
		if contentXML == nil {
			return "", fmt.Errorf("extract OpenDocument: %s not found", odfContentPath)
		}
		return harvest(string(contentXML), patterns...), nil
	}
}
