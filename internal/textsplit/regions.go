// Package textsplit splits raw document text into bounded retrievable chunks
// while preserving Markdown heading and fenced code block structure.
package textsplit

import "strings"

// RegionKind classifies a scanned region of text.
type RegionKind int

const (
	// RegionText is plain text between structural elements.
	RegionText RegionKind = iota
	// RegionHeading is a Markdown heading line (1-6 '#' followed by a space).
	RegionHeading
	// RegionCodeBlock is a fenced code block, fences included.
	RegionCodeBlock
)

// Region is a typed byte range [Start, End) of the scanned text.
type Region struct {
	Kind  RegionKind
	Start int
	End   int
}

// ScanRegions walks text once and returns contiguous typed regions covering
// the whole input. Headings inside fenced code blocks are not reported as
// headings. An unterminated fence is treated as ordinary text, so the scanner
// never fails on malformed input.
func ScanRegions(text string) []Region {
	var regions []Region
	n := len(text)
	pos := 0 // start of the pending text region
	i := 0   // always at a line start

	flushText := func(end int) {
		if end > pos {
			regions = append(regions, Region{Kind: RegionText, Start: pos, End: end})
		}
	}

	for i < n {
		next := lineEnd(text, i)
		line := text[i:next]
		switch {
		case strings.HasPrefix(line, "```"):
			closeEnd := findFenceClose(text, next)
			if closeEnd >= 0 {
				flushText(i)
				regions = append(regions, Region{Kind: RegionCodeBlock, Start: i, End: closeEnd})
				pos = closeEnd
				i = closeEnd
				continue
			}
			// unterminated fence: fall through as plain text
		case isHeadingLine(line):
			flushText(i)
			regions = append(regions, Region{Kind: RegionHeading, Start: i, End: next})
			pos = next
		}
		i = next
	}
	flushText(n)
	return regions
}

// lineEnd returns the index just past the line starting at i (past the
// newline, or len(text) for the last line).
func lineEnd(text string, i int) int {
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl + 1
	}
	return len(text)
}

// findFenceClose scans line starts from `from` for the closing fence and
// returns the index just past the closing fence line, or -1 if none exists.
func findFenceClose(text string, from int) int {
	i := from
	for i < len(text) {
		next := lineEnd(text, i)
		if strings.HasPrefix(text[i:next], "```") {
			return next
		}
		i = next
	}
	return -1
}

// isHeadingLine reports whether line (including any trailing newline) starts
// with 1-6 '#' characters followed by a space.
func isHeadingLine(line string) bool {
	hashes := 0
	for hashes < len(line) && line[hashes] == '#' {
		hashes++
	}
	if hashes < 1 || hashes > 6 {
		return false
	}
	return hashes < len(line) && line[hashes] == ' '
}

// headingStarts returns the start offsets of heading regions.
func headingStarts(regions []Region) []int {
	var starts []int
	for _, r := range regions {
		if r.Kind == RegionHeading {
			starts = append(starts, r.Start)
		}
	}
	return starts
}

// hasCodeBlock reports whether any region is a fenced code block.
func hasCodeBlock(regions []Region) bool {
	for _, r := range regions {
		if r.Kind == RegionCodeBlock {
			return true
		}
	}
	return false
}
