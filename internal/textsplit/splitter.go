package textsplit

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default chunking parameters (bytes).
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

var multiNewline = regexp.MustCompile(`\n{3,}`)

// sentence boundary markers searched within a window, rightmost wins.
// "다. " / "다.\n" cover the common Korean sentence-final verb ending.
var sentenceBoundaries = []string{". ", ".\n", "다. ", "다.\n", "\n\n"}

// Split splits text into ordered chunks of at most chunkSize bytes each,
// except that a fenced code block larger than chunkSize is emitted intact as
// a single chunk. Markdown headings outside code fences are preferred split
// points; oversized plain text falls back to sentence-boundary chunking with
// the given overlap. Split is pure: the same inputs always produce the same
// chunks, and no input causes a panic.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 5
		}
	}

	cleaned := strings.TrimSpace(multiNewline.ReplaceAllString(text, "\n\n"))
	if len(cleaned) <= chunkSize {
		return []string{cleaned}
	}

	regions := ScanRegions(cleaned)
	sections := splitByHeadings(cleaned, regions)
	if len(sections) <= 1 {
		return chunkWithCodeProtection(cleaned, chunkSize, overlap)
	}

	var chunks []string
	buffer := ""
	flush := func() {
		if strings.TrimSpace(buffer) == "" {
			return
		}
		if len(buffer) <= chunkSize {
			chunks = append(chunks, buffer)
		} else {
			chunks = append(chunks, chunkWithCodeProtection(buffer, chunkSize, overlap)...)
		}
	}
	for _, section := range sections {
		switch {
		case buffer == "":
			buffer = section
		case len(buffer)+2+len(section) <= chunkSize:
			buffer = buffer + "\n\n" + section
		default:
			flush()
			buffer = section
		}
	}
	flush()

	if len(chunks) == 0 {
		return []string{cleaned}
	}
	return chunks
}

// splitByHeadings splits text into sections at heading boundaries. Text before
// the first heading becomes a leading section; each heading owns the text up
// to the next heading. Returns the whole text as a single section when no
// heading exists outside code fences.
func splitByHeadings(text string, regions []Region) []string {
	starts := headingStarts(regions)
	if len(starts) == 0 {
		return []string{text}
	}

	var sections []string
	appendSection := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	appendSection(text[:starts[0]])
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		appendSection(text[start:end])
	}
	return sections
}

type segment struct {
	text string
	code bool
}

// chunkWithCodeProtection chunks text that may contain fenced code blocks.
// Non-code text accumulates into a buffer; a code block merges into the
// buffer when the combination fits, otherwise the buffer is flushed and the
// code block becomes its own chunk, verbatim and uncut regardless of length.
// The buffer keeps its segments so an oversized flush can sentence-chunk the
// text runs without ever cutting through a fence.
func chunkWithCodeProtection(text string, chunkSize, overlap int) []string {
	regions := ScanRegions(text)
	if !hasCodeBlock(regions) {
		return sentenceBoundaryChunk(text, chunkSize, overlap)
	}

	var chunks []string
	var buf []segment
	bufLen := 0

	emitRun := func(run string) {
		trimmed := strings.TrimSpace(run)
		if trimmed == "" {
			return
		}
		if len(run) <= chunkSize {
			chunks = append(chunks, trimmed)
		} else {
			chunks = append(chunks, sentenceBoundaryChunk(trimmed, chunkSize, overlap)...)
		}
	}

	flush := func() {
		if bufLen == 0 {
			return
		}
		segs := buf
		buf, bufLen = nil, 0
		var joined strings.Builder
		for _, s := range segs {
			joined.WriteString(s.text)
		}
		whole := joined.String()
		if strings.TrimSpace(whole) == "" {
			return
		}
		if len(whole) <= chunkSize {
			chunks = append(chunks, strings.TrimSpace(whole))
			return
		}
		// oversized buffer: sentence-chunk the text runs, emit code whole
		run := ""
		for _, s := range segs {
			if s.code {
				emitRun(run)
				run = ""
				chunks = append(chunks, strings.TrimSpace(s.text))
			} else {
				run += s.text
			}
		}
		emitRun(run)
	}

	for _, r := range regions {
		seg := text[r.Start:r.End]
		isCode := r.Kind == RegionCodeBlock
		if isCode && bufLen+len(seg) > chunkSize {
			flush()
			chunks = append(chunks, strings.TrimSpace(seg))
			continue
		}
		buf = append(buf, segment{text: seg, code: isCode})
		bufLen += len(seg)
	}
	flush()
	return chunks
}

// sentenceBoundaryChunk cuts plain text into chunks of at most chunkSize,
// preferring the rightmost sentence boundary in each window when it lies past
// 30% of the window, with adjacent chunks sharing overlap bytes.
// runeStart backs i off to the start of the rune containing text[i].
func runeStart(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

func sentenceBoundaryChunk(text string, chunkSize, overlap int) []string {
	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			if chunk := strings.TrimSpace(text[start:]); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		window := text[start:end]
		boundary := -1
		for _, marker := range sentenceBoundaries {
			if idx := strings.LastIndex(window, marker); idx > boundary {
				boundary = idx
			}
		}
		if boundary > chunkSize*3/10 {
			// cut just past the boundary rune
			_, size := utf8.DecodeRuneInString(window[boundary:])
			end = start + boundary + size
		} else {
			// a raw byte cut can land mid-rune; back off to the rune start
			end = runeStart(text, end)
			if end <= start {
				_, size := utf8.DecodeRuneInString(text[start:])
				end = start + size
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next > start {
			next = runeStart(text, next)
		}
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
