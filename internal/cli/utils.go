// Package cli provides CLI output helpers for Kotae.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

// OutputFormat is the format for retrieval result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteResults writes retrieval results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteResults(w io.Writer, query string, docs []*models.RetrievedDocument, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"query":   query,
			"results": docs,
			"count":   len(docs),
		})
	default:
		writeResultsText(w, query, docs)
		return nil
	}
}

func writeResultsText(w io.Writer, query string, docs []*models.RetrievedDocument) {
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", len(docs), query)
	for i, doc := range docs {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Similarity: %.4f\n", i+1, doc.Similarity)
		if doc.Source != "" {
			fmt.Fprintf(w, "Source: %s\n", doc.Source)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(doc.Content, 200))
	}
}

// PrintResults prints retrieval results to stdout in text format.
func PrintResults(query string, docs []*models.RetrievedDocument) {
	_ = WriteResults(os.Stdout, query, docs, OutputText)
}
