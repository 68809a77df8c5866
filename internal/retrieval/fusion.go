package retrieval

import (
	"sort"

	"github.com/hyperjump/kotae/internal/models"
)

// rrfK dampens the influence of any single ranked list in reciprocal rank
// fusion. 60 is the value from the original RRF paper.
const rrfK = 60

// rankByContent builds a content -> 1-based rank map from an ordered list.
// Duplicate contents keep their first (best) rank.
func rankByContent(docs []*models.RetrievedDocument) map[string]int {
	ranks := make(map[string]int, len(docs))
	for i, d := range docs {
		if _, seen := ranks[d.Content]; !seen {
			ranks[d.Content] = i + 1
		}
	}
	return ranks
}

// fuse merges vector results and BM25-ranked lexical results with reciprocal
// rank fusion: score = 1/(rrfK+vectorRank) + 1/(rrfK+bm25Rank), missing ranks
// contributing 0. Documents are deduplicated by exact content; vector results
// are inserted first so a document found by both sides keeps its vector
// similarity. The fused list is sorted descending by RRF score (stable) and
// truncated to limit.
func fuse(vectorDocs, lexicalDocs []*models.RetrievedDocument, limit int) []*models.RetrievedDocument {
	vectorRanks := rankByContent(vectorDocs)
	bm25Ranks := rankByContent(lexicalDocs)

	byContent := make(map[string]*models.RetrievedDocument, len(vectorDocs)+len(lexicalDocs))
	order := make([]*models.RetrievedDocument, 0, len(vectorDocs)+len(lexicalDocs))
	for _, d := range vectorDocs {
		if _, seen := byContent[d.Content]; !seen {
			byContent[d.Content] = d
			order = append(order, d)
		}
	}
	for _, d := range lexicalDocs {
		if _, seen := byContent[d.Content]; !seen {
			byContent[d.Content] = d
			order = append(order, d)
		}
	}

	type fused struct {
		doc   *models.RetrievedDocument
		score float64
	}
	scored := make([]fused, 0, len(order))
	for _, d := range order {
		var score float64
		if rank, ok := vectorRanks[d.Content]; ok {
			score += 1.0 / float64(rrfK+rank)
		}
		if rank, ok := bm25Ranks[d.Content]; ok {
			score += 1.0 / float64(rrfK+rank)
		}
		scored = append(scored, fused{doc: d, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]*models.RetrievedDocument, limit)
	for i := range out {
		out[i] = scored[i].doc
	}
	return out
}
