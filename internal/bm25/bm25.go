package bm25

import (
	"math"
	"sort"
)

// Default Okapi BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Result is a scored document: Index refers to the position in the input slice.
type Result struct {
	Index int
	Score float64
}

// Params holds the BM25 tuning parameters.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns the standard k1/b values.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Scores computes BM25 scores for query against documents using default
// parameters. Results are sorted descending by score; documents that score
// zero are excluded. Ties keep the original document order.
func Scores(query string, documents []string) []Result {
	return ScoresWithParams(query, documents, DefaultParams())
}

// ScoresWithParams is Scores with explicit k1/b parameters.
func ScoresWithParams(query string, documents []string, p Params) []Result {
	if query == "" || len(documents) == 0 {
		return nil
	}
	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	docTokens := make([][]string, len(documents))
	totalLen := 0
	for i, doc := range documents {
		docTokens[i] = Tokenize(doc)
		totalLen += len(docTokens[i])
	}
	n := len(documents)
	avgDocLen := float64(totalLen) / float64(n)

	// Document frequency per term.
	df := make(map[string]int)
	for _, tokens := range docTokens {
		seen := make(map[string]bool, len(tokens))
		for _, term := range tokens {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	results := make([]Result, 0, n)
	for i, tokens := range docTokens {
		docLen := float64(len(tokens))
		tf := make(map[string]int, len(tokens))
		for _, term := range tokens {
			tf[term]++
		}

		var score float64
		for _, term := range queryTerms {
			termDf := df[term]
			if termDf == 0 {
				continue
			}
			termTf := tf[term]
			if termTf == 0 {
				continue
			}
			idf := math.Log((float64(n)-float64(termDf)+0.5)/(float64(termDf)+0.5) + 1)
			tfNorm := (float64(termTf) * (p.K1 + 1)) /
				(float64(termTf) + p.K1*(1-p.B+p.B*(docLen/avgDocLen)))
			score += idf * tfNorm
		}

		if score > 0 {
			results = append(results, Result{Index: i, Score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	return results
}
