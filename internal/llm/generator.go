// Package llm provides text generation for answer re-ranking.
package llm

import "context"

// Generator produces a text completion from a prompt. Implementations must
// honor ctx cancellation; the re-ranker relies on it for its timeout.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
