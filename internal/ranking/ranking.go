// Package ranking orders resume content blocks by how many job keywords they mention.
package ranking

import (
	"slices"

	"github.com/spigell/jobhunter/internal/keywords"
)

// Scored pairs a block with its relevance score.
type Scored[T any] struct {
	Item  T
	Score int
}

// Score counts the job keywords found in text. Each keyword in the list scores
// one point when it is a substring of the lowercased text.
func Score(text string, jobKeywords []string) int {
	return keywords.CountContained(text, jobKeywords)
}

// RankScored scores every block with textOf and sorts them by score, highest
// first. Blocks with equal scores keep their input order. A positive limit
// truncates the result.
func RankScored[T any](blocks []T, textOf func(T) string, jobKeywords []string, limit int) []Scored[T] {
	scored := make([]Scored[T], 0, len(blocks))
	for _, block := range blocks {
		text := ""
		if textOf != nil {
			text = textOf(block)
		}
		scored = append(scored, Scored[T]{Item: block, Score: Score(text, jobKeywords)})
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return b.Score - a.Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return scored
}

// Rank is RankScored without the scores.
func Rank[T any](blocks []T, textOf func(T) string, jobKeywords []string, limit int) []T {
	scored := RankScored(blocks, textOf, jobKeywords, limit)

	ranked := make([]T, 0, len(scored))
	for _, s := range scored {
		ranked = append(ranked, s.Item)
	}

	return ranked
}
