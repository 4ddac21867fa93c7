package priority

import (
	"slices"

	"github.com/spigell/jobhunter/internal/jobs"
)

// Scorer applies a fixed rule table to postings. It is safe for concurrent use.
type Scorer struct {
	rules []Rule
}

// Hit is a rule that matched a posting.
type Hit struct {
	Rule   string `json:"rule"`
	Weight int    `json:"weight"`
}

func NewScorer(lists Lists) *Scorer {
	return &Scorer{rules: BuildRules(lists)}
}

// Default returns a scorer over DefaultLists.
func Default() *Scorer {
	return NewScorer(DefaultLists())
}

func (s *Scorer) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Score sums the weights of every matching rule and clamps the total at zero.
// Intermediate sums may go negative; only the final value is clamped.
func (s *Scorer) Score(p Posting) int {
	total := 0
	for _, rule := range s.rules {
		if rule.Match(p) {
			total += rule.Weight
		}
	}
	return max(0, total)
}

// Explain lists the rules that matched, in rule order.
func (s *Scorer) Explain(p Posting) []Hit {
	hits := make([]Hit, 0)
	for _, rule := range s.rules {
		if rule.Match(p) {
			hits = append(hits, Hit{Rule: rule.Name, Weight: rule.Weight})
		}
	}
	return hits
}

// ScoreJob scores a job without modifying it.
func (s *Scorer) ScoreJob(job *jobs.Job) int {
	return s.Score(FromJob(job))
}
