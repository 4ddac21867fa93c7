// Package matching compares the keywords of a job description with the skills
// a candidate owns.
package matching

import (
	"strings"

	"github.com/spigell/jobhunter/internal/keywords"
)

// SkillSet is a set of lowercase skill names.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from the provided skills, lowercasing and trimming them.
func NewSkillSet(skills ...string) SkillSet {
	set := make(SkillSet, len(skills))
	set.Add(skills...)
	return set
}

func (s SkillSet) Add(skills ...string) {
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		s[skill] = struct{}{}
	}
}

func (s SkillSet) Has(skill string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}

func (s SkillSet) Len() int { return len(s) }

// Result describes how a candidate covers the keywords of one job description.
type Result struct {
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	MatchPercentage float64  `json:"match_percentage"`
}

// JobKeywords returns matched and missing together.
func (r *Result) JobKeywords() []string {
	all := make([]string, 0, len(r.Matched)+len(r.Missing))
	all = append(all, r.Matched...)
	return append(all, r.Missing...)
}

// Matcher intersects job keywords with candidate skills.
type Matcher struct {
	vocab *keywords.Vocabulary
}

// New returns a Matcher over vocab. A nil vocabulary falls back to the default one.
func New(vocab *keywords.Vocabulary) *Matcher {
	if vocab == nil {
		vocab = keywords.Default()
	}
	return &Matcher{vocab: vocab}
}

func (m *Matcher) Vocabulary() *keywords.Vocabulary { return m.vocab }

// Match computes matched and missing keywords of description against skills.
// Both lists follow vocabulary order. The percentage is 0 when the description
// has no known keywords.
func (m *Matcher) Match(description string, skills SkillSet) *Result {
	result := &Result{
		Matched: make([]string, 0),
		Missing: make([]string, 0),
	}

	found := m.vocab.Extract(description)
	if len(found) == 0 {
		return result
	}

	for _, keyword := range found {
		if skills.Has(keyword) {
			result.Matched = append(result.Matched, keyword)
			continue
		}
		result.Missing = append(result.Missing, keyword)
	}

	result.MatchPercentage = float64(len(result.Matched)) / float64(len(found)) * 100

	return result
}
