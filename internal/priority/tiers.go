package priority

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/spigell/jobhunter/internal/jobs"
)

type Tier int

const (
	MustApply Tier = iota
	ShouldApply
	NiceToHave
	LowPriority
)

const (
	MustApplyMin   = 60
	ShouldApplyMin = 30
	NiceToHaveMin  = 10

	// FocusLimit caps the number of applications recommended per run.
	FocusLimit = 50
)

// AllTiers lists tiers from the most to the least important.
var AllTiers = []Tier{MustApply, ShouldApply, NiceToHave, LowPriority}

// TierFor buckets a score. Bounds are closed-open; MustApply has no upper bound.
func TierFor(score int) Tier {
	switch {
	case score >= MustApplyMin:
		return MustApply
	case score >= ShouldApplyMin:
		return ShouldApply
	case score >= NiceToHaveMin:
		return NiceToHave
	default:
		return LowPriority
	}
}

func (t Tier) String() string {
	switch t {
	case MustApply:
		return "must-apply"
	case ShouldApply:
		return "should-apply"
	case NiceToHave:
		return "nice-to-have"
	case LowPriority:
		return "low-priority"
	default:
		return "unknown"
	}
}

// Key is the JSON key used for the tier in prioritized output files.
func (t Tier) Key() string {
	switch t {
	case MustApply:
		return "tier_1_must_apply"
	case ShouldApply:
		return "tier_2_should_apply"
	case NiceToHave:
		return "tier_3_nice_to_have"
	case LowPriority:
		return "tier_4_low_priority"
	default:
		return "unknown"
	}
}

func ParseTier(s string) (Tier, bool) {
	for _, t := range AllTiers {
		if s == t.String() || s == t.Key() {
			return t, true
		}
	}
	return LowPriority, false
}

// Tiers holds postings bucketed by tier, each bucket sorted by score descending.
type Tiers struct {
	Total   int
	buckets map[Tier][]*jobs.Job
}

// Categorize scores every posting, stores the score in PriorityScore and
// buckets the postings. Equal scores keep their input order.
func (s *Scorer) Categorize(v *jobs.Jobs) *Tiers {
	t := &Tiers{buckets: make(map[Tier][]*jobs.Job, len(AllTiers))}
	if v == nil {
		return t
	}

	scored := make([]*jobs.Job, 0, v.Len())
	for _, job := range v.Items {
		if job == nil {
			continue
		}
		job.PriorityScore = s.ScoreJob(job)
		scored = append(scored, job)
	}

	slices.SortStableFunc(scored, func(a, b *jobs.Job) int {
		return b.PriorityScore - a.PriorityScore
	})

	for _, job := range scored {
		tier := TierFor(job.PriorityScore)
		t.buckets[tier] = append(t.buckets[tier], job)
	}
	t.Total = len(scored)

	return t
}

// Get returns the postings of a tier.
func (t *Tiers) Get(tier Tier) []*jobs.Job {
	return t.buckets[tier]
}

func (t *Tiers) Count(tier Tier) int {
	return len(t.buckets[tier])
}

// RecommendedFocus is the number of applications worth doing now:
// every must-apply posting plus should-apply ones, capped at FocusLimit.
func (t *Tiers) RecommendedFocus() int {
	return min(FocusLimit, t.Count(MustApply)+t.Count(ShouldApply))
}

// Select returns all must-apply postings followed by at most extra should-apply ones.
func (t *Tiers) Select(extra int) []*jobs.Job {
	selected := slices.Clone(t.Get(MustApply))
	should := t.Get(ShouldApply)
	if extra > len(should) {
		extra = len(should)
	}
	if extra > 0 {
		selected = append(selected, should[:extra]...)
	}
	return selected
}

type Summary struct {
	TotalJobs        int `json:"total_jobs"`
	Tier1Count       int `json:"tier_1_count"`
	Tier2Count       int `json:"tier_2_count"`
	RecommendedFocus int `json:"recommended_focus"`
}

// Output is the content of the prioritized jobs file.
type Output struct {
	MustApply   []*jobs.Job `json:"tier_1_must_apply"`
	ShouldApply []*jobs.Job `json:"tier_2_should_apply"`
	Summary     Summary     `json:"summary"`
}

// Output keeps every must-apply posting and the first FocusLimit should-apply ones.
func (t *Tiers) Output() *Output {
	should := t.Get(ShouldApply)
	if len(should) > FocusLimit {
		should = should[:FocusLimit]
	}

	must := t.Get(MustApply)
	if must == nil {
		must = []*jobs.Job{}
	}
	if should == nil {
		should = []*jobs.Job{}
	}

	return &Output{
		MustApply:   must,
		ShouldApply: should,
		Summary: Summary{
			TotalJobs:        t.Total,
			Tier1Count:       t.Count(MustApply),
			Tier2Count:       t.Count(ShouldApply),
			RecommendedFocus: t.RecommendedFocus(),
		},
	}
}

func (o *Output) ToFile(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
