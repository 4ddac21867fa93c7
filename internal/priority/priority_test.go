package priority

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobhunter/internal/jobs"
)

func TestScore(t *testing.T) {
	scorer := Default()

	tests := []struct {
		name    string
		posting Posting
		want    int
		tier    Tier
	}{
		{
			name: "graduate role at top company",
			posting: Posting{
				Title:    "Graduate Data Scientist",
				Company:  "Google",
				Location: "Sydney, NSW",
				Source:   jobs.SourceLinkedIn,
			},
			want: 93,
			tier: MustApply,
		},
		{
			name: "senior role clamped at zero",
			posting: Posting{
				Title:    "Senior Java Developer (5+ years)",
				Company:  "SmallCo",
				Location: "Melbourne",
				Source:   jobs.SourceIndeed,
			},
			want: 0,
			tier: LowPriority,
		},
		{
			name:    "empty posting",
			posting: Posting{},
			want:    0,
			tier:    LowPriority,
		},
		{
			name: "flexible bonus is flat",
			posting: Posting{
				Title:  "Remote Part Time Casual Flexible Tester",
				Source: jobs.SourceSeek,
			},
			want: 10,
			tier: NiceToHave,
		},
		{
			name: "should apply",
			posting: Posting{
				Title:    "Junior Data Analyst",
				Company:  "SmallCo",
				Location: "sydney",
				Source:   jobs.SourceIndeed,
			},
			want: 42,
			tier: ShouldApply,
		},
		{
			name: "source match is exact",
			posting: Posting{
				Title:  "Tester",
				Source: "linkedin",
			},
			want: 0,
			tier: LowPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.posting)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tier, TierFor(got))
		})
	}
}

func TestScoreAnyMatchInvariance(t *testing.T) {
	scorer := Default()

	one := scorer.Score(Posting{Title: "Intern"})
	many := scorer.Score(Posting{Title: "Graduate Intern Trainee Junior Student"})

	assert.Equal(t, 20, one)
	assert.Equal(t, one, many)
	assert.Equal(t, scorer.Score(Posting{Company: "Google"}), scorer.Score(Posting{Company: "Atlassian"}))
}

func TestScoreNeverNegative(t *testing.T) {
	scorer := Default()

	titles := []string{
		"Senior Lead Principal Staff Head of 10+ experienced",
		"Lead Engineer 3+",
		"Staff",
	}
	for _, title := range titles {
		assert.GreaterOrEqual(t, scorer.Score(Posting{Title: title}), 0, title)
	}
}

func TestExplainKeepsRuleOrder(t *testing.T) {
	hits := Default().Explain(Posting{
		Title:    "Graduate Data Scientist",
		Company:  "Google",
		Location: "Sydney, NSW",
		Source:   jobs.SourceLinkedIn,
	})

	assert.Equal(t, []Hit{
		{Rule: RuleEntryLevel, Weight: 20},
		{Rule: RuleTopCompany, Weight: 50},
		{Rule: RuleRelevantRole, Weight: 15},
		{Rule: RuleLocation, Weight: 5},
		{Rule: "source:linkedin", Weight: 3},
	}, hits)
}

func TestCustomLists(t *testing.T) {
	scorer := NewScorer(Lists{
		Locations: []string{"  Melbourne "},
		Sources:   []SourceBonus{{Source: jobs.SourceSeek, Weight: 7}},
	})

	got := scorer.Score(Posting{Title: "Intern", Location: "Melbourne VIC", Source: jobs.SourceSeek})

	assert.Equal(t, 20+5+7, got)
	assert.Zero(t, scorer.Score(Posting{Source: jobs.SourceLinkedIn}))
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{score: 1000, want: MustApply},
		{score: 60, want: MustApply},
		{score: 59, want: ShouldApply},
		{score: 30, want: ShouldApply},
		{score: 29, want: NiceToHave},
		{score: 10, want: NiceToHave},
		{score: 9, want: LowPriority},
		{score: 0, want: LowPriority},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %d", tt.score)
	}
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier("should-apply")
	assert.True(t, ok)
	assert.Equal(t, ShouldApply, tier)

	tier, ok = ParseTier("tier_1_must_apply")
	assert.True(t, ok)
	assert.Equal(t, MustApply, tier)

	_, ok = ParseTier("urgent")
	assert.False(t, ok)
}

func TestCategorizeStableWithinTier(t *testing.T) {
	v := &jobs.Jobs{Items: []*jobs.Job{
		{Title: "Junior Data Analyst A", Company: "SmallCo", URL: "a"},
		{Title: "Graduate Data Scientist", Company: "Google", URL: "b"},
		{Title: "Junior Data Analyst B", Company: "SmallCo", URL: "c"},
		nil,
		{Title: "Senior Engineer", URL: "d"},
		{Title: "Junior Data Analyst C", Company: "SmallCo", URL: "e", Source: jobs.SourceLinkedIn},
	}}

	tiers := Default().Categorize(v)

	assert.Equal(t, 5, tiers.Total)
	require.Len(t, tiers.Get(MustApply), 1)
	assert.Equal(t, "b", tiers.Get(MustApply)[0].URL)

	var should []string
	for _, job := range tiers.Get(ShouldApply) {
		should = append(should, job.URL)
	}
	assert.Equal(t, []string{"e", "a", "c"}, should)
	assert.Equal(t, 38, tiers.Get(ShouldApply)[0].PriorityScore)

	require.Len(t, tiers.Get(LowPriority), 1)
	assert.Zero(t, tiers.Get(LowPriority)[0].PriorityScore)
	assert.Empty(t, tiers.Get(NiceToHave))
}

func TestSelect(t *testing.T) {
	v := &jobs.Jobs{Items: []*jobs.Job{
		{Title: "Graduate Data Scientist", Company: "Google", URL: "must"},
		{Title: "Junior Data Analyst", URL: "s1"},
		{Title: "Junior Data Analyst", URL: "s2"},
	}}
	tiers := Default().Categorize(v)

	assert.Len(t, tiers.Select(0), 1)
	assert.Len(t, tiers.Select(1), 2)
	assert.Len(t, tiers.Select(20), 3)
}

func TestOutputCapsShouldApply(t *testing.T) {
	v := &jobs.Jobs{}
	for range FocusLimit + 5 {
		v.Items = append(v.Items, &jobs.Job{Title: "Junior Data Analyst"})
	}
	v.Items = append(v.Items, &jobs.Job{Title: "Graduate Intern", Company: "Canva"})

	out := Default().Categorize(v).Output()

	assert.Len(t, out.MustApply, 1)
	assert.Len(t, out.ShouldApply, FocusLimit)
	assert.Equal(t, Summary{
		TotalJobs:        FocusLimit + 6,
		Tier1Count:       1,
		Tier2Count:       FocusLimit + 5,
		RecommendedFocus: FocusLimit,
	}, out.Summary)

	path := filepath.Join(t.TempDir(), "prioritized.json")
	require.NoError(t, out.ToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, MustApply.Key())
	assert.Contains(t, decoded, ShouldApply.Key())
	assert.Contains(t, decoded, "summary")
}

func TestOutputEmpty(t *testing.T) {
	out := Default().Categorize(nil).Output()

	assert.NotNil(t, out.MustApply)
	assert.NotNil(t, out.ShouldApply)
	assert.Zero(t, out.Summary.RecommendedFocus)
}
