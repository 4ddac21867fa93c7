package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobhunter/internal/keywords"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		skills      SkillSet
		matched     []string
		missing     []string
		percentage  float64
	}{
		{
			name:        "half matched",
			description: "Experience with Python and Tableau required",
			skills:      NewSkillSet("python", "sql"),
			matched:     []string{"python"},
			missing:     []string{"tableau"},
			percentage:  50,
		},
		{
			name:        "empty description",
			description: "",
			skills:      NewSkillSet("python"),
			matched:     []string{},
			missing:     []string{},
			percentage:  0,
		},
		{
			name:        "nil skills",
			description: "Python and SQL",
			skills:      nil,
			matched:     []string{},
			missing:     []string{"python", "sql"},
			percentage:  0,
		},
		{
			name:        "candidate skills are case normalized",
			description: "python, sql",
			skills:      NewSkillSet(" Python ", "SQL"),
			matched:     []string{"python", "sql"},
			missing:     []string{},
			percentage:  100,
		},
	}

	matcher := New(keywords.New([]string{"python", "sql", "tableau"}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := matcher.Match(tt.description, tt.skills)
			require.NotNil(t, result)
			assert.Equal(t, tt.matched, result.Matched)
			assert.Equal(t, tt.missing, result.Missing)
			assert.InDelta(t, tt.percentage, result.MatchPercentage, 0.001)
		})
	}
}

func TestMatchDefaultVocabularySubstringFalsePositive(t *testing.T) {
	// "r" is found inside "experience" and "required".
	result := New(nil).Match("Experience with Python and Tableau required", NewSkillSet("python", "sql"))

	assert.Equal(t, []string{"python"}, result.Matched)
	assert.Equal(t, []string{"r", "tableau"}, result.Missing)
	assert.InDelta(t, 100.0/3, result.MatchPercentage, 0.001)
}

func TestMatchPartitionsJobKeywords(t *testing.T) {
	matcher := New(keywords.Default())
	description := "Python, SQL, Docker, Kubernetes, Spark, Tableau, Git"
	skills := NewSkillSet("python", "git", "spark", "excel")

	result := matcher.Match(description, skills)
	jobKeywords := matcher.Vocabulary().Extract(description)

	assert.ElementsMatch(t, jobKeywords, result.JobKeywords())
	for _, kw := range result.Matched {
		assert.NotContains(t, result.Missing, kw)
	}
	assert.GreaterOrEqual(t, result.MatchPercentage, 0.0)
	assert.LessOrEqual(t, result.MatchPercentage, 100.0)
}

func TestMatchCustomVocabulary(t *testing.T) {
	matcher := New(keywords.New([]string{"go", "grpc"}))

	result := matcher.Match("Go services over gRPC", NewSkillSet("go"))

	assert.Equal(t, []string{"go"}, result.Matched)
	assert.Equal(t, []string{"grpc"}, result.Missing)
	assert.InDelta(t, 50.0, result.MatchPercentage, 0.001)
}
