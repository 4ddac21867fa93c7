package tailor

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/keywords"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		PersonalInfo: profile.PersonalInfo{Name: "Ada", LinkedIn: "ada", GitHub: "ada"},
		Summary:      "Builds models.",
		Experience: []profile.Experience{
			{Title: "Clerk", Achievements: []string{"Filed things"}},
			{Title: "Engineer", Achievements: []string{"Python and SQL pipelines"}},
			{Title: "Analyst", Achievements: []string{"Tableau reports"}},
		},
		Projects: []profile.Project{
			{Name: "p1", Description: "none"},
			{Name: "p2", Description: "none"},
			{Name: "p3", Description: "none"},
			{Name: "p4", Description: "none"},
			{Name: "p5", Description: "tableau", URL: "https://example.com/p5", Technologies: []string{"Python"}},
		},
		Skills: map[string]any{
			"programming_languages": []any{"Python", "SQL"},
			"level":                 "expert",
		},
		Certifications: []string{"AWS"},
	}
}

func newTestTailor(t *testing.T) *Tailor {
	vocab := keywords.New([]string{"python", "sql", "tableau"})
	return New(matching.New(vocab), zaptest.NewLogger(t))
}

func TestTailorRanksContent(t *testing.T) {
	resume := newTestTailor(t).Tailor(testProfile(), "Python, SQL and Tableau", "Data Analyst", "Acme")

	titles := make([]string, 0, len(resume.Experience))
	for _, exp := range resume.Experience {
		titles = append(titles, exp.Title)
	}
	assert.Equal(t, []string{"Engineer", "Analyst", "Clerk"}, titles)

	require.Len(t, resume.Projects, ProjectLimit)
	assert.Equal(t, "p5", resume.Projects[0].Name)
	assert.Equal(t, "p1", resume.Projects[1].Name)

	assert.Equal(t, []string{"python", "sql"}, resume.SkillMatch.Matched)
	assert.Equal(t, []string{"tableau"}, resume.SkillMatch.Missing)
	assert.Equal(t, "66.7%", resume.MatchLabel())
}

func TestTailorNilProfile(t *testing.T) {
	resume := newTestTailor(t).Tailor(nil, "", "Data Analyst", "")

	assert.Empty(t, resume.Experience)
	assert.Equal(t, "0.0%", resume.MatchLabel())
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"Motivated Data Scientist seeking to contribute to Acme's data-driven initiatives. Base.",
		Summary("Base.", "Data Analyst", "Acme"))
	assert.Equal(t,
		"Results-driven Data Analyst with proven expertise in machine learning and data analysis. Base.",
		Summary("Base.", "Data Analyst", ""))
}

func TestRenderText(t *testing.T) {
	resume := newTestTailor(t).Tailor(testProfile(), "tableau", "Data Analyst", "Acme")

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, resume))
	out := buf.String()

	assert.Contains(t, out, "LinkedIn: linkedin.com/in/ada | GitHub: github.com/ada\n")
	assert.Contains(t, out, "Programming Languages: Python, SQL\n")
	assert.NotContains(t, out, "expert")
	assert.Contains(t, out, "p5\nhttps://example.com/p5\ntableau\nTechnologies: Python\n")
	assert.Contains(t, out, "p1\nnone\nTechnologies: \n")
	assert.Contains(t, out, "CERTIFICATIONS\n"+lightRule+"\n  • AWS\n")
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	resume := newTestTailor(t).Tailor(testProfile(), "python", "Data Analyst", "Acme")

	jsonPath, textPath, err := resume.Save(dir, "resume_Acme")
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "skill_match_analysis")

	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "PROFESSIONAL SUMMARY")
}

func TestDescribeJob(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Graduate Data Scientist", want: "a talented Data Scientist"},
		{title: "Data Science Intern", want: "a talented Data Scientist"},
		{title: "Junior Data Analyst", want: "a Data Analyst"},
		{title: "Senior Java Developer", want: "a Software Developer"},
		{title: "ML Engineer", want: "an ML/AI professional"},
		{title: "Technical Writer", want: "a Technical Writer"},
		{title: "Accountant", want: "a technical professional"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			desc := DescribeJob(&jobs.Job{Title: tt.title, Company: "Acme", Location: "Sydney"})
			assert.Contains(t, desc, tt.title+" position at Acme in Sydney.")
			assert.Contains(t, desc, "We are seeking "+tt.want+" with:")
		})
	}

	assert.Contains(t, DescribeJob(nil), "a technical professional")
}
