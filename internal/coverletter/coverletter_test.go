package coverletter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobhunter/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		PersonalInfo: profile.PersonalInfo{
			Name:     "Ada Lovelace",
			Location: "Sydney",
			Email:    "ada@example.com",
			Phone:    "0400 000 000",
			LinkedIn: "ada",
		},
		Experience: []profile.Experience{
			{Title: "Barista", Company: "Cafe", Achievements: []string{"Made coffee."}},
			{Title: "Data Intern", Company: "Acme", Achievements: []string{"Built Python data pipelines.", "Other."}},
			{Title: "Empty", Company: "Nowhere"},
		},
		Projects: []profile.Project{
			{Name: "Classifier", Description: "ML model", Achievements: []string{"Reached 95% accuracy with a Python model."}},
			{Name: "Website", Description: "Static site"},
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
}

func TestHighlights(t *testing.T) {
	gen := New(testProfile())

	highlights := gen.Highlights("We need Python, data skills and a model with high accuracy. ML a plus.")

	require.Len(t, highlights, 2)
	assert.Equal(t, KindProject, highlights[0].Kind)
	assert.Equal(t, "Classifier", highlights[0].Name)
	assert.Equal(t, 4, highlights[0].Score)
	assert.Equal(t, KindWork, highlights[1].Kind)
	assert.Equal(t, "Built Python data pipelines.", highlights[1].Achievement)
	assert.Equal(t, 2, highlights[1].Score)

	assert.Empty(t, gen.Highlights(""))
}

func TestHighlightsLimitAndTies(t *testing.T) {
	p := &profile.Profile{Experience: []profile.Experience{
		{Title: "a", Achievements: []string{"python"}},
		{Title: "b", Achievements: []string{"python"}},
		{Title: "c", Achievements: []string{"python"}},
		{Title: "d", Achievements: []string{"python"}},
	}}

	highlights := New(p).Highlights("python")

	require.Len(t, highlights, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{highlights[0].Title, highlights[1].Title, highlights[2].Title})
}

func TestTemplate(t *testing.T) {
	gen := New(testProfile(), WithClock(fixedClock))

	letter := gen.Template(Request{
		Description: "Python data model",
		JobTitle:    "Data Analyst",
		Company:     "Canva",
	})

	assert.True(t, strings.HasPrefix(letter, "Ada Lovelace\nSydney\nada@example.com | 0400 000 000\nLinkedIn: linkedin.com/in/ada\n\n"))
	assert.Contains(t, letter, "March 07, 2025\n\nDear Hiring Manager,\n\n")
	assert.Contains(t, letter, "strong interest in the Data Analyst position at Canva.")
	assert.Contains(t, letter, "In my role as Data Intern at Acme, I built python data pipelines. This experience")
	assert.Contains(t, letter, "For instance, in my Classifier project, I reached 95% accuracy with a python model.")
	assert.Contains(t, letter, "I am particularly drawn to Canva")
	assert.True(t, strings.HasSuffix(letter, "Sincerely,\nAda Lovelace"))
}

func TestTemplateSeveralProjects(t *testing.T) {
	p := &profile.Profile{Projects: []profile.Project{
		{Name: "One", Description: "python tool"},
		{Name: "Two", Description: "python script"},
	}}

	letter := New(p, WithClock(fixedClock)).Template(Request{Description: "python", HiringManager: "Ms Smith"})

	assert.Contains(t, letter, "Dear Ms Smith,")
	assert.Contains(t, letter, "projects such as One, where I python tool")
	assert.NotContains(t, letter, "In my role as")
}

type stubPolisher struct {
	out string
	err error
}

func (s stubPolisher) Polish(context.Context, string, Request) (string, error) {
	return s.out, s.err
}

func TestGenerate(t *testing.T) {
	req := Request{JobTitle: "Data Analyst", Company: "Canva"}

	t.Run("no polisher", func(t *testing.T) {
		gen := New(testProfile(), WithClock(fixedClock))
		assert.Equal(t, gen.Template(req), gen.Generate(context.Background(), req))
	})

	t.Run("polished", func(t *testing.T) {
		gen := New(testProfile(), WithClock(fixedClock), WithPolisher(stubPolisher{out: "polished"}))
		assert.Equal(t, "polished", gen.Generate(context.Background(), req))
	})

	t.Run("polish failure keeps template", func(t *testing.T) {
		core, observed := observer.New(zapcore.WarnLevel)
		gen := New(testProfile(),
			WithClock(fixedClock),
			WithLogger(zap.New(core)),
			WithPolisher(stubPolisher{err: errors.New("quota")}),
		)

		assert.Equal(t, gen.Template(req), gen.Generate(context.Background(), req))
		assert.Equal(t, 1, observed.Len())
	})

	t.Run("empty polish keeps template", func(t *testing.T) {
		gen := New(testProfile(), WithClock(fixedClock), WithPolisher(stubPolisher{out: "  "}))
		assert.Equal(t, gen.Template(req), gen.Generate(context.Background(), req))
	})
}

func TestExtractRequirements(t *testing.T) {
	description := `Must have: Python
Proficiency in SQL
Knowledge of AWS
Strong understanding of statistics
Essential: communication
Experience with Tableau`

	got := ExtractRequirements(description)

	assert.Equal(t, []string{
		"python",
		"communication",
		"sql",
		"aws",
		"tableau",
	}, got)
	assert.Empty(t, ExtractRequirements(""))
}
