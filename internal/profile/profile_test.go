package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "personal_info": {"name": "Ada", "phone": 61400000000, "email": "ada@example.com"},
  "summary": "Data person.",
  "experience": [
    {"title": "Data Analyst", "company": "Acme", "achievements": ["Built dashboards in Tableau"]}
  ],
  "projects": [
    {"name": "Recommender", "description": "Movie recommender", "technologies": ["Python", "PyTorch"]}
  ],
  "skills": {
    "programming": ["Python", "SQL"],
    "level": "advanced",
    "techniques": ["Machine Learning", 42],
    "cloud": ["AWS"]
  },
  "certifications": ["AWS Cloud Practitioner"]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "Ada", p.PersonalInfo.Name)
	assert.Equal(t, "61400000000", p.PersonalInfo.Phone)
	assert.Empty(t, p.PersonalInfo.GitHub)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Built dashboards in Tableau Data Analyst", p.Experience[0].Text())
	require.Len(t, p.Projects, 1)
	assert.Equal(t, "Movie recommender  Python PyTorch", p.Projects[0].Text())
}

func TestCategoriesKeepFileOrder(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	categories := p.Categories()

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"programming", "techniques", "cloud"}, names)
	assert.Equal(t, []string{"Machine Learning"}, categories[1].Skills)
}

func TestSkillSet(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	skills := p.SkillSet()

	assert.Equal(t, 4, skills.Len())
	for _, s := range []string{"python", "sql", "machine learning", "aws"} {
		assert.True(t, skills.Has(s), s)
	}
	assert.False(t, skills.Has("advanced"))
}

func TestSkillSetWithoutFileOrder(t *testing.T) {
	p := &Profile{Skills: map[string]any{
		"b": []string{"Go"},
		"a": []any{"Rust"},
	}}

	assert.Equal(t, "a", p.Categories()[0].Name)
	assert.True(t, p.SkillSet().Has("go"))

	var empty *Profile
	assert.Zero(t, empty.SkillSet().Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume_data.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Data person.", p.Summary)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("["), 0o644))
	_, err = Load(broken)
	assert.Error(t, err)
}
