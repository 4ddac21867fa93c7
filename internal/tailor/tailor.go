// Package tailor assembles a resume for one job out of the candidate profile.
package tailor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/ranking"
)

// ProjectLimit is the number of projects kept on a tailored resume.
const ProjectLimit = 4

// Resume is a profile reordered for a job description.
type Resume struct {
	PersonalInfo   profile.PersonalInfo `json:"personal_info"`
	Summary        string               `json:"summary"`
	Education      []profile.Education  `json:"education"`
	Experience     []profile.Experience `json:"experience"`
	Projects       []profile.Project    `json:"projects"`
	Skills         map[string]any       `json:"skills"`
	Certifications []string             `json:"certifications"`
	SkillMatch     *matching.Result     `json:"skill_match_analysis"`

	categories []profile.Category
}

type Tailor struct {
	matcher *matching.Matcher
	logger  *zap.Logger
}

func New(matcher *matching.Matcher, logger *zap.Logger) *Tailor {
	if matcher == nil {
		matcher = matching.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tailor{matcher: matcher, logger: logger}
}

// Tailor matches the profile skills against description, ranks experience and
// projects by keyword relevance and customizes the summary.
func (t *Tailor) Tailor(p *profile.Profile, description, title, company string) *Resume {
	if p == nil {
		p = &profile.Profile{}
	}

	match := t.matcher.Match(description, p.SkillSet())
	jobKeywords := t.matcher.Vocabulary().Extract(description)

	t.logger.Debug("skill match computed",
		zap.Float64("match_percentage", match.MatchPercentage),
		zap.Strings("matched", match.Matched),
		zap.Strings("missing", match.Missing),
	)

	return &Resume{
		PersonalInfo:   p.PersonalInfo,
		Summary:        Summary(p.Summary, title, company),
		Education:      p.Education,
		Experience:     ranking.Rank(p.Experience, profile.Experience.Text, jobKeywords, 0),
		Projects:       ranking.Rank(p.Projects, profile.Project.Text, jobKeywords, ProjectLimit),
		Skills:         p.Skills,
		Certifications: p.Certifications,
		SkillMatch:     match,
		categories:     p.Categories(),
	}
}

// Summary prefixes the base summary with an intro for the company, or for the
// job title when the company is unknown.
func Summary(base, title, company string) string {
	if company != "" {
		return fmt.Sprintf("Motivated Data Scientist seeking to contribute to %s's data-driven initiatives. %s", company, base)
	}
	return fmt.Sprintf("Results-driven %s with proven expertise in machine learning and data analysis. %s", title, base)
}

// MatchLabel formats the match percentage the way application files store it.
func (r *Resume) MatchLabel() string {
	if r.SkillMatch == nil {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", r.SkillMatch.MatchPercentage)
}

// Save writes the resume as JSON and text next to each other. It returns both paths.
func (r *Resume) Save(dir, name string) (string, string, error) {
	jsonPath := filepath.Join(dir, name+".json")
	textPath := filepath.Join(dir, name+".txt")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	file, err := os.Create(textPath)
	if err != nil {
		return "", "", fmt.Errorf("creating %s: %w", textPath, err)
	}
	defer file.Close()

	if err := RenderText(file, r); err != nil {
		return "", "", fmt.Errorf("rendering %s: %w", textPath, err)
	}

	return jsonPath, textPath, nil
}
