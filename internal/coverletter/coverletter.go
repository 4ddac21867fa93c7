// Package coverletter writes template cover letters from the candidate profile.
package coverletter

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/profile"
)

const (
	DateLayout           = "January 02, 2006"
	DefaultHiringManager = "Hiring Manager"

	highlightLimit   = 3
	requirementLimit = 5
)

const (
	KindWork    = "work"
	KindProject = "project"
)

var (
	workWords    = []string{"ml", "machine learning", "data", "python", "model", "dashboard"}
	projectWords = []string{"ml", "machine learning", "data", "python", "model", "accuracy"}
)

var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)(?:require|requirement|must have|essential)[s]?:?\s*(.+)`),
	regexp.MustCompile(`(?m)(?:experience with|proficiency in|knowledge of)\s+(.+)`),
	regexp.MustCompile(`(?m)(?:strong|excellent|solid)\s+(?:understanding|knowledge|experience)\s+(?:of|in|with)\s+(.+)`),
}

// Polisher rewrites a finished letter, for example with an LLM.
type Polisher interface {
	Polish(ctx context.Context, letter string, req Request) (string, error)
}

// Request describes the job a letter is written for.
type Request struct {
	Description   string
	JobTitle      string
	Company       string
	HiringManager string
}

// Highlight is a work entry or project that mentions words the job also mentions.
type Highlight struct {
	Kind        string
	Title       string
	Company     string
	Name        string
	Achievement string
	Score       int
}

type Generator struct {
	profile  *profile.Profile
	polisher Polisher
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Generator)

func WithPolisher(p Polisher) Option {
	return func(g *Generator) { g.polisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(p *profile.Profile, opts ...Option) *Generator {
	if p == nil {
		p = &profile.Profile{}
	}

	g := &Generator{profile: p, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Highlights returns up to three entries most relevant to the description.
// Work entries come before projects when scores are equal.
func (g *Generator) Highlights(description string) []Highlight {
	job := strings.ToLower(description)
	var found []Highlight

	for _, exp := range g.profile.Experience {
		if len(exp.Achievements) == 0 {
			continue
		}
		score := sharedWords(strings.Join(exp.Achievements, " "), job, workWords)
		if score == 0 {
			continue
		}
		found = append(found, Highlight{
			Kind:        KindWork,
			Title:       exp.Title,
			Company:     exp.Company,
			Achievement: exp.Achievements[0],
			Score:       score,
		})
	}

	for _, proj := range g.profile.Projects {
		score := sharedWords(proj.Description+" "+strings.Join(proj.Achievements, " "), job, projectWords)
		if score == 0 {
			continue
		}
		achievement := proj.Description
		if len(proj.Achievements) > 0 {
			achievement = proj.Achievements[0]
		}
		found = append(found, Highlight{
			Kind:        KindProject,
			Name:        proj.Name,
			Achievement: achievement,
			Score:       score,
		})
	}

	slices.SortStableFunc(found, func(a, b Highlight) int { return b.Score - a.Score })
	if len(found) > highlightLimit {
		found = found[:highlightLimit]
	}
	return found
}

// sharedWords counts words contained in both the block and the lowercased job text.
func sharedWords(block, job string, words []string) int {
	block = strings.ToLower(block)
	count := 0
	for _, word := range words {
		if strings.Contains(block, word) && strings.Contains(job, word) {
			count++
		}
	}
	return count
}

// Generate builds the letter. When a polisher is set its output replaces the
// template letter; a polish failure is logged and the template is kept.
func (g *Generator) Generate(ctx context.Context, req Request) string {
	letter := g.Template(req)
	if g.polisher == nil {
		return letter
	}

	polished, err := g.polisher.Polish(ctx, letter, req)
	if err != nil {
		g.logger.Warn("cover letter polish failed, keeping template", zap.Error(err))
		return letter
	}
	if strings.TrimSpace(polished) == "" {
		g.logger.Warn("cover letter polish returned empty text, keeping template")
		return letter
	}

	return polished
}

// Template renders the letter without polishing.
func (g *Generator) Template(req Request) string {
	if req.HiringManager == "" {
		req.HiringManager = DefaultHiringManager
	}

	personal := g.profile.PersonalInfo
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n%s | %s\nLinkedIn: linkedin.com/in/%s\n\n",
		personal.Name, personal.Location, personal.Email, personal.Phone, personal.LinkedIn)
	fmt.Fprintf(&b, "%s\n\nDear %s,\n\n", g.now().Format(DateLayout), req.HiringManager)

	b.WriteString(opening(req.JobTitle, req.Company))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(body(g.Highlights(req.Description), req.JobTitle), "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(closing(req.Company))
	fmt.Fprintf(&b, "\n\nSincerely,\n%s", personal.Name)

	return b.String()
}

func opening(title, company string) string {
	return fmt.Sprintf("I am writing to express my strong interest in the %s position at %s. "+
		"As a dynamic Computer Science graduate specializing in AI and Data Science, currently pursuing my Master's "+
		"at the University of Sydney, I am excited about the opportunity to contribute to your data-driven initiatives.",
		title, company)
}

func body(highlights []Highlight, title string) []string {
	var paragraphs []string

	var work, projects []Highlight
	for _, h := range highlights {
		if h.Kind == KindWork {
			work = append(work, h)
		} else {
			projects = append(projects, h)
		}
	}

	if len(work) > 0 {
		h := work[0]
		paragraphs = append(paragraphs, fmt.Sprintf("In my role as %s at %s, I %s This experience has equipped me "+
			"with practical skills in machine learning, data analysis, and delivering measurable business impact - "+
			"capabilities that directly align with the %s position.",
			h.Title, h.Company, strings.ToLower(h.Achievement), title))
	}

	if len(projects) > 0 {
		h := projects[0]
		if len(projects) > 1 {
			paragraphs = append(paragraphs, fmt.Sprintf("My technical expertise is further demonstrated through "+
				"projects such as %s, where I %s These projects showcase my ability to apply cutting-edge machine "+
				"learning techniques to solve real-world problems.", h.Name, strings.ToLower(h.Achievement)))
		} else {
			paragraphs = append(paragraphs, fmt.Sprintf("I have also developed strong technical skills through my "+
				"project work. For instance, in my %s project, I %s This demonstrates my capability to build and "+
				"deploy effective ML solutions.", h.Name, strings.ToLower(h.Achievement)))
		}
	}

	paragraphs = append(paragraphs, "I bring proficiency in key technologies including Python, TensorFlow, "+
		"PyTorch, and scikit-learn, along with strong data visualization skills using Tableau and Power BI. "+
		"My AWS certification and experience with cloud platforms enable me to deploy scalable ML solutions "+
		"in production environments.")

	return paragraphs
}

func closing(company string) string {
	return fmt.Sprintf("I am particularly drawn to %s because of your commitment to innovation and data-driven "+
		"decision making. I am eager to contribute my technical skills, analytical mindset, and collaborative "+
		"approach to your team. I would welcome the opportunity to discuss how my background and enthusiasm can "+
		"benefit your organization.", company)
}

// ExtractRequirements returns up to five requirement phrases found in the
// lowercased description.
func ExtractRequirements(description string) []string {
	text := strings.ToLower(description)
	requirements := make([]string, 0, requirementLimit)

	for _, pattern := range requirementPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			requirements = append(requirements, m[1])
		}
	}

	if len(requirements) > requirementLimit {
		requirements = requirements[:requirementLimit]
	}
	return requirements
}
