// Package priority scores scraped postings from their title, company, location
// and source, and buckets them into application tiers.
package priority

import (
	"strings"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/keywords"
)

// Posting holds the metadata the scorer looks at.
type Posting struct {
	Title    string
	Company  string
	Location string
	Source   string
}

// FromJob extracts the scored fields of a job. A nil job gives an empty posting.
func FromJob(job *jobs.Job) Posting {
	if job == nil {
		return Posting{}
	}
	return Posting{
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		Source:   job.Source,
	}
}

// SourceBonus adds Weight when the posting source equals Source exactly.
type SourceBonus struct {
	Source string `mapstructure:"source"`
	Weight int    `mapstructure:"weight"`
}

// Lists are the term lists behind the scoring rules. Empty lists fall back to
// the defaults in WithDefaults.
type Lists struct {
	EntryLevel    []string      `mapstructure:"entry-level"`
	TopCompanies  []string      `mapstructure:"top-companies"`
	RelevantRoles []string      `mapstructure:"relevant-roles"`
	Flexible      []string      `mapstructure:"flexible"`
	Locations     []string      `mapstructure:"locations"`
	Seniority     []string      `mapstructure:"seniority"`
	Experience    []string      `mapstructure:"experience"`
	Sources       []SourceBonus `mapstructure:"sources"`
}

// DefaultLists returns a fresh copy of the built-in lists.
func DefaultLists() Lists {
	return Lists{
		EntryLevel: []string{
			"intern", "internship", "graduate", "entry level", "junior",
			"undergraduate", "student", "vacationer", "trainee",
		},
		TopCompanies: []string{
			"google", "microsoft", "tiktok", "meta", "amazon", "apple",
			"atlassian", "canva", "ey", "deloitte", "pwc", "kpmg",
			"commonwealth bank", "westpac", "anz", "nab",
			"qantas", "telstra", "optus",
		},
		RelevantRoles: []string{
			"data scientist", "data analyst", "machine learning",
			"ml engineer", "ai engineer", "research", "java developer",
			"backend", "python developer",
		},
		Flexible:   []string{"part time", "casual", "flexible", "remote"},
		Locations:  []string{"sydney"},
		Seniority:  []string{"senior", "lead", "principal", "staff", "head of"},
		Experience: []string{"5+", "3+", "10+", "experienced"},
		Sources: []SourceBonus{
			{Source: jobs.SourceLinkedIn, Weight: 3},
			{Source: jobs.SourceIndeed, Weight: 2},
		},
	}
}

// WithDefaults fills every empty list from DefaultLists.
func (l Lists) WithDefaults() Lists {
	def := DefaultLists()
	pick := func(custom, fallback []string) []string {
		if len(custom) == 0 {
			return fallback
		}
		return custom
	}

	out := Lists{
		EntryLevel:    pick(l.EntryLevel, def.EntryLevel),
		TopCompanies:  pick(l.TopCompanies, def.TopCompanies),
		RelevantRoles: pick(l.RelevantRoles, def.RelevantRoles),
		Flexible:      pick(l.Flexible, def.Flexible),
		Locations:     pick(l.Locations, def.Locations),
		Seniority:     pick(l.Seniority, def.Seniority),
		Experience:    pick(l.Experience, def.Experience),
		Sources:       l.Sources,
	}
	if len(out.Sources) == 0 {
		out.Sources = def.Sources
	}

	return out
}

// Rule is one weighted predicate of the scoring table.
type Rule struct {
	Name   string
	Weight int
	Match  func(Posting) bool
}

const (
	RuleEntryLevel   = "entry_level"
	RuleTopCompany   = "top_company"
	RuleRelevantRole = "relevant_role"
	RuleFlexible     = "flexible"
	RuleLocation     = "location"
	RuleSeniority    = "seniority"
	RuleExperience   = "experience_required"
	RuleSource       = "source"
)

// BuildRules turns lists into the ordered rule table. Each category is a single
// any-match predicate, so several matching terms never add up.
func BuildRules(lists Lists) []Rule {
	lists = lists.WithDefaults()

	titleAny := func(terms []string) func(Posting) bool {
		terms = normalize(terms)
		return func(p Posting) bool { return keywords.ContainsAny(p.Title, terms) }
	}

	companies := normalize(lists.TopCompanies)
	locations := normalize(lists.Locations)

	rules := []Rule{
		{Name: RuleEntryLevel, Weight: 20, Match: titleAny(lists.EntryLevel)},
		{Name: RuleTopCompany, Weight: 50, Match: func(p Posting) bool {
			return keywords.ContainsAny(p.Company, companies)
		}},
		{Name: RuleRelevantRole, Weight: 15, Match: titleAny(lists.RelevantRoles)},
		{Name: RuleFlexible, Weight: 10, Match: titleAny(lists.Flexible)},
		{Name: RuleLocation, Weight: 5, Match: func(p Posting) bool {
			return keywords.ContainsAny(p.Location, locations)
		}},
		{Name: RuleSeniority, Weight: -30, Match: titleAny(lists.Seniority)},
		{Name: RuleExperience, Weight: -20, Match: titleAny(lists.Experience)},
	}

	for _, bonus := range lists.Sources {
		source := bonus.Source
		rules = append(rules, Rule{
			Name:   RuleSource + ":" + strings.ToLower(source),
			Weight: bonus.Weight,
			Match:  func(p Posting) bool { return p.Source == source },
		})
	}

	return rules
}

func normalize(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
