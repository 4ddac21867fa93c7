// Package profile loads the candidate resume data.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobhunter/internal/matching"
)

type Profile struct {
	PersonalInfo   PersonalInfo   `mapstructure:"personal_info" json:"personal_info"`
	Summary        string         `mapstructure:"summary" json:"summary"`
	Education      []Education    `mapstructure:"education" json:"education"`
	Experience     []Experience   `mapstructure:"experience" json:"experience"`
	Projects       []Project      `mapstructure:"projects" json:"projects"`
	Skills         map[string]any `mapstructure:"skills" json:"skills"`
	Certifications []string       `mapstructure:"certifications" json:"certifications"`

	// skillOrder keeps the category order of the source file.
	skillOrder []string
}

type PersonalInfo struct {
	Name       string `mapstructure:"name" json:"name"`
	Location   string `mapstructure:"location" json:"location"`
	Phone      string `mapstructure:"phone" json:"phone"`
	Email      string `mapstructure:"email" json:"email"`
	LinkedIn   string `mapstructure:"linkedin" json:"linkedin"`
	GitHub     string `mapstructure:"github" json:"github"`
	VisaStatus string `mapstructure:"visa_status" json:"visa_status"`
}

type Education struct {
	Degree      string `mapstructure:"degree" json:"degree"`
	Institution string `mapstructure:"institution" json:"institution"`
	Dates       string `mapstructure:"dates" json:"dates"`
}

type Experience struct {
	Title        string   `mapstructure:"title" json:"title"`
	Company      string   `mapstructure:"company" json:"company"`
	Dates        string   `mapstructure:"dates" json:"dates"`
	Location     string   `mapstructure:"location" json:"location"`
	Achievements []string `mapstructure:"achievements" json:"achievements"`
}

// Text is the blob used to rank the entry: achievements followed by the title.
func (e Experience) Text() string {
	return strings.Join(e.Achievements, " ") + " " + e.Title
}

type Project struct {
	Name         string   `mapstructure:"name" json:"name"`
	URL          string   `mapstructure:"url" json:"url,omitempty"`
	Description  string   `mapstructure:"description" json:"description"`
	Achievements []string `mapstructure:"achievements" json:"achievements,omitempty"`
	Technologies []string `mapstructure:"technologies" json:"technologies,omitempty"`
}

// Text is the blob used to rank the project: description, achievements and technologies.
func (p Project) Text() string {
	return p.Description + " " + strings.Join(p.Achievements, " ") + " " + strings.Join(p.Technologies, " ")
}

// Category is a named list of skills.
type Category struct {
	Name   string
	Skills []string
}

// Load reads a profile from a JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a profile. Decoding is weakly typed: numbers become strings
// where a string is expected and missing keys are left empty.
func Parse(data []byte) (*Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	p := &Profile{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	p.skillOrder = skillOrder(data)

	return p, nil
}

// Categories returns the list-valued skill categories in file order. Other
// values are ignored.
func (p *Profile) Categories() []Category {
	if p == nil || len(p.Skills) == 0 {
		return nil
	}

	names := make([]string, 0, len(p.Skills))
	for _, name := range p.skillOrder {
		if _, ok := p.Skills[name]; ok {
			names = append(names, name)
		}
	}

	var rest []string
	for name := range p.Skills {
		if !slices.Contains(names, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	names = append(names, rest...)

	categories := make([]Category, 0, len(names))
	for _, name := range names {
		skills, ok := stringList(p.Skills[name])
		if !ok {
			continue
		}
		categories = append(categories, Category{Name: name, Skills: skills})
	}

	return categories
}

// SkillSet aggregates every skill category, techniques included, into a lowercase set.
func (p *Profile) SkillSet() matching.SkillSet {
	set := matching.NewSkillSet()
	for _, category := range p.Categories() {
		set.Add(category.Skills...)
	}
	return set
}

func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// skillOrder reads the key order of the "skills" object. Errors give no order.
func skillOrder(data []byte) []string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil
	}

	raw, ok := top["skills"]
	if !ok {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return order
		}
		key, ok := tok.(string)
		if !ok {
			return order
		}
		order = append(order, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return order
		}
	}

	return order
}
