package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

const (
	SourceSeek     = "Seek"
	SourceIndeed   = "Indeed"
	SourceLinkedIn = "LinkedIn"

	// DateLayout is the layout of Job.DateScraped.
	DateLayout = "2006-01-02 15:04:05"

	// NotAvailable replaces a company name missing on a listing card.
	NotAvailable = "N/A"
)

const (
	JobURLField     = "URL"
	JobCompanyField = "Company"
	JobSourceField  = "Source"
)

type Jobs struct {
	Items []*Job
}

// Job is a single scraped posting. Applied and PriorityScore are set by callers.
type Job struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	DateScraped   string `json:"date_scraped"`
	Applied       bool   `json:"applied"`
	PriorityScore int    `json:"priority_score,omitempty"`
}

// New creates a posting stamped with the scrape time.
func New(title, company, location, url, source string, scrapedAt time.Time) *Job {
	return &Job{
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         url,
		Source:      source,
		DateScraped: scrapedAt.Format(DateLayout),
	}
}

func (j *Job) GetStringField(name string) string {
	if j == nil {
		return ""
	}

	switch name {
	case JobURLField:
		return j.URL
	case JobCompanyField:
		return j.Company
	case JobSourceField:
		return j.Source
	default:
		return ""
	}
}

// Load reads postings from a JSON array file. A missing or empty file gives an empty list.
func Load(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Jobs{}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return &Jobs{}, nil
	}

	var items []*Job
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding jobs from %s: %w", path, err)
	}

	return &Jobs{Items: compact(items)}, nil
}

// Save writes postings as an indented JSON array, replacing the file.
func (v *Jobs) Save(path string) error {
	items := v.Items
	if items == nil {
		items = []*Job{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (v *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (v *Jobs) Len() int {
	return len(v.Items)
}

func (v *Jobs) Append(s *Jobs) {
	if s == nil {
		return
	}
	v.Items = append(v.Items, s.Items...)
}

func (v *Jobs) FindByURL(url string) *Job {
	for _, job := range v.Items {
		if job.URL == url {
			return job
		}
	}
	return nil
}

// Dedupe drops postings whose URL was already seen, keeping the first one.
// Postings without a URL are never considered duplicates. It returns the dropped URLs.
func (v *Jobs) Dedupe() []string {
	seen := make(map[string]struct{}, len(v.Items))
	kept := v.Items[:0]
	var dropped []string

	for _, job := range v.Items {
		if job.URL != "" {
			if _, ok := seen[job.URL]; ok {
				dropped = append(dropped, job.URL)
				continue
			}
			seen[job.URL] = struct{}{}
		}
		kept = append(kept, job)
	}

	v.Items = kept
	return dropped
}

// Exclude removes postings whose field equals any of targets, keeping order.
// It returns the URLs of removed postings.
func (v *Jobs) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	return v.RemoveFunc(func(job *Job) bool {
		_, ok := set[job.GetStringField(name)]
		return ok
	})
}

// RemoveFunc removes postings for which drop returns true, keeping order.
func (v *Jobs) RemoveFunc(drop func(*Job) bool) []string {
	kept := v.Items[:0]
	var removed []string

	for _, job := range v.Items {
		if drop(job) {
			removed = append(removed, job.URL)
			continue
		}
		kept = append(kept, job)
	}

	v.Items = kept
	return removed
}

// ReportByCompany groups postings by company name.
func (v *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range v.Items {
		entry := map[string]string{
			"title":    job.Title,
			"url":      job.URL,
			"location": job.Location,
			"source":   job.Source,
		}
		if job.PriorityScore > 0 {
			entry["priority_score"] = fmt.Sprintf("%d", job.PriorityScore)
		}
		report[job.Company] = append(report[job.Company], entry)
	}
	return report
}

func compact(items []*Job) []*Job {
	out := items[:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}
