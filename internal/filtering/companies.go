package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

type companiesFilter struct {
	toggle
	companies []string
}

// NewCompanies creates a filter that removes postings of excluded companies.
// A company is excluded when its name contains any configured entry, ignoring case.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.ExcludedCompanies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			f.companies = append(f.companies, c)
		}
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	if len(f.companies) == 0 {
		return v, stepOf(initial, v), nil
	}

	excluded := v.RemoveFunc(func(job *jobs.Job) bool {
		company := strings.ToLower(job.Company)
		for _, c := range f.companies {
			if strings.Contains(company, c) {
				return true
			}
		}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding postings by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, stepOf(initial, v), nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return f.status(f.Name(), details)
}
