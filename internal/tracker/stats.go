package tracker

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"
)

// Statistics summarizes the tracker. ResponseRate is a percentage rounded to
// one decimal.
type Statistics struct {
	Total              int            `json:"total"`
	ByStatus           map[Status]int `json:"by_status"`
	ByCompany          map[string]int `json:"by_company"`
	RecentApplications int            `json:"recent_applications"`
	ResponseRate       float64        `json:"response_rate"`
}

// Statistics counts applications. Recent ones were applied for within the
// last seven days of now.
func (t *Tracker) Statistics(now time.Time) Statistics {
	apps := t.All()

	stats := Statistics{
		Total:     len(apps),
		ByStatus:  make(map[Status]int),
		ByCompany: make(map[string]int),
	}
	if len(apps) == 0 {
		return stats
	}

	since := now.Add(-recentWindow).Format(DateLayout)
	responded := 0
	for _, app := range apps {
		stats.ByStatus[app.Status]++
		stats.ByCompany[app.Company]++
		if app.DateApplied >= since {
			stats.RecentApplications++
		}
		if slices.Contains(Responded, app.Status) {
			responded++
		}
	}

	rate := float64(responded) / float64(len(apps)) * 100
	stats.ResponseRate = math.Round(rate*10) / 10

	return stats
}

var csvHeader = []string{
	"id", "job_title", "company", "location", "job_url", "status",
	"date_applied", "date_updated", "notes", "follow_up_date",
	"resume_version", "cover_letter_version",
}

// ExportCSV writes every application with a header row. Nothing is written
// for an empty tracker.
func (t *Tracker) ExportCSV(w io.Writer) (int, error) {
	apps := t.All()
	if len(apps) == 0 {
		return 0, nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}

	for _, app := range apps {
		record := []string{
			strconv.Itoa(app.ID),
			app.JobTitle,
			app.Company,
			app.Location,
			app.JobURL,
			string(app.Status),
			app.DateApplied,
			app.DateUpdated,
			app.Notes,
			deref(app.FollowUpDate),
			deref(app.ResumeVersion),
			deref(app.CoverLetterVersion),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing application #%d: %w", app.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(apps), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
