// Package tracker keeps job applications in a single JSON file.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

type Status string

const (
	StatusPrepared  Status = "Prepared"
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview Scheduled"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// Statuses lists every known status in workflow order.
var Statuses = []Status{StatusPrepared, StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn}

// Responded statuses count towards the response rate.
var Responded = []Status{StatusInterview, StatusOffer, StatusRejected}

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"

	DefaultLocation = "Sydney, Australia"
	recentWindow    = 7 * 24 * time.Hour
)

var ErrNotFound = errors.New("application not found")

func ParseStatus(s string) (Status, bool) {
	for _, status := range Statuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, true
		}
	}
	return "", false
}

type Application struct {
	ID                 int     `json:"id"`
	JobTitle           string  `json:"job_title" validate:"required"`
	Company            string  `json:"company" validate:"required"`
	Location           string  `json:"location"`
	JobURL             string  `json:"job_url" validate:"omitempty,url"`
	Status             Status  `json:"status" validate:"status"`
	DateApplied        string  `json:"date_applied" validate:"datetime=2006-01-02"`
	DateUpdated        string  `json:"date_updated"`
	Notes              string  `json:"notes"`
	FollowUpDate       *string `json:"follow_up_date"`
	ResumeVersion      *string `json:"resume_version"`
	CoverLetterVersion *string `json:"cover_letter_version"`
}

// NewApplication holds the caller-provided fields of an application.
// Empty Location, Status and DateApplied get defaults.
type NewApplication struct {
	JobTitle    string
	Company     string
	JobURL      string
	Location    string
	Status      Status
	DateApplied string
	Notes       string
}

// Tracker is the application store. Every mutation rewrites the whole file;
// the last writer wins.
type Tracker struct {
	mu       sync.Mutex
	path     string
	apps     []*Application
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Open loads the tracker file. A missing or empty file starts an empty tracker.
func Open(path string, opts ...Option) (*Tracker, error) {
	t := &Tracker{path: path, validate: newValidator(), now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading tracker file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &t.apps); err != nil {
			return nil, fmt.Errorf("decoding tracker file %s: %w", path, err)
		}
	}
	t.apps = slices.DeleteFunc(t.apps, func(a *Application) bool { return a == nil })

	return t, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, ok := ParseStatus(fl.Field().String())
		return ok
	})
	return v
}

func (t *Tracker) Path() string { return t.path }

// Add stores a new application and returns its id.
func (t *Tracker) Add(in NewApplication) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	app := &Application{
		ID:          len(t.apps) + 1,
		JobTitle:    strings.TrimSpace(in.JobTitle),
		Company:     strings.TrimSpace(in.Company),
		Location:    in.Location,
		JobURL:      strings.TrimSpace(in.JobURL),
		Status:      in.Status,
		DateApplied: in.DateApplied,
		DateUpdated: now.Format(TimestampLayout),
		Notes:       in.Notes,
	}
	if app.Location == "" {
		app.Location = DefaultLocation
	}
	if app.Status == "" {
		app.Status = StatusApplied
	}
	if parsed, ok := ParseStatus(string(app.Status)); ok {
		app.Status = parsed
	}
	if app.DateApplied == "" {
		app.DateApplied = now.Format(DateLayout)
	}

	if err := t.validate.Struct(app); err != nil {
		return 0, fmt.Errorf("invalid application: %w", err)
	}

	t.apps = append(t.apps, app)
	if err := t.save(); err != nil {
		return 0, err
	}

	return app.ID, nil
}

// UpdateStatus sets the status and appends a dated note when notes is not empty.
func (t *Tracker) UpdateStatus(id int, status Status, notes string) error {
	parsed, ok := ParseStatus(string(status))
	if !ok {
		return fmt.Errorf("unknown status %q", status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	app := t.get(id)
	if app == nil {
		return fmt.Errorf("application #%d: %w", id, ErrNotFound)
	}

	now := t.now()
	app.Status = parsed
	app.DateUpdated = now.Format(TimestampLayout)
	if notes != "" {
		app.Notes += fmt.Sprintf("\n%s: %s", now.Format(DateLayout), notes)
	}

	return t.save()
}

// AddFollowUp schedules a follow-up on date (YYYY-MM-DD).
func (t *Tracker) AddFollowUp(id int, date, notes string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid follow-up date %q: %w", date, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	app := t.get(id)
	if app == nil {
		return fmt.Errorf("application #%d: %w", id, ErrNotFound)
	}

	app.FollowUpDate = &date
	if notes != "" {
		app.Notes += fmt.Sprintf("\nFollow-up scheduled for %s: %s", date, notes)
	}

	return t.save()
}

// All returns a copy of every application in insertion order.
func (t *Tracker) All() []Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter(func(*Application) bool { return true })
}

func (t *Tracker) Get(id int) (Application, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	app := t.get(id)
	if app == nil {
		return Application{}, false
	}
	return *app, true
}

func (t *Tracker) ByStatus(status Status) []Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter(func(a *Application) bool { return a.Status == status })
}

// PendingFollowUps returns applications with a follow-up due on or before today.
func (t *Tracker) PendingFollowUps(today time.Time) []Application {
	day := today.Format(DateLayout)

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter(func(a *Application) bool {
		return a.FollowUpDate != nil && *a.FollowUpDate != "" && *a.FollowUpDate <= day
	})
}

// Search matches keyword case-insensitively against title, company and notes.
func (t *Tracker) Search(keyword string) []Application {
	keyword = strings.ToLower(keyword)

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter(func(a *Application) bool {
		return strings.Contains(strings.ToLower(a.JobTitle), keyword) ||
			strings.Contains(strings.ToLower(a.Company), keyword) ||
			strings.Contains(strings.ToLower(a.Notes), keyword)
	})
}

// FindByCompany returns the first application for the company.
func (t *Tracker) FindByCompany(company string) (Application, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, app := range t.apps {
		if app.Company == company {
			return *app, true
		}
	}
	return Application{}, false
}

// HasURL reports whether an application with the job URL exists.
func (t *Tracker) HasURL(url string) bool {
	if url == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.ContainsFunc(t.apps, func(a *Application) bool { return a.JobURL == url })
}

// Recent returns up to limit applications, newest application date first.
func (t *Tracker) Recent(limit int) []Application {
	all := t.All()
	slices.SortStableFunc(all, func(a, b Application) int { return strings.Compare(b.DateApplied, a.DateApplied) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (t *Tracker) get(id int) *Application {
	for _, app := range t.apps {
		if app.ID == id {
			return app
		}
	}
	return nil
}

func (t *Tracker) filter(keep func(*Application) bool) []Application {
	out := make([]Application, 0)
	for _, app := range t.apps {
		if keep(app) {
			out = append(out, *app)
		}
	}
	return out
}

func (t *Tracker) save() error {
	apps := t.apps
	if apps == nil {
		apps = []*Application{}
	}

	data, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("writing tracker file: %w", err)
	}
	return nil
}
