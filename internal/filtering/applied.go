package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/priority"
)

const forceFlagSetMsg = "force flag is set"

type appliedFilter struct {
	toggle
	ignore bool
}

// NewApplied creates a filter that removes postings already applied for:
// those flagged Applied and those whose URL is in the tracker.
func NewApplied(ignore bool) Filter {
	return &appliedFilter{ignore: ignore}
}

func (f *appliedFilter) Name() string { return "already_applied" }

func (f *appliedFilter) Validate(*Config) error { return nil }

func (f *appliedFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	if f.ignore {
		deps.Logger.Info("keeping already applied postings", zap.String("reason", forceFlagSetMsg))
		return v, stepOf(initial, v), nil
	}

	excluded := v.RemoveFunc(func(job *jobs.Job) bool {
		return job.Applied || (deps.Tracker != nil && deps.Tracker.HasURL(job.URL))
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding postings already applied for",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, stepOf(initial, v), nil
}

func (f *appliedFilter) Status() Status {
	details := map[string]string{
		"exclude_applied": strconv.FormatBool(!f.ignore),
	}
	reason := f.reason
	if f.ignore && reason == "" {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: reason, Details: details}
}

type minScoreFilter struct {
	toggle
	min int
}

// NewMinScore creates a filter that removes postings scored below the configured minimum.
// Scores are computed with the deps scorer and stored on each posting.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg != nil {
		f.min = cfg.MinScore
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	if f.min <= 0 {
		return v, stepOf(initial, v), nil
	}

	scorer := deps.Scorer
	if scorer == nil {
		scorer = priority.Default()
	}

	excluded := v.RemoveFunc(func(job *jobs.Job) bool {
		job.PriorityScore = scorer.ScoreJob(job)
		return job.PriorityScore < f.min
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding low priority postings",
			zap.Int("min_score", f.min),
			zap.Int("excluded", len(excluded)),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, stepOf(initial, v), nil
}

func (f *minScoreFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"min_score": strconv.Itoa(f.min)})
}
