package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

type dedupeFilter struct {
	toggle
}

// NewDedupe creates a filter that keeps the first posting of every URL.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe_url" }

func (f *dedupeFilter) Validate(*Config) error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	if dropped := v.Dedupe(); len(dropped) > 0 {
		deps.Logger.Debug("duplicate postings dropped", zap.Strings("urls", dropped))
	}
	return v, stepOf(initial, v), nil
}

func (f *dedupeFilter) Status() Status {
	return f.status(f.Name(), nil)
}
