package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type jobsFilter struct {
	disabled bool
	reason   string

	jobs map[int64]struct{}
}

// NewJobs creates a filter that keeps candidates applying for the configured jobs.
func NewJobs() Filter {
	return &jobsFilter{}
}

func (f *jobsFilter) Name() string { return "jobs" }

func (f *jobsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *jobsFilter) IsEnabled() bool { return !f.disabled }

func (f *jobsFilter) Validate(cfg *Config) error {
	f.jobs = nil
	if cfg == nil {
		return nil
	}

	for _, id := range cfg.Jobs {
		if id <= 0 {
			return fmt.Errorf("invalid job id %d", id)
		}
		if f.jobs == nil {
			f.jobs = make(map[int64]struct{})
		}
		f.jobs[id] = struct{}{}
	}

	return nil
}

func (f *jobsFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if len(f.jobs) == 0 {
		return e, Step{Initial: initial, Dropped: 0, Left: e.Len()}, nil
	}

	excluded := e.Exclude(func(entry *Entry) bool {
		_, keep := f.jobs[int64(entry.Candidate.Job)]
		return !keep
	})
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding candidates by job",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(excluded), Left: e.Len()}, nil
}

func (f *jobsFilter) Status() Status {
	details := map[string]string{}
	if len(f.jobs) > 0 {
		ids := make([]string, 0, len(f.jobs))
		for id := range f.jobs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		details["jobs"] = strings.Join(ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
