package filtering

import (
	"context"

	"go.uber.org/zap"
)

const notRequestedReason = "not requested in config"

type hireRecommendedFilter struct {
	disabled bool
	reason   string
}

// NewHireRecommended creates a filter that keeps candidates an AI interview recommended for hire.
// It stays disabled unless the config asks for it.
func NewHireRecommended() Filter {
	return &hireRecommendedFilter{}
}

func (f *hireRecommendedFilter) Name() string { return "hire_recommended" }

func (f *hireRecommendedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *hireRecommendedFilter) IsEnabled() bool { return !f.disabled }

func (f *hireRecommendedFilter) Validate(cfg *Config) error {
	if cfg == nil || !cfg.HireRecommended {
		f.Disable(notRequestedReason)
	}
	return nil
}

func (f *hireRecommendedFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if f.disabled {
		return e, Step{Initial: initial, Dropped: 0, Left: e.Len()}, nil
	}

	excluded := e.Exclude(func(entry *Entry) bool { return !entry.HireRecommended() })
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding candidates without an AI hire recommendation",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(excluded), Left: e.Len()}, nil
}

func (f *hireRecommendedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
