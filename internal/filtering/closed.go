package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

type closedFilter struct {
	disabled bool
	reason   string

	include bool
}

// NewClosed creates a filter that removes hired and rejected candidates.
func NewClosed() Filter {
	return &closedFilter{}
}

func (f *closedFilter) Name() string { return "closed" }

func (f *closedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *closedFilter) IsEnabled() bool { return !f.disabled }

func (f *closedFilter) Validate(cfg *Config) error {
	f.include = cfg != nil && cfg.IncludeClosed
	return nil
}

func (f *closedFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if f.include {
		return e, Step{Initial: initial, Dropped: 0, Left: e.Len()}, nil
	}

	excluded := e.Exclude(func(entry *Entry) bool { return entry.Status.IsTerminal() })
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding decided candidates",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(excluded), Left: e.Len()}, nil
}

func (f *closedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"include_closed": strconv.FormatBool(f.include)},
	}
}
