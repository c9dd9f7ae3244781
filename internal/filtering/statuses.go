package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hire-pipeline/internal/pipeline"
	"go.uber.org/zap"
)

type statusesFilter struct {
	disabled bool
	reason   string

	statuses map[pipeline.Status]struct{}
	names    []string
}

// NewStatuses creates a filter that keeps candidates at the configured pipeline statuses.
func NewStatuses() Filter {
	return &statusesFilter{}
}

func (f *statusesFilter) Name() string { return "statuses" }

func (f *statusesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *statusesFilter) IsEnabled() bool { return !f.disabled }

func (f *statusesFilter) Validate(cfg *Config) error {
	f.statuses = nil
	f.names = nil
	if cfg == nil {
		return nil
	}

	for _, raw := range cfg.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, err := pipeline.ParseStatus(raw)
		if err != nil {
			return fmt.Errorf("invalid status filter: %w", err)
		}
		if f.statuses == nil {
			f.statuses = make(map[pipeline.Status]struct{})
		}
		if _, ok := f.statuses[status]; !ok {
			f.names = append(f.names, status.String())
		}
		f.statuses[status] = struct{}{}
	}

	return nil
}

func (f *statusesFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if len(f.statuses) == 0 {
		return e, Step{Initial: initial, Dropped: 0, Left: e.Len()}, nil
	}

	excluded := e.Exclude(func(entry *Entry) bool {
		_, keep := f.statuses[entry.Status]
		return !keep
	})
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding candidates by pipeline status",
			zap.Strings("kept_statuses", f.names),
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(excluded), Left: e.Len()}, nil
}

func (f *statusesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["statuses"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
