// Package view keeps the pipeline state of one candidate up to date.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"go.uber.org/zap"
)

// ErrStale is returned by Refresh when a newer refresh started or the view was closed
// before the load finished. The loaded data is discarded.
var ErrStale = errors.New("refresh result is stale")

// Loader loads the dossier of one candidate.
type Loader interface {
	Dossier(ctx context.Context, candidateID int64) (*aggregate.Dossier, error)
}

// State is everything the stepper and the action buttons need, derived from one dossier.
type State struct {
	Dossier     *aggregate.Dossier  `json:"dossier"`
	Derivation  pipeline.Derivation `json:"derivation"`
	Status      pipeline.Status     `json:"status"`
	NextAction  pipeline.Action     `json:"next_action"`
	Steps       []pipeline.StepView `json:"steps"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// CandidateID returns the candidate the state was built for.
func (s *State) CandidateID() int64 {
	if s == nil || s.Dossier == nil || s.Dossier.Candidate == nil {
		return 0
	}
	return s.Dossier.Candidate.ID
}

// Build runs the projections over a dossier.
func Build(d *aggregate.Dossier) *State {
	state := &State{Dossier: d}
	if d == nil {
		d = &aggregate.Dossier{}
		state.Dossier = d
	}

	state.Derivation = pipeline.Explain(d.Candidate, d.Interviews)
	state.Status = state.Derivation.Status
	state.NextAction = pipeline.NextAction(state.Status)
	state.Steps = pipeline.Project(state.Status, d.Interviews, state.NextAction)
	state.RefreshedAt = d.LoadedAt

	return state
}

// WarnFallback logs a state whose latest interview status was not recognized.
func WarnFallback(log *zap.Logger, state *State) {
	if log == nil || state == nil || !state.Derivation.Fallback {
		return
	}
	log.Warn("unrecognized interview status, treating candidate as NEW",
		zap.String("interview_status", state.Derivation.RawStatus),
	)
}

// Candidate holds the last committed state of one candidate. Refreshes may run
// concurrently; only the most recently started one can commit.
type Candidate struct {
	id     int64
	loader Loader
	logger *zap.Logger

	mu         sync.Mutex
	generation uint64
	closed     bool
	state      *State
}

func NewCandidate(candidateID int64, loader Loader, log *zap.Logger) *Candidate {
	return &Candidate{
		id:     candidateID,
		loader: loader,
		logger: logger.WithCandidate(log, candidateID),
	}
}

func (c *Candidate) ID() int64 {
	return c.id
}

// Refresh loads the candidate again and commits the result unless it became stale.
func (c *Candidate) Refresh(ctx context.Context) (*State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrStale
	}
	c.generation++
	ticket := c.generation
	c.mu.Unlock()

	dossier, err := c.loader.Dossier(ctx, c.id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || ticket != c.generation {
		c.logger.Debug("discarding stale refresh", zap.Uint64("ticket", ticket), zap.Uint64("generation", c.generation))
		return nil, ErrStale
	}

	if err != nil {
		return nil, err
	}

	state := Build(dossier)
	WarnFallback(c.logger, state)

	c.state = state
	c.logger.Debug("state refreshed",
		zap.String(logger.FieldStatus, state.Status.String()),
		zap.String(logger.FieldAction, state.NextAction.String()),
	)

	return state, nil
}

// Snapshot returns the last committed state, nil before the first successful refresh.
func (c *Candidate) Snapshot() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close makes every in-flight and future refresh stale.
func (c *Candidate) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
