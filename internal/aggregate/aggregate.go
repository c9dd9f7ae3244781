// Package aggregate loads everything the pipeline projections need about candidates
// and merges it into one server-ordered view of their interviews.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// Source is the part of the recruiting API the aggregator reads from.
type Source interface {
	GetCandidate(ctx context.Context, id int64) (*recruiting.Candidate, error)
	ListCandidates(ctx context.Context) ([]*recruiting.Candidate, error)
	ListInterviews(ctx context.Context) (recruiting.Interviews, error)
	GetSlot(ctx context.Context, id int64) (*recruiting.Slot, error)
	ListEvaluations(ctx context.Context) ([]*recruiting.Evaluation, error)
	ListQuestions(ctx context.Context, session string) ([]*recruiting.Question, error)
	ListResponses(ctx context.Context, session string) ([]*recruiting.Response, error)
}

// Dossier is a candidate with its interviews in server order, each merged with its slot,
// manual evaluation and Q&A transcript.
type Dossier struct {
	Candidate  *recruiting.Candidate `json:"candidate"`
	Interviews recruiting.Interviews `json:"interviews"`
	LoadedAt   time.Time             `json:"loaded_at"`
}

// BoardEntry is a candidate with its interviews, without per-interview details.
type BoardEntry struct {
	Candidate  *recruiting.Candidate `json:"candidate"`
	Interviews recruiting.Interviews `json:"interviews"`
}

type Aggregator struct {
	source      Source
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

func New(source Source, log *zap.Logger, concurrency int) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Aggregator{
		source:      source,
		logger:      log,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Dossier loads one candidate. Only the candidate and interview lists are required;
// failed slot, evaluation and Q&A fetches are logged and leave the matching fields empty.
func (a *Aggregator) Dossier(ctx context.Context, candidateID int64) (*Dossier, error) {
	log := a.logger.With(logger.CandidateFields(candidateID)...)

	candidate, err := a.source.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get candidate %d: %w", candidateID, err)
	}

	all, err := a.source.ListInterviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	interviews := all.ForCandidate(candidate.ID)

	var (
		evaluations []*recruiting.Evaluation
		evaluated   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	g.Go(func() error {
		list, err := a.source.ListEvaluations(gctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("evaluations are unavailable", zap.Error(err))
			return nil
		}
		evaluations, evaluated = list, true
		return nil
	})

	for _, interview := range interviews {
		if interview.Slot != 0 {
			g.Go(func() error {
				return a.loadSlot(gctx, ctx, log, interview)
			})
		}
		if session := interview.AIResult.SessionKey(); session != "" {
			g.Go(func() error {
				return a.loadQA(gctx, ctx, log, interview, session)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if evaluated {
		mergeEvaluations(interviews, evaluations)
	}

	log.Debug("dossier loaded", zap.Int("interviews", interviews.Len()))

	return &Dossier{
		Candidate:  candidate,
		Interviews: interviews,
		LoadedAt:   a.now(),
	}, nil
}

// loadSlot writes only interview.SlotDetails so concurrent loads of one interview do not overlap.
func (a *Aggregator) loadSlot(gctx, ctx context.Context, log *zap.Logger, interview *recruiting.Interview) error {
	slot, err := a.source.GetSlot(gctx, int64(interview.Slot))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("slot is unavailable",
			zap.Int64(logger.FieldInterview, interview.ID),
			zap.Int64("slot_id", int64(interview.Slot)),
			zap.Error(err),
		)
		return nil
	}

	interview.SlotDetails = slot
	return nil
}

// loadQA writes only interview.QA.
func (a *Aggregator) loadQA(gctx, ctx context.Context, log *zap.Logger, interview *recruiting.Interview, session string) error {
	fail := func(err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("q&a is unavailable",
			zap.Int64(logger.FieldInterview, interview.ID),
			zap.String("session_id", session),
			zap.Error(err),
		)
		return nil
	}

	questions, err := a.source.ListQuestions(gctx, session)
	if err != nil {
		return fail(err)
	}
	responses, err := a.source.ListResponses(gctx, session)
	if err != nil {
		return fail(err)
	}

	interview.QA = recruiting.PairQA(questions, responses)
	return nil
}

// Board loads all candidates with their interviews and evaluations in three list calls.
func (a *Aggregator) Board(ctx context.Context) ([]*BoardEntry, error) {
	var (
		candidates  []*recruiting.Candidate
		interviews  recruiting.Interviews
		evaluations []*recruiting.Evaluation
		evaluated   bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := a.source.ListCandidates(gctx)
		if err != nil {
			return fmt.Errorf("list candidates: %w", err)
		}
		candidates = list
		return nil
	})
	g.Go(func() error {
		list, err := a.source.ListInterviews(gctx)
		if err != nil {
			return fmt.Errorf("list interviews: %w", err)
		}
		interviews = list
		return nil
	})
	g.Go(func() error {
		list, err := a.source.ListEvaluations(gctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Warn("evaluations are unavailable", zap.Error(err))
			return nil
		}
		evaluations, evaluated = list, true
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if evaluated {
		mergeEvaluations(interviews, evaluations)
	}

	byCandidate := make(map[int64]recruiting.Interviews, len(candidates))
	for _, interview := range interviews {
		if interview == nil {
			continue
		}
		id := interview.CandidateID()
		byCandidate[id] = append(byCandidate[id], interview)
	}

	entries := make([]*BoardEntry, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		entries = append(entries, &BoardEntry{
			Candidate:  candidate,
			Interviews: byCandidate[candidate.ID],
		})
	}

	a.logger.Debug("board loaded",
		zap.Int("candidates", len(entries)),
		zap.Int("interviews", interviews.Len()),
	)

	return entries, nil
}

// mergeEvaluations attaches the evaluation whose interview matches, clearing it when none does.
func mergeEvaluations(interviews recruiting.Interviews, evaluations []*recruiting.Evaluation) {
	byInterview := recruiting.EvaluationsByInterview(evaluations)
	for _, interview := range interviews {
		if interview == nil {
			continue
		}
		interview.Evaluation = byInterview[interview.ID]
	}
}
