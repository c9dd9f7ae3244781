// Package workflow performs pipeline actions against the recruiting backend.
// Every action is checked against the stepper of the state it is taken from.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"github.com/spigell/hire-pipeline/internal/view"
	"go.uber.org/zap"
)

var (
	ErrActionNotAllowed = errors.New("action is not allowed in the current pipeline state")
	ErrNoInterview      = errors.New("no matching interview")
	ErrSlotFull         = errors.New("slot has no free seats")
	ErrSlotTaken        = errors.New("candidate already has an interview in this slot")
	ErrInvalidInput     = errors.New("invalid input")
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	// defaultInterviewLength is used when a schedule request has a start but no end.
	defaultInterviewLength = time.Hour
	maxScore               = 10
)

// Backend is the part of the recruiting API that actions write to.
type Backend interface {
	CreateInterview(ctx context.Context, input *recruiting.InterviewInput) (*recruiting.Interview, error)
	UpdateInterview(ctx context.Context, id int64, fields map[string]any) (*recruiting.Interview, error)
	DeleteInterview(ctx context.Context, id int64) error
	GetSlot(ctx context.Context, id int64) (*recruiting.Slot, error)
	ListSlotsByDate(ctx context.Context, date string) ([]*recruiting.Slot, error)
	UpdateSlot(ctx context.Context, slot *recruiting.Slot) (*recruiting.Slot, error)
	CreateEvaluation(ctx context.Context, input *recruiting.EvaluationInput) (*recruiting.Evaluation, error)
	UpdateEvaluation(ctx context.Context, id int64, input *recruiting.EvaluationInput) (*recruiting.Evaluation, error)
	DeleteEvaluation(ctx context.Context, id int64) error
	UpdateCandidate(ctx context.Context, id int64, fields map[string]any) (*recruiting.Candidate, error)
}

type Workflow struct {
	backend Backend
	logger  *zap.Logger
}

func New(backend Backend, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{backend: backend, logger: log}
}

// Allowed reports whether action can be taken from state: the candidate must not be decided
// and a clickable stepper step must lead to the action.
func Allowed(state *view.State, action pipeline.Action) error {
	if state == nil || state.CandidateID() == 0 {
		return fmt.Errorf("%w: no candidate state", ErrActionNotAllowed)
	}
	if state.Status.IsTerminal() {
		return fmt.Errorf("%w: candidate is %s", ErrActionNotAllowed, state.Status)
	}
	if _, ok := pipeline.StepAction(state.Steps, action); !ok {
		return fmt.Errorf("%w: %s from %s", ErrActionNotAllowed, action, state.Status)
	}
	return nil
}

// editable rejects changes to already decided candidates.
func editable(state *view.State) error {
	if state == nil || state.CandidateID() == 0 {
		return fmt.Errorf("%w: no candidate state", ErrActionNotAllowed)
	}
	if state.Status.IsTerminal() {
		return fmt.Errorf("%w: candidate is %s", ErrActionNotAllowed, state.Status)
	}
	return nil
}

func (w *Workflow) log(state *view.State, action pipeline.Action) *zap.Logger {
	return logger.WithCandidate(w.logger, state.CandidateID()).With(zap.String(logger.FieldAction, action.String()))
}

// ScheduleRequest selects an interview time. Either SlotID or Date with Start picks the slot.
type ScheduleRequest struct {
	SlotID int64
	// Date is YYYY-MM-DD.
	Date string
	// Start and End are HH:MM. A missing End means one hour after Start.
	Start    string
	End      string
	Feedback string
}

// ScheduleInterview creates an interview for the candidate and books its slot.
// A failed booking is logged and does not undo the interview.
func (w *Workflow) ScheduleInterview(ctx context.Context, state *view.State, req ScheduleRequest) (*recruiting.Interview, error) {
	if err := Allowed(state, pipeline.ActionScheduleInterview); err != nil {
		return nil, err
	}
	log := w.log(state, pipeline.ActionScheduleInterview)

	window, err := w.resolveWindow(ctx, req)
	if err != nil {
		return nil, err
	}

	if window.slot != nil {
		if window.slot.IsFull() {
			return nil, fmt.Errorf("%w: slot %d", ErrSlotFull, window.slot.ID)
		}
		if interviewInSlot(state.Dossier.Interviews, window.slot.ID, 0) != nil {
			return nil, fmt.Errorf("%w: slot %d", ErrSlotTaken, window.slot.ID)
		}
	}

	candidate := state.Dossier.Candidate
	input := &recruiting.InterviewInput{
		Candidate: candidate.ID,
		StartedAt: window.startedAt(),
		EndedAt:   window.endedAt(),
		Feedback:  req.Feedback,
	}
	if candidate.Job != 0 {
		job := int64(candidate.Job)
		input.Job = &job
	}
	if window.slot != nil {
		input.Slot = window.slot.ID
	}

	interview, err := w.backend.CreateInterview(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}

	log.Info("interview scheduled",
		zap.Int64(logger.FieldInterview, interview.ID),
		zap.String("started_at", input.StartedAt),
	)

	if window.slot != nil {
		w.book(ctx, log, window.slot)
	}

	return interview, nil
}

// RescheduleInterview moves an interview to another time. The old slot is released first;
// picking the same slot again only updates the interview.
func (w *Workflow) RescheduleInterview(ctx context.Context, state *view.State, interviewID int64, req ScheduleRequest) (*recruiting.Interview, error) {
	if err := editable(state); err != nil {
		return nil, err
	}
	log := w.log(state, pipeline.ActionScheduleInterview).With(zap.Int64(logger.FieldInterview, interviewID))

	current := state.Dossier.Interviews.FindByID(interviewID)
	if current == nil {
		return nil, fmt.Errorf("%w: interview %d", ErrNoInterview, interviewID)
	}

	oldSlot := w.slotOf(ctx, log, current)

	window, err := w.resolveWindow(ctx, req)
	if err != nil {
		return nil, err
	}

	sameSlot := oldSlot != 0 && window.slot != nil && window.slot.ID == oldSlot
	if !sameSlot {
		if window.slot != nil && window.slot.IsFull() {
			return nil, fmt.Errorf("%w: slot %d", ErrSlotFull, window.slot.ID)
		}
		if window.slot != nil && interviewInSlot(state.Dossier.Interviews, window.slot.ID, interviewID) != nil {
			return nil, fmt.Errorf("%w: slot %d", ErrSlotTaken, window.slot.ID)
		}
		if oldSlot != 0 {
			w.release(ctx, log, oldSlot)
		}
	}

	fields := map[string]any{
		"started_at": window.startedAt(),
		"ended_at":   window.endedAt(),
		"feedback":   req.Feedback,
	}
	if window.slot != nil {
		fields["slot"] = window.slot.ID
	}

	interview, err := w.backend.UpdateInterview(ctx, interviewID, fields)
	if err != nil {
		return nil, fmt.Errorf("update interview %d: %w", interviewID, err)
	}

	if window.slot != nil && !sameSlot {
		// The slot was read before the release above, so read it again.
		if fresh, err := w.backend.GetSlot(ctx, window.slot.ID); err == nil {
			window.slot = fresh
		}
		w.book(ctx, log, window.slot)
	}

	log.Info("interview rescheduled", zap.String("started_at", window.startedAt()), zap.Bool("same_slot", sameSlot))

	return interview, nil
}

// CompleteInterview marks the first scheduled interview as completed.
func (w *Workflow) CompleteInterview(ctx context.Context, state *view.State) (*recruiting.Interview, error) {
	if err := Allowed(state, pipeline.ActionCompleteInterview); err != nil {
		return nil, err
	}

	target := state.Dossier.Interviews.FirstWithStatus(recruiting.InterviewScheduled)
	if target == nil {
		return nil, fmt.Errorf("%w: nothing is scheduled", ErrNoInterview)
	}

	interview, err := w.backend.UpdateInterview(ctx, target.ID, map[string]any{"status": recruiting.InterviewCompleted})
	if err != nil {
		return nil, fmt.Errorf("complete interview %d: %w", target.ID, err)
	}

	w.log(state, pipeline.ActionCompleteInterview).Info("interview completed", zap.Int64(logger.FieldInterview, target.ID))

	return interview, nil
}

// EvaluationInput is the manual assessment of the latest interview.
type EvaluationInput struct {
	Score       float64
	Traits      string
	Suggestions string
}

func (in EvaluationInput) validate() error {
	if in.Score <= 0 || in.Score > maxScore {
		return fmt.Errorf("%w: score must be within (0, %d]", ErrInvalidInput, maxScore)
	}
	if strings.TrimSpace(in.Traits) == "" {
		return fmt.Errorf("%w: traits are required", ErrInvalidInput)
	}
	return nil
}

// Evaluate records the manual evaluation of the latest interview. An interview that is
// already evaluated gets its evaluation updated instead.
func (w *Workflow) Evaluate(ctx context.Context, state *view.State, in EvaluationInput) (*recruiting.Evaluation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := editable(state); err != nil {
		return nil, err
	}

	latest := state.Dossier.Interviews.Latest()
	if latest == nil {
		return nil, fmt.Errorf("%w: nothing to evaluate", ErrNoInterview)
	}

	log := w.log(state, pipeline.ActionManualEvaluate).With(zap.Int64(logger.FieldInterview, latest.ID))
	input := &recruiting.EvaluationInput{
		Interview:    latest.ID,
		OverallScore: in.Score,
		Traits:       in.Traits,
		Suggestions:  in.Suggestions,
	}

	if latest.HasEvaluation() && latest.Evaluation.ID != 0 {
		evaluation, err := w.backend.UpdateEvaluation(ctx, latest.Evaluation.ID, input)
		if err != nil {
			return nil, fmt.Errorf("update evaluation %d: %w", latest.Evaluation.ID, err)
		}
		log.Info("evaluation updated", zap.Float64("score", in.Score))
		return evaluation, nil
	}

	if err := Allowed(state, pipeline.ActionManualEvaluate); err != nil {
		return nil, err
	}

	evaluation, err := w.backend.CreateEvaluation(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create evaluation: %w", err)
	}
	log.Info("evaluation submitted", zap.Float64("score", in.Score), zap.String("grade", evaluation.Grade()))

	return evaluation, nil
}

// DeleteEvaluation removes the evaluation of one interview.
func (w *Workflow) DeleteEvaluation(ctx context.Context, state *view.State, interviewID int64) error {
	if err := editable(state); err != nil {
		return err
	}

	interview := state.Dossier.Interviews.FindByID(interviewID)
	if interview == nil || !interview.HasEvaluation() || interview.Evaluation.ID == 0 {
		return fmt.Errorf("%w: interview %d has no evaluation", ErrNoInterview, interviewID)
	}

	if err := w.backend.DeleteEvaluation(ctx, interview.Evaluation.ID); err != nil {
		return fmt.Errorf("delete evaluation %d: %w", interview.Evaluation.ID, err)
	}

	w.log(state, pipeline.ActionManualEvaluate).Info("evaluation deleted", zap.Int64(logger.FieldInterview, interviewID))

	return nil
}

// Decision is the final hire or reject call.
type Decision struct {
	Hire     bool
	Feedback string
}

func (d Decision) status() string {
	if d.Hire {
		return recruiting.CandidateHired
	}
	return recruiting.CandidateRejected
}

// Decide stores the hiring decision on the candidate.
func (w *Workflow) Decide(ctx context.Context, state *view.State, d Decision) (*recruiting.Candidate, error) {
	if err := Allowed(state, pipeline.ActionHireReject); err != nil {
		return nil, err
	}

	candidate, err := w.backend.UpdateCandidate(ctx, state.CandidateID(), map[string]any{
		"status":   d.status(),
		"feedback": d.Feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("update candidate status: %w", err)
	}

	w.log(state, pipeline.ActionHireReject).Info("decision recorded", zap.String(logger.FieldStatus, candidate.Status))

	return candidate, nil
}

// DeleteInterview releases the interview slot, deletes the interview and puts the candidate
// back to NEW. Only the delete itself must succeed.
func (w *Workflow) DeleteInterview(ctx context.Context, state *view.State, interviewID int64) error {
	if err := editable(state); err != nil {
		return err
	}
	log := w.logger.With(logger.CandidateFields(state.CandidateID(), interviewID)...)

	interview := state.Dossier.Interviews.FindByID(interviewID)
	if interview == nil {
		return fmt.Errorf("%w: interview %d", ErrNoInterview, interviewID)
	}

	if slotID := w.slotOf(ctx, log, interview); slotID != 0 {
		w.release(ctx, log, slotID)
	}

	if err := w.backend.DeleteInterview(ctx, interviewID); err != nil {
		return fmt.Errorf("delete interview %d: %w", interviewID, err)
	}

	if _, err := w.backend.UpdateCandidate(ctx, state.CandidateID(), map[string]any{"status": recruiting.CandidateNew}); err != nil {
		log.Warn("failed to reset candidate status", zap.Error(err))
	}

	log.Info("interview deleted")

	return nil
}

// window is a resolved interview time, with the slot it falls into when one exists.
type window struct {
	date  string
	start string
	end   string
	slot  *recruiting.Slot
}

func (w window) startedAt() string {
	return fmt.Sprintf("%sT%s:00", w.date, w.start)
}

func (w window) endedAt() string {
	return fmt.Sprintf("%sT%s:00", w.date, w.end)
}

// resolveWindow turns a request into a date and times. A matching slot overrides the requested times.
func (w *Workflow) resolveWindow(ctx context.Context, req ScheduleRequest) (window, error) {
	if req.SlotID > 0 {
		slot, err := w.backend.GetSlot(ctx, req.SlotID)
		if err != nil {
			return window{}, fmt.Errorf("get slot %d: %w", req.SlotID, err)
		}

		date := strings.TrimSpace(req.Date)
		if date == "" {
			date = slot.InterviewDate
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			return window{}, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
		}

		return window{date: date, start: slot.StartClock(), end: slot.EndClock(), slot: slot}, nil
	}

	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return window{}, fmt.Errorf("%w: date %q", ErrInvalidInput, req.Date)
	}

	start, err := time.Parse(clockLayout, strings.TrimSpace(req.Start))
	if err != nil {
		return window{}, fmt.Errorf("%w: start %q", ErrInvalidInput, req.Start)
	}

	end := start.Add(defaultInterviewLength)
	if strings.TrimSpace(req.End) != "" {
		end, err = time.Parse(clockLayout, strings.TrimSpace(req.End))
		if err != nil {
			return window{}, fmt.Errorf("%w: end %q", ErrInvalidInput, req.End)
		}
	}
	if !end.After(start) {
		return window{}, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	result := window{date: date, start: start.Format(clockLayout), end: end.Format(clockLayout)}

	slots, err := w.backend.ListSlotsByDate(ctx, date)
	if err != nil {
		return window{}, fmt.Errorf("list slots for %s: %w", date, err)
	}
	if slot := recruiting.FindSlotByClock(slots, result.start, result.end); slot != nil {
		result.slot = slot
		result.start, result.end = slot.StartClock(), slot.EndClock()
	}

	return result, nil
}

// slotOf finds the slot an interview occupies, falling back to matching its times
// against the slots of its day.
func (w *Workflow) slotOf(ctx context.Context, log *zap.Logger, interview *recruiting.Interview) int64 {
	if interview.Slot != 0 {
		return int64(interview.Slot)
	}
	if interview.SlotDetails != nil && interview.SlotDetails.ID != 0 {
		return interview.SlotDetails.ID
	}

	date, _, ok := strings.Cut(interview.StartedAt, "T")
	if !ok || date == "" {
		return 0
	}

	slots, err := w.backend.ListSlotsByDate(ctx, date)
	if err != nil {
		log.Warn("failed to look up slot by time", zap.String("date", date), zap.Error(err))
		return 0
	}

	slot := recruiting.FindSlotByClock(slots, interview.StartedAt, interview.EndedAt)
	if slot == nil {
		log.Warn("no slot matches the interview time", zap.String("started_at", interview.StartedAt))
		return 0
	}

	return slot.ID
}

func (w *Workflow) book(ctx context.Context, log *zap.Logger, slot *recruiting.Slot) {
	booked, err := w.backend.UpdateSlot(ctx, slot.Booked())
	if err != nil {
		log.Warn("failed to book slot", zap.Int64("slot_id", slot.ID), zap.Error(err))
		return
	}
	log.Debug("slot booked",
		zap.Int64("slot_id", booked.ID),
		zap.Int("current_bookings", booked.CurrentBookings),
		zap.String("slot_status", booked.Status),
	)
}

func (w *Workflow) release(ctx context.Context, log *zap.Logger, slotID int64) {
	slot, err := w.backend.GetSlot(ctx, slotID)
	if err != nil {
		log.Warn("failed to read slot for release", zap.Int64("slot_id", slotID), zap.Error(err))
		return
	}

	released, err := w.backend.UpdateSlot(ctx, slot.Released())
	if err != nil {
		log.Warn("failed to release slot", zap.Int64("slot_id", slotID), zap.Error(err))
		return
	}
	log.Debug("slot released",
		zap.Int64("slot_id", released.ID),
		zap.Int("current_bookings", released.CurrentBookings),
	)
}

// interviewInSlot returns an interview other than skipID that occupies slotID.
func interviewInSlot(interviews recruiting.Interviews, slotID, skipID int64) *recruiting.Interview {
	for _, interview := range interviews {
		if interview == nil || interview.ID == skipID {
			continue
		}
		if int64(interview.Slot) == slotID || (interview.SlotDetails != nil && interview.SlotDetails.ID == slotID) {
			return interview
		}
	}
	return nil
}
