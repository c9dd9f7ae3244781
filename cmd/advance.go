package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/view"
	"github.com/spigell/hire-pipeline/internal/workflow"
	"go.uber.org/zap"
)

const (
	PromptReschedule       = "Reschedule an interview"
	PromptDeleteEvaluation = "Delete an evaluation"
	PromptDeleteInterview  = "Delete an interview"
	PromptRefresh          = "Refresh"
	PromptExit             = "Exit"
)

var errExit = errors.New("exit requested")

var actionLabels = map[pipeline.Action]string{
	pipeline.ActionScheduleInterview: "Schedule an interview",
	pipeline.ActionCompleteInterview: "Mark the interview completed",
	pipeline.ActionManualEvaluate:    "Submit a manual evaluation",
	pipeline.ActionHireReject:        "Hire or reject",
}

// actionFlags carries values given on the command line. Missing values are prompted for.
type actionFlags struct {
	interactive bool
	schedule    workflow.ScheduleRequest
	evaluation  workflow.EvaluationInput
	decision    string
	feedback    string
}

var advanceCmd = &cobra.Command{
	Use:   "advance <candidate-id>",
	Short: "Move a candidate through the pipeline",
	Long: `Move a candidate through the pipeline.

Without --action an interactive menu offers every action the stepper allows.
With --action the single action runs using the values given by flags.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAdvance(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(advanceCmd)

	advanceCmd.Flags().StringP("action", "a", "", "action to run: schedule_interview, complete_interview, manual_evaluate or hire_reject")
	advanceCmd.Flags().Int64("slot", 0, "interview slot id")
	advanceCmd.Flags().String("date", "", "interview date, YYYY-MM-DD")
	advanceCmd.Flags().String("start", "", "interview start, HH:MM")
	advanceCmd.Flags().String("end", "", "interview end, HH:MM (default one hour after start)")
	advanceCmd.Flags().String("feedback", "", "feedback stored with the interview or decision")
	advanceCmd.Flags().Float64("score", 0, "manual evaluation score, above 0 and at most 10")
	advanceCmd.Flags().String("traits", "", "observed traits for the manual evaluation")
	advanceCmd.Flags().String("suggestions", "", "suggestions for the manual evaluation")
	advanceCmd.Flags().String("decision", "", "hire or reject")
}

func runAdvance(cmd *cobra.Command, rawID string) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()

	id, err := parseID("candidate", rawID)
	if err != nil {
		logger.Fatal("parsing arguments", zap.Error(err))
	}

	flags := readActionFlags(cmd)

	client := mustClient(config, logger)
	wf := workflow.New(client, logger)
	candidate := view.NewCandidate(id, newAggregator(client, config, logger), logger)
	defer candidate.Close()

	state, err := candidate.Refresh(ctx)
	if err != nil {
		logger.Fatal("loading candidate", zap.Int64("candidate_id", id), zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	if raw, _ := cmd.Flags().GetString("action"); raw != "" {
		action, ok := pipeline.ParseAction(raw)
		if !ok {
			logger.Fatal("unknown action", zap.String("action", raw))
		}
		if err := runAction(ctx, wf, state, action, flags); err != nil {
			logger.Fatal("running action", zap.String("action", action.String()), zap.Error(err))
		}
		if state, err = candidate.Refresh(ctx); err == nil {
			renderState(cmd.OutOrStdout(), state, false)
		}
		return
	}

	flags.interactive = true
	for {
		renderState(cmd.OutOrStdout(), state, false)

		err := advanceOnce(ctx, wf, state, flags)
		switch {
		case errors.Is(err, errExit), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return
		case errors.Is(err, promptui.ErrAbort):
			logger.Info("action cancelled")
		case err != nil:
			logger.Error("action failed", zap.Error(err))
		}

		fresh, err := candidate.Refresh(ctx)
		if err != nil {
			logger.Fatal("refreshing candidate", zap.Error(err), zap.String("hint", fatalHint(err)))
		}
		state = fresh
	}
}

func readActionFlags(cmd *cobra.Command) actionFlags {
	f := cmd.Flags()
	var flags actionFlags
	flags.schedule.SlotID, _ = f.GetInt64("slot")
	flags.schedule.Date, _ = f.GetString("date")
	flags.schedule.Start, _ = f.GetString("start")
	flags.schedule.End, _ = f.GetString("end")
	flags.feedback, _ = f.GetString("feedback")
	flags.schedule.Feedback = flags.feedback
	flags.evaluation.Score, _ = f.GetFloat64("score")
	flags.evaluation.Traits, _ = f.GetString("traits")
	flags.evaluation.Suggestions, _ = f.GetString("suggestions")
	flags.decision, _ = f.GetString("decision")
	return flags
}

// advanceOnce offers the allowed actions and runs the chosen one.
func advanceOnce(ctx context.Context, wf *workflow.Workflow, state *view.State, flags actionFlags) error {
	type item struct {
		label string
		run   func() error
	}

	var items []item
	for _, action := range []pipeline.Action{
		pipeline.ActionScheduleInterview,
		pipeline.ActionCompleteInterview,
		pipeline.ActionManualEvaluate,
		pipeline.ActionHireReject,
	} {
		if workflow.Allowed(state, action) != nil {
			continue
		}
		label := actionLabels[action]
		if action == state.NextAction {
			label += " (next)"
		}
		items = append(items, item{label: label, run: func() error {
			return runAction(ctx, wf, state, action, flags)
		}})
	}

	if !state.Status.IsTerminal() && state.Dossier.Interviews.Len() > 0 {
		items = append(items,
			item{label: PromptReschedule, run: func() error { return rescheduleInterview(ctx, wf, state, 0, flags) }},
			item{label: PromptDeleteEvaluation, run: func() error { return deleteEvaluation(ctx, wf, state) }},
			item{label: PromptDeleteInterview, run: func() error { return deleteInterview(ctx, wf, state, 0, false) }},
		)
	}

	items = append(items,
		item{label: PromptRefresh, run: func() error { return nil }},
		item{label: PromptExit, run: func() error { return errExit }},
	)

	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.label)
	}

	index, err := selectOne(fmt.Sprintf("%s: choose an action", state.Status.Label()), labels)
	if err != nil {
		return err
	}
	return items[index].run()
}

func runAction(ctx context.Context, wf *workflow.Workflow, state *view.State, action pipeline.Action, flags actionFlags) error {
	switch action {
	case pipeline.ActionScheduleInterview:
		req, err := scheduleRequest(flags)
		if err != nil {
			return err
		}
		_, err = wf.ScheduleInterview(ctx, state, req)
		return err
	case pipeline.ActionCompleteInterview:
		_, err := wf.CompleteInterview(ctx, state)
		return err
	case pipeline.ActionManualEvaluate:
		in, err := evaluationInput(flags)
		if err != nil {
			return err
		}
		_, err = wf.Evaluate(ctx, state, in)
		return err
	case pipeline.ActionHireReject:
		d, err := decision(flags)
		if err != nil {
			return err
		}
		_, err = wf.Decide(ctx, state, d)
		return err
	default:
		return fmt.Errorf("%w: %s", workflow.ErrActionNotAllowed, action)
	}
}

func scheduleRequest(flags actionFlags) (workflow.ScheduleRequest, error) {
	req := flags.schedule
	if !flags.interactive || req.SlotID > 0 {
		return req, nil
	}

	var err error
	if req.Date == "" {
		if req.Date, err = promptText("Interview date (YYYY-MM-DD)", "", true); err != nil {
			return req, err
		}
	}
	if req.Start == "" {
		if req.Start, err = promptText("Start (HH:MM)", "", true); err != nil {
			return req, err
		}
	}
	if req.End == "" {
		if req.End, err = promptText("End (HH:MM, empty for one hour)", "", false); err != nil {
			return req, err
		}
	}
	if req.Feedback == "" {
		if req.Feedback, err = promptText("Notes", "", false); err != nil {
			return req, err
		}
	}
	return req, nil
}

func evaluationInput(flags actionFlags) (workflow.EvaluationInput, error) {
	in := flags.evaluation
	if !flags.interactive {
		return in, nil
	}

	var err error
	if in.Score == 0 {
		if in.Score, err = promptScore("Overall score (0-10]"); err != nil {
			return in, err
		}
	}
	if in.Traits == "" {
		if in.Traits, err = promptText("Traits", "", true); err != nil {
			return in, err
		}
	}
	if in.Suggestions == "" {
		if in.Suggestions, err = promptText("Suggestions", "", false); err != nil {
			return in, err
		}
	}
	return in, nil
}

func decision(flags actionFlags) (workflow.Decision, error) {
	d := workflow.Decision{Feedback: flags.feedback}

	choice := flags.decision
	if choice == "" {
		if !flags.interactive {
			return d, fmt.Errorf("%w: --decision must be hire or reject", workflow.ErrInvalidInput)
		}
		index, err := selectOne("Decision", []string{"Hire", "Reject"})
		if err != nil {
			return d, err
		}
		choice = []string{"hire", "reject"}[index]
	}

	switch choice {
	case "hire":
		d.Hire = true
	case "reject":
	default:
		return d, fmt.Errorf("%w: decision %q must be hire or reject", workflow.ErrInvalidInput, choice)
	}

	if flags.interactive && d.Feedback == "" {
		var err error
		if d.Feedback, err = promptText("Feedback", "", false); err != nil {
			return d, err
		}
	}
	return d, nil
}

// pickInterview returns id when set, otherwise lets the user choose one of the interviews.
func pickInterview(state *view.State, id int64, label string) (int64, error) {
	if id > 0 {
		return id, nil
	}

	interviews := state.Dossier.Interviews
	if interviews.Len() == 0 {
		return 0, workflow.ErrNoInterview
	}

	labels := make([]string, 0, interviews.Len())
	for _, interview := range interviews {
		labels = append(labels, fmt.Sprintf("#%d round %d, %s, %s",
			interview.ID, interview.InterviewRound, interview.Status, interviewWindow(interview)))
	}

	index, err := selectOne(label, labels)
	if err != nil {
		return 0, err
	}
	return interviews[index].ID, nil
}

func rescheduleInterview(ctx context.Context, wf *workflow.Workflow, state *view.State, interviewID int64, flags actionFlags) error {
	id, err := pickInterview(state, interviewID, "Interview to reschedule")
	if err != nil {
		return err
	}
	req, err := scheduleRequest(flags)
	if err != nil {
		return err
	}
	_, err = wf.RescheduleInterview(ctx, state, id, req)
	return err
}

func deleteEvaluation(ctx context.Context, wf *workflow.Workflow, state *view.State) error {
	latest := state.Dossier.Interviews.Latest()
	if latest == nil || !latest.HasEvaluation() {
		return fmt.Errorf("%w: the latest interview has no evaluation", workflow.ErrNoInterview)
	}

	ok, err := confirm(fmt.Sprintf("Delete the evaluation of interview #%d?", latest.ID))
	if err != nil || !ok {
		return err
	}
	return wf.DeleteEvaluation(ctx, state, latest.ID)
}

func deleteInterview(ctx context.Context, wf *workflow.Workflow, state *view.State, interviewID int64, assumeYes bool) error {
	id, err := pickInterview(state, interviewID, "Interview to delete")
	if err != nil {
		return err
	}

	if !assumeYes {
		ok, err := confirm(fmt.Sprintf("Delete interview #%d and free its slot?", id))
		if err != nil || !ok {
			return err
		}
	}
	return wf.DeleteInterview(ctx, state, id)
}
