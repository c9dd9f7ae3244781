package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spigell/hire-pipeline/internal/view"
	"github.com/spigell/hire-pipeline/internal/workflow"
	"go.uber.org/zap"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Edit the interviews of a candidate",
}

var interviewDeleteCmd = &cobra.Command{
	Use:   "delete <candidate-id> <interview-id>",
	Short: "Delete an interview, free its slot and put the candidate back to New",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runInterview(cmd, args, func(ic interviewContext) error {
			yes, _ := cmd.Flags().GetBool("yes")
			return deleteInterview(ic.ctx, ic.wf, ic.state, ic.interviewID, yes)
		})
	},
}

var interviewRescheduleCmd = &cobra.Command{
	Use:   "reschedule <candidate-id> <interview-id>",
	Short: "Move an interview to another slot or time",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runInterview(cmd, args, func(ic interviewContext) error {
			flags := readActionFlags(cmd)
			flags.interactive = flags.schedule.SlotID == 0 && (flags.schedule.Date == "" || flags.schedule.Start == "")
			return rescheduleInterview(ic.ctx, ic.wf, ic.state, ic.interviewID, flags)
		})
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(interviewDeleteCmd, interviewRescheduleCmd)

	interviewDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	interviewRescheduleCmd.Flags().Int64("slot", 0, "interview slot id")
	interviewRescheduleCmd.Flags().String("date", "", "interview date, YYYY-MM-DD")
	interviewRescheduleCmd.Flags().String("start", "", "interview start, HH:MM")
	interviewRescheduleCmd.Flags().String("end", "", "interview end, HH:MM (default one hour after start)")
	interviewRescheduleCmd.Flags().String("feedback", "", "notes stored with the interview")
}

type interviewContext struct {
	ctx         context.Context
	wf          *workflow.Workflow
	state       *view.State
	interviewID int64
}

func runInterview(cmd *cobra.Command, args []string, run func(interviewContext) error) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()

	candidateID, err := parseID("candidate", args[0])
	if err != nil {
		logger.Fatal("parsing arguments", zap.Error(err))
	}
	interviewID, err := parseID("interview", args[1])
	if err != nil {
		logger.Fatal("parsing arguments", zap.Error(err))
	}

	client := mustClient(config, logger)
	candidate := view.NewCandidate(candidateID, newAggregator(client, config, logger), logger)
	defer candidate.Close()

	state, err := candidate.Refresh(ctx)
	if err != nil {
		logger.Fatal("loading candidate", zap.Int64("candidate_id", candidateID), zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	if err := run(interviewContext{ctx: ctx, wf: workflow.New(client, logger), state: state, interviewID: interviewID}); err != nil {
		logger.Fatal(cmd.Name()+" interview", zap.Int64("interview_id", interviewID), zap.Error(err))
	}

	if state, err = candidate.Refresh(ctx); err == nil {
		renderState(cmd.OutOrStdout(), state, false)
	}
}
