package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spigell/hire-pipeline/internal/view"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status <candidate-id>",
	Short: "Show the pipeline status, stepper and interviews of a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStatus(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("qa", false, "print the question and answer transcript of every interview")
}

func runStatus(cmd *cobra.Command, rawID string) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()

	id, err := parseID("candidate", rawID)
	if err != nil {
		logger.Fatal("parsing arguments", zap.Error(err))
	}

	client := mustClient(config, logger)
	candidate := view.NewCandidate(id, newAggregator(client, config, logger), logger)
	defer candidate.Close()

	state, err := candidate.Refresh(ctx)
	if err != nil {
		logger.Fatal("loading candidate", zap.Int64("candidate_id", id), zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	withQA, _ := cmd.Flags().GetBool("qa")
	renderState(cmd.OutOrStdout(), state, withQA)
}
