package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hire-pipeline/internal/filtering"
	"go.uber.org/zap"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "List candidates with their pipeline status",
	Run: func(cmd *cobra.Command, _ []string) {
		runBoard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().StringSliceP("status", "s", nil, "keep only these pipeline statuses, e.g. AI_EVALUATED")
	boardCmd.Flags().Int64Slice("job", nil, "keep only candidates applying for these job ids")
	boardCmd.Flags().BoolP("include-closed", "c", false, "also list hired and rejected candidates")
	boardCmd.Flags().Bool("hire-recommended", false, "keep only candidates an AI interview recommended for hire")
	boardCmd.Flags().StringSlice("disable-filter", nil, "names of filters to skip")

	viper.BindPFlag("board.statuses", boardCmd.Flags().Lookup("status"))
	viper.BindPFlag("board.include-closed", boardCmd.Flags().Lookup("include-closed"))
	viper.BindPFlag("board.hire-recommended", boardCmd.Flags().Lookup("hire-recommended"))
}

func runBoard(cmd *cobra.Command) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()
	client := mustClient(config, logger)

	board, err := newAggregator(client, config, logger).Board(ctx)
	if err != nil {
		logger.Fatal("loading the board", zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	// int64 slices do not survive the viper flag binding, so --job is read here.
	if cmd.Flags().Changed("job") {
		config.Board.Jobs, _ = cmd.Flags().GetInt64Slice("job")
	}

	steps := filtering.Default()
	disabled, _ := cmd.Flags().GetStringSlice("disable-filter")
	for _, name := range disabled {
		filtering.DisableByName(steps, name, "disabled by flag")
	}

	entries, err := filtering.Run(ctx, boardFilters(config.Board), filtering.Deps{Logger: logger}, steps, filtering.EntriesFromBoard(board))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	for _, entry := range entries.Fallbacks() {
		logger.Warn("unrecognized interview status, treating candidate as NEW",
			zap.Int64("candidate_id", entry.Candidate.ID),
			zap.String("interview_status", entry.Derivation.RawStatus),
		)
	}

	if entries.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	renderBoard(cmd.OutOrStdout(), entries)
}
