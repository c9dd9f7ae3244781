package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spigell/hire-pipeline/internal/ai"
	"github.com/spigell/hire-pipeline/internal/ai/gemini"
	"github.com/spigell/hire-pipeline/internal/secrets"
	"github.com/spigell/hire-pipeline/internal/view"
	"go.uber.org/zap"
)

var briefCmd = &cobra.Command{
	Use:   "brief <candidate-id>",
	Short: "Ask the AI provider for a hiring brief of a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBrief(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(briefCmd)
}

func runBrief(cmd *cobra.Command, rawID string) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()

	id, err := parseID("candidate", rawID)
	if err != nil {
		logger.Fatal("parsing arguments", zap.Error(err))
	}

	if config.AI == nil || !config.AI.Enabled {
		logger.Fatal("ai is disabled", zap.String("hint", "set ai.enabled to true in the configuration file"))
	}

	briefer, err := newBriefer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai briefer", zap.Error(err))
	}

	client := mustClient(config, logger)
	candidate := view.NewCandidate(id, newAggregator(client, config, logger), logger)
	defer candidate.Close()

	state, err := candidate.Refresh(ctx)
	if err != nil {
		logger.Fatal("loading candidate", zap.Int64("candidate_id", id), zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	brief, err := briefer.Brief(ctx, state.Dossier, state.Status)
	if err != nil {
		logger.Fatal("writing brief", zap.Error(err))
	}

	renderBrief(cmd.OutOrStdout(), state, brief)
}

func newBriefer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Briefer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   cfg.Gemini.APIKeyEnv,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, logger, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries)
	if err != nil {
		return nil, err
	}

	return gemini.NewBriefer(generator, logger, cfg.Gemini.MaxLogLength), nil
}

func renderBrief(w io.Writer, state *view.State, brief *ai.Brief) {
	fmt.Fprintf(w, "Status:         %s\n", state.Status.Label())
	fmt.Fprintf(w, "Recommendation: %s (confidence %.0f%%)\n\n", brief.Recommendation, brief.Confidence*100)
	if brief.Summary != "" {
		fmt.Fprintf(w, "%s\n", brief.Summary)
	}

	for _, section := range []struct {
		title string
		items []string
	}{
		{"Strengths", brief.Strengths},
		{"Risks", brief.Risks},
		{"Questions to ask", brief.Questions},
	} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", section.title)
		for _, item := range section.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}
