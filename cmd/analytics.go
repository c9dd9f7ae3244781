package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"go.uber.org/zap"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show hiring analytics or export them as CSV",
	Run: func(cmd *cobra.Command, _ []string) {
		runAnalytics(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)

	analyticsCmd.Flags().String("csv", "", "write the report to this CSV file, '-' for stdout")
	analyticsCmd.Flags().String("sort", "selection_rate", "sort all agencies by this column")
	analyticsCmd.Flags().Bool("asc", false, "sort ascending")
}

func runAnalytics(cmd *cobra.Command) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()
	client := mustClient(config, logger)

	summary, err := client.GetAnalyticsSummary(ctx)
	if err != nil {
		logger.Fatal("loading analytics", zap.Error(err), zap.String("hint", fatalHint(err)))
	}

	sortKey, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	sorted, err := recruiting.SortAgencies(summary.AllAgencies, sortKey, !asc)
	if err != nil {
		logger.Fatal("sorting agencies", zap.Error(err))
	}
	summary.AllAgencies = sorted

	path, _ := cmd.Flags().GetString("csv")
	switch path {
	case "":
		renderAnalytics(cmd.OutOrStdout(), summary)
	case "-":
		if err := summary.WriteCSV(cmd.OutOrStdout()); err != nil {
			logger.Fatal("writing csv", zap.Error(err))
		}
	default:
		if err := writeCSVFile(path, summary); err != nil {
			logger.Fatal("writing csv", zap.Error(err))
		}
		logger.Info("analytics report written", zap.String("filename", path))
	}
}

func writeCSVFile(path string, summary *recruiting.AnalyticsSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := summary.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderAnalytics(w io.Writer, summary *recruiting.AnalyticsSummary) {
	fmt.Fprintf(w, "Total candidates:    %d\n", summary.TotalCandidates)
	fmt.Fprintf(w, "Total interviews:    %d\n", summary.TotalInterviews)
	fmt.Fprintf(w, "Hired candidates:    %d\n", summary.HiredCandidates)
	fmt.Fprintf(w, "Rejected candidates: %d\n", summary.RejectedCandidates)
	fmt.Fprintf(w, "In progress:         %d\n", summary.InProgress())

	if len(summary.AllAgencies) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENCY\tRECRUITER\tUPLOADED\tSELECTED\tREJECTED\tINTERVIEWS\tRATE")
	for _, agency := range summary.AllAgencies {
		if agency == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			agency.AgencyName,
			agency.RecruiterName,
			agency.UploadedProfiles,
			agency.SelectedProfiles,
			agency.RejectedProfiles,
			agency.InterviewsScheduled,
			recruiting.FormatRate(agency.SelectionRate),
		)
	}
	tw.Flush()
}
