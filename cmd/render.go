package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/hire-pipeline/internal/filtering"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"github.com/spigell/hire-pipeline/internal/view"
)

func renderState(w io.Writer, state *view.State, withQA bool) {
	candidate := state.Dossier.Candidate
	if candidate != nil {
		fmt.Fprintf(w, "Candidate:   %s (#%d)", candidate.Name, candidate.ID)
		if candidate.Email != "" {
			fmt.Fprintf(w, " <%s>", candidate.Email)
		}
		fmt.Fprintln(w)
		if candidate.JobRole != "" {
			fmt.Fprintf(w, "Role:        %s\n", candidate.JobRole)
		}
	}

	fmt.Fprintf(w, "Status:      %s (%s)\n", state.Status.Label(), state.Status)
	if state.Derivation.Fallback {
		fmt.Fprintf(w, "             latest interview status %q is unknown, shown as New\n", state.Derivation.RawStatus)
	}
	fmt.Fprintf(w, "Next action: %s\n\n", state.NextAction)

	renderSteps(w, state.Steps)
	fmt.Fprintln(w)
	renderInterviews(w, state.Dossier.Interviews, withQA)
}

func renderSteps(w io.Writer, steps []pipeline.StepView) {
	for i, step := range steps {
		mark := " "
		if step.Completed {
			mark = "x"
		}

		var notes []string
		if step.Current {
			notes = append(notes, "current")
		}
		if step.Recommended {
			notes = append(notes, "next")
		}
		if step.Clickable {
			notes = append(notes, "clickable")
		}

		line := fmt.Sprintf("%d. [%s] %s", i+1, mark, step.Label)
		if len(notes) > 0 {
			line += "  (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func renderInterviews(w io.Writer, interviews recruiting.Interviews, withQA bool) {
	if interviews.Len() == 0 {
		fmt.Fprintln(w, "No interviews yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROUND\tSTATUS\tWHEN\tAI\tEVALUATION")
	for _, interview := range interviews {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			interview.ID,
			interview.InterviewRound,
			interview.Status,
			interviewWindow(interview),
			aiSummary(interview.AIResult),
			evaluationSummary(interview.Evaluation),
		)
	}
	tw.Flush()

	if !withQA {
		return
	}

	for _, interview := range interviews {
		if len(interview.QA) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nInterview %d Q&A:\n", interview.ID)
		for i, pair := range interview.QA {
			fmt.Fprintf(w, "  Q%d: %s\n      %s\n", i+1, pair.Question, pair.Answer)
		}
	}
}

func interviewWindow(interview *recruiting.Interview) string {
	if slot := interview.SlotDetails; slot != nil {
		return fmt.Sprintf("%s %s-%s", slot.InterviewDate, slot.StartClock(), slot.EndClock())
	}
	if interview.StartedAt != "" {
		return interview.StartedAt
	}
	return "-"
}

func aiSummary(result *recruiting.AIResult) string {
	if result == nil {
		return "-"
	}
	verdict := "no hire"
	if result.HireRecommendation {
		verdict = "hire"
	}
	return fmt.Sprintf("%.0f %s, %s", result.TotalScore, result.Rating(), verdict)
}

func evaluationSummary(evaluation *recruiting.Evaluation) string {
	if evaluation == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f/10 %s", evaluation.OverallScore, evaluation.Grade())
}

func renderBoard(w io.Writer, entries *filtering.Entries) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tJOB\tSTATUS\tNEXT\tINTERVIEWS")
	for _, entry := range entries.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			entry.Candidate.ID,
			entry.Candidate.Name,
			jobLabel(entry.Candidate),
			entry.Status.Label(),
			entry.NextAction,
			entry.Interviews.Len(),
		)
	}
	tw.Flush()

	counts := entries.CountByStatus()
	parts := make([]string, 0, len(counts))
	for _, status := range pipeline.Statuses() {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", status.Label(), n))
		}
	}
	fmt.Fprintf(w, "\n%d candidates", entries.Len())
	if len(parts) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

func jobLabel(candidate *recruiting.Candidate) string {
	if candidate.JobRole != "" {
		return candidate.JobRole
	}
	if candidate.Job != 0 {
		return fmt.Sprintf("#%d", candidate.Job)
	}
	return "-"
}
