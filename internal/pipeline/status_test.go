package pipeline

import (
	"testing"

	"github.com/spigell/hire-pipeline/internal/recruiting"
)

func candidate(status string) *recruiting.Candidate {
	return &recruiting.Candidate{ID: 1, Status: status}
}

func interview(status string, ai, manual bool) *recruiting.Interview {
	i := &recruiting.Interview{ID: 10, Candidate: 1, Status: status}
	if ai {
		i.AIResult = &recruiting.AIResult{SessionID: "s"}
	}
	if manual {
		i.Evaluation = &recruiting.Evaluation{OverallScore: 7, Traits: "calm"}
	}
	return i
}

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidate  *recruiting.Candidate
		interviews []*recruiting.Interview
		want       Status
	}{
		{name: "hired without interviews", candidate: candidate("HIRED"), want: StatusHired},
		{name: "hired ignores evidence", candidate: candidate("HIRED"), interviews: []*recruiting.Interview{interview("scheduled", false, false)}, want: StatusHired},
		{name: "rejected lower case", candidate: candidate("rejected"), interviews: []*recruiting.Interview{interview("completed", true, true)}, want: StatusRejected},
		{name: "new without interviews", candidate: candidate("NEW"), want: StatusNew},
		{name: "scheduled", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("scheduled", false, false)}, want: StatusInterviewScheduled},
		{name: "completed", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("completed", false, false)}, want: StatusInterviewCompleted},
		{name: "completed mixed case", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview(" Completed", false, false)}, want: StatusInterviewCompleted},
		{name: "manual", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("completed", false, true)}, want: StatusManualEvaluated},
		{name: "ai", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("completed", true, false)}, want: StatusAIEvaluated},
		{name: "ai and manual", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("completed", true, true)}, want: StatusAIManualEvaluated},
		{
			name:      "evidence across interviews",
			candidate: candidate("NEW"),
			interviews: []*recruiting.Interview{
				interview("completed", true, false),
				interview("scheduled", false, true),
			},
			want: StatusAIManualEvaluated,
		},
		{
			name:      "latest interview wins",
			candidate: candidate("NEW"),
			interviews: []*recruiting.Interview{
				interview("completed", false, false),
				interview("scheduled", false, false),
			},
			want: StatusInterviewScheduled,
		},
		{name: "unknown interview status", candidate: candidate("NEW"), interviews: []*recruiting.Interview{interview("in_progress", false, false)}, want: StatusNew},
		{name: "nil candidate", candidate: nil, want: StatusNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Derive(tt.candidate, tt.interviews); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestExplainFlagsFallback(t *testing.T) {
	t.Parallel()

	d := Explain(candidate("NEW"), []*recruiting.Interview{interview("in_progress", false, false)})
	if !d.Fallback || d.RawStatus != "in_progress" {
		t.Fatalf("expected fallback with raw status, got %+v", d)
	}

	d = Explain(candidate("NEW"), nil)
	if d.Fallback {
		t.Fatalf("empty interview list is not a fallback")
	}

	d = Explain(candidate("NEW"), []*recruiting.Interview{interview("in_progress", true, false)})
	if d.Fallback || d.Status != StatusAIEvaluated {
		t.Fatalf("evidence must win over the unknown status, got %+v", d)
	}
}

func TestNextAction(t *testing.T) {
	t.Parallel()

	tests := map[Status]Action{
		StatusNew:                ActionScheduleInterview,
		StatusInterviewScheduled: ActionCompleteInterview,
		StatusInterviewCompleted: ActionManualEvaluate,
		StatusAIEvaluated:        ActionManualEvaluate,
		StatusManualEvaluated:    ActionHireReject,
		StatusAIManualEvaluated:  ActionHireReject,
		StatusHired:              ActionNone,
		StatusRejected:           ActionNone,
		Status("bogus"):          ActionNone,
	}

	for status, want := range tests {
		if got := NextAction(status); got != want {
			t.Fatalf("%s: expected %q, got %q", status, want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseStatus(" ai_manual_evaluated ")
	if err != nil || got != StatusAIManualEvaluated {
		t.Fatalf("expected AI_MANUAL_EVALUATED, got %q (%v)", got, err)
	}

	if _, err := ParseStatus("HIRE"); err == nil {
		t.Fatalf("expected error for a stage name that is not a status")
	}
}
