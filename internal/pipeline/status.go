// Package pipeline derives where a candidate stands in the hiring pipeline and
// projects that position onto the progress stepper. Every function here is pure.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/spigell/hire-pipeline/internal/recruiting"
)

// Status is the derived pipeline position of a candidate. It is never stored.
type Status string

const (
	StatusNew                Status = "NEW"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewCompleted Status = "INTERVIEW_COMPLETED"
	StatusAIEvaluated        Status = "AI_EVALUATED"
	StatusManualEvaluated    Status = "MANUAL_EVALUATED"
	StatusAIManualEvaluated  Status = "AI_MANUAL_EVALUATED"
	StatusHired              Status = "HIRED"
	StatusRejected           Status = "REJECTED"
)

var statusLabels = map[Status]string{
	StatusNew:                "New",
	StatusInterviewScheduled: "Interview Scheduled",
	StatusInterviewCompleted: "Interview Completed",
	StatusAIEvaluated:        "AI Evaluated",
	StatusManualEvaluated:    "Manual Evaluated",
	StatusAIManualEvaluated:  "AI & Manual Evaluated",
	StatusHired:              "Hired",
	StatusRejected:           "Rejected",
}

// Statuses lists every status in pipeline order, terminal ones last.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusInterviewScheduled,
		StatusInterviewCompleted,
		StatusAIEvaluated,
		StatusManualEvaluated,
		StatusAIManualEvaluated,
		StatusHired,
		StatusRejected,
	}
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := statusLabels[status]; !ok {
		return "", fmt.Errorf("unknown pipeline status %q", value)
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether a hire decision has been recorded.
func (s Status) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// Derivation is a derived status together with how it was reached.
type Derivation struct {
	Status Status `json:"status"`
	// Fallback is set when the latest interview carries a status outside scheduled/completed
	// and the candidate was therefore placed at NEW.
	Fallback bool `json:"fallback,omitempty"`
	// RawStatus is the unrecognized interview status behind a fallback.
	RawStatus string `json:"raw_status,omitempty"`
}

// Derive maps a candidate and its server-ordered interviews to one pipeline status.
func Derive(candidate *recruiting.Candidate, interviews []*recruiting.Interview) Status {
	return Explain(candidate, interviews).Status
}

// Explain is Derive that also reports an unrecognized interview status.
func Explain(candidate *recruiting.Candidate, interviews []*recruiting.Interview) Derivation {
	switch candidate.NormalizedStatus() {
	case recruiting.CandidateHired:
		return Derivation{Status: StatusHired}
	case recruiting.CandidateRejected:
		return Derivation{Status: StatusRejected}
	}

	var latest *recruiting.Interview
	var hasAI, hasManual bool
	for _, interview := range interviews {
		if interview == nil {
			continue
		}
		latest = interview
		hasAI = hasAI || interview.HasAIResult()
		hasManual = hasManual || interview.HasEvaluation()
	}

	switch {
	case latest == nil:
		return Derivation{Status: StatusNew}
	case hasManual && hasAI:
		return Derivation{Status: StatusAIManualEvaluated}
	case hasManual:
		return Derivation{Status: StatusManualEvaluated}
	case hasAI:
		return Derivation{Status: StatusAIEvaluated}
	case latest.HasStatus(recruiting.InterviewCompleted):
		return Derivation{Status: StatusInterviewCompleted}
	case latest.HasStatus(recruiting.InterviewScheduled):
		return Derivation{Status: StatusInterviewScheduled}
	default:
		return Derivation{Status: StatusNew, Fallback: true, RawStatus: latest.Status}
	}
}
