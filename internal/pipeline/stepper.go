package pipeline

import (
	"github.com/spigell/hire-pipeline/internal/recruiting"
)

// Stage is one fixed step of the progress stepper.
type Stage string

const (
	StageNew                Stage = "NEW"
	StageInterviewScheduled Stage = "INTERVIEW_SCHEDULED"
	StageInterviewCompleted Stage = "INTERVIEW_COMPLETED"
	StageAIEvaluated        Stage = "AI_EVALUATED"
	StageManualEvaluated    Stage = "MANUAL_EVALUATED"
	StageHire               Stage = "HIRE"
)

var stages = [...]struct {
	stage Stage
	label string
}{
	{StageNew, "New"},
	{StageInterviewScheduled, "Schedule Interview"},
	{StageInterviewCompleted, "Interview Completed"},
	{StageAIEvaluated, "AI Evaluated"},
	{StageManualEvaluated, "Manual Evaluated"},
	{StageHire, "Hire"},
}

// Stages returns the stepper stages in display order.
func Stages() []Stage {
	result := make([]Stage, len(stages))
	for idx, s := range stages {
		result[idx] = s.stage
	}
	return result
}

func stageIndex(stage Stage) int {
	for idx, s := range stages {
		if s.stage == stage {
			return idx
		}
	}
	return -1
}

// StepView is the state of one stepper step.
type StepView struct {
	Stage       Stage  `json:"stage"`
	Label       string `json:"label"`
	Completed   bool   `json:"completed"`
	Current     bool   `json:"current"`
	Recommended bool   `json:"recommended"`
	Clickable   bool   `json:"clickable"`
}

// Action returns what clicking the step does. A completed NEW step starts over with scheduling.
func (v StepView) Action() Action {
	switch v.Stage {
	case StageInterviewScheduled:
		return ActionScheduleInterview
	case StageInterviewCompleted:
		return ActionCompleteInterview
	case StageManualEvaluated:
		return ActionManualEvaluate
	case StageHire:
		return ActionHireReject
	case StageNew:
		if v.Completed {
			return NextAction(StatusNew)
		}
	}
	return ActionNone
}

// StepAction finds the clickable step that performs action.
func StepAction(steps []StepView, action Action) (StepView, bool) {
	for _, step := range steps {
		if step.Clickable && step.Action() == action {
			return step, true
		}
	}
	return StepView{}, false
}

// EffectiveIndex places status on the stepper. AI_MANUAL_EVALUATED sits on MANUAL_EVALUATED,
// terminal statuses sit on HIRE and anything else off the stepper yields -1.
func EffectiveIndex(status Status) int {
	switch status {
	case StatusAIManualEvaluated:
		return stageIndex(StageManualEvaluated)
	case StatusHired, StatusRejected:
		return len(stages) - 1
	default:
		return stageIndex(Stage(status))
	}
}

// evidence is what the interviews prove regardless of the derived status.
type evidence struct {
	scheduled bool
	completed bool
	ai        bool
	manual    bool
}

func collectEvidence(interviews []*recruiting.Interview) evidence {
	var ev evidence
	for _, interview := range interviews {
		if interview == nil {
			continue
		}
		ev.scheduled = ev.scheduled || interview.HasStatus(recruiting.InterviewScheduled)
		ev.completed = ev.completed || interview.HasStatus(recruiting.InterviewCompleted)
		ev.ai = ev.ai || interview.HasAIResult()
		ev.manual = ev.manual || interview.HasEvaluation()
	}
	return ev
}

// projection carries the inputs shared by every step.
type projection struct {
	status   Status
	index    int
	target   Stage
	evidence evidence
}

type stepRule func(p projection, i int, v *StepView)

var stepRules = map[Stage]stepRule{
	StageInterviewCompleted: interviewCompletedRule,
	StageInterviewScheduled: interviewScheduledRule,
	StageAIEvaluated:        aiEvaluatedRule,
	StageManualEvaluated:    manualEvaluatedRule,
	StageHire:               hireRule,
}

// Project maps a status and the interview evidence onto the fixed stepper stages.
func Project(status Status, interviews []*recruiting.Interview, next Action) []StepView {
	p := projection{
		status:   status,
		index:    EffectiveIndex(status),
		evidence: collectEvidence(interviews),
	}
	p.target, _ = next.Target()

	views := make([]StepView, len(stages))
	for i, s := range stages {
		v := StepView{
			Stage:     s.stage,
			Label:     s.label,
			Completed: i < p.index,
			Current:   i == p.index,
		}

		if rule, ok := stepRules[s.stage]; ok {
			rule(p, i, &v)
		} else {
			v.Clickable = p.target == s.stage || v.Completed
		}

		v.Recommended = v.Clickable && !v.Completed && !v.Current
		views[i] = v
	}

	return views
}

func interviewCompletedRule(p projection, i int, v *StepView) {
	if p.evidence.completed && i <= p.index {
		v.Completed = true
		v.Current = false
	}
	v.Clickable = p.target == v.Stage || v.Completed
}

func interviewScheduledRule(p projection, i int, v *StepView) {
	if p.evidence.scheduled && i < p.index {
		v.Completed = true
		v.Current = false
	}
	v.Clickable = p.target == v.Stage || v.Completed
}

// aiEvaluatedRule never makes the step clickable: AI results arrive from the interview system.
func aiEvaluatedRule(p projection, i int, v *StepView) {
	switch {
	case p.evidence.ai && (p.index >= i || p.status == StatusAIManualEvaluated):
		v.Completed = true
		v.Current = false
	case !p.evidence.ai && p.index > i:
		v.Completed = false
	}
	v.Clickable = false
}

func manualEvaluatedRule(p projection, i int, v *StepView) {
	switch {
	case p.status == StatusAIManualEvaluated:
		v.Completed = false
		v.Current = true
	case p.evidence.manual && i < p.index:
		v.Completed = true
		v.Current = false
	case p.evidence.manual && i == p.index:
		v.Completed = false
		v.Current = true
	}

	if v.Current {
		v.Clickable = false
		return
	}
	v.Clickable = p.target == v.Stage || v.Completed
}

func hireRule(p projection, _ int, v *StepView) {
	if p.status.IsTerminal() {
		v.Label = p.status.Label()
		v.Completed = true
		v.Current = true
		v.Clickable = false
		return
	}

	manualDone := p.index >= stageIndex(StageManualEvaluated) || p.status == StatusAIManualEvaluated
	v.Completed = false
	v.Current = false
	v.Clickable = p.target == StageHire && manualDone
}
