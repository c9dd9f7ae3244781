package pipeline

// Action is a user-triggered transition of the pipeline.
type Action string

const (
	ActionNone              Action = ""
	ActionScheduleInterview Action = "schedule_interview"
	ActionCompleteInterview Action = "complete_interview"
	ActionManualEvaluate    Action = "manual_evaluate"
	ActionHireReject        Action = "hire_reject"
)

var nextActions = map[Status]Action{
	StatusNew:                ActionScheduleInterview,
	StatusInterviewScheduled: ActionCompleteInterview,
	StatusInterviewCompleted: ActionManualEvaluate,
	StatusAIEvaluated:        ActionManualEvaluate,
	StatusManualEvaluated:    ActionHireReject,
	StatusAIManualEvaluated:  ActionHireReject,
}

var actionTargets = map[Action]Stage{
	ActionScheduleInterview: StageInterviewScheduled,
	ActionCompleteInterview: StageInterviewCompleted,
	ActionManualEvaluate:    StageManualEvaluated,
	ActionHireReject:        StageHire,
}

// NextAction returns the single action permitted from status, ActionNone when there is none.
func NextAction(status Status) Action {
	return nextActions[status]
}

// ParseAction accepts the action names used on the wire.
func ParseAction(value string) (Action, bool) {
	action := Action(value)
	_, ok := actionTargets[action]
	return action, ok
}

// Target is the stepper stage an action moves the candidate to.
func (a Action) Target() (Stage, bool) {
	stage, ok := actionTargets[a]
	return stage, ok
}

func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	return string(a)
}
