package recruiting

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
)

type Interviews []*Interview

type Interview struct {
	ID              int64         `json:"id"`
	Candidate       Ref           `json:"candidate"`
	CandidateObject *CandidateRef `json:"candidate_object,omitempty"`
	Job             Ref           `json:"job,omitempty"`
	Slot            Ref           `json:"slot,omitempty"`
	Status          string        `json:"status"`
	InterviewRound  int           `json:"interview_round"`
	StartedAt       string        `json:"started_at,omitempty"`
	EndedAt         string        `json:"ended_at,omitempty"`
	Feedback        string        `json:"feedback,omitempty"`
	AIResult        *AIResult     `json:"ai_result,omitempty"`

	// Filled in by the aggregator from the slots, evaluations and Q&A endpoints.
	SlotDetails *Slot       `json:"slot_details,omitempty"`
	Evaluation  *Evaluation `json:"evaluation,omitempty"`
	QA          []QAPair    `json:"qa,omitempty"`
}

type CandidateRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// InterviewInput is the body used to create an interview.
type InterviewInput struct {
	Candidate int64  `json:"candidate"`
	Job       *int64 `json:"job"`
	Slot      int64  `json:"slot,omitempty"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at"`
	Feedback  string `json:"feedback"`
}

// CandidateID returns the owning candidate, whichever way the backend rendered it.
func (i *Interview) CandidateID() int64 {
	if i.Candidate != 0 {
		return int64(i.Candidate)
	}
	if i.CandidateObject != nil {
		return i.CandidateObject.ID
	}
	return 0
}

// HasStatus compares the interview status ignoring case and surrounding whitespace.
func (i *Interview) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Status), status)
}

func (i *Interview) HasAIResult() bool {
	return i != nil && i.AIResult != nil
}

func (i *Interview) HasEvaluation() bool {
	return i != nil && i.Evaluation != nil
}

func (is Interviews) Len() int {
	return len(is)
}

// ForCandidate keeps the interviews of one candidate in server order.
func (is Interviews) ForCandidate(id int64) Interviews {
	result := make(Interviews, 0)
	for _, interview := range is {
		if interview == nil {
			continue
		}
		if interview.Candidate == Ref(id) || (interview.CandidateObject != nil && interview.CandidateObject.ID == id) {
			result = append(result, interview)
		}
	}
	return result
}

func (is Interviews) FindByID(id int64) *Interview {
	for _, interview := range is {
		if interview != nil && interview.ID == id {
			return interview
		}
	}
	return nil
}

// FirstWithStatus returns the first interview in server order with the given status.
func (is Interviews) FirstWithStatus(status string) *Interview {
	for _, interview := range is {
		if interview != nil && interview.HasStatus(status) {
			return interview
		}
	}
	return nil
}

// Latest returns the last interview of the server ordered list.
func (is Interviews) Latest() *Interview {
	if len(is) == 0 {
		return nil
	}
	return is[len(is)-1]
}

func (c *Client) ListInterviews(ctx context.Context) (Interviews, error) {
	items, err := c.GetItems(ctx, interviewsPath, nil)
	if err != nil {
		return nil, err
	}

	interviews, err := decodeItems[Interview](items)
	if err != nil {
		return nil, err
	}

	return Interviews(interviews), nil
}

func (c *Client) CreateInterview(ctx context.Context, input *InterviewInput) (*Interview, error) {
	if input == nil || input.Candidate <= 0 {
		return nil, fmt.Errorf("candidate is required to create an interview")
	}

	var interview Interview
	if err := c.send(ctx, http.MethodPost, interviewsPath, input, &interview); err != nil {
		return nil, err
	}

	return &interview, nil
}

func (c *Client) UpdateInterview(ctx context.Context, id int64, fields map[string]any) (*Interview, error) {
	if id <= 0 {
		return nil, fmt.Errorf("interview id is required")
	}

	var interview Interview
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", interviewsPath, id), fields, &interview); err != nil {
		return nil, err
	}

	return &interview, nil
}

func (c *Client) DeleteInterview(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("interview id is required")
	}

	return c.send(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", interviewsPath, id), nil, nil)
}
