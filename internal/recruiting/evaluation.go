package recruiting

import (
	"context"
	"fmt"
	"net/http"
)

const (
	GradeExcellent = "EXCELLENT"
	GradeGood      = "GOOD"
	GradeFair      = "FAIR"
	GradePoor      = "POOR"
)

// Evaluation is the manual assessment attached to an interview.
type Evaluation struct {
	ID           int64   `json:"id"`
	Interview    Ref     `json:"interview"`
	OverallScore float64 `json:"overall_score"`
	Traits       string  `json:"traits"`
	Suggestions  string  `json:"suggestions,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// EvaluationInput is the body used to create or update an evaluation.
type EvaluationInput struct {
	Interview    int64   `json:"interview"`
	OverallScore float64 `json:"overall_score"`
	Traits       string  `json:"traits"`
	Suggestions  string  `json:"suggestions"`
}

// Grade maps the 0..10 score to a coarse label.
func (e *Evaluation) Grade() string {
	if e == nil {
		return ""
	}
	return GradeFor(e.OverallScore)
}

func GradeFor(score float64) string {
	switch {
	case score >= 8:
		return GradeExcellent
	case score >= 6:
		return GradeGood
	case score >= 4:
		return GradeFair
	default:
		return GradePoor
	}
}

func (c *Client) ListEvaluations(ctx context.Context) ([]*Evaluation, error) {
	items, err := c.GetItems(ctx, evaluationsPath, nil)
	if err != nil {
		return nil, err
	}

	return decodeItems[Evaluation](items)
}

func (c *Client) CreateEvaluation(ctx context.Context, input *EvaluationInput) (*Evaluation, error) {
	if input == nil || input.Interview <= 0 {
		return nil, fmt.Errorf("interview is required to create an evaluation")
	}

	var evaluation Evaluation
	if err := c.send(ctx, http.MethodPost, evaluationsPath, input, &evaluation); err != nil {
		return nil, err
	}

	return &evaluation, nil
}

func (c *Client) UpdateEvaluation(ctx context.Context, id int64, input *EvaluationInput) (*Evaluation, error) {
	if id <= 0 {
		return nil, fmt.Errorf("evaluation id is required")
	}
	if input == nil {
		return nil, fmt.Errorf("evaluation input is required")
	}

	var evaluation Evaluation
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", evaluationsPath, id), input, &evaluation); err != nil {
		return nil, err
	}

	return &evaluation, nil
}

// DeleteEvaluation removes an evaluation through the legacy evaluations endpoint.
func (c *Client) DeleteEvaluation(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("evaluation id is required")
	}

	return c.send(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", legacyEvaluationsPath, id), nil, nil)
}

// EvaluationsByInterview indexes evaluations by interview id. The first one wins on duplicates.
func EvaluationsByInterview(evaluations []*Evaluation) map[int64]*Evaluation {
	result := make(map[int64]*Evaluation, len(evaluations))
	for _, evaluation := range evaluations {
		if evaluation == nil || evaluation.Interview == 0 {
			continue
		}
		if _, ok := result[int64(evaluation.Interview)]; !ok {
			result[int64(evaluation.Interview)] = evaluation
		}
	}
	return result
}
