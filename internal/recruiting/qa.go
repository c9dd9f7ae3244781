package recruiting

import (
	"context"
	"net/url"
	"strings"
)

const NoAnswer = "No answer provided"

type Question struct {
	ID            int64  `json:"id"`
	QuestionText  string `json:"question_text"`
	QuestionType  string `json:"question_type,omitempty"`
	QuestionIndex int    `json:"question_index"`
}

type Response struct {
	ID              int64  `json:"id"`
	Question        Ref    `json:"question"`
	ResponseText    string `json:"response_text,omitempty"`
	TranscribedText string `json:"transcribed_text,omitempty"`
	SubmittedAt     string `json:"response_submitted_at,omitempty"`
}

// QAPair is a question of an AI interview with the answer given to it.
type QAPair struct {
	Question      string `json:"question"`
	QuestionType  string `json:"question_type,omitempty"`
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
	ResponseTime  string `json:"response_time,omitempty"`
}

// Answer prefers the typed text over the transcription.
func (r *Response) Answer() string {
	if r == nil {
		return NoAnswer
	}
	if text := strings.TrimSpace(r.ResponseText); text != "" {
		return r.ResponseText
	}
	if text := strings.TrimSpace(r.TranscribedText); text != "" {
		return r.TranscribedText
	}
	return NoAnswer
}

func (c *Client) ListQuestions(ctx context.Context, session string) ([]*Question, error) {
	items, err := c.GetItems(ctx, questionsPath, sessionQuery(session))
	if err != nil {
		return nil, err
	}

	return decodeItems[Question](items)
}

func (c *Client) ListResponses(ctx context.Context, session string) ([]*Response, error) {
	items, err := c.GetItems(ctx, responsesPath, sessionQuery(session))
	if err != nil {
		return nil, err
	}

	return decodeItems[Response](items)
}

func sessionQuery(session string) url.Values {
	q := url.Values{}
	q.Set("session_id", session)
	return q
}

// PairQA matches every question with the first response pointing at it. Question order is kept.
func PairQA(questions []*Question, responses []*Response) []QAPair {
	byQuestion := make(map[int64]*Response, len(responses))
	for _, response := range responses {
		if response == nil {
			continue
		}
		if _, ok := byQuestion[int64(response.Question)]; !ok {
			byQuestion[int64(response.Question)] = response
		}
	}

	pairs := make([]QAPair, 0, len(questions))
	for _, question := range questions {
		if question == nil {
			continue
		}

		pair := QAPair{
			Question:      question.QuestionText,
			QuestionType:  question.QuestionType,
			QuestionIndex: question.QuestionIndex,
			Answer:        NoAnswer,
		}
		if response, ok := byQuestion[question.ID]; ok {
			pair.Answer = response.Answer()
			pair.ResponseTime = response.SubmittedAt
		}

		pairs = append(pairs, pair)
	}

	return pairs
}
