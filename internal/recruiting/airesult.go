package recruiting

import (
	"strings"
)

// AIResult is the automated interview outcome embedded in an interview.
type AIResult struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id,omitempty"`
	Session   string `json:"session,omitempty"`

	TechnicalScore      float64 `json:"technical_score"`
	BehavioralScore     float64 `json:"behavioral_score"`
	CodingScore         float64 `json:"coding_score"`
	CommunicationScore  float64 `json:"communication_score"`
	ProblemSolvingScore float64 `json:"problem_solving_score"`
	TotalScore          float64 `json:"total_score"`

	OverallRating      string   `json:"overall_rating,omitempty"`
	HireRecommendation bool     `json:"hire_recommendation"`
	AISummary          string   `json:"ai_summary,omitempty"`
	AIRecommendations  string   `json:"ai_recommendations,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
	Weaknesses         []string `json:"weaknesses,omitempty"`

	CodingDetails       []map[string]any `json:"coding_details,omitempty"`
	QuestionsAttempted  int              `json:"questions_attempted"`
	QuestionsCorrect    int              `json:"questions_correct"`
	AverageResponseTime float64          `json:"average_response_time"`
	CompletionTime      string           `json:"completion_time,omitempty"`

	RecordingVideo     string `json:"recording_video,omitempty"`
	RecordingCreatedAt string `json:"recording_created_at,omitempty"`
}

// SessionKey is the id the Q&A endpoints are queried with. session_id wins over session.
func (r *AIResult) SessionKey() string {
	if r == nil {
		return ""
	}
	if key := strings.TrimSpace(r.SessionID); key != "" {
		return key
	}
	return strings.TrimSpace(r.Session)
}

// Rating returns the overall rating upper-cased, PENDING when absent.
func (r *AIResult) Rating() string {
	if r == nil || strings.TrimSpace(r.OverallRating) == "" {
		return "PENDING"
	}
	return strings.ToUpper(strings.TrimSpace(r.OverallRating))
}
