package recruiting

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeAIResultTextColumns(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"id":                  float64(5),
		"candidate":           map[string]any{"id": float64(2), "name": "Ann"},
		"status":              "completed",
		"interview_round":     "2",
		"ai_result": map[string]any{
			"session_id":     float64(44),
			"total_score":    "7.5",
			"strengths":      `["go", "sql"]`,
			"weaknesses":     "not a json list",
			"coding_details": `[{"question_text": "reverse a list"}]`,
		},
	}

	var interview Interview
	if err := decode(raw, &interview); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if interview.CandidateID() != 2 {
		t.Fatalf("expected candidate 2, got %d", interview.CandidateID())
	}
	if interview.InterviewRound != 2 {
		t.Fatalf("expected round 2, got %d", interview.InterviewRound)
	}
	result := interview.AIResult
	if result == nil {
		t.Fatalf("expected ai result")
	}
	if result.SessionKey() != "44" {
		t.Fatalf("expected session key 44, got %q", result.SessionKey())
	}
	if result.TotalScore != 7.5 {
		t.Fatalf("expected total score 7.5, got %v", result.TotalScore)
	}
	if len(result.Strengths) != 2 || result.Strengths[1] != "sql" {
		t.Fatalf("unexpected strengths: %v", result.Strengths)
	}
	if len(result.Weaknesses) != 0 {
		t.Fatalf("expected unparsable text to decode empty, got %v", result.Weaknesses)
	}
	if len(result.CodingDetails) != 1 || result.CodingDetails[0]["question_text"] != "reverse a list" {
		t.Fatalf("unexpected coding details: %v", result.CodingDetails)
	}
}

func TestDecodeItemsToleratesMalformedAIFields(t *testing.T) {
	t.Parallel()

	items := []Item{
		map[string]any{
			"id": float64(1), "candidate": float64(1), "status": "completed",
			"ai_result": map[string]any{
				"strengths":   []any{map[string]any{"text": "go"}, "sql"},
				"total_score": map[string]any{"value": float64(7)},
			},
		},
		map[string]any{
			"id": float64(2), "candidate": float64(1), "status": "completed",
			"ai_result": map[string]any{
				"hire_recommendation": "N/A",
				"technical_score":     "n/a",
				"questions_attempted": "3.0",
				"ai_summary":          map[string]any{"text": "solid"},
			},
		},
		map[string]any{
			"id": float64(3), "candidate": float64(1), "status": "scheduled",
			"ai_result":    "pending",
			"slot_details": float64(9),
		},
		map[string]any{
			"id": float64(4), "candidate": float64(1), "status": "completed",
			"ai_result": `{"hire_recommendation": "true", "total_score": 8}`,
		},
	}

	interviews, err := decodeItems[Interview](items)
	if err != nil {
		t.Fatalf("decodeItems: %v", err)
	}
	if len(interviews) != 4 {
		t.Fatalf("expected 4 interviews, got %d", len(interviews))
	}

	first := interviews[0].AIResult
	if first == nil || len(first.Strengths) != 2 {
		t.Fatalf("expected both strengths kept, got %+v", first)
	}
	if first.Strengths[0] != `{"text":"go"}` || first.Strengths[1] != "sql" {
		t.Fatalf("unexpected strengths: %q", first.Strengths)
	}
	if first.TotalScore != 0 {
		t.Fatalf("expected malformed score to decode as 0, got %v", first.TotalScore)
	}

	second := interviews[1].AIResult
	if second == nil {
		t.Fatalf("expected ai result on second interview")
	}
	if second.HireRecommendation {
		t.Fatalf("expected N/A recommendation to decode as false")
	}
	if second.TechnicalScore != 0 || second.QuestionsAttempted != 3 {
		t.Fatalf("unexpected scores: technical=%v attempted=%d", second.TechnicalScore, second.QuestionsAttempted)
	}
	if second.AISummary != `{"text":"solid"}` {
		t.Fatalf("unexpected summary: %q", second.AISummary)
	}

	if interviews[2].HasAIResult() || interviews[2].SlotDetails != nil {
		t.Fatalf("expected non-object values to be dropped, got %+v", interviews[2])
	}

	fourth := interviews[3].AIResult
	if fourth == nil || !fourth.HireRecommendation || fourth.TotalScore != 8 {
		t.Fatalf("expected ai result parsed from text, got %+v", fourth)
	}
}

func TestSessionKeyFallsBackToSession(t *testing.T) {
	t.Parallel()

	result := &AIResult{Session: "s-1"}
	if result.SessionKey() != "s-1" {
		t.Fatalf("expected fallback to session, got %q", result.SessionKey())
	}

	var missing *AIResult
	if missing.SessionKey() != "" {
		t.Fatalf("expected empty key for nil result")
	}
}

func TestPairQA(t *testing.T) {
	t.Parallel()

	questions := []*Question{
		{ID: 1, QuestionText: "first", QuestionIndex: 0},
		{ID: 2, QuestionText: "second", QuestionIndex: 1, QuestionType: "coding"},
		{ID: 3, QuestionText: "third", QuestionIndex: 2},
	}
	responses := []*Response{
		{ID: 10, Question: 2, TranscribedText: "spoken", SubmittedAt: "2025-01-01T10:00:00Z"},
		{ID: 11, Question: 1, ResponseText: "typed", TranscribedText: "ignored"},
		{ID: 12, Question: 1, ResponseText: "later duplicate"},
	}

	pairs := PairQA(questions, responses)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}

	if pairs[0].Answer != "typed" {
		t.Fatalf("expected typed answer first, got %q", pairs[0].Answer)
	}
	if pairs[1].Answer != "spoken" || pairs[1].ResponseTime == "" || pairs[1].QuestionType != "coding" {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
	if pairs[2].Answer != NoAnswer || pairs[2].ResponseTime != "" {
		t.Fatalf("expected unanswered question, got %+v", pairs[2])
	}
}

func TestSlotBooking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		slot       Slot
		wantCount  int
		wantStatus string
	}{
		{name: "single seat", slot: Slot{CurrentBookings: 0, MaxCandidates: 1, Status: SlotAvailable}, wantCount: 1, wantStatus: SlotBooked},
		{name: "missing capacity", slot: Slot{Status: SlotAvailable}, wantCount: 1, wantStatus: SlotBooked},
		{name: "room left", slot: Slot{CurrentBookings: 1, MaxCandidates: 4, Status: SlotAvailable}, wantCount: 2, wantStatus: SlotAvailable},
		{name: "last seat", slot: Slot{CurrentBookings: 3, MaxCandidates: 4, Status: SlotAvailable}, wantCount: 4, wantStatus: SlotBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			booked := tt.slot.Booked()
			if booked.CurrentBookings != tt.wantCount || booked.Status != tt.wantStatus {
				t.Fatalf("expected %d/%s, got %d/%s", tt.wantCount, tt.wantStatus, booked.CurrentBookings, booked.Status)
			}
		})
	}
}

func TestSlotRelease(t *testing.T) {
	t.Parallel()

	slot := &Slot{CurrentBookings: 0, MaxCandidates: 1, Status: SlotBooked}
	released := slot.Released()
	if released.CurrentBookings != 0 {
		t.Fatalf("expected bookings floored at zero, got %d", released.CurrentBookings)
	}
	if released.Status != SlotAvailable {
		t.Fatalf("expected available, got %q", released.Status)
	}
	if slot.Status != SlotBooked {
		t.Fatalf("expected original slot untouched")
	}
}

func TestFindSlotByClock(t *testing.T) {
	t.Parallel()

	slots := []*Slot{
		{ID: 1, StartTime: "09:00:00", EndTime: "09:30:00"},
		{ID: 2, StartTime: "10:00:00", EndTime: "10:30:00"},
	}

	if got := FindSlotByClock(slots, "2025-03-01T10:00:00", "10:30"); got == nil || got.ID != 2 {
		t.Fatalf("expected slot 2, got %+v", got)
	}
	if got := FindSlotByClock(slots, "11:00", "11:30"); got != nil {
		t.Fatalf("expected no slot, got %+v", got)
	}
}

func TestGradeFor(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		10:  GradeExcellent,
		8:   GradeExcellent,
		7.9: GradeGood,
		6:   GradeGood,
		4:   GradeFair,
		3.9: GradePoor,
		0:   GradePoor,
	}

	for score, want := range tests {
		if got := GradeFor(score); got != want {
			t.Fatalf("score %v: expected %s, got %s", score, want, got)
		}
	}
}

func TestAnalyticsCSV(t *testing.T) {
	t.Parallel()

	summary := &AnalyticsSummary{
		TotalCandidates:    10,
		TotalInterviews:    6,
		HiredCandidates:    2,
		RejectedCandidates: 3,
		TopAgencies: []*AgencyStats{
			{AgencyName: "Acme, Inc", RecruiterName: "Bo", UploadedProfiles: 5, SelectedProfiles: 2, RejectedProfiles: 1, SelectionRate: 40},
		},
		AllAgencies: []*AgencyStats{
			{AgencyName: "Acme, Inc", RecruiterName: "Bo", UploadedProfiles: 5, SelectedProfiles: 2, RejectedProfiles: 1, InterviewsScheduled: 3, SelectionRate: 33.333},
		},
	}

	var buf bytes.Buffer
	if err := summary.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Total Candidates,10\n",
		"Rejected Candidates,3\n",
		`1,"Acme, Inc",Bo,5,2,1,40.0%`,
		`"Acme, Inc",Bo,5,2,1,3,0,0,33.3%`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in csv:\n%s", want, out)
		}
	}

	if summary.InProgress() != 5 {
		t.Fatalf("expected 5 in progress, got %d", summary.InProgress())
	}
}

func TestSortAgencies(t *testing.T) {
	t.Parallel()

	agencies := []*AgencyStats{
		{AgencyName: "b", SelectionRate: 10},
		nil,
		{AgencyName: "A", SelectionRate: 50},
		{AgencyName: "c", SelectionRate: 30},
	}

	sorted, err := SortAgencies(agencies, "selection_rate", true)
	if err != nil {
		t.Fatalf("SortAgencies: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("expected null entries to be dropped, got %d agencies", len(sorted))
	}
	if sorted[0].AgencyName != "A" || sorted[2].AgencyName != "b" {
		t.Fatalf("unexpected order: %s %s %s", sorted[0].AgencyName, sorted[1].AgencyName, sorted[2].AgencyName)
	}

	sorted, err = SortAgencies(agencies, "agency_name", false)
	if err != nil {
		t.Fatalf("SortAgencies: %v", err)
	}
	if sorted[0].AgencyName != "A" || sorted[1].AgencyName != "b" {
		t.Fatalf("expected case-insensitive name order")
	}

	if _, err := SortAgencies(agencies, "bogus", false); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
