package recruiting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()

	backend := &fakeBackend{routes: make(map[string]func(http.ResponseWriter, *http.Request))}
	srv := httptest.NewServer(http.HandlerFunc(backend.serve))
	t.Cleanup(srv.Close)

	client := New(zaptest.NewLogger(t), srv.URL+"/", "secret")
	return backend, client
}

func (b *fakeBackend) handle(method, path string, fn func(w http.ResponseWriter, r *http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = fn
}

func (b *fakeBackend) json(method, path string, status int, body string) {
	b.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.RawQuery,
		auth:   r.Header.Get("Authorization"),
	}
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	fn, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	fn(w, r)
}

func (b *fakeBackend) calls(method, path string) []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	var result []recordedRequest
	for _, req := range b.requests {
		if req.method == method && req.path == path {
			result = append(result, req)
		}
	}
	return result
}

func TestClientSendsTokenHeader(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.json(http.MethodGet, "/api/candidates/7/", http.StatusOK, `{"id": 7, "name": "Ann", "status": "NEW"}`)

	candidate, err := client.GetCandidate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if candidate.Name != "Ann" || candidate.NormalizedStatus() != CandidateNew {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}

	calls := backend.calls(http.MethodGet, "/api/candidates/7/")
	if len(calls) != 1 {
		t.Fatalf("expected one call, got %d", len(calls))
	}
	if calls[0].auth != "Token secret" {
		t.Fatalf("expected token header, got %q", calls[0].auth)
	}
}

func TestGetItemsFollowsPagination(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.handle(http.MethodGet, "/api/interviews/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = io.WriteString(w, `{"count": 3, "next": null, "results": [{"id": 3, "candidate": 1, "status": "completed"}]}`)
			return
		}
		next := "http://" + r.Host + "/api/interviews/?page=2"
		_, _ = io.WriteString(w, `{"count": 3, "next": "`+next+`", "results": [
			{"id": 1, "candidate": {"id": 1, "name": "Ann"}, "status": "scheduled"},
			{"id": 2, "candidate": "2", "status": "Scheduled "}
		]}`)
	})

	interviews, err := client.ListInterviews(context.Background())
	if err != nil {
		t.Fatalf("ListInterviews: %v", err)
	}
	if interviews.Len() != 3 {
		t.Fatalf("expected 3 interviews, got %d", interviews.Len())
	}
	if got := interviews.ForCandidate(1); got.Len() != 2 {
		t.Fatalf("expected 2 interviews for candidate 1, got %d", got.Len())
	}
	if interviews[1].CandidateID() != 2 {
		t.Fatalf("expected numeric string reference to decode, got %d", interviews[1].CandidateID())
	}
	if !interviews[1].HasStatus(InterviewScheduled) {
		t.Fatalf("expected status comparison to ignore case and whitespace")
	}
	if first := interviews.FirstWithStatus(InterviewScheduled); first == nil || first.ID != 1 {
		t.Fatalf("expected first scheduled interview to be 1, got %+v", first)
	}
}

func TestGetItemsAcceptsBareArray(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.json(http.MethodGet, "/api/candidates/", http.StatusOK, `[{"id": 1, "status": "new"}, {"id": 2, "status": "HIRED"}]`)

	candidates, err := client.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].NormalizedStatus() != CandidateNew {
		t.Fatalf("expected normalized status NEW, got %q", candidates[0].NormalizedStatus())
	}
}

func TestAPIErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		target error
		detail string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail": "Invalid token."}`, target: ErrUnauthorized, detail: "Invalid token."},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message": "nope"}`, target: ErrUnauthorized, detail: "nope"},
		{name: "not found", status: http.StatusNotFound, body: `not json`, target: ErrNotFound, detail: "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend, client := newFakeBackend(t)
			backend.json(http.MethodGet, "/api/candidates/5/", tt.status, tt.body)

			_, err := client.GetCandidate(context.Background(), 5)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Detail != tt.detail {
				t.Fatalf("unexpected api error: %+v", apiErr)
			}
		})
	}
}

func TestUpdateCandidatePatchesFields(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.json(http.MethodPatch, "/api/candidates/4/", http.StatusOK, `{"id": 4, "status": "HIRED", "feedback": "great"}`)

	candidate, err := client.UpdateCandidate(context.Background(), 4, map[string]any{"status": CandidateHired, "feedback": "great"})
	if err != nil {
		t.Fatalf("UpdateCandidate: %v", err)
	}
	if candidate.Status != CandidateHired {
		t.Fatalf("expected HIRED, got %q", candidate.Status)
	}

	calls := backend.calls(http.MethodPatch, "/api/candidates/4/")
	if len(calls) != 1 || calls[0].body["status"] != CandidateHired {
		t.Fatalf("unexpected patch calls: %+v", calls)
	}
}

func TestDeleteInterviewAcceptsEmptyBody(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.handle(http.MethodDelete, "/api/interviews/9/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteInterview(context.Background(), 9); err != nil {
		t.Fatalf("DeleteInterview: %v", err)
	}
	if err := client.DeleteInterview(context.Background(), 0); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestUpdateSlotKeepsUnknownFields(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.json(http.MethodGet, "/api/interviews/slots/3/", http.StatusOK,
		`{"id": 3, "start_time": "09:00:00", "end_time": "09:30:00", "status": "available", "current_bookings": 0, "max_candidates": 1, "company": 12}`)
	backend.handle(http.MethodPut, "/api/interviews/slots/3/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": 3, "status": "booked", "current_bookings": 1, "max_candidates": 1}`)
	})

	slot, err := client.GetSlot(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}

	updated, err := client.UpdateSlot(context.Background(), slot.Booked())
	if err != nil {
		t.Fatalf("UpdateSlot: %v", err)
	}
	if updated.Status != SlotBooked {
		t.Fatalf("expected booked slot, got %q", updated.Status)
	}

	calls := backend.calls(http.MethodPut, "/api/interviews/slots/3/")
	if len(calls) != 1 {
		t.Fatalf("expected one PUT, got %d", len(calls))
	}
	body := calls[0].body
	if body["company"] != float64(12) {
		t.Fatalf("expected unknown field to survive, got %v", body["company"])
	}
	if body["current_bookings"] != float64(1) || body["status"] != SlotBooked {
		t.Fatalf("unexpected slot payload: %v", body)
	}
}

func TestListQuestionsUsesSessionQuery(t *testing.T) {
	t.Parallel()

	backend, client := newFakeBackend(t)
	backend.json(http.MethodGet, "/api/ai-interview/questions/", http.StatusOK, `{"results": [{"id": 1, "question_text": "Why Go?", "question_index": 0}]}`)

	questions, err := client.ListQuestions(context.Background(), "abc-1")
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].QuestionText != "Why Go?" {
		t.Fatalf("unexpected questions: %+v", questions)
	}

	calls := backend.calls(http.MethodGet, "/api/ai-interview/questions/")
	if len(calls) != 1 || !strings.Contains(calls[0].query, "session_id=abc-1") {
		t.Fatalf("expected session query, got %+v", calls)
	}
}
