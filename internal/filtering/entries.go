package filtering

import (
	"strconv"

	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/recruiting"
)

// Entry is one candidate on the board with its derived pipeline position.
type Entry struct {
	Candidate  *recruiting.Candidate `json:"candidate"`
	Interviews recruiting.Interviews `json:"interviews"`
	Derivation pipeline.Derivation   `json:"derivation"`
	Status     pipeline.Status       `json:"status"`
	NextAction pipeline.Action       `json:"next_action"`
}

// HireRecommended reports whether any AI result recommends hiring the candidate.
func (e *Entry) HireRecommended() bool {
	for _, interview := range e.Interviews {
		if interview.HasAIResult() && interview.AIResult.HireRecommendation {
			return true
		}
	}
	return false
}

type Entries struct {
	Items []*Entry
}

// EntriesFromBoard derives the status and next action of every board entry.
func EntriesFromBoard(board []*aggregate.BoardEntry) *Entries {
	items := make([]*Entry, 0, len(board))
	for _, b := range board {
		if b == nil || b.Candidate == nil {
			continue
		}
		derivation := pipeline.Explain(b.Candidate, b.Interviews)
		items = append(items, &Entry{
			Candidate:  b.Candidate,
			Interviews: b.Interviews,
			Derivation: derivation,
			Status:     derivation.Status,
			NextAction: pipeline.NextAction(derivation.Status),
		})
	}
	return &Entries{Items: items}
}

func (e *Entries) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Items)
}

// Exclude drops the entries matched by drop and returns the ids of the dropped candidates.
func (e *Entries) Exclude(drop func(*Entry) bool) []string {
	kept := make([]*Entry, 0, len(e.Items))
	excluded := make([]string, 0)
	for _, entry := range e.Items {
		if drop(entry) {
			excluded = append(excluded, strconv.FormatInt(entry.Candidate.ID, 10))
			continue
		}
		kept = append(kept, entry)
	}
	e.Items = kept
	return excluded
}

// CountByStatus counts entries per pipeline status.
func (e *Entries) CountByStatus() map[pipeline.Status]int {
	counts := make(map[pipeline.Status]int)
	if e == nil {
		return counts
	}
	for _, entry := range e.Items {
		counts[entry.Status]++
	}
	return counts
}

// Fallbacks returns the entries whose status could not be derived from the latest interview.
func (e *Entries) Fallbacks() []*Entry {
	var result []*Entry
	for _, entry := range e.Items {
		if entry.Derivation.Fallback {
			result = append(result, entry)
		}
	}
	return result
}
