package recruiting

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	CandidateNew      = "NEW"
	CandidateHired    = "HIRED"
	CandidateRejected = "REJECTED"
)

type Candidate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Job         Ref    `json:"job,omitempty"`
	JobRole     string `json:"jobRole,omitempty"`
	POC         string `json:"poc,omitempty"`
	Status      string `json:"status"`
	Feedback    string `json:"feedback,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// NormalizedStatus returns the server status upper-cased and trimmed.
func (c *Candidate) NormalizedStatus() string {
	if c == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(c.Status))
}

func (c *Client) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	items, err := c.GetItems(ctx, candidatesPath, nil)
	if err != nil {
		return nil, err
	}

	return decodeItems[Candidate](items)
}

func (c *Client) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	if id <= 0 {
		return nil, fmt.Errorf("candidate id is required")
	}

	var candidate Candidate
	if err := c.getObject(ctx, fmt.Sprintf("%s%d/", candidatesPath, id), nil, &candidate); err != nil {
		return nil, err
	}

	return &candidate, nil
}

// UpdateCandidate patches the given fields of a candidate and returns the stored record.
func (c *Client) UpdateCandidate(ctx context.Context, id int64, fields map[string]any) (*Candidate, error) {
	if id <= 0 {
		return nil, fmt.Errorf("candidate id is required")
	}

	var candidate Candidate
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", candidatesPath, id), fields, &candidate); err != nil {
		return nil, err
	}

	return &candidate, nil
}
