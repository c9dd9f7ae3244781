// Package ai holds the contract for AI-written hiring briefs.
package ai

import (
	"context"

	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/pipeline"
)

const (
	RecommendHire   = "hire"
	RecommendReject = "reject"
	RecommendHold   = "hold"
)

// Brief is a short hiring summary written by a model over a candidate dossier.
type Brief struct {
	Recommendation string   `json:"recommendation"`
	Confidence     float64  `json:"confidence"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths,omitempty"`
	Risks          []string `json:"risks,omitempty"`
	Questions      []string `json:"questions,omitempty"`
	Raw            string   `json:"-"`
}

type Briefer interface {
	Brief(ctx context.Context, dossier *aggregate.Dossier, status pipeline.Status) (*Brief, error)
}

// NormalizeRecommendation maps free-form model answers onto hire, reject or hold.
func NormalizeRecommendation(value string) string {
	switch value {
	case RecommendHire, "yes", "strong hire", "hire recommended":
		return RecommendHire
	case RecommendReject, "no", "no hire", "do not hire":
		return RecommendReject
	default:
		return RecommendHold
	}
}
