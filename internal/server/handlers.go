package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spigell/hire-pipeline/internal/filtering"
	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"github.com/spigell/hire-pipeline/internal/view"
)

type pipelineResponse struct {
	Candidate   *recruiting.Candidate `json:"candidate"`
	Status      pipeline.Status       `json:"status"`
	StatusLabel string                `json:"status_label"`
	Fallback    bool                  `json:"fallback,omitempty"`
	NextAction  pipeline.Action       `json:"next_action"`
	Steps       []pipeline.StepView   `json:"steps"`
	Interviews  recruiting.Interviews `json:"interviews"`
	RefreshedAt time.Time             `json:"refreshed_at"`
}

type boardEntry struct {
	Candidate   *recruiting.Candidate `json:"candidate"`
	Status      pipeline.Status       `json:"status"`
	StatusLabel string                `json:"status_label"`
	NextAction  pipeline.Action       `json:"next_action"`
	Interviews  int                   `json:"interviews"`
}

type boardResponse struct {
	Entries []boardEntry            `json:"entries"`
	Counts  map[pipeline.Status]int `json:"counts"`
	Filters []filtering.Status      `json:"filters"`
}

type analyticsResponse struct {
	*recruiting.AnalyticsSummary
	InProgress int `json:"in_progress"`
}

func (s *Server) health(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}

func (s *Server) pipelineView(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("invalid candidate id %q", c.Param("id")))
		return
	}

	dossier, err := s.loader.Dossier(c.Request.Context(), id)
	if err != nil {
		upstream(c, err)
		return
	}

	state := view.Build(dossier)
	view.WarnFallback(logger.WithCandidate(s.logger, id), state)
	ok(c, pipelineResponse{
		Candidate:   dossier.Candidate,
		Status:      state.Status,
		StatusLabel: state.Status.Label(),
		Fallback:    state.Derivation.Fallback,
		NextAction:  state.NextAction,
		Steps:       state.Steps,
		Interviews:  dossier.Interviews,
		RefreshedAt: state.RefreshedAt,
	})
}

func (s *Server) board(c *gin.Context) {
	cfg, err := s.boardConfig(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	board, err := s.loader.Board(c.Request.Context())
	if err != nil {
		upstream(c, err)
		return
	}

	steps := filtering.Default()
	entries, err := filtering.Run(c.Request.Context(), cfg, filtering.Deps{Logger: s.logger}, steps, filtering.EntriesFromBoard(board))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	resp := boardResponse{
		Entries: make([]boardEntry, 0, entries.Len()),
		Counts:  entries.CountByStatus(),
		Filters: filtering.Describe(steps),
	}
	for _, entry := range entries.Items {
		resp.Entries = append(resp.Entries, boardEntry{
			Candidate:   entry.Candidate,
			Status:      entry.Status,
			StatusLabel: entry.Status.Label(),
			NextAction:  entry.NextAction,
			Interviews:  entry.Interviews.Len(),
		})
	}

	ok(c, resp)
}

// boardConfig starts from the configured filters and applies query overrides.
func (s *Server) boardConfig(c *gin.Context) (*filtering.Config, error) {
	cfg := s.cfg.Board

	if values := splitQuery(c.QueryArray("status")); len(values) > 0 {
		cfg.Statuses = values
	}

	if values := splitQuery(c.QueryArray("job")); len(values) > 0 {
		cfg.Jobs = make([]int64, 0, len(values))
		for _, v := range values {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid job id %q", v)
			}
			cfg.Jobs = append(cfg.Jobs, id)
		}
	}

	for key, target := range map[string]*bool{
		"include_closed":   &cfg.IncludeClosed,
		"hire_recommended": &cfg.HireRecommended,
	} {
		raw, present := c.GetQuery(key)
		if !present {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", key, raw)
		}
		*target = value
	}

	return &cfg, nil
}

// splitQuery accepts both repeated and comma separated query values.
func splitQuery(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func (s *Server) analyticsSummary(c *gin.Context) {
	summary, err := s.analytics.GetAnalyticsSummary(c.Request.Context())
	if err != nil {
		upstream(c, err)
		return
	}

	ok(c, analyticsResponse{AnalyticsSummary: summary, InProgress: summary.InProgress()})
}
