package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/ai"
	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/pipeline"
	"github.com/spigell/hire-pipeline/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

//go:embed prompt.md
var systemPrompt string

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
)

// Briefer asks Gemini for a hiring brief over a candidate dossier.
type Briefer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewBriefer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Briefer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Briefer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

var _ ai.Briefer = (*Briefer)(nil)

func (b *Briefer) Brief(ctx context.Context, dossier *aggregate.Dossier, status pipeline.Status) (*ai.Brief, error) {
	if dossier == nil || dossier.Candidate == nil {
		return nil, errors.New("candidate dossier is required")
	}

	message, err := buildMessage(dossier, status)
	if err != nil {
		return nil, err
	}

	log := logger.WithCommonFields(logger.WithCandidate(b.logger, dossier.Candidate.ID), provider, b.generator.Model())

	log.Debug("gemini brief request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, b.maxLogLen)),
	)

	raw, err := b.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini brief response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, b.maxLogLen)),
	)

	brief, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	brief.Raw = raw
	return brief, nil
}

func buildMessage(dossier *aggregate.Dossier, status pipeline.Status) (string, error) {
	payload, err := json.MarshalIndent(dossier, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dossier: %w", err)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Pipeline status: %s (%s)\n", status, status.Label())
	fmt.Fprintf(&builder, "Next action: %s\n\n", pipeline.NextAction(status))
	builder.WriteString("Dossier:\n")
	builder.Write(payload)
	return builder.String(), nil
}

func parseResponse(raw string) (*ai.Brief, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	confidence := coerceFloat(data["confidence"])
	switch {
	case math.IsNaN(confidence) || confidence < 0:
		confidence = 0
	case confidence > 1 && confidence <= 100:
		confidence /= 100
	case confidence > 100:
		confidence = 1
	}

	return &ai.Brief{
		Recommendation: ai.NormalizeRecommendation(strings.ToLower(coerceString(data["recommendation"]))),
		Confidence:     confidence,
		Summary:        coerceString(data["summary"]),
		Strengths:      coerceStrings(data["strengths"]),
		Risks:          coerceStrings(data["risks"]),
		Questions:      coerceStrings(data["questions"]),
	}, nil
}

// extractJSON strips code fences and any prose around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a single newline separated string.
func coerceStrings(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			items = append(items, coerceString(item))
		}
	case string:
		items = strings.Split(val, "\n")
	default:
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "-"))
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
