package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidate = "candidate_id"
	FieldInterview = "interview_id"
	FieldAction    = "action"
	FieldStatus    = "status"

	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace and
// omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CandidateFields identifies a candidate and, optionally, one of its interviews.
// Non-positive ids are skipped.
func CandidateFields(candidateID int64, interviewID ...int64) []zap.Field {
	result := make([]zap.Field, 0, 1+len(interviewID))
	if candidateID > 0 {
		result = append(result, zap.Int64(FieldCandidate, candidateID))
	}
	for _, id := range interviewID {
		if id > 0 {
			result = append(result, zap.Int64(FieldInterview, id))
		}
	}
	return result
}

// WithCandidate attaches the candidate fields to the logger.
func WithCandidate(logger *zap.Logger, candidateID int64, interviewID ...int64) *zap.Logger {
	return WithFields(logger, CandidateFields(candidateID, interviewID...)...)
}

// CommonFields describes the AI provider and model. Empty values are ignored.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}
