package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  status  ", Value: "  NEW  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "status" || fields[0].String != "NEW" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestCandidateFields(t *testing.T) {
	fields := CandidateFields(12, 0, 40)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldCandidate || fields[0].Integer != 12 {
		t.Fatalf("unexpected candidate field: %+v", fields[0])
	}

	if fields[1].Key != FieldInterview || fields[1].Integer != 40 {
		t.Fatalf("unexpected interview field: %+v", fields[1])
	}

	if empty := CandidateFields(0); len(empty) != 0 {
		t.Fatalf("expected no fields for a missing candidate, got %d", len(empty))
	}
}

func TestWithCandidate(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCandidate(zap.New(core), 7, 3).Info("refreshed")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldCandidate] != int64(7) || ctx[FieldInterview] != int64(3) {
		t.Fatalf("unexpected context: %v", ctx)
	}

	// A nil logger falls back to a no-op one.
	WithCandidate(nil, 7).Info("ignored")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "model-x").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "model-x" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	if fields := CommonFields("", ""); len(fields) != 0 {
		t.Fatalf("expected empty fields, got %d", len(fields))
	}

	if WithCommonFields(nil, "gemini", "model-x") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}
