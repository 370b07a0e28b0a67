package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// RunIDKey is the context key for run ID
	RunIDKey ContextKey = "run_id"
	// RecipientKey is the context key for the recipient being served
	RecipientKey ContextKey = "recipient"
)

// NewRunID generates a new run ID
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// NewRunContext returns ctx carrying a fresh run ID
func NewRunContext(ctx context.Context) context.Context {
	return WithRunID(ctx, NewRunID())
}

// GetRunID retrieves the run ID from the context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithRecipient adds the recipient name to the context
func WithRecipient(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, RecipientKey, name)
}

// GetRecipient retrieves the recipient name from the context
func GetRecipient(ctx context.Context) string {
	if name, ok := ctx.Value(RecipientKey).(string); ok {
		return name
	}
	return ""
}

// LoggerFromContext adds the tracing fields found in ctx to logger
func LoggerFromContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With().Str("run_id", runID).Logger()
	}
	if name := GetRecipient(ctx); name != "" {
		logger = logger.With().Str("recipient", name).Logger()
	}
	return logger
}
