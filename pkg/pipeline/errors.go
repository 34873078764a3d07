package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ai-places-be/pkg/guard"
	"ai-places-be/pkg/llm"
)

// ErrorKind classifies a request-terminating pipeline failure. Stage
// failures with a safe fallback (empty pool, unchanged order) never
// surface here; only input validation and the final LLM call can end a
// request.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "VALIDATION"
	ErrKindLLM        ErrorKind = "LLM"
	ErrKindTimeout    ErrorKind = "TIMEOUT"
	ErrKindInternal   ErrorKind = "INTERNAL"
)

// Error is the structured error the orchestrator hands to callers. It
// always carries the correlation id so a client report can be matched
// to server logs.
type Error struct {
	Kind          ErrorKind `json:"kind"`
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlationId"`
	cause         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (correlation %s)", e.Kind, e.Message, e.CorrelationID)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, correlationID, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, CorrelationID: correlationID, cause: cause}
}

// classifyLLMError distinguishes a tripped breaker and an expired
// request deadline from other LLM failures, so clients can message
// "busy, try again" differently from a hard failure.
func classifyLLMError(correlationID string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(ErrKindTimeout, correlationID, "request timed out", err)
	}
	if errors.Is(err, llm.ErrCircuitOpen) {
		return newError(ErrKindLLM, correlationID, "language model is temporarily unavailable", err)
	}
	return newError(ErrKindLLM, correlationID, "language model call failed", err)
}

func validationError(correlationID string, err *guard.ValidationError) *Error {
	return newError(ErrKindValidation, correlationID, err.Reason, err)
}
