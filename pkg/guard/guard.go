// Package guard validates free-text user input before the pipeline touches
// it: length bounds, emptiness and prompt-injection patterns.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxQueryLength = 500
	MinQueryLength = 3
)

// ValidationError rejects a request before any retrieval work happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// dangerousPatterns flag prompt-injection attempts. Matching is
// case-insensitive over the raw input.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore.*previous.*instruction`),
	regexp.MustCompile(`(?i)system prompt`),
	regexp.MustCompile(`(?i)disregard`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)forget.*previous`),
	regexp.MustCompile(`(?i)new instructions`),
}

// InputGuard checks a query against the validation rules. Stateless.
type InputGuard struct {
	maxLength int
}

func NewInputGuard() *InputGuard {
	return &InputGuard{maxLength: MaxQueryLength}
}

// Validate returns the trimmed query, or a *ValidationError describing the
// first rule the input broke. Length is measured in runes so multi-byte
// Vietnamese text is not penalized.
func (g *InputGuard) Validate(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	if trimmed == "" {
		return "", &ValidationError{Reason: "input cannot be empty"}
	}
	if n := len([]rune(trimmed)); n > g.maxLength {
		return "", &ValidationError{Reason: fmt.Sprintf("input exceeds maximum length of %d characters", g.maxLength)}
	}
	if len([]rune(trimmed)) < MinQueryLength {
		return "", &ValidationError{Reason: fmt.Sprintf("input must be at least %d characters", MinQueryLength)}
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(trimmed) {
			return "", &ValidationError{Reason: "input contains potentially harmful patterns"}
		}
	}

	return trimmed, nil
}
