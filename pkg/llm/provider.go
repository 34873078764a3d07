package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// StreamHandler receives one token delta at a time. Returning an error
// aborts the stream.
type StreamHandler func(delta string) error

// StreamingProvider is implemented by backends that can emit token deltas.
// Callers should fall back to Chat when a provider does not stream.
type StreamingProvider interface {
	LLMProvider

	// ChatStream sends a chat history and forwards deltas to the handler.
	// It returns the full accumulated response once the stream completes.
	ChatStream(ctx context.Context, history []Message, handler StreamHandler, options ...Option) (string, error)
}
