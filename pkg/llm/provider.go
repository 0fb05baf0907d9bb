package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// ErrMissingAPIKey signals that the provider was constructed without a
// credential and no call was attempted.
var ErrMissingAPIKey = errors.New("llm: api key missing")

// Option allows for optional parameters like Temperature, JSON schema, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model

	// Structured output: when SchemaName is set the provider must
	// constrain the response to Schema and return raw JSON text.
	SchemaName string
	Schema     json.RawMessage
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithJSONSchema(name string, schema json.RawMessage) Option {
	return func(o *Options) {
		o.SchemaName = name
		o.Schema = schema
	}
}

// DeltaFunc receives each streamed text fragment in arrival order.
// Returning an error aborts the stream.
type DeltaFunc func(delta string) error

// Provider defines the contract for any completion backend
type Provider interface {
	// Complete sends a chat history to the model and returns the full
	// response text in one shot.
	Complete(ctx context.Context, history []Message, options ...Option) (string, error)

	// Stream sends a chat history and delivers the response incrementally
	// through onDelta, returning the accumulated text.
	Stream(ctx context.Context, history []Message, onDelta DeltaFunc, options ...Option) (string, error)
}
