// Package llm defines the text-generation contract the monitor wraps.
//
// DESIGN: The monitor is vendor-agnostic. Callers adapt whatever provider
// client they use to Generator (or wrap a closure in GeneratorFunc) and keep
// request shaping on their side; the monitor only needs the response text
// and, when the provider reports it, the token count.
package llm

import (
	"context"
	"fmt"
)

// Request describes one generation call.
type Request struct {
	Model     string // model identifier, required
	System    string // system prompt, optional
	Prompt    string // user prompt, required
	MaxTokens int    // response cap, 0 means provider default
}

// Validate checks required fields. Generator implementations should call
// this before shaping a provider request.
func (r Request) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("model is required")
	}
	if r.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", r.MaxTokens)
	}
	return nil
}

// Response is the neutral result of a generation call. TokenCount 0 means
// the provider reported no usage; the monitor estimates in that case.
type Response struct {
	Text       string
	TokenCount int
}

// Generator performs the actual generation call. Implementations must honor
// context cancellation and return an error rather than a partial response.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (*Response, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
