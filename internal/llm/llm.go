// Package llm is the gateway to the language model: prompt in, text out,
// with optional search grounding and helpers for pulling JSON out of the
// model's free-form reply.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrCall wraps transport and API failures.
	ErrCall = errors.New("llm call failed")
	// ErrParse wraps model output that is not the expected JSON.
	ErrParse = errors.New("llm output is not valid JSON")
	// ErrUnavailable is returned when no model is configured.
	ErrUnavailable = errors.New("llm not configured")
)

// Source is a web page the model's answer was grounded on.
type Source struct {
	URI   string
	Title string
}

// Response is the model's reply. Sources is only populated for
// search-grounded calls.
type Response struct {
	Text    string
	Sources []Source
}

// Generator sends a single prompt to the model. Implementations make exactly
// one attempt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error)
}

type callOptions struct {
	search bool
}

// Option adjusts a single Generate call.
type Option func(*callOptions)

// WithSearch attaches Google Search grounding to the call.
func WithSearch() Option {
	return func(o *callOptions) { o.search = true }
}

func applyOptions(opts []Option) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IsSearch reports whether opts request search grounding.
func IsSearch(opts ...Option) bool {
	return applyOptions(opts).search
}
