// Package llmtest provides a scripted llm.Generator for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
)

// Call records one Generate invocation.
type Call struct {
	Prompt string
	Search bool
}

// Stub answers Generate calls with Respond and records every call.
type Stub struct {
	Respond func(prompt string, search bool) (*llm.Response, error)

	mu    sync.Mutex
	calls []Call
}

// Text returns a stub that always replies with text.
func Text(text string) *Stub {
	return &Stub{Respond: func(string, bool) (*llm.Response, error) {
		return &llm.Response{Text: text}, nil
	}}
}

// Generate implements llm.Generator.
func (s *Stub) Generate(_ context.Context, prompt string, opts ...llm.Option) (*llm.Response, error) {
	search := llm.IsSearch(opts...)

	s.mu.Lock()
	s.calls = append(s.calls, Call{Prompt: prompt, Search: search})
	s.mu.Unlock()

	if s.Respond == nil {
		return &llm.Response{}, nil
	}
	return s.Respond(prompt, search)
}

// Calls returns a copy of the recorded calls.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times Generate was called.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// SearchCount returns how many search-grounded calls were made.
func (s *Stub) SearchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Search {
			n++
		}
	}
	return n
}
