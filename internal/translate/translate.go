// Package translate renders a trace's conversation into English, once per
// trace for the life of the process.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/store"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

// ErrNotFound is returned for a trace id the store does not hold.
var ErrNotFound = errors.New("trace not found")

type Translator struct {
	store  *store.Store
	llm    llm.Generator
	logger *slog.Logger
	group  singleflight.Group
}

func New(s *store.Store, gen llm.Generator, logger *slog.Logger) *Translator {
	return &Translator{store: s, llm: gen, logger: logger}
}

type message struct {
	Index   int    `json:"index"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Translate returns the English rendering of a trace's turns. A successful
// result is memoised in the store; failures are not, so a later request
// tries again. Concurrent requests for the same id share one model call.
func (t *Translator) Translate(ctx context.Context, id string) (traces.Translation, error) {
	if tr, ok := t.store.Translation(id); ok {
		return tr, nil
	}

	trace, ok := t.store.Get(id)
	if !ok {
		return traces.Translation{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if t.llm == nil {
		return traces.Translation{}, llm.ErrUnavailable
	}

	v, err, _ := t.group.Do(id, func() (any, error) {
		if tr, ok := t.store.Translation(id); ok {
			return tr, nil
		}
		tr, err := t.translate(ctx, trace)
		if err != nil {
			return nil, err
		}
		t.store.SetTranslation(id, tr)
		return tr, nil
	})
	if err != nil {
		t.logger.Warn("translation failed", "trace_id", id, "error", err)
		return traces.Translation{}, err
	}
	return v.(traces.Translation), nil
}

func (t *Translator) translate(ctx context.Context, trace traces.Trace) (traces.Translation, error) {
	msgs := make([]message, len(trace.Conversation))
	for i, turn := range trace.Conversation {
		msgs[i] = message{Index: i, Role: turn.Role, Content: turn.Content}
	}
	body, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return traces.Translation{}, fmt.Errorf("encode messages: %w", err)
	}

	resp, err := t.llm.Generate(ctx, fmt.Sprintf(translatePrompt, body))
	if err != nil {
		return traces.Translation{}, fmt.Errorf("translate %s: %w", trace.ID, err)
	}

	var tr traces.Translation
	if err := llm.ExtractJSON(resp.Text, &tr); err != nil {
		return traces.Translation{}, fmt.Errorf("translate %s: %w", trace.ID, err)
	}
	if tr.Translations == nil {
		tr.Translations = []traces.TurnTranslation{}
	}

	t.logger.Info("trace translated",
		"trace_id", trace.ID,
		"detected_language", tr.DetectedLanguage,
		"turns", len(tr.Translations),
	)
	return tr, nil
}
