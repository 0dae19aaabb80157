// Package scorer turns batches of traces into per-trace scores for one
// category, either with a single rubric prompt per batch or with the
// two-stage classify-then-verify pipeline.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

// Result is one trace's score and rationale for a category.
type Result struct {
	TraceID string `json:"trace_id"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
}

// Scorer scores one batch of traces against a category. An error means the
// whole batch produced no signal.
type Scorer interface {
	ScoreBatch(ctx context.Context, cat category.Category, batch []traces.Trace) ([]Result, error)
}

// For returns the scorer matching the category's kind.
func For(cat category.Category, gen llm.Generator, logger *slog.Logger) Scorer {
	switch cat.Kind {
	case category.KindConnectionVerification:
		return NewVerifier(gen, logger)
	default:
		return NewGeneric(gen, logger)
	}
}

// flexInt accepts a JSON number (integral or not) or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}
