package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

// Generic scores a whole batch with one rubric prompt.
type Generic struct {
	llm    llm.Generator
	logger *slog.Logger
}

func NewGeneric(gen llm.Generator, logger *slog.Logger) *Generic {
	return &Generic{llm: gen, logger: logger}
}

type batchResponse struct {
	Analyses []struct {
		TraceID string  `json:"trace_id"`
		Score   flexInt `json:"score"`
		Reason  string  `json:"reason"`
	} `json:"analyses"`
}

// BuildBatchPrompt renders the scoring prompt for a batch of traces.
func BuildBatchPrompt(cat category.Category, batch []traces.Trace) string {
	var sb strings.Builder
	for i, t := range batch {
		fmt.Fprintf(&sb, traceBlock, i+1, t.ID, traces.Transcript(t))
	}
	return fmt.Sprintf(batchPrompt, platformDescription, cat.Name, cat.Description, cat.PromptHint, sb.String())
}

func (g *Generic) ScoreBatch(ctx context.Context, cat category.Category, batch []traces.Trace) ([]Result, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	resp, err := g.llm.Generate(ctx, BuildBatchPrompt(cat, batch))
	if err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}

	var parsed batchResponse
	if err := llm.ExtractJSON(resp.Text, &parsed); err != nil {
		g.logger.Debug("unparseable batch response", "category", cat.Key, "raw", resp.Text)
		return nil, fmt.Errorf("score batch: %w", err)
	}

	results := make([]Result, 0, len(parsed.Analyses))
	for _, a := range parsed.Analyses {
		results = append(results, Result{
			TraceID: a.TraceID,
			Score:   int(a.Score),
			Reason:  a.Reason,
		})
	}
	return results, nil
}
