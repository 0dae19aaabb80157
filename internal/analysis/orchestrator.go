// Package analysis runs a category's scorer over the whole trace set and
// merges the results back into the store.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/events"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/scorer"
	"github.com/MikeSquared-Agency/trace-explorer/internal/store"
)

// ErrUnknownCategory is returned for a category key not in the registry.
var ErrUnknownCategory = errors.New("unknown category")


// Orchestrator runs analysis for one category at a time. Batches are scored
// strictly in sequence.
type Orchestrator struct {
	store      *store.Store
	categories *category.Registry
	llm        llm.Generator
	events     events.Publisher
	metrics    runMetrics
	logger     *slog.Logger
}

func New(s *store.Store, reg *category.Registry, gen llm.Generator, pub events.Publisher, logger *slog.Logger) *Orchestrator {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Orchestrator{
		store:      s,
		categories: reg,
		llm:        gen,
		events:     pub,
		metrics:    defaultRunMetrics(),
		logger:     logger,
	}
}

// RunSummary describes a completed run.
type RunSummary struct {
	RunID    uuid.UUID
	Category string
	// Analyzed counts the results the model returned across all batches.
	Analyzed int
	// Updated counts the stored traces that received a score.
	Updated  int
	Batches  int
	Failed   int
	Duration time.Duration
}

// Run scores every stored trace for the category. A batch that fails is
// logged and contributes nothing; its traces keep whatever they had before.
// The category is marked analysed even if every batch failed.
func (o *Orchestrator) Run(ctx context.Context, key string) (*RunSummary, error) {
	cat, ok := o.categories.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	if o.llm == nil {
		return nil, llm.ErrUnavailable
	}

	start := time.Now()
	sum := &RunSummary{RunID: uuid.New(), Category: key}
	sc := scorer.For(cat, o.llm, o.logger)

	batches := Partition(o.store.Snapshot(), BatchSize)
	sum.Batches = len(batches)

	o.logger.Info("analysis started",
		"run_id", sum.RunID,
		"category", key,
		"kind", cat.Kind,
		"batches", len(batches),
	)

	var results []scorer.Result
	for i, batch := range batches {
		res, err := sc.ScoreBatch(ctx, cat, batch)
		if err != nil {
			sum.Failed++
			o.logger.Warn("batch scoring failed",
				"run_id", sum.RunID,
				"category", key,
				"batch", i,
				"error", err,
			)
			continue
		}
		results = append(results, res...)
	}
	sum.Analyzed = len(results)

	merged := make(map[string]store.Score, len(results))
	for _, r := range results {
		merged[r.TraceID] = store.Score{Value: clampScore(r.Score), Reason: r.Reason}
	}
	sum.Updated = o.store.ApplyScores(key, merged)
	o.store.MarkAnalyzed(key)
	sum.Duration = time.Since(start)
	o.metrics.record(ctx, sum, sum.Duration)

	o.logger.Info("analysis complete",
		"run_id", sum.RunID,
		"category", key,
		"analyzed", sum.Analyzed,
		"updated", sum.Updated,
		"failed_batches", sum.Failed,
		"duration_ms", sum.Duration.Milliseconds(),
	)

	if err := o.events.Publish(events.SubjectAnalysisCompleted, events.AnalysisCompleted{
		RunID:      sum.RunID.String(),
		Category:   key,
		Analyzed:   sum.Analyzed,
		Updated:    sum.Updated,
		Batches:    sum.Batches,
		DurationMS: sum.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		o.logger.Warn("failed to publish analysis event", "run_id", sum.RunID, "error", err)
	}

	return sum, nil
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
