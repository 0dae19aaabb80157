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

const (
	analysisErrorReason = "Analysis error"
	defaultSearchAvoid  = "generic data tool documentation"
)

// Verifier classifies each trace for a connection to an organisation's
// programmes and, for strong connections, asks a search-grounded call for a
// citable source.
type Verifier struct {
	llm    llm.Generator
	logger *slog.Logger
}

func NewVerifier(gen llm.Generator, logger *slog.Logger) *Verifier {
	return &Verifier{llm: gen, logger: logger}
}

type classification struct {
	Score         flexInt `json:"score"`
	HasConnection bool    `json:"has_connection"`
	Topic         string  `json:"topic"`
	Region        string  `json:"region"`
	Program       string  `json:"wri_program"`
	PartnerType   string  `json:"partner_type"`
	Story         *string `json:"story"`
}

// Evidence is the outcome of a search for a source backing a connection.
// Verified is only set when the URL came from search grounding.
type Evidence struct {
	Found    bool   `json:"found"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Verified bool   `json:"-"`
}

// ScoreBatch never fails as a whole: a trace whose classification fails
// scores 0 with a generic reason.
func (v *Verifier) ScoreBatch(ctx context.Context, cat category.Category, batch []traces.Trace) ([]Result, error) {
	if cat.Verification == nil {
		return nil, fmt.Errorf("category %q has no verification config", cat.Key)
	}

	results := make([]Result, 0, len(batch))
	for _, t := range batch {
		results = append(results, v.scoreTrace(ctx, cat, t))
	}
	return results, nil
}

func (v *Verifier) scoreTrace(ctx context.Context, cat category.Category, t traces.Trace) Result {
	cfg := cat.Verification

	cls, err := v.classify(ctx, cfg, t)
	if err != nil {
		v.logger.Warn("connection classification failed", "trace_id", t.ID, "category", cat.Key, "error", err)
		return Result{TraceID: t.ID, Score: 0, Reason: analysisErrorReason}
	}

	score := int(cls.Score)
	reason := fmt.Sprintf("No specific %s connection identified.", cfg.Organization)
	story := ""
	if cls.Story != nil {
		story = *cls.Story
		reason = story
	}

	if score < cfg.Threshold || !cls.HasConnection {
		return Result{TraceID: t.ID, Score: score, Reason: reason}
	}

	query := SearchQuery(cfg.Organization, cls.Topic, cls.Region, cls.Program, cls.PartnerType)
	if query == "" {
		return Result{TraceID: t.ID, Score: score, Reason: reason}
	}

	region := cls.Region
	if region == "" {
		region = cfg.DefaultRegion
	}
	ev := v.Search(ctx, cfg, query, region, cls.Program)
	if ev.Verified && ev.URL != "" {
		reason = story + " See: " + ev.URL
		if ev.Source != "" {
			reason += " (" + ev.Source + ")"
		}
		score = min(cfg.Cap, score+cfg.Bonus)
		v.logger.Info("connection verified", "trace_id", t.ID, "url", ev.URL, "score", score)
	}

	return Result{TraceID: t.ID, Score: score, Reason: reason}
}

func (v *Verifier) classify(ctx context.Context, cfg *category.Verification, t traces.Trace) (classification, error) {
	prompt := fmt.Sprintf(classificationPrompt, cfg.OrganizationName, traces.Transcript(t), cfg.Organization, cfg.Catalogue)

	var cls classification
	resp, err := v.llm.Generate(ctx, prompt)
	if err != nil {
		return cls, err
	}
	if err := llm.ExtractJSON(resp.Text, &cls); err != nil {
		return cls, err
	}
	return cls, nil
}

// SearchQuery joins the non-empty classification fields into a search query.
func SearchQuery(org, topic, region, program, partnerType string) string {
	parts := []string{topic, region}
	if program != "" {
		parts = append(parts, program)
	}
	if partnerType != "" {
		parts = append(parts, fmt.Sprintf("%s %s partnership", org, partnerType))
	}

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Search asks a grounded call for a source about query. Any failure yields
// Evidence{Found: false}. A grounding source URL replaces the URL the model
// typed into its answer and is the only thing that marks evidence verified.
func (v *Verifier) Search(ctx context.Context, cfg *category.Verification, query, region, program string) Evidence {
	if program == "" {
		program = cfg.DefaultPrograms
	}
	avoid := cfg.SearchAvoid
	if avoid == "" {
		avoid = defaultSearchAvoid
	}
	prompt := fmt.Sprintf(searchPrompt, cfg.OrganizationName, query, region, cfg.Organization, program, avoid)

	resp, err := v.llm.Generate(ctx, prompt, llm.WithSearch())
	if err != nil {
		v.logger.Warn("evidence search failed", "query", query, "error", err)
		return Evidence{}
	}

	var ev Evidence
	if err := llm.ExtractJSON(resp.Text, &ev); err != nil {
		v.logger.Warn("evidence search returned no JSON", "query", query, "error", err)
		return Evidence{}
	}

	if len(resp.Sources) > 0 {
		src := resp.Sources[0]
		ev.URL = src.URI
		ev.Found = true
		ev.Verified = true
		if src.Title != "" {
			ev.Title = src.Title
		}
	}
	return ev
}
