package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const instrumentationName = "trace-explorer/llm"

// Client talks to Gemini through the genai SDK.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
	tracer trace.Tracer
}

// NewClient creates a Gemini client bound to one model.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client: gc,
		model:  model,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
	}, nil
}

// Model returns the model identifier calls are sent to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt to the model. With WithSearch the reply also carries
// the grounding sources the search tool returned.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	o := applyOptions(opts)

	ctx, span := c.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Bool("llm.search", o.search),
		attribute.Int("llm.prompt_len", len(prompt)),
	))
	defer span.End()

	var cfg *genai.GenerateContentConfig
	if o.search {
		cfg = &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content")
		return nil, fmt.Errorf("%w: %v", ErrCall, err)
	}

	out := &Response{
		Text:    resp.Text(),
		Sources: groundingSources(resp),
	}
	span.SetAttributes(
		attribute.Int("llm.response_len", len(out.Text)),
		attribute.Int("llm.sources", len(out.Sources)),
	)

	c.logger.Debug("llm call complete",
		"model", c.model,
		"search", o.search,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_len", len(out.Text),
		"sources", len(out.Sources),
	)

	return out, nil
}

// groundingSources lists the web chunks of the first candidate's grounding
// metadata, in the order the API returned them.
func groundingSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	var sources []Source
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
