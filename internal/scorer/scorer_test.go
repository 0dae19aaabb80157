package scorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm/llmtest"
	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustCategory(t *testing.T, key string) category.Category {
	t.Helper()
	c, ok := category.Default().Get(key)
	if !ok {
		t.Fatalf("missing category %s", key)
	}
	return c
}

func trace(id, text string) traces.Trace {
	return traces.Trace{
		ID:           id,
		Conversation: []traces.Turn{{Role: "human", Content: text}, {Role: "ai", Content: "answer to " + text}},
	}
}

func TestBuildBatchPrompt(t *testing.T) {
	cat := mustCategory(t, "product_features")
	prompt := BuildBatchPrompt(cat, []traces.Trace{trace("a1", "export to shapefile?"), trace("b2", "map is slow")})

	for _, want := range []string{
		"--- TRACE 1 (ID: a1) ---",
		"--- TRACE 2 (ID: b2) ---",
		"User: export to shapefile?",
		"Assistant: answer to map is slow",
		"how interesting it is for: Product Features",
		"Category description: " + cat.Description,
		"Look for: " + cat.PromptHint,
		"- 0-20: Not relevant",
		"- 81-100: Extremely high impact",
		`"analyses"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGeneric_ScoreBatch(t *testing.T) {
	stub := llmtest.Text("```json\n" + `{"analyses":[
		{"trace_id":"a1","score":82,"reason":"clear feature request"},
		{"trace_id":"b2","score":"35","reason":"minor"},
		{"trace_id":"c3","score":61.7,"reason":"float score"}
	]}` + "\n```")
	g := NewGeneric(stub, discardLogger())

	got, err := g.ScoreBatch(context.Background(), mustCategory(t, "showcase"), []traces.Trace{trace("a1", "x"), trace("b2", "y"), trace("c3", "z")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Result{
		{TraceID: "a1", Score: 82, Reason: "clear feature request"},
		{TraceID: "b2", Score: 35, Reason: "minor"},
		{TraceID: "c3", Score: 61, Reason: "float score"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if stub.CallCount() != 1 {
		t.Errorf("expected one call per batch, got %d", stub.CallCount())
	}
}

func TestGeneric_Failures(t *testing.T) {
	cat := mustCategory(t, "showcase")
	batch := []traces.Trace{trace("a1", "x")}

	bad := NewGeneric(llmtest.Text("sorry, no"), discardLogger())
	if _, err := bad.ScoreBatch(context.Background(), cat, batch); !errors.Is(err, llm.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}

	failing := &llmtest.Stub{Respond: func(string, bool) (*llm.Response, error) {
		return nil, fmt.Errorf("%w: timeout", llm.ErrCall)
	}}
	if _, err := NewGeneric(failing, discardLogger()).ScoreBatch(context.Background(), cat, batch); !errors.Is(err, llm.ErrCall) {
		t.Errorf("expected ErrCall, got %v", err)
	}
}

func TestFor_DispatchesByKind(t *testing.T) {
	stub := llmtest.Text("{}")
	if _, ok := For(mustCategory(t, "showcase"), stub, discardLogger()).(*Generic); !ok {
		t.Error("expected generic scorer for showcase")
	}
	if _, ok := For(mustCategory(t, "wri_connections"), stub, discardLogger()).(*Verifier); !ok {
		t.Error("expected verifier for wri_connections")
	}
}

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		name                                string
		topic, region, program, partnerType string
		want                                string
	}{
		{"all fields", "peat restoration", "Indonesia", "Indonesia program", "government", "peat restoration Indonesia Indonesia program WRI government partnership"},
		{"topic only", "cocoa", "", "", "", "cocoa"},
		{"nothing", "", "", "", "", ""},
		{"partner only", "", "", "", "corporate", "WRI corporate partnership"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchQuery("WRI", tt.topic, tt.region, tt.program, tt.partnerType); got != tt.want {
				t.Errorf("SearchQuery = %q, want %q", got, tt.want)
			}
		})
	}
}
