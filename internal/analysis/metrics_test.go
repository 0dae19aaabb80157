package analysis

import (
	"context"
	"fmt"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MikeSquared-Agency/trace-explorer/internal/category"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm"
	"github.com/MikeSquared-Agency/trace-explorer/internal/llm/llmtest"
)

func TestRun_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	calls := 0
	stub := &llmtest.Stub{Respond: func(prompt string, _ bool) (*llm.Response, error) {
		calls++
		if calls == 2 {
			return nil, fmt.Errorf("%w: timeout", llm.ErrCall)
		}
		return scoringStub(func(string) int { return 50 }).Respond(prompt, false)
	}}
	o := New(seedStore(8), category.Default(), stub, nil, discardLogger())
	o.metrics = newRunMetrics(provider.Meter("test"))

	if _, err := o.Run(context.Background(), "showcase"); err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	sawDuration := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					if v, _ := dp.Attributes.Value("category"); v.AsString() != "showcase" {
						t.Errorf("%s: unexpected category attribute %q", m.Name, v.AsString())
					}
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				sawDuration = m.Name == "trace_explorer.analysis.duration_seconds" && len(data.DataPoints) == 1
			}
		}
	}

	want := map[string]int64{
		"trace_explorer.analysis.runs_total":           1,
		"trace_explorer.analysis.failed_batches_total": 1,
		"trace_explorer.analysis.traces_scored_total":  5,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
	if !sawDuration {
		t.Error("expected a duration data point")
	}
}
