package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

func mkTrace(id string, scores map[string]int) traces.Trace {
	t := traces.Trace{
		ID:           id,
		Conversation: []traces.Turn{{Role: "human", Content: "q-" + id}},
		Scores:       map[string]int{},
		Analysis:     map[string]string{},
	}
	for k, v := range scores {
		t.Scores[k] = v
		t.Analysis[k] = "reason"
	}
	return t
}

func ids(ts []traces.Trace) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestNew_DropsEmptyConversations(t *testing.T) {
	s := New([]traces.Trace{mkTrace("a", nil), {ID: "empty"}})
	if s.Len() != 1 {
		t.Errorf("expected 1 trace, got %d", s.Len())
	}
	if _, ok := s.Get("empty"); ok {
		t.Error("empty trace must never be stored")
	}
}

func TestList_FilterAndSort(t *testing.T) {
	s := New([]traces.Trace{
		mkTrace("a", map[string]int{"showcase": 40}),
		mkTrace("b", nil),
		mkTrace("c", map[string]int{"showcase": 90}),
		mkTrace("d", map[string]int{"showcase": 40}),
		mkTrace("e", map[string]int{"research_areas": 99}),
	})

	got := s.List(Query{Category: "showcase"})
	if diff := cmp.Diff([]string{"c", "a", "d"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	capped := s.List(Query{Category: "showcase", Limit: 2})
	if diff := cmp.Diff([]string{"c", "a"}, ids(capped)); diff != "" {
		t.Errorf("capped mismatch (-want +got):\n%s", diff)
	}

	all := s.List(Query{})
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, ids(all)); diff != "" {
		t.Errorf("unfiltered list should keep load order (-want +got):\n%s", diff)
	}

	if got := s.List(Query{Category: "dataset_priorities"}); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestGet_FoundAndNotFound(t *testing.T) {
	s := New([]traces.Trace{mkTrace("a", nil)})

	got, ok := s.Get("a")
	if !ok || got.ID != "a" {
		t.Errorf("expected trace a, got %+v %v", got, ok)
	}
	if _, ok := s.Get("does-not-exist"); ok {
		t.Error("expected not found")
	}
}

func TestGet_DuplicateIDFirstWins(t *testing.T) {
	first := mkTrace("dup", nil)
	second := mkTrace("dup", nil)
	second.Name = "second"
	s := New([]traces.Trace{first, second})

	got, _ := s.Get("dup")
	if got.Name == "second" {
		t.Error("expected first trace with duplicated id")
	}
}

func TestApplyScores_OverwritesOnlyThatCategory(t *testing.T) {
	s := New([]traces.Trace{
		mkTrace("a", map[string]int{"showcase": 10, "research_areas": 70}),
		mkTrace("b", map[string]int{"showcase": 20}),
	})

	n := s.ApplyScores("showcase", map[string]Score{
		"a":       {Value: 88, Reason: "rerun"},
		"missing": {Value: 1, Reason: "ignored"},
	})
	if n != 1 {
		t.Errorf("expected 1 update, got %d", n)
	}

	a, _ := s.Get("a")
	if a.Scores["showcase"] != 88 || a.Analysis["showcase"] != "rerun" {
		t.Errorf("showcase not overwritten: %+v", a)
	}
	if a.Scores["research_areas"] != 70 || a.Analysis["research_areas"] != "reason" {
		t.Errorf("other category touched: %+v", a)
	}

	b, _ := s.Get("b")
	if b.Scores["showcase"] != 20 {
		t.Errorf("uncovered trace changed: %+v", b)
	}
}

func TestSnapshotIsolated(t *testing.T) {
	s := New([]traces.Trace{mkTrace("a", nil)})
	snap := s.Snapshot()
	snap[0].Scores["showcase"] = 100

	a, _ := s.Get("a")
	if _, ok := a.Scores["showcase"]; ok {
		t.Error("snapshot mutation leaked into store")
	}
}

func TestAnalyzed(t *testing.T) {
	s := New(nil)
	order := []string{"showcase", "product_features", "wri_connections"}

	if got := s.Analyzed(order); len(got) != 0 {
		t.Errorf("expected nothing analysed, got %v", got)
	}

	s.MarkAnalyzed("wri_connections")
	s.MarkAnalyzed("showcase")
	s.MarkAnalyzed("showcase")

	if diff := cmp.Diff([]string{"showcase", "wri_connections"}, s.Analyzed(order)); diff != "" {
		t.Errorf("analysed mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslationMemo(t *testing.T) {
	s := New(nil)
	if _, ok := s.Translation("a"); ok {
		t.Error("expected empty memo")
	}

	en := "hello"
	s.SetTranslation("a", traces.Translation{
		DetectedLanguage: "Spanish",
		Translations:     []traces.TurnTranslation{{Index: 0, OriginalLanguage: "Spanish", Translation: &en}},
	})

	got, ok := s.Translation("a")
	if !ok || got.DetectedLanguage != "Spanish" || *got.Translations[0].Translation != "hello" {
		t.Errorf("unexpected memo entry: %+v %v", got, ok)
	}
}
