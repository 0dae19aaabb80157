// Package store owns the process-lifetime trace set along with the record of
// analysed categories and the translation memo.
package store

import (
	"sort"
	"sync"

	"github.com/MikeSquared-Agency/trace-explorer/internal/traces"
)

// Store holds traces in load order. Reads return deep copies so callers never
// observe a merge in progress.
//
// Trace ids are expected to be unique but this is not enforced: Get returns
// the first trace carrying an id, and ApplyScores updates every trace
// carrying it.
type Store struct {
	mu           sync.RWMutex
	traces       []traces.Trace
	index        map[string]int
	analyzed     map[string]struct{}
	translations map[string]traces.Translation
}

// Score is one category result to merge into a trace.
type Score struct {
	Value  int
	Reason string
}

func New(ts []traces.Trace) *Store {
	s := &Store{
		traces:       make([]traces.Trace, 0, len(ts)),
		index:        make(map[string]int, len(ts)),
		analyzed:     make(map[string]struct{}),
		translations: make(map[string]traces.Translation),
	}
	for _, t := range ts {
		if len(t.Conversation) == 0 {
			continue
		}
		t = t.Clone()
		if _, exists := s.index[t.ID]; !exists {
			s.index[t.ID] = len(s.traces)
		}
		s.traces = append(s.traces, t)
	}
	return s
}

// Len returns the number of stored traces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traces)
}

// Snapshot returns copies of all traces in load order.
func (s *Store) Snapshot() []traces.Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]traces.Trace, len(s.traces))
	for i, t := range s.traces {
		out[i] = t.Clone()
	}
	return out
}

// Get returns the first trace with id.
func (s *Store) Get(id string) (traces.Trace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return traces.Trace{}, false
	}
	return s.traces[i].Clone(), true
}

// Query selects traces for presentation.
type Query struct {
	// Category, when set, keeps only traces scored for it and sorts them by
	// that score, highest first. Equal scores keep load order.
	Category string
	// Limit caps the result when positive.
	Limit int
}

// List returns the traces matching q.
func (s *Store) List(q Query) []traces.Trace {
	s.mu.RLock()
	var out []traces.Trace
	for _, t := range s.traces {
		if q.Category != "" {
			if _, ok := t.Scores[q.Category]; !ok {
				continue
			}
		}
		out = append(out, t.Clone())
	}
	s.mu.RUnlock()

	if q.Category != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Scores[q.Category] > out[j].Scores[q.Category]
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []traces.Trace{}
	}
	return out
}

// ApplyScores writes one category's results onto the traces they name,
// replacing any earlier entry for that category. Other categories are left
// untouched. It returns the number of traces updated.
func (s *Store) ApplyScores(category string, results map[string]Score) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.traces {
		t := &s.traces[i]
		r, ok := results[t.ID]
		if !ok {
			continue
		}
		if t.Scores == nil {
			t.Scores = map[string]int{}
		}
		if t.Analysis == nil {
			t.Analysis = map[string]string{}
		}
		t.Scores[category] = r.Value
		t.Analysis[category] = r.Reason
		updated++
	}
	return updated
}

// MarkAnalyzed records that category has completed at least one run.
func (s *Store) MarkAnalyzed(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzed[category] = struct{}{}
}

// Analyzed returns the members of order that have completed a run, in the
// order given.
func (s *Store) Analyzed(order []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{}
	for _, key := range order {
		if _, ok := s.analyzed[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

// Translation returns the memoised translation for a trace.
func (s *Store) Translation(id string) (traces.Translation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr, ok := s.translations[id]
	return tr, ok
}

// SetTranslation memoises a trace's translation for the process lifetime.
func (s *Store) SetTranslation(id string, tr traces.Translation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations[id] = tr
}
