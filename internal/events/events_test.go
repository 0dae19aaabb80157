package events

import "testing"

func TestNop_Publish(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(SubjectAnalysisCompleted, AnalysisCompleted{RunID: "r1"}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
