package traces

// Turn is a single message in a reconstructed conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Trace is one conversation session from the export.
type Trace struct {
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Name         string            `json:"name"`
	SessionID    string            `json:"session_id"`
	UserID       string            `json:"user_id"`
	Conversation []Turn            `json:"conversation"`
	Latency      float64           `json:"latency"`
	InputTokens  int               `json:"input_tokens"`
	OutputTokens int               `json:"output_tokens"`
	TotalCost    float64           `json:"total_cost"`
	ErrorCount   int               `json:"error_count"`
	Scores       map[string]int    `json:"scores"`   // category key -> 0..100
	Analysis     map[string]string `json:"analysis"` // category key -> rationale
}

// Clone returns a deep copy of t.
func (t Trace) Clone() Trace {
	c := t
	c.Conversation = make([]Turn, len(t.Conversation))
	copy(c.Conversation, t.Conversation)
	c.Scores = make(map[string]int, len(t.Scores))
	for k, v := range t.Scores {
		c.Scores[k] = v
	}
	c.Analysis = make(map[string]string, len(t.Analysis))
	for k, v := range t.Analysis {
		c.Analysis[k] = v
	}
	return c
}

// TurnTranslation is the English rendering of one conversation turn.
// Translation is nil when the turn is already English.
type TurnTranslation struct {
	Index            int     `json:"index"`
	OriginalLanguage string  `json:"original_language"`
	Translation      *string `json:"translation"`
}

// Translation is a trace's conversation rendered into English.
type Translation struct {
	DetectedLanguage string            `json:"detected_language"`
	Translations     []TurnTranslation `json:"translations"`
}
