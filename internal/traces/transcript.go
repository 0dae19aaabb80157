package traces

import "strings"

const maxTurnChars = 2000

// Transcript renders a trace as a User:/Assistant: transcript for prompts.
// Each turn is truncated to 2000 characters.
func Transcript(t Trace) string {
	lines := make([]string, 0, len(t.Conversation))
	for _, turn := range t.Conversation {
		lines = append(lines, speaker(turn.Role)+": "+truncate(turn.Content, maxTurnChars))
	}
	return strings.Join(lines, "\n\n")
}

func speaker(role string) string {
	switch role {
	case "human", "user":
		return "User"
	default:
		return "Assistant"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
