package traces

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when the CSV header lacks the id column.
var ErrMissingColumn = errors.New("missing id column")

// exportRow is one CSV record addressed by header name.
type exportRow struct {
	cols   map[string]int
	record []string
}

func (r exportRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

type messageList struct {
	Messages []json.RawMessage `json:"messages"`
}

type exportMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseFile parses a CSV trace export from disk.
func ParseFile(path string, logger *slog.Logger) ([]Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, logger)
}

// ParseCSV reads a trace export and reconstructs one Trace per row. Rows that
// cannot be decoded are logged and skipped; rows with no conversation are
// dropped.
func ParseCSV(r io.Reader, logger *slog.Logger) ([]Trace, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, ErrMissingColumn
	}

	var out []Trace
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping malformed csv record", "line", line, "error", err)
				continue
			}
			return out, fmt.Errorf("read record: %w", err)
		}

		trace, err := parseRow(exportRow{cols: cols, record: record})
		if err != nil {
			logger.Warn("error parsing trace", "line", line, "error", err)
			continue
		}
		if len(trace.Conversation) == 0 {
			continue
		}
		out = append(out, trace)
	}

	return out, nil
}

func parseRow(row exportRow) (Trace, error) {
	id := row.get("id")
	if id == "" {
		return Trace{}, errors.New("empty id")
	}

	input, err := decodeMessages(row.get("input"))
	if err != nil {
		return Trace{}, fmt.Errorf("input: %w", err)
	}
	output, err := decodeMessages(row.get("output"))
	if err != nil {
		return Trace{}, fmt.Errorf("output: %w", err)
	}

	return Trace{
		ID:           id,
		Timestamp:    row.get("timestamp"),
		Name:         row.get("name"),
		SessionID:    row.get("sessionId"),
		UserID:       row.get("userId"),
		Conversation: buildConversation(input, output),
		Latency:      parseFloat(row.get("latency")),
		InputTokens:  parseInt(row.get("inputTokens")),
		OutputTokens: parseInt(row.get("outputTokens")),
		TotalCost:    parseFloat(row.get("totalCost")),
		ErrorCount:   parseInt(row.get("errorCount")),
		Scores:       map[string]int{},
		Analysis:     map[string]string{},
	}, nil
}

// decodeMessages decodes a {"messages": [...]} blob. Empty input is an empty
// object.
func decodeMessages(raw string) ([]exportMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var list messageList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}

	msgs := make([]exportMessage, 0, len(list.Messages))
	for _, m := range list.Messages {
		var msg exportMessage
		if err := json.Unmarshal(m, &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// buildConversation merges input and output messages. Output messages that
// repeat any earlier turn verbatim are echoes of the input thread and are
// dropped.
func buildConversation(input, output []exportMessage) []Turn {
	var conv []Turn
	seen := make(map[string]struct{})

	for _, msg := range input {
		var content string
		if err := json.Unmarshal(msg.Content, &content); err != nil || content == "" {
			continue
		}
		conv = append(conv, Turn{Role: roleOr(msg.Type, "human"), Content: content})
		seen[content] = struct{}{}
	}

	for _, msg := range output {
		content := messageText(msg.Content)
		if content == "" {
			continue
		}
		if _, dup := seen[content]; dup {
			continue
		}
		conv = append(conv, Turn{Role: roleOr(msg.Type, "ai"), Content: content})
		seen[content] = struct{}{}
	}

	return conv
}

// messageText extracts text from a plain string or a list of content parts,
// keeping only parts of type "text".
func messageText(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	var texts []string
	for _, p := range parts {
		var part contentPart
		if err := json.Unmarshal(p, &part); err != nil {
			continue
		}
		if part.Type == "text" && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func roleOr(role, fallback string) string {
	if role == "" {
		return fallback
	}
	return role
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}
