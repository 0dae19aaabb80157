package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const fence = "```"

// StripFences returns the body of the first fenced block in text, with or
// without a json language tag. Text without a fence is returned trimmed.
func StripFences(text string) string {
	if i := strings.Index(text, fence+"json"); i >= 0 {
		return closeFence(text[i+len(fence)+len("json"):])
	}
	if i := strings.Index(text, fence); i >= 0 {
		return closeFence(text[i+len(fence):])
	}
	return strings.TrimSpace(text)
}

func closeFence(rest string) string {
	if j := strings.Index(rest, fence); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// ExtractJSON strips any code fence from text and decodes the remainder into v.
func ExtractJSON(text string, v any) error {
	body := StripFences(text)
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}
