package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator is implemented by response payloads that check their own required fields.
type Validator interface {
	Validate() error
}

// DecodeJSON parses a model answer into T and validates it.
// Markdown code fences and any prose around the outermost object are ignored.
func DecodeJSON[T any, PT interface {
	*T
	Validator
}](raw string) (T, error) {
	var out T
	body, err := extractObject(raw)
	if err != nil {
		return out, newServiceError("decode", "", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return out, newServiceError("decode", "", ErrMalformedResponse, err)
	}
	if err := PT(&out).Validate(); err != nil {
		return out, newServiceError("decode", "", ErrMalformedResponse, err)
	}
	return out, nil
}

func extractObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}
