package support

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecisionType discriminates the resolver's tagged union.
type DecisionType string

const (
	DecisionAction DecisionType = "action"
	DecisionChat   DecisionType = "chat"
)

// Decision is the structured output of the intent-resolution collaborator.
// The model's free-form JSON is validated into this union on receipt;
// anything non-conforming is a resolution failure, never a crash.
type Decision struct {
	Type       DecisionType      `json:"type"`
	Function   string            `json:"function,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Reply      string            `json:"reply,omitempty"`
}

// ParseDecision validates raw model output into a Decision.
func ParseDecision(raw string) (Decision, error) {
	var dec Decision
	trimmed := stripCodeFence(strings.TrimSpace(raw))
	if trimmed == "" {
		return Decision{}, fmt.Errorf("empty resolver output")
	}
	if err := json.Unmarshal([]byte(trimmed), &dec); err != nil {
		return Decision{}, fmt.Errorf("resolver output is not valid JSON: %w", err)
	}
	switch dec.Type {
	case DecisionAction:
		if dec.Function == "" {
			return Decision{}, fmt.Errorf("action decision without function")
		}
	case DecisionChat:
		if dec.Reply == "" {
			return Decision{}, fmt.Errorf("chat decision without reply")
		}
	default:
		return Decision{}, fmt.Errorf("unknown decision type %q", dec.Type)
	}
	return dec, nil
}

// stripCodeFence removes a surrounding markdown fence the model sometimes
// wraps JSON in.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
