package services

import "context"

// Prompt roles accepted by the LLM backend.
const (
	PromptRoleSystem    = "system"
	PromptRoleUser      = "user"
	PromptRoleAssistant = "assistant"
)

// PromptMessage is one entry of the ordered prompt sent to the LLM backend.
type PromptMessage struct {
	Role    string
	Content string
}

// Completer is the LLM invocation collaborator: given an ordered message
// history it returns a single assistant completion. A malformed or empty
// completion yields "" without error; transport failures wrap
// domain.ErrUpstream.
type Completer interface {
	Complete(ctx context.Context, messages []PromptMessage) (string, error)
}
