package llm

import "context"

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is one role-tagged entry in the prompt sent to the completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider issues a single completion call against a hosted model and returns
// the raw text of the first choice. Implementations live in subpackages, one
// per vendor.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
