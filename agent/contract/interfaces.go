package contract

import "context"

// Generator is the generation-client boundary. Implementations wrap one remote
// text-generation backend; a non-nil error means the call itself failed, which
// is fatal to the cycle (distinct from the model choosing not to call a tool).
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelName() string
}

// ToolGateway dispatches one named operation on behalf of a verified caller.
// It never returns a raw error; failures are absorbed into the result envelope.
type ToolGateway interface {
	Execute(ctx context.Context, call ToolCall, callerID string) ToolResult
}

// ConversationStore gives each user a bounded short-term memory window.
// All operations are in-memory and never touch durable storage.
type ConversationStore interface {
	Append(userID string, e Entry)
	Trim(userID string)
	Window(userID string, size int) []Entry
	Clear(userID string)
}
