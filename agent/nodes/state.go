package orchestratornode

import (
	"errors"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

var (
	ErrInvalidMessage = contractx.ErrInvalidMessage
	ErrInvalidUser    = contractx.ErrInvalidUser
)

type GraphInput struct {
	UserID  string
	Message string
}

type GraphOutput struct {
	Text string
}

// GraphState carries one orchestration cycle through the graph. Everything in
// it is request-scoped and discarded when the cycle ends.
type GraphState struct {
	UserID  string
	Message string

	Window      []contractx.Entry
	DraftPrompt string
	RawOutput   string

	Call   *contractx.ToolCall
	Result contractx.ToolResult

	FinalText string
}

// HasToolCall reports whether detection found a tool-call envelope.
func (s *GraphState) HasToolCall() bool {
	return s != nil && s.Call != nil
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}
	return &GraphState{
		UserID:  userID,
		Message: message,
	}, nil
}

var errNilGraphState = errors.New("graph state is nil")
