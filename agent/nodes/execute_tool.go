package orchestratornode

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

var ErrNoToolCall = errors.New("no tool call detected")

// ExecuteTool dispatches the detected call through the gateway. The caller
// identity comes from the verified request, never from model arguments. Tool
// failures are absorbed into the result envelope and ground the next call.
func ExecuteTool(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if in == nil {
		return nil, errNilGraphState
	}
	if in.Call == nil {
		return nil, ErrNoToolCall
	}

	in.Result = tools.Execute(ctx, *in.Call, in.UserID)
	if in.Result.Failed() {
		log.Debug().
			Str("user_id", in.UserID).
			Str("tool", in.Call.Tool).
			Str("error", in.Result.ErrMessage).
			Msg("tool returned error envelope")
	}
	return in, nil
}
