package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

// Executor dispatches tool calls against a Registry, normalizing every
// outcome into a ToolResult. It never propagates a raw error or panic.
type Executor struct {
	registry *Registry
}

var _ contractx.ToolGateway = (*Executor)(nil)

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute looks up and runs the named operation with the verified caller
// identity merged in out-of-band.
func (e *Executor) Execute(ctx context.Context, call contractx.ToolCall, callerID string) (result contractx.ToolResult) {
	result.Tool = call.Tool

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", call.Tool).Any("panic", r).Msg("tool panicked")
			result = contractx.ToolResult{
				Tool:       call.Tool,
				ErrKind:    contractx.ToolErrOperationFailed,
				ErrMessage: fmt.Sprintf("tool %s panicked: %v", call.Tool, r),
			}
		}
	}()

	op, ok := e.registry.Lookup(call.Tool)
	if !ok {
		result.ErrKind = contractx.ToolErrUnknownTool
		result.ErrMessage = fmt.Sprintf("unknown tool: %s", call.Tool)
		return result
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	for _, key := range op.Required {
		if _, ok := args[key]; !ok {
			result.ErrKind = contractx.ToolErrOperationFailed
			result.ErrMessage = fmt.Sprintf("%s is required", key)
			return result
		}
	}

	data, err := op.Run(ctx, args, callerID)
	if err != nil {
		log.Debug().Str("tool", call.Tool).Err(err).Msg("tool execution failed")
		result.ErrKind = contractx.ToolErrOperationFailed
		result.ErrMessage = err.Error()
		return result
	}

	result.Data = data
	return result
}
