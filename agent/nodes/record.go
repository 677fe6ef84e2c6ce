package orchestratornode

import (
	"context"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

// Record commits a completed cycle to conversation memory: the user message
// and the final answer as one atomic pair, then a trim so the retention
// invariant holds immediately. A cancelled context aborts before any append
// so no half-formed turn ever lands in the store.
func Record(ctx context.Context, in *GraphState, store contractx.ConversationStore) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, errNilGraphState
	}
	if err := ctx.Err(); err != nil {
		return GraphOutput{}, err
	}

	store.Append(in.UserID, contractx.Entry{Role: contractx.RoleUser, Content: in.Message})
	store.Append(in.UserID, contractx.Entry{Role: contractx.RoleAgent, Content: in.FinalText})
	store.Trim(in.UserID)

	return GraphOutput{Text: in.FinalText}, nil
}
