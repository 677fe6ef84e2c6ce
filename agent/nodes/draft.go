package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	promptx "github.com/taskmaster-ai/taskmaster-agent/agent/prompt"
)

// LoadContext reads the trailing context window for the user. Read-only.
func LoadContext(in *GraphState, store contractx.ConversationStore, size int) (*GraphState, error) {
	if in == nil {
		return nil, errNilGraphState
	}
	in.Window = store.Window(in.UserID, size)
	return in, nil
}

// Draft builds the first prompt of the cycle and submits it to the generation
// client. A failing call is fatal to the cycle and wrapped in ErrGenerate.
func Draft(
	ctx context.Context,
	in *GraphState,
	gen contractx.Generator,
	system string,
	opts contractx.GenerateOptions,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilGraphState
	}

	in.DraftPrompt = promptx.BuildDraft(system, in.Window, in.Message)

	out, err := gen.Generate(ctx, in.DraftPrompt, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrGenerate, err)
	}

	in.RawOutput = out
	log.Debug().Str("user_id", in.UserID).Int("output_len", len(out)).Msg("draft generated")
	return in, nil
}
