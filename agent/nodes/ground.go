package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	promptx "github.com/taskmaster-ai/taskmaster-agent/agent/prompt"
)

// Ground makes the second generation call: draft prompt plus the literal tool
// call and result. An empty grounded reply falls back to a templated string
// embedding the raw result instead of failing the cycle; a raised call is
// fatal like any other generation failure.
func Ground(
	ctx context.Context,
	in *GraphState,
	gen contractx.Generator,
	opts contractx.GenerateOptions,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilGraphState
	}
	if in.Call == nil {
		return nil, ErrNoToolCall
	}

	groundingPrompt := promptx.BuildGrounding(in.DraftPrompt, *in.Call, in.Result)
	out, err := gen.Generate(ctx, groundingPrompt, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrGenerate, err)
	}

	text := strings.TrimSpace(out)
	if text == "" {
		text = promptx.Fallback(in.Result)
	}
	in.FinalText = text
	return in, nil
}
