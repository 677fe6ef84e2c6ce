package orchestratornode

import (
	"encoding/json"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

// Detect inspects the raw model output for a single tool-call envelope. The
// parse is a tagged-variant decode of a fixed schema: anything that fails to
// decode degrades to plain text and is never a protocol error. Trimming is
// for envelope detection only; plain text passes through verbatim.
func Detect(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, errNilGraphState
	}

	call, ok := parseToolCall(strings.TrimSpace(in.RawOutput))
	if !ok {
		in.FinalText = in.RawOutput
		return in, nil
	}
	in.Call = &call
	return in, nil
}

// parseToolCall decodes {"tool": ..., "args": {...}}. Both fields must be
// present; only one call per cycle is recognized.
func parseToolCall(raw string) (contractx.ToolCall, bool) {
	if !strings.HasPrefix(raw, "{") {
		return contractx.ToolCall{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return contractx.ToolCall{}, false
	}
	rawTool, hasTool := fields["tool"]
	rawArgs, hasArgs := fields["args"]
	if !hasTool || !hasArgs {
		return contractx.ToolCall{}, false
	}

	var tool string
	if err := json.Unmarshal(rawTool, &tool); err != nil || strings.TrimSpace(tool) == "" {
		return contractx.ToolCall{}, false
	}
	args := map[string]any{}
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return contractx.ToolCall{}, false
	}

	return contractx.ToolCall{Tool: strings.TrimSpace(tool), Args: args}, true
}
