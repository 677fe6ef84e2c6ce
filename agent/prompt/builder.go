package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

// BuildDraft assembles the first prompt of a cycle: system instructions, the
// trailing context window as an uppercased-role transcript, and the current
// user message.
func BuildDraft(system string, window []contractx.Entry, message string) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")

	for _, e := range window {
		b.WriteString(strings.ToUpper(string(e.Role)))
		b.WriteString(": ")
		b.WriteString(e.Content)
		b.WriteString("\n\n")
	}

	b.WriteString("USER: ")
	b.WriteString(message)
	b.WriteString("\n\nAssistant:")
	return b.String()
}

// BuildGrounding extends the draft prompt with the literal tool call and its
// result, instructing the model to answer the user from that outcome.
func BuildGrounding(draft string, call contractx.ToolCall, result contractx.ToolResult) string {
	callJSON, err := json.Marshal(call)
	if err != nil {
		callJSON = []byte(fmt.Sprintf("%+v", call))
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf("%+v", result))
	}

	var b strings.Builder
	b.WriteString(draft)
	b.WriteString("\n\nTool call: ")
	b.Write(callJSON)
	b.WriteString("\nTool result: ")
	b.Write(resultJSON)
	b.WriteString("\n\nBased on the tool result, provide a natural, helpful response to the user.")
	return b.String()
}

// Fallback is the templated answer used when the grounding call yields no
// usable text.
func Fallback(result contractx.ToolResult) string {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("Task completed: %+v", result)
	}
	return fmt.Sprintf("Task completed: %s", resultJSON)
}
