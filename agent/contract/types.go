package contract

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Entry is one immutable turn of a user's conversation history.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolCall is a structured request parsed from model output. It lives for a
// single orchestration cycle and is never persisted.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ToolErrKind labels why a tool invocation failed.
type ToolErrKind string

const (
	ToolErrUnknownTool     ToolErrKind = "unknown_tool"
	ToolErrOperationFailed ToolErrKind = "operation_failed"
)

// ToolResult is the uniform envelope for one tool invocation outcome.
// Exactly one of Data or ErrKind/ErrMessage is meaningful.
type ToolResult struct {
	Tool       string         `json:"tool"`
	Data       map[string]any `json:"data,omitempty"`
	ErrKind    ToolErrKind    `json:"error_kind,omitempty"`
	ErrMessage string         `json:"error,omitempty"`
}

// Failed reports whether the invocation ended in an error envelope.
func (r ToolResult) Failed() bool {
	return r.ErrKind != ""
}

// ErrorKind is the user-facing classification of a generation failure.
type ErrorKind string

const (
	ErrKindQuotaExceeded ErrorKind = "quota_exceeded"
	ErrKindAPIKey        ErrorKind = "api_key_error"
	ErrKindGeneral       ErrorKind = "general_error"
)

// Outcome is the terminal artifact of one orchestration cycle.
type Outcome struct {
	Text      string    `json:"text"`
	Success   bool      `json:"success"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

// GenerateOptions tune a single generation call.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int
}
