// Package classify turns opaque generation-provider failures into a small set
// of user-facing error kinds with fixed message templates.
package classify

import (
	"fmt"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

const (
	quotaMessage  = "⚠️ I've reached my daily API limit. Please try again later or contact support to upgrade the service for unlimited access. The quota resets in about 24 hours."
	apiKeyMessage = "🔑 There's an issue with the API configuration. Please contact support to resolve this."
	generalFormat = "😔 I encountered an error: %s. Please try again or contact support if the issue persists."

	// maxRawErrorLen bounds how much raw provider text leaks into the
	// general template.
	maxRawErrorLen = 100
)

// matcher binds one error signal to a kind. The signal set is enumerated
// rather than free-text searched; the provider does not expose structured
// codes at this boundary, so substring matching on known markers is the best
// available contract. Known fragility inherited from the provider.
type matcher struct {
	signal string
	fold   bool
	kind   contractx.ErrorKind
}

var matchers = []matcher{
	{signal: "429", kind: contractx.ErrKindQuotaExceeded},
	{signal: "RESOURCE_EXHAUSTED", kind: contractx.ErrKindQuotaExceeded},
	{signal: "quota", fold: true, kind: contractx.ErrKindQuotaExceeded},
	{signal: "API key", fold: true, kind: contractx.ErrKindAPIKey},
	{signal: "INVALID_ARGUMENT", kind: contractx.ErrKindAPIKey},
}

// Classify maps a raw generation failure to its kind and user-facing message.
// It never fails; unmatched errors fall through to the general template.
func Classify(err error) (contractx.ErrorKind, string) {
	raw := ""
	if err != nil {
		raw = err.Error()
	}

	for _, m := range matchers {
		if m.fold {
			if strings.Contains(strings.ToLower(raw), strings.ToLower(m.signal)) {
				return m.kind, messageFor(m.kind, raw)
			}
			continue
		}
		if strings.Contains(raw, m.signal) {
			return m.kind, messageFor(m.kind, raw)
		}
	}
	return contractx.ErrKindGeneral, messageFor(contractx.ErrKindGeneral, raw)
}

func messageFor(kind contractx.ErrorKind, raw string) string {
	switch kind {
	case contractx.ErrKindQuotaExceeded:
		return quotaMessage
	case contractx.ErrKindAPIKey:
		return apiKeyMessage
	default:
		return fmt.Sprintf(generalFormat, truncate(raw, maxRawErrorLen))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
