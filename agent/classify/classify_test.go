package classify

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

func TestClassifyKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want contractx.ErrorKind
	}{
		{"status 429", errors.New("rpc error: code 429 too many requests"), contractx.ErrKindQuotaExceeded},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: per-minute limit"), contractx.ErrKindQuotaExceeded},
		{"quota word lowercase", errors.New("project Quota exceeded for model"), contractx.ErrKindQuotaExceeded},
		{"invalid argument", errors.New("INVALID_ARGUMENT: bad request"), contractx.ErrKindAPIKey},
		{"api key", errors.New("API key not valid"), contractx.ErrKindAPIKey},
		{"api key case", errors.New("invalid api KEY supplied"), contractx.ErrKindAPIKey},
		{"anything else", errors.New("connection reset by peer"), contractx.ErrKindGeneral},
		{"nil error", nil, contractx.ErrKindGeneral},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kind, msg := Classify(tc.err)
			if kind != tc.want {
				t.Fatalf("kind=%s want=%s", kind, tc.want)
			}
			if msg == "" {
				t.Fatal("message must never be empty")
			}
		})
	}
}

func TestClassifyGeneralTruncatesRawError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	kind, msg := Classify(errors.New(long))
	if kind != contractx.ErrKindGeneral {
		t.Fatalf("unexpected kind: %s", kind)
	}
	if strings.Contains(msg, strings.Repeat("x", 101)) {
		t.Fatal("raw error must be truncated to 100 chars")
	}
	if !strings.Contains(msg, strings.Repeat("x", 100)) {
		t.Fatal("truncated raw error should be embedded in message")
	}
}

func TestClassifyFixedTemplates(t *testing.T) {
	t.Parallel()

	_, quotaMsg := Classify(errors.New("429"))
	if !strings.Contains(quotaMsg, "daily API limit") {
		t.Fatalf("unexpected quota message: %s", quotaMsg)
	}
	_, keyMsg := Classify(errors.New("INVALID_ARGUMENT"))
	if !strings.Contains(keyMsg, "API configuration") {
		t.Fatalf("unexpected api key message: %s", keyMsg)
	}
}
