package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	"github.com/taskmaster-ai/taskmaster-agent/pkg/authgate"
	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

type fakeAgent struct {
	mu      sync.Mutex
	outcome contractx.Outcome
	err     error
	cleared []string
	handled []string
}

func (f *fakeAgent) HandleMessage(_ context.Context, userID, message string) (contractx.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, userID+":"+message)
	return f.outcome, f.err
}

func (f *fakeAgent) ClearHistory(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, userID)
}

func newTestServer(t *testing.T, agent Agent) *httptest.Server {
	t.Helper()
	verifier, err := authgate.NewStatic("tok-alice=alice,tok-bob=bob")
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	tasks := taskx.NewService(taskx.NewMemoryStore())
	srv := New(Config{Addr: ":0"}, agent, tasks, verifier, "test-model", 4)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestHealthzOpen(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestAPIRejectsMissingToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/agent/status", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAPIRejectsUnknownToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/agent/status", "tok-nobody", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAgentStatus(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/agent/status", "tok-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "active" || body["agent_name"] != "TaskMasterAI" {
		t.Fatalf("unexpected status body: %v", body)
	}
	if body["model"] != "test-model" || body["tools_available"] != float64(4) {
		t.Fatalf("unexpected status body: %v", body)
	}
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{outcome: contractx.Outcome{Text: "Hello Alice!", Success: true}}
	ts := newTestServer(t, agent)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/agent/chat", "tok-alice",
		map[string]string{"message": "hi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["response"] != "Hello Alice!" || body["success"] != true {
		t.Fatalf("unexpected chat body: %v", body)
	}
	if len(agent.handled) != 1 || agent.handled[0] != "alice:hi" {
		t.Fatalf("agent saw %v, want [alice:hi]", agent.handled)
	}
}

func TestChatRejectsMismatchedUserID(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{outcome: contractx.Outcome{Text: "ok", Success: true}}
	ts := newTestServer(t, agent)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/agent/chat", "tok-alice",
		map[string]string{"user_id": "bob", "message": "hi"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	if len(agent.handled) != 0 {
		t.Fatalf("mismatched request must not reach the agent")
	}
}

func TestChatFailedOutcomePassesThrough(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{outcome: contractx.Outcome{
		Text:      "quota message",
		Success:   false,
		ErrorKind: contractx.ErrKindQuotaExceeded,
	}}
	ts := newTestServer(t, agent)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/agent/chat", "tok-alice",
		map[string]string{"message": "hi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("classified failures still return 200, got %d", resp.StatusCode)
	}
	if body["success"] != false || body["error_kind"] != "quota_exceeded" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestClearHistory(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{}
	ts := newTestServer(t, agent)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/agent/clear-history", "tok-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "alice") {
		t.Fatalf("message should name the user, got %q", msg)
	}
	if len(agent.cleared) != 1 || agent.cleared[0] != "alice" {
		t.Fatalf("cleared = %v", agent.cleared)
	}
}

func TestTaskRoutesEnforceOwnership(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/users/bob/tasks/", "tok-alice", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestTaskCRUDRoundTrip(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})
	base := ts.URL + "/api/users/alice/tasks"

	resp, created := doJSON(t, http.MethodPost, base+"/", "tok-alice",
		map[string]string{"title": "Buy milk", "description": "2 liters"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("create returned no id: %v", created)
	}

	resp, listed := doJSON(t, http.MethodGet, base+"/?filter=incomplete", "tok-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if listed["count"] != float64(1) {
		t.Fatalf("list count = %v", listed["count"])
	}

	resp, updated := doJSON(t, http.MethodPatch, base+"/"+id, "tok-alice",
		map[string]any{"completed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	if updated["completed"] != true {
		t.Fatalf("update body = %v", updated)
	}

	resp, stats := doJSON(t, http.MethodGet, base+"/stats", "tok-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	if stats["total"] != float64(1) || stats["completed"] != float64(1) {
		t.Fatalf("stats body = %v", stats)
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/"+id, "tok-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, base+"/"+id, "tok-alice", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/users/alice/tasks/?filter=bogus", "tok-alice", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeAgent{})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users/alice/tasks/", "tok-alice",
		map[string]string{"title": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "title") {
		t.Fatalf("error should mention title, got %q", msg)
	}
}
