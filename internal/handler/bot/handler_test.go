package bot

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/edventure/tutorbot/internal/conversation"
	"github.com/edventure/tutorbot/internal/model/convo"
	"github.com/edventure/tutorbot/internal/model/user"
)

func newTestServer(t *testing.T) (*httptest.Server, *conversation.Engine) {
	t.Helper()
	engine := conversation.New(user.NewMemoryStore(), nil, []string{"ICT", "Math"}, "IGCSE")

	r := chi.NewRouter()
	New(engine).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, engine
}

func postJSON(t *testing.T, url string, payload any) (*http.Response, repliesResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var out repliesResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, out
}

func TestCommandEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/commands", eventPayload{
		UserID:  "u1",
		Command: "/start",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.StatusCode)
	}
	if len(out.Replies) != 1 || out.Replies[0].Text == "" {
		t.Fatalf("expected a greeting reply, got %+v", out.Replies)
	}
}

func TestCommandEndpointRejectsUnknownCommand(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/commands", eventPayload{
		UserID:  "u1",
		Command: "/selfdestruct",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestCommandEndpointRequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/commands", eventPayload{Command: "/start"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestMessageEndpointDrivesRegistrationFlow(t *testing.T) {
	srv, engine := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/commands", eventPayload{
		UserID:  "u1",
		Command: "register",
	})
	if resp.StatusCode != http.StatusOK || len(out.Replies) != 1 {
		t.Fatalf("register command failed: %d %+v", resp.StatusCode, out)
	}

	resp, out = postJSON(t, srv.URL+"/messages", eventPayload{
		UserID:   "u1",
		Username: "tester",
		Text:     "A@B.com",
	})
	if resp.StatusCode != http.StatusOK || len(out.Replies) != 1 {
		t.Fatalf("email message failed: %d %+v", resp.StatusCode, out)
	}

	if st, ok := engine.Sessions().Peek("u1"); !ok || st.State != convo.StateIdle {
		t.Fatalf("registration did not return to idle: %+v", st)
	}
}

func TestMessageEndpointTranslatesMenuLabels(t *testing.T) {
	srv, _ := newTestServer(t)

	// The menu button text must dispatch as its command: unauthenticated,
	// that means the login-required refusal rather than an idle hint.
	resp, out := postJSON(t, srv.URL+"/messages", eventPayload{
		UserID: "u1",
		Text:   "📚 My Subjects",
	})
	if resp.StatusCode != http.StatusOK || len(out.Replies) != 1 {
		t.Fatalf("menu label failed: %d %+v", resp.StatusCode, out)
	}
	if out.Replies[0].Text == "" || !out.Replies[0].ClearMenu {
		t.Fatalf("expected gated refusal, got %+v", out.Replies[0])
	}
}

func TestMessageEndpointTranslatesSlashCommands(t *testing.T) {
	srv, engine := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/messages", eventPayload{
		UserID: "u1",
		Text:   "/register",
	})
	if resp.StatusCode != http.StatusOK || len(out.Replies) != 1 {
		t.Fatalf("slash text failed: %d %+v", resp.StatusCode, out)
	}
	if st, ok := engine.Sessions().Peek("u1"); !ok || st.State != convo.StateRegisterAwaitEmail {
		t.Fatalf("slash text did not dispatch as command: %+v", st)
	}
}

func TestMessageEndpointRequiresText(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/messages", eventPayload{UserID: "u1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestSelectionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/selections", eventPayload{
		UserID: "u1",
		Data:   convo.Selection{Action: convo.ActionAdd, Subject: "Math"}.Encode(),
	})
	if resp.StatusCode != http.StatusOK || len(out.Replies) != 1 {
		t.Fatalf("selection failed: %d %+v", resp.StatusCode, out)
	}
	// Unauthenticated, so the gate answers with an edit-in-place refusal.
	if !out.Replies[0].Edit {
		t.Fatalf("expected edit reply, got %+v", out.Replies[0])
	}
}

func TestSelectionEndpointRejectsMalformedData(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/selections", eventPayload{
		UserID: "u1",
		Data:   "garbage",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestInvalidBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/commands", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}
