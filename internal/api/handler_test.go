package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/IanScripts/Learnbot-AiTutor/internal/identity"
	"github.com/IanScripts/Learnbot-AiTutor/internal/llm"
	"github.com/IanScripts/Learnbot-AiTutor/internal/session"
	"github.com/IanScripts/Learnbot-AiTutor/internal/store"
	"github.com/IanScripts/Learnbot-AiTutor/internal/tutor"
)

func newTestRouter(responses ...llm.MockResponse) http.Handler {
	mock := llm.NewMockProvider(responses...)
	svc := tutor.New(session.NewRegistry(store.NewMemory()), mock)

	base := NewHandler(svc)
	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	NewChatHandler(base).RegisterRoutes(r)
	NewPracticeHandler(base).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(identity.UserHeaderName, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func textContent(s string) llm.MockResponse {
	raw, _ := json.Marshal(s)
	return llm.MockResponse{Content: raw}
}

func TestChatEndpoint(t *testing.T) {
	r := newTestRouter(textContent("2 + 2 = 4!"))

	rec := doJSON(t, r, http.MethodPost, "/api/chat", "amy", `{"message":"What is 2+2?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Reply     string `json:"reply"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Reply != "2 + 2 = 4!" {
		t.Errorf("unexpected reply: %q", out.Reply)
	}
	if out.SessionID == "" {
		t.Error("expected a session id")
	}
}

func TestChatEndpoint_BadBody(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/api/chat", "amy", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatEndpoint_UpstreamFailure(t *testing.T) {
	r := newTestRouter() // empty mock queue fails generation

	rec := doJSON(t, r, http.MethodPost, "/api/chat", "amy", `{"message":"hi"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionEndpoints(t *testing.T) {
	r := newTestRouter(textContent("hello!"))

	rec := doJSON(t, r, http.MethodPost, "/api/chat", "amy", `{"message":"hi","topic":"addition"}`)
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/sessions", "amy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var list []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.SessionID {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Summary != "hello!" {
		t.Errorf("expected the first bot turn as summary, got %q", list[0].Summary)
	}

	// Another user sees neither the list entry nor the detail.
	rec = doJSON(t, r, http.MethodGet, "/api/sessions", "ben", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected an empty list for ben, got %s", body)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/sessions/"+created.SessionID, "ben", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for ben, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/sessions/"+created.SessionID, "amy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, "/api/sessions/"+created.SessionID, "amy", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete: expected 404, got %d", rec.Code)
	}
}

func TestQuizEndpoints(t *testing.T) {
	challenge, _ := json.Marshal(map[string]any{
		"question": "What is 5 + 7?",
		"choices":  []string{"10", "11", "12", "13"},
		"correct":  "C",
	})
	next, _ := json.Marshal(map[string]any{
		"question": "What is 6 + 7?",
		"choices":  []string{"11", "12", "13", "14"},
		"correct":  "C",
	})
	r := newTestRouter(llm.MockResponse{Content: challenge}, llm.MockResponse{Content: next})

	rec := doJSON(t, r, http.MethodPost, "/api/mc/start", "amy", `{"topic":"addition","grade_level":"2nd grade"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ch struct {
		SessionID string   `json:"session_id"`
		Question  string   `json:"question"`
		Choices   []string `json:"choices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ch); err != nil {
		t.Fatalf("decode challenge: %v", err)
	}
	if ch.Question != "What is 5 + 7?" || len(ch.Choices) != 4 {
		t.Fatalf("unexpected challenge: %+v", ch)
	}
	if strings.Contains(rec.Body.String(), `"correct"`) {
		t.Error("the correct answer must never leave the server")
	}

	rec = doJSON(t, r, http.MethodPost, "/api/mc/answer", "amy",
		`{"session_id":"`+ch.SessionID+`","answer":"12"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Correct bool `json:"correct"`
		Next    *struct {
			Question string `json:"question"`
		} `json:"next"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Correct {
		t.Error("expected a correct verdict")
	}
	if res.Next == nil || res.Next.Question != "What is 6 + 7?" {
		t.Errorf("expected the next challenge, got %+v", res.Next)
	}
}

func TestAnswerWithoutChallenge(t *testing.T) {
	r := newTestRouter(textContent("hello"))

	rec := doJSON(t, r, http.MethodPost, "/api/chat", "amy", `{"message":"hi"}`)
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/mc/answer", "amy",
		`{"session_id":"`+created.SessionID+`","answer":"12"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
