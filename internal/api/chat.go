package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IanScripts/Learnbot-AiTutor/internal/identity"
	"github.com/IanScripts/Learnbot-AiTutor/internal/tutor"
)

// ChatHandler handles dialogue and session endpoints.
type ChatHandler struct {
	*Handler
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(base *Handler) *ChatHandler {
	return &ChatHandler{Handler: base}
}

// RegisterRoutes registers dialogue and session routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat-welcome", h.Welcome)
	r.Post("/api/chat", h.Chat)
	r.Get("/api/sessions", h.ListSessions)
	r.Get("/api/sessions/{id}", h.GetSession)
	r.Delete("/api/sessions/{id}", h.DeleteSession)
	r.Get("/api/stats/game", h.GameStats)
}

type welcomeRequest struct {
	GradeLevel string `json:"grade_level"`
	Topic      string `json:"topic"`
	StepByStep bool   `json:"step_by_step"`
	Persona    string `json:"persona"`
}

type replyResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// Welcome opens a fresh session with a persona greeting.
func (h *ChatHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	var req welcomeRequest
	if !decode(w, r, &req) {
		return
	}

	reply, err := h.svc.Welcome(r.Context(), identity.UsernameFromContext(r.Context()), tutor.WelcomeInput{
		GradeLevel: req.GradeLevel,
		Topic:      req.Topic,
		StepByStep: req.StepByStep,
		Persona:    req.Persona,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, replyResponse{Reply: reply.Text, SessionID: reply.SessionID})
}

type chatRequest struct {
	Message     string `json:"message"`
	GradeLevel  string `json:"grade_level"`
	Topic       string `json:"topic"`
	SessionID   string `json:"session_id"`
	StepByStep  bool   `json:"step_by_step"`
	MiniLecture bool   `json:"mini_lecture"`
	Persona     string `json:"persona"`
	Mode        string `json:"mode"`
	Difficulty  string `json:"difficulty"`
}

// Chat runs one dialogue exchange on an existing or substituted session.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}

	reply, err := h.svc.Chat(r.Context(), identity.UsernameFromContext(r.Context()), tutor.ChatInput{
		Message:     req.Message,
		GradeLevel:  req.GradeLevel,
		Topic:       req.Topic,
		SessionID:   req.SessionID,
		StepByStep:  req.StepByStep,
		MiniLecture: req.MiniLecture,
		Persona:     req.Persona,
		Mode:        req.Mode,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, replyResponse{Reply: reply.Text, SessionID: reply.SessionID})
}

type sessionSummaryResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic"`
	GradeLevel string    `json:"grade_level"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
}

// ListSessions returns the caller's tutoring sessions, newest first.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListSessions(r.Context(), identity.UsernameFromContext(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]sessionSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, sessionSummaryResponse{
			ID:         s.ID,
			Title:      s.Title,
			Topic:      s.Topic,
			GradeLevel: s.GradeLevel,
			CreatedAt:  s.CreatedAt,
			Summary:    s.Summary,
		})
	}
	JSON(w, http.StatusOK, out)
}

type turnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type sessionDetailResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Topic      string         `json:"topic"`
	GradeLevel string         `json:"grade_level"`
	Mode       string         `json:"mode"`
	Difficulty string         `json:"difficulty"`
	Persona    string         `json:"persona"`
	CreatedAt  time.Time      `json:"created_at"`
	Turns      []turnResponse `json:"turns"`
}

// GetSession returns the full transcript of one session.
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), identity.UsernameFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	turns := make([]turnResponse, 0, len(sess.Turns))
	for _, t := range sess.Turns {
		turns = append(turns, turnResponse{Role: string(t.Role), Content: t.Content, Timestamp: t.Timestamp})
	}

	JSON(w, http.StatusOK, sessionDetailResponse{
		ID:         sess.ID,
		Title:      sess.Title,
		Topic:      sess.Topic,
		GradeLevel: sess.GradeLevel,
		Mode:       string(sess.Mode),
		Difficulty: string(sess.Difficulty),
		Persona:    string(sess.Persona),
		CreatedAt:  sess.CreatedAt,
		Turns:      turns,
	})
}

// DeleteSession removes one of the caller's sessions.
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), identity.UsernameFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// GameStats reports how many practice questions the caller has attempted.
func (h *ChatHandler) GameStats(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.svc.GameModeStats(r.Context(), identity.UsernameFromContext(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]int{"questions_attempted": attempts})
}
