package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IanScripts/Learnbot-AiTutor/internal/identity"
	"github.com/IanScripts/Learnbot-AiTutor/internal/tutor"
)

// PracticeHandler handles multiple-choice and guided-practice endpoints.
type PracticeHandler struct {
	*Handler
}

// NewPracticeHandler creates a new practice handler.
func NewPracticeHandler(base *Handler) *PracticeHandler {
	return &PracticeHandler{Handler: base}
}

// RegisterRoutes registers practice routes.
func (h *PracticeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/mc/start", h.StartQuiz)
	r.Post("/api/mc/answer", h.AnswerQuiz)
	r.Post("/api/chat-step/start", h.StartGuided)
	r.Post("/api/chat-step/next", h.GuidedNext)
	r.Post("/api/practice/hint", h.Hint)
}

type practiceRequest struct {
	Topic      string `json:"topic"`
	GradeLevel string `json:"grade_level"`
	SessionID  string `json:"session_id"`
}

type challengeResponse struct {
	SessionID string   `json:"session_id"`
	Question  string   `json:"question"`
	Choices   []string `json:"choices"`
}

// StartQuiz issues a multiple-choice challenge.
func (h *PracticeHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if !decode(w, r, &req) {
		return
	}

	ch, err := h.svc.StartQuiz(r.Context(), identity.UsernameFromContext(r.Context()), tutor.PracticeInput{
		Topic:      req.Topic,
		GradeLevel: req.GradeLevel,
		SessionID:  req.SessionID,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, challengeResponse{SessionID: ch.SessionID, Question: ch.Question, Choices: ch.Choices})
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type answerResponse struct {
	Correct       bool               `json:"correct"`
	Explanation   string             `json:"explanation"`
	CorrectAnswer string             `json:"correct_answer"`
	Next          *challengeResponse `json:"next,omitempty"`
}

// AnswerQuiz checks an answer and returns the verdict plus the next
// challenge.
func (h *PracticeHandler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.AnswerQuiz(r.Context(), identity.UsernameFromContext(r.Context()), req.SessionID, req.Answer)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := answerResponse{
		Correct:       res.Correct,
		Explanation:   res.Explanation,
		CorrectAnswer: res.CorrectAnswer,
	}
	if res.Next != nil {
		out.Next = &challengeResponse{SessionID: res.Next.SessionID, Question: res.Next.Question, Choices: res.Next.Choices}
	}
	JSON(w, http.StatusOK, out)
}

type guidedResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Done      bool   `json:"done"`
}

// StartGuided generates a step-decomposed problem and presents its first
// step.
func (h *PracticeHandler) StartGuided(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if !decode(w, r, &req) {
		return
	}

	rep, err := h.svc.StartGuided(r.Context(), identity.UsernameFromContext(r.Context()), tutor.PracticeInput{
		Topic:      req.Topic,
		GradeLevel: req.GradeLevel,
		SessionID:  req.SessionID,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, guidedResponse{SessionID: rep.SessionID, Reply: rep.BotMessage, Done: rep.Done})
}

type guidedNextRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// GuidedNext checks the current step's answer and advances.
func (h *PracticeHandler) GuidedNext(w http.ResponseWriter, r *http.Request) {
	var req guidedNextRequest
	if !decode(w, r, &req) {
		return
	}

	rep, err := h.svc.GuidedNext(r.Context(), identity.UsernameFromContext(r.Context()), req.SessionID, req.Message)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, guidedResponse{SessionID: rep.SessionID, Reply: rep.BotMessage, Done: rep.Done})
}

type hintRequest struct {
	Problem    string `json:"problem"`
	UserAnswer string `json:"user_answer"`
}

// Hint returns a short nudge for a practice problem.
func (h *PracticeHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if !decode(w, r, &req) {
		return
	}

	hint, err := h.svc.Hint(r.Context(), identity.UsernameFromContext(r.Context()), req.Problem, req.UserAnswer)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"hint": hint})
}
