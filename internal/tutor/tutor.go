// Package tutor is the dialogue orchestrator: it composes the session
// registry, prompt builder, challenge generators and the generation
// client into the operations the API layer exposes.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/guided"
	"github.com/IanScripts/Learnbot-AiTutor/internal/llm"
	"github.com/IanScripts/Learnbot-AiTutor/internal/prompt"
	"github.com/IanScripts/Learnbot-AiTutor/internal/quiz"
	"github.com/IanScripts/Learnbot-AiTutor/internal/session"
)

// miniLecturePlaceholder stands in for the user turn when a mini-lecture
// is requested without any free-form text.
const miniLecturePlaceholder = "(mini-lecture requested)"

// Service orchestrates tutoring dialogue.
type Service struct {
	registry *session.Registry
	provider llm.Provider
	quiz     *quiz.Generator
	guided   *guided.Generator
}

// New creates a Service over the given registry and generation client.
func New(registry *session.Registry, provider llm.Provider) *Service {
	return &Service{
		registry: registry,
		provider: provider,
		quiz:     quiz.NewGenerator(provider, quiz.DefaultConfig()),
		guided:   guided.NewGenerator(provider, guided.DefaultConfig()),
	}
}

// Reply is the outcome of a welcome or chat exchange.
type Reply struct {
	Text      string
	SessionID string
}

// WelcomeInput configures a session-opening greeting.
type WelcomeInput struct {
	GradeLevel string
	Topic      string
	StepByStep bool
	Persona    string
}

// Welcome creates a fresh session and generates its greeting. The
// "introduce yourself" instruction is internal and never stored; only the
// bot greeting is persisted, so the transcript starts clean.
func (s *Service) Welcome(ctx context.Context, owner string, in WelcomeInput) (*Reply, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	topic := orDefault(in.Topic, prompt.WelcomeTopic)
	grade := orDefault(in.GradeLevel, prompt.DefaultGradeLevel)
	persona := domain.ParsePersona(in.Persona)

	sess, err := s.registry.Create(ctx, session.CreateParams{
		Owner:      owner,
		Topic:      topic,
		GradeLevel: grade,
		Mode:       domain.ModeTeacher,
		Difficulty: domain.DifficultyNormal,
		Persona:    persona,
	})
	if err != nil {
		return nil, err
	}

	system, user := prompt.Build(prompt.Input{
		Persona:    persona,
		StepByStep: in.StepByStep,
		GradeLevel: grade,
		Topic:      topic,
		Message:    prompt.WelcomeInstruction(grade),
	})

	reply, err := s.generate(ctx, "welcome", system, user)
	if err != nil {
		return nil, err
	}

	if err := s.registry.AppendTurn(ctx, sess.ID, domain.RoleBot, reply); err != nil {
		return nil, err
	}
	return &Reply{Text: reply, SessionID: sess.ID}, nil
}

// ChatInput is one chat turn from the student.
type ChatInput struct {
	Message     string
	GradeLevel  string
	Topic       string
	SessionID   string
	StepByStep  bool
	MiniLecture bool
	Persona     string
	Mode        string
	Difficulty  string
}

// Chat runs one dialogue exchange. The session's metadata is overwritten
// with the latest request values on every turn; the user turn is appended
// before generation and the bot turn after.
func (s *Service) Chat(ctx context.Context, owner string, in ChatInput) (*Reply, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	topic := orDefault(in.Topic, prompt.ChatTopic)
	grade := orDefault(in.GradeLevel, prompt.DefaultGradeLevel)
	persona := domain.ParsePersona(in.Persona)
	mode := domain.ParseMode(in.Mode)
	difficulty := domain.ParseDifficulty(in.Difficulty)

	sess, err := s.resolveOrCreate(ctx, owner, in.SessionID, session.CreateParams{
		Owner:      owner,
		Topic:      topic,
		GradeLevel: grade,
		Mode:       mode,
		Difficulty: difficulty,
		Persona:    persona,
	})
	if err != nil {
		return nil, err
	}

	userTurn := in.Message
	if in.MiniLecture && strings.TrimSpace(userTurn) == "" {
		userTurn = miniLecturePlaceholder
	}

	if _, err := s.registry.Mutate(ctx, sess.ID, func(rec *domain.Session) {
		rec.Topic = topic
		rec.GradeLevel = grade
		rec.Mode = mode
		rec.Difficulty = difficulty
		rec.Persona = persona
		rec.AddTurn(domain.RoleUser, userTurn)
	}); err != nil {
		return nil, err
	}

	system, user := prompt.Build(prompt.Input{
		Persona:     persona,
		StepByStep:  in.StepByStep,
		MiniLecture: in.MiniLecture,
		GradeLevel:  grade,
		Topic:       topic,
		Message:     in.Message,
	})

	reply, err := s.generate(ctx, "chat", system, user)
	if err != nil {
		return nil, err
	}

	if err := s.registry.AppendTurn(ctx, sess.ID, domain.RoleBot, reply); err != nil {
		return nil, err
	}
	return &Reply{Text: reply, SessionID: sess.ID}, nil
}

// resolveOrCreate is the session-substitution policy: a blank id, an
// unknown id, or an id owned by someone else all silently yield a brand
// new session instead of an error. The permissiveness is deliberate.
func (s *Service) resolveOrCreate(ctx context.Context, owner, id string, p session.CreateParams) (*domain.Session, error) {
	if id != "" {
		sess, err := s.registry.FindForOwner(ctx, id, owner)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return sess, nil
		}
	}
	return s.registry.Create(ctx, p)
}

// SessionSummary is one row of a session list.
type SessionSummary struct {
	ID         string
	Title      string
	Topic      string
	CreatedAt  time.Time
	GradeLevel string
	Summary    string
}

// ListSessions returns the owner's teacher-mode sessions, newest-first.
func (s *Service) ListSessions(ctx context.Context, owner string) ([]SessionSummary, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	sessions, err := s.registry.ListForOwner(ctx, owner, domain.ModeTeacher)
	if err != nil {
		return nil, err
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionSummary{
			ID:         sess.ID,
			Title:      sess.Title,
			Topic:      sess.Topic,
			CreatedAt:  sess.CreatedAt,
			GradeLevel: sess.GradeLevel,
			Summary:    session.Summary(sess),
		})
	}
	return out, nil
}

// GetSession returns the full session detail, owner-checked.
func (s *Service) GetSession(ctx context.Context, owner, id string) (*domain.Session, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}
	sess, err := s.registry.FindForOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// DeleteSession removes the session, owner-checked.
func (s *Service) DeleteSession(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrUnauthorized
	}
	deleted, err := s.registry.DeleteForOwner(ctx, id, owner)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// GameModeStats counts the owner's user-authored turns across all
// game-mode sessions: one turn per practice attempt.
func (s *Service) GameModeStats(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, ErrUnauthorized
	}

	sessions, err := s.registry.ListForOwner(ctx, owner, domain.ModeGame)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, sess := range sessions {
		total += sess.UserTurnCount()
	}
	return total, nil
}

// generate runs one generation-client call and maps a hard failure to
// ErrUpstream.
func (s *Service) generate(ctx context.Context, purpose, system, user string) (string, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return llm.TextContent(resp), nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
