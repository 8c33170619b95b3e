package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/prompt"
	"github.com/IanScripts/Learnbot-AiTutor/internal/quiz"
	"github.com/IanScripts/Learnbot-AiTutor/internal/session"
)

// PracticeInput selects topic, grade and optionally an existing practice
// session for quiz and guided operations.
type PracticeInput struct {
	Topic      string
	GradeLevel string
	SessionID  string
}

// QuizChallenge is an issued multiple-choice question. The correct answer
// stays on the session, never in the response.
type QuizChallenge struct {
	SessionID string
	Question  string
	Choices   []string
}

// QuizResult is the outcome of an answer check, with the next challenge
// already issued so play continues without an extra round trip.
type QuizResult struct {
	Correct       bool
	Explanation   string
	CorrectAnswer string
	Next          *QuizChallenge
}

// StartQuiz issues a multiple-choice challenge on a game-mode session,
// creating one when needed. The challenge is recorded on the session so a
// later answer check is scoped to this conversation only.
func (s *Service) StartQuiz(ctx context.Context, owner string, in PracticeInput) (*QuizChallenge, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	topic := orDefault(in.Topic, "General Math")
	grade := orDefault(in.GradeLevel, prompt.DefaultGradeLevel)

	sess, err := s.resolveOrCreate(ctx, owner, in.SessionID, session.CreateParams{
		Owner:      owner,
		Topic:      topic,
		GradeLevel: grade,
		Mode:       domain.ModeGame,
		Difficulty: domain.DifficultyNormal,
		Persona:    domain.PersonaCoach,
	})
	if err != nil {
		return nil, err
	}

	ch := s.quiz.Generate(ctx, topic, grade, sess.QuizQuestion)

	if _, err := s.registry.Mutate(ctx, sess.ID, func(rec *domain.Session) {
		rec.QuizQuestion = ch.Question
		rec.QuizAnswer = ch.Correct
	}); err != nil {
		return nil, err
	}

	return &QuizChallenge{SessionID: sess.ID, Question: ch.Question, Choices: ch.Choices}, nil
}

// AnswerQuiz checks the student's answer against the session's recorded
// challenge, records the attempt as a turn pair, and issues the next
// challenge.
func (s *Service) AnswerQuiz(ctx context.Context, owner, sessionID, userAnswer string) (*QuizResult, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	// Consume the challenge under the session lock so a challenge can be
	// checked by exactly one answer, no matter how the requests interleave.
	// The question text stays behind so the next generation can avoid
	// repeating it.
	var (
		owned    bool
		answer   string
		question string
		topic    string
		grade    string
	)
	ok, err := s.registry.Mutate(ctx, sessionID, func(rec *domain.Session) {
		if rec.Owner != owner {
			return
		}
		owned = true
		answer = rec.QuizAnswer
		question = rec.QuizQuestion
		topic = rec.Topic
		grade = rec.GradeLevel
		rec.QuizAnswer = ""
	})
	if err != nil {
		return nil, err
	}
	if !ok || !owned {
		return nil, ErrNotFound
	}
	if answer == "" {
		return nil, ErrNoChallenge
	}

	res := quiz.Check(userAnswer, answer)

	next := s.quiz.Generate(ctx, topic, grade, question)

	if _, err := s.registry.Mutate(ctx, sessionID, func(rec *domain.Session) {
		rec.AddTurn(domain.RoleUser, userAnswer)
		rec.AddTurn(domain.RoleBot, res.Explanation)
		rec.QuizQuestion = next.Question
		rec.QuizAnswer = next.Correct
	}); err != nil {
		return nil, err
	}

	return &QuizResult{
		Correct:       res.Correct,
		Explanation:   res.Explanation,
		CorrectAnswer: res.CorrectAnswer,
		Next:          &QuizChallenge{SessionID: sessionID, Question: next.Question, Choices: next.Choices},
	}, nil
}

// GuidedReply is one message in a guided-practice exchange.
type GuidedReply struct {
	SessionID  string
	BotMessage string
	Done       bool
}

// StartGuided generates a step-decomposed problem on a guided game-mode
// session and presents its first step.
func (s *Service) StartGuided(ctx context.Context, owner string, in PracticeInput) (*GuidedReply, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	topic := orDefault(in.Topic, "General Math")
	grade := orDefault(in.GradeLevel, prompt.DefaultGradeLevel)

	sess, err := s.resolveOrCreate(ctx, owner, in.SessionID, session.CreateParams{
		Owner:      owner,
		Topic:      topic,
		GradeLevel: grade,
		Mode:       domain.ModeGame,
		Difficulty: domain.DifficultyGuided,
		Persona:    domain.PersonaCoach,
	})
	if err != nil {
		return nil, err
	}

	p := s.guided.Generate(ctx, topic, grade)

	msg := fmt.Sprintf("Here's our problem: %s\nStep 1: %s", p.Problem, p.Steps[0])

	if _, err := s.registry.Mutate(ctx, sess.ID, func(rec *domain.Session) {
		rec.CurrentProblem = p.Problem
		rec.Steps = p.Steps
		rec.StepIndex = 0
		rec.AddTurn(domain.RoleBot, msg)
	}); err != nil {
		return nil, err
	}

	return &GuidedReply{SessionID: sess.ID, BotMessage: msg, Done: false}, nil
}

// GuidedNext checks the student's answer for the current step (advisory
// feedback only), advances the step index, and presents the next step or
// the completion message.
func (s *Service) GuidedNext(ctx context.Context, owner, sessionID, userMessage string) (*GuidedReply, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	// Claim the current step under the session lock by advancing the index
	// right away. Each step is answerable exactly once; a concurrent call
	// sees the next step or, past the last one, no active problem.
	var (
		owned   bool
		active  bool
		problem string
		step    string
		index   int
		steps   []string
	)
	ok, err := s.registry.Mutate(ctx, sessionID, func(rec *domain.Session) {
		if rec.Owner != owner {
			return
		}
		owned = true
		if rec.CurrentProblem == "" || rec.StepIndex >= len(rec.Steps) {
			return
		}
		active = true
		problem = rec.CurrentProblem
		step = rec.Steps[rec.StepIndex]
		index = rec.StepIndex
		steps = rec.Steps
		rec.StepIndex++
	})
	if err != nil {
		return nil, err
	}
	if !ok || !owned {
		return nil, ErrNotFound
	}
	if !active {
		return nil, ErrNoProblem
	}

	nextIndex := index + 1
	done := nextIndex >= len(steps)

	feedback, err := s.guided.CheckStep(ctx, problem, step, userMessage)
	if err != nil {
		// Give the step back so the student can retry after the outage.
		s.registry.Mutate(ctx, sessionID, func(rec *domain.Session) {
			if rec.CurrentProblem == problem && rec.StepIndex == nextIndex {
				rec.StepIndex = index
			}
		})
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	var msg strings.Builder
	msg.WriteString(feedback)
	if done {
		msg.WriteString("\nThat was the last step. Great work, you finished the problem!")
	} else {
		fmt.Fprintf(&msg, "\nStep %d: %s", nextIndex+1, steps[nextIndex])
	}

	if _, err := s.registry.Mutate(ctx, sessionID, func(rec *domain.Session) {
		rec.AddTurn(domain.RoleUser, userMessage)
		if done && rec.CurrentProblem == problem {
			rec.CurrentProblem = ""
			rec.Steps = nil
			rec.StepIndex = 0
		}
		rec.AddTurn(domain.RoleBot, msg.String())
	}); err != nil {
		return nil, err
	}

	return &GuidedReply{SessionID: sessionID, BotMessage: msg.String(), Done: done}, nil
}

// Hint returns a short advisory hint for a practice problem.
func (s *Service) Hint(ctx context.Context, owner, problem, userAnswer string) (string, error) {
	if owner == "" {
		return "", ErrUnauthorized
	}
	hint, err := s.guided.Hint(ctx, problem, userAnswer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return hint, nil
}
