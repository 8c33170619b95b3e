// Package domain holds the core tutoring types shared across the service.
package domain

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is a single message in a session transcript. Turns are appended,
// never edited or removed individually.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one continuous tutoring conversation owned by a user.
// ID and Owner are fixed at creation; the remaining metadata reflects the
// most recent chat request, not the one that created the session.
type Session struct {
	ID         string
	Owner      string
	Title      string
	Topic      string
	GradeLevel string
	Mode       Mode
	Difficulty Difficulty
	Persona    Persona
	CreatedAt  time.Time

	// Turns is the append-only dialogue ledger, oldest first.
	Turns []Turn

	// Guided-practice state. Empty until a guided problem is generated.
	CurrentProblem string
	Steps          []string
	StepIndex      int

	// Last issued multiple-choice challenge for this session. Kept on the
	// session so concurrent users can never see each other's challenge.
	QuizQuestion string
	QuizAnswer   string
}

// AddTurn appends a turn stamped with the current time.
func (s *Session) AddTurn(role Role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, Timestamp: time.Now()})
}

// UserTurnCount returns the number of user-authored turns.
func (s *Session) UserTurnCount() int {
	n := 0
	for _, t := range s.Turns {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}
