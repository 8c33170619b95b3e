package session

import "github.com/IanScripts/Learnbot-AiTutor/internal/domain"

// Summary returns a one-line summary for session lists: the first bot turn,
// or "(empty)" when the session has no turns yet.
func Summary(s *domain.Session) string {
	if len(s.Turns) == 0 {
		return "(empty)"
	}
	for _, t := range s.Turns {
		if t.Role == domain.RoleBot {
			return t.Content
		}
	}
	return "(no summary)"
}
