package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
)

// repositories returns one of each Repository implementation so the same
// behavior suite runs against both.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	sq, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Repository{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func testSession(id, owner string, mode domain.Mode, createdAt time.Time) *domain.Session {
	return &domain.Session{
		ID:         id,
		Owner:      owner,
		Title:      "Fractions",
		Topic:      "fractions",
		GradeLevel: "3rd grade",
		Mode:       mode,
		Difficulty: domain.DifficultyNormal,
		Persona:    domain.PersonaCoach,
		CreatedAt:  createdAt,
	}
}

func TestCreateGetSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			sess := testSession("s1", "amy", domain.ModeTeacher, now)
			sess.AddTurn(domain.RoleUser, "What is 1/2 of 8?")
			sess.AddTurn(domain.RoleBot, "It's 4!")
			sess.CurrentProblem = "What is 14 + 9?"
			sess.Steps = []string{"Start at 14.", "Add 9."}
			sess.StepIndex = 1
			sess.QuizQuestion = "What is 5 + 7?"
			sess.QuizAnswer = "12"

			if err := repo.CreateSession(ctx, sess); err != nil {
				t.Fatalf("create: %v", err)
			}

			got, err := repo.GetSession(ctx, "s1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got == nil {
				t.Fatal("expected the session back")
			}
			if got.Owner != "amy" || got.Topic != "fractions" || got.Persona != domain.PersonaCoach {
				t.Errorf("metadata mismatch: %+v", got)
			}
			if len(got.Turns) != 2 || got.Turns[1].Content != "It's 4!" {
				t.Errorf("turns not round-tripped: %+v", got.Turns)
			}
			if got.CurrentProblem != "What is 14 + 9?" || len(got.Steps) != 2 || got.StepIndex != 1 {
				t.Errorf("guided state not round-tripped: %+v", got)
			}
			if got.QuizQuestion != "What is 5 + 7?" || got.QuizAnswer != "12" {
				t.Errorf("quiz state not round-tripped: %+v", got)
			}
		})
	}
}

func TestGetSession_Missing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.GetSession(context.Background(), "no-such-id")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != nil {
				t.Fatal("expected nil for a missing session")
			}
		})
	}
}

func TestUpdateSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sess := testSession("s1", "amy", domain.ModeTeacher, time.Now())
			if err := repo.CreateSession(ctx, sess); err != nil {
				t.Fatalf("create: %v", err)
			}

			sess.Topic = "shapes"
			sess.AddTurn(domain.RoleUser, "hello")
			if err := repo.UpdateSession(ctx, sess); err != nil {
				t.Fatalf("update: %v", err)
			}

			got, _ := repo.GetSession(ctx, "s1")
			if got.Topic != "shapes" || len(got.Turns) != 1 {
				t.Errorf("update not applied: %+v", got)
			}

			// Updating an unknown id is a silent no-op.
			ghost := testSession("ghost", "amy", domain.ModeTeacher, time.Now())
			if err := repo.UpdateSession(ctx, ghost); err != nil {
				t.Fatalf("update unknown id: %v", err)
			}
			if got, _ := repo.GetSession(ctx, "ghost"); got != nil {
				t.Fatal("no-op update must not create a record")
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := repo.CreateSession(ctx, testSession("s1", "amy", domain.ModeTeacher, time.Now())); err != nil {
				t.Fatalf("create: %v", err)
			}

			deleted, err := repo.DeleteSession(ctx, "s1")
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if !deleted {
				t.Fatal("expected deletion")
			}

			deleted, err = repo.DeleteSession(ctx, "s1")
			if err != nil {
				t.Fatalf("repeat delete: %v", err)
			}
			if deleted {
				t.Fatal("expected repeat delete to report false")
			}
		})
	}
}

func TestListSessions_FilterAndOrder(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().Add(-time.Hour)

			fixtures := []*domain.Session{
				testSession("old", "amy", domain.ModeTeacher, base),
				testSession("new", "amy", domain.ModeTeacher, base.Add(time.Minute)),
				testSession("game", "amy", domain.ModeGame, base.Add(2*time.Minute)),
				testSession("other", "ben", domain.ModeTeacher, base.Add(3*time.Minute)),
			}
			for _, f := range fixtures {
				if err := repo.CreateSession(ctx, f); err != nil {
					t.Fatalf("create %s: %v", f.ID, err)
				}
			}

			got, err := repo.ListSessions(ctx, "amy", domain.ModeTeacher)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 sessions, got %d", len(got))
			}
			if got[0].ID != "new" || got[1].ID != "old" {
				t.Errorf("expected newest-first, got %s then %s", got[0].ID, got[1].ID)
			}
		})
	}
}

func TestAppendLLMRequest(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			err := repo.AppendLLMRequest(context.Background(), LLMRequestEventData{
				Provider:     "anthropic",
				Model:        "test-model",
				Purpose:      "chat",
				InputTokens:  120,
				OutputTokens: 80,
				LatencyMs:    340,
				CostUSD:      0.0012,
				Success:      true,
			})
			if err != nil {
				t.Fatalf("append event: %v", err)
			}
		})
	}
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	sess := testSession("s1", "amy", domain.ModeTeacher, time.Now())
	sess.AddTurn(domain.RoleUser, "original")
	if err := repo.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutating the caller's copy after create must not affect the store.
	sess.Turns[0].Content = "mutated"

	got, _ := repo.GetSession(ctx, "s1")
	if got.Turns[0].Content != "original" {
		t.Error("store shares turn slices with callers")
	}

	// Mutating a read result must not affect the store either.
	got.Turns[0].Content = "also mutated"
	again, _ := repo.GetSession(ctx, "s1")
	if again.Turns[0].Content != "original" {
		t.Error("reads share turn slices with the store")
	}
}
