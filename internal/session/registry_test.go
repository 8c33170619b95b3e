package session

import (
	"context"
	"strings"
	"testing"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(store.NewMemory())
}

func create(t *testing.T, r *Registry, owner string, mode domain.Mode) *domain.Session {
	t.Helper()
	s, err := r.Create(context.Background(), CreateParams{
		Owner:      owner,
		Topic:      "fractions",
		GradeLevel: "3rd grade",
		Mode:       mode,
		Difficulty: domain.DifficultyNormal,
		Persona:    domain.PersonaCoach,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return s
}

func TestCreate_DistinctIDs(t *testing.T) {
	r := newTestRegistry(t)

	a := create(t, r, "amy", domain.ModeTeacher)
	b := create(t, r, "amy", domain.ModeTeacher)
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %q", a.ID)
	}
	if a.ID == "" {
		t.Fatal("expected a non-empty id")
	}
}

func TestFindForOwner(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	s := create(t, r, "amy", domain.ModeTeacher)

	got, err := r.FindForOwner(ctx, s.ID, "amy")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != s.ID {
		t.Fatal("expected to find own session")
	}

	// Someone else's session looks exactly like a missing one.
	got, err = r.FindForOwner(ctx, s.ID, "ben")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for another owner's session")
	}

	got, err = r.FindForOwner(ctx, "no-such-id", "amy")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestDeleteForOwner_Idempotent(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	s := create(t, r, "amy", domain.ModeTeacher)

	deleted, err := r.DeleteForOwner(ctx, s.ID, "ben")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatal("expected no deletion for another owner")
	}

	deleted, err = r.DeleteForOwner(ctx, s.ID, "amy")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion to occur")
	}

	deleted, err = r.DeleteForOwner(ctx, s.ID, "amy")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatal("expected repeat deletion to report false")
	}
}

func TestAppendTurn_UnknownIDIsNoOp(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.AppendTurn(context.Background(), "no-such-id", domain.RoleUser, "hello"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestAppendTurn_Order(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	s := create(t, r, "amy", domain.ModeTeacher)

	if err := r.AppendTurn(ctx, s.ID, domain.RoleUser, "What is 2 + 2?"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := r.AppendTurn(ctx, s.ID, domain.RoleBot, "It's 4!"); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := r.FindForOwner(ctx, s.ID, "amy")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got.Turns))
	}
	if got.Turns[0].Role != domain.RoleUser || got.Turns[1].Role != domain.RoleBot {
		t.Errorf("unexpected turn order: %v, %v", got.Turns[0].Role, got.Turns[1].Role)
	}
}

func TestMutate_UnknownID(t *testing.T) {
	r := newTestRegistry(t)

	called := false
	ok, err := r.Mutate(context.Background(), "no-such-id", func(*domain.Session) { called = true })
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if ok || called {
		t.Fatal("expected mutate on unknown id to skip the callback")
	}
}

func TestListForOwner_FiltersByOwnerAndMode(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	create(t, r, "amy", domain.ModeTeacher)
	create(t, r, "amy", domain.ModeGame)
	create(t, r, "ben", domain.ModeTeacher)

	got, err := r.ListForOwner(ctx, "amy", domain.ModeTeacher)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 teacher session for amy, got %d", len(got))
	}
	if got[0].Owner != "amy" || got[0].Mode != domain.ModeTeacher {
		t.Errorf("unexpected session in list: owner=%q mode=%q", got[0].Owner, got[0].Mode)
	}
}

func TestDefaultTitle(t *testing.T) {
	if got := defaultTitle("My Session", "fractions"); got != "My Session" {
		t.Errorf("explicit title should win, got %q", got)
	}
	if got := defaultTitle("", "fractions"); got != "fractions" {
		t.Errorf("topic should be used, got %q", got)
	}

	// Blank and greeting topics fall through to rotating placeholders.
	a := defaultTitle("", "")
	b := defaultTitle("", "Welcome")
	if a == b {
		t.Errorf("placeholders should rotate, got %q twice", a)
	}
	for _, got := range []string{a, b} {
		if !strings.Contains(got, "#") {
			t.Errorf("placeholder %q missing counter", got)
		}
	}
}

func TestSummary(t *testing.T) {
	s := &domain.Session{}
	if got := Summary(s); got != "(empty)" {
		t.Errorf("expected (empty), got %q", got)
	}

	s.AddTurn(domain.RoleUser, "hi")
	if got := Summary(s); got != "(no summary)" {
		t.Errorf("expected (no summary), got %q", got)
	}

	s.AddTurn(domain.RoleBot, "Hello! Ready for some math?")
	s.AddTurn(domain.RoleBot, "Second reply")
	if got := Summary(s); got != "Hello! Ready for some math?" {
		t.Errorf("expected first bot turn, got %q", got)
	}
}
