package guided

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IanScripts/Learnbot-AiTutor/internal/llm"
	"github.com/IanScripts/Learnbot-AiTutor/internal/parse"
)

func problemJSON() json.RawMessage {
	return json.RawMessage(`{
		"problem": "What is 23 + 18?",
		"steps": ["Add the ones: 3 + 8 = 11.", "Write 1, carry 1.", "Add the tens: 2 + 1 + 1 = 4.", "So 23 + 18 = 41."]
	}`)
}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: problemJSON()})
	gen := NewGenerator(mock, DefaultConfig())

	p := gen.Generate(context.Background(), "addition", "3rd grade")
	if p.Problem != "What is 23 + 18?" {
		t.Errorf("unexpected problem: %q", p.Problem)
	}
	if len(p.Steps) != 4 {
		t.Errorf("expected 4 steps, got %d", len(p.Steps))
	}
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := NewGenerator(mock, DefaultConfig())

	p := gen.Generate(context.Background(), "addition", "3rd grade")
	if p.Problem != parse.FallbackGuidedProblem().Problem {
		t.Errorf("expected fallback problem, got %q", p.Problem)
	}
}

func TestGenerate_MalformedFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"no steps here"`)})
	gen := NewGenerator(mock, DefaultConfig())

	p := gen.Generate(context.Background(), "addition", "3rd grade")
	if p.Problem != parse.FallbackGuidedProblem().Problem {
		t.Errorf("expected fallback problem, got %q", p.Problem)
	}
}

func TestCheckStep_ReturnsReplyVerbatim(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"Nice work, 11 is exactly right!"`),
	})
	gen := NewGenerator(mock, DefaultConfig())

	reply, err := gen.CheckStep(context.Background(), "What is 23 + 18?", "Add the ones: 3 + 8 = 11.", "11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Nice work, 11 is exactly right!" {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestCheckStep_ProviderErrorSurfaces(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := NewGenerator(mock, DefaultConfig())

	if _, err := gen.CheckStep(context.Background(), "p", "s", "a"); err == nil {
		t.Fatal("expected an error when generation fails")
	}
}

func TestHint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"Try adding the ones digits first."`),
	})
	gen := NewGenerator(mock, DefaultConfig())

	hint, err := gen.Hint(context.Background(), "What is 23 + 18?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint != "Try adding the ones digits first." {
		t.Errorf("unexpected hint: %q", hint)
	}
}
