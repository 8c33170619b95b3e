// Package guided generates step-decomposed practice problems and advisory
// feedback on each step.
package guided

import (
	"context"
	"fmt"
	"strings"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/llm"
	"github.com/IanScripts/Learnbot-AiTutor/internal/parse"
)

const problemSystemPrompt = `You are a math tutor preparing a guided practice problem for a child.

Rules:
- Create one math problem appropriate for the given grade and topic.
- Break the solution into 2 to 6 short steps the student works through one at a time. Each step is a single instruction or question.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols.
- Respond with a JSON object: {"problem": "...", "steps": ["...", "..."]}.`

const stepCheckSystemPrompt = `You are a math tutor watching a child work through one step of a problem. Respond in 1 or 2 short sentences. Be encouraging. If the student's answer for this step is wrong, gently nudge them toward the right idea without giving the full solution.`

const hintSystemPrompt = `You are a math tutor. A child is stuck on a practice problem and asked for a hint. Respond with one short, encouraging hint that points at the next thing to try. Never reveal the final answer.`

// ProblemSchema constrains guided-problem generation responses.
var ProblemSchema = &llm.Schema{
	Name:        "guided-problem",
	Description: "A practice problem broken into 2-6 short steps",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem": map[string]any{
				"type":        "string",
				"description": "The problem statement, in plain ASCII text",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2 to 6 short solution steps in order",
			},
		},
		"required":             []any{"problem", "steps"},
		"additionalProperties": false,
	},
}

// Config controls the guided-problem generator.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 512, Temperature: 0.7}
}

// Generator produces guided problems and step feedback.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// NewGenerator creates a Generator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Generate produces a problem with 2-6 ordered steps. Malformed or failed
// generation degrades to the fixed fallback problem.
func (g *Generator) Generate(ctx context.Context, topic, grade string) domain.GuidedProblem {
	ctx = llm.WithPurpose(ctx, "guided-gen")

	var b strings.Builder
	fmt.Fprintf(&b, "Grade: %s\n", grade)
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	b.WriteString("\nGenerate one guided problem now.")

	req := llm.Request{
		System: problemSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		Schema:      ProblemSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return parse.FallbackGuidedProblem()
	}
	return parse.GuidedProblem(string(resp.Content))
}

// CheckStep sends the problem, the current step and the student's answer
// to the generation client and returns its reply verbatim. This call is
// advisory text only: no structured parsing, no correctness flag.
// A generation failure is returned to the caller.
func (g *Generator) CheckStep(ctx context.Context, problem, step, userAnswer string) (string, error) {
	ctx = llm.WithPurpose(ctx, "guided-step")

	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", problem)
	fmt.Fprintf(&b, "Current step: %s\n", step)
	fmt.Fprintf(&b, "Student's answer for this step: %s\n", userAnswer)

	req := llm.Request{
		System: stepCheckSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("step feedback generation: %w", err)
	}
	return llm.TextContent(resp), nil
}

// Hint asks for a short nudge on a stuck problem. Advisory text only.
func (g *Generator) Hint(ctx context.Context, problem, userAnswer string) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", problem)
	if strings.TrimSpace(userAnswer) != "" {
		fmt.Fprintf(&b, "Student's attempt so far: %s\n", userAnswer)
	}

	req := llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("hint generation: %w", err)
	}
	return llm.TextContent(resp), nil
}
