// Package quiz generates and checks multiple-choice challenges.
package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
	"github.com/IanScripts/Learnbot-AiTutor/internal/llm"
	"github.com/IanScripts/Learnbot-AiTutor/internal/parse"
)

const systemPrompt = `You are a math quiz generator for children.

Rules:
- Generate a single multiple-choice math question appropriate for the given grade and topic.
- If the topic is blank or generic, pick a subject yourself by grade band: counting and simple addition for kindergarten through 2nd grade, multiplication and fractions for 3rd through 5th grade, ratios and negative numbers for 6th grade and up.
- Provide exactly 4 answer choices where exactly one is correct. Distractors should reflect common mistakes, not random values.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols.
- Respond with a JSON object: {"question": "...", "choices": ["...", "...", "...", "..."], "correct": "A"} where "correct" is the single letter A, B, C or D of the right choice.`

// ChallengeSchema constrains the quiz generation response.
var ChallengeSchema = &llm.Schema{
	Name:        "quiz-challenge",
	Description: "A multiple-choice math question with 4 options and one correct letter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question prompt shown to the student, in plain ASCII text",
			},
			"choices": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 answer options",
			},
			"correct": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C", "D"},
				"description": "The letter of the correct choice",
			},
		},
		"required":             []any{"question", "choices", "correct"},
		"additionalProperties": false,
	},
}

// Config controls the quiz generator.
type Config struct {
	// MaxAttempts bounds the anti-repetition loop. The generator never
	// fails outright: after MaxAttempts duplicates the last attempt is
	// returned anyway.
	MaxAttempts int

	// MaxTokens is the token budget for the generation response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		MaxTokens:   512,
		Temperature: 0.9,
	}
}

// Generator produces multiple-choice challenges via the generation client.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// NewGenerator creates a Generator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Generate produces a fresh challenge for the topic and grade. The
// returned Correct field is always the text of one of the 4 choices.
// lastQuestion is the previous question for this session; an identical
// question triggers a regeneration, bounded by Config.MaxAttempts.
// Malformed or failed generation degrades to the fixed fallback challenge.
func (g *Generator) Generate(ctx context.Context, topic, grade, lastQuestion string) domain.Challenge {
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	attempts := g.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var ch domain.Challenge
	for range attempts {
		ch = g.generateOnce(ctx, topic, grade)
		if ch.Question != lastQuestion {
			return ch
		}
	}
	return ch
}

func (g *Generator) generateOnce(ctx context.Context, topic, grade string) domain.Challenge {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, grade)},
		},
		Schema:      ChallengeSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return resolveCorrect(parse.FallbackChallenge())
	}
	return resolveCorrect(parse.MultipleChoice(string(resp.Content)))
}

// buildUserMessage assembles the per-request instructions. The nonce
// discourages the model from repeating a cached question verbatim.
func buildUserMessage(topic, grade string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade: %s\n", grade)
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Variation seed: %08x\n", rand.Uint32())
	b.WriteString("\nGenerate one new question now.")
	return b.String()
}

// resolveCorrect replaces a letter answer (A-D) with the text of the
// matching choice. An unmappable letter defaults to the first choice.
func resolveCorrect(ch domain.Challenge) domain.Challenge {
	ch.Correct = ch.Choices[letterIndex(ch.Correct)]
	return ch
}

// letterIndex maps "A".."D" (any case, trailing punctuation tolerated) to
// a 0-based choice index, defaulting to 0.
func letterIndex(correct string) int {
	s := strings.TrimSpace(correct)
	if s == "" {
		return 0
	}
	r := unicode.ToUpper(rune(s[0]))
	if r < 'A' || r > 'D' {
		return 0
	}
	return int(r - 'A')
}
