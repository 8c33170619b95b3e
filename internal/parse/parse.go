// Package parse turns raw generation-client output into domain objects.
// The generator is untrusted: any malformed output degrades to a fixed
// fallback instead of surfacing an error.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
)

// FallbackChallenge is returned when multiple-choice output cannot be
// parsed. The values are fixed so behavior stays deterministic and
// testable.
func FallbackChallenge() domain.Challenge {
	return domain.Challenge{
		Question: "Error generating question.",
		Choices:  []string{"1", "2", "3", "4"},
		Correct:  "1",
	}
}

// FallbackGuidedProblem is the fixed 3-step addition example returned when
// guided-problem output cannot be parsed.
func FallbackGuidedProblem() domain.GuidedProblem {
	return domain.GuidedProblem{
		Problem: "What is 7 + 5?",
		Steps: []string{
			"Start at 7.",
			"Count up 5 more: 8, 9, 10, 11, 12.",
			"So 7 + 5 = 12.",
		},
	}
}

const (
	minGuidedSteps = 2
	maxGuidedSteps = 6
)

// MultipleChoice parses raw text expected to contain a JSON object of the
// shape {question, choices[4], correct}. Invalid JSON, missing fields or a
// wrong choice count all yield FallbackChallenge.
func MultipleChoice(raw string) domain.Challenge {
	var out struct {
		Question string   `json:"question"`
		Choices  []string `json:"choices"`
		Correct  string   `json:"correct"`
	}
	if err := json.Unmarshal(extractJSON(raw), &out); err != nil {
		return FallbackChallenge()
	}
	if out.Question == "" || out.Correct == "" || len(out.Choices) != domain.ChoiceCount {
		return FallbackChallenge()
	}
	for _, c := range out.Choices {
		if c == "" {
			return FallbackChallenge()
		}
	}
	return domain.Challenge{Question: out.Question, Choices: out.Choices, Correct: out.Correct}
}

// GuidedProblem parses raw text expected to contain a JSON object of the
// shape {problem, steps[2..6]}. Anything else yields FallbackGuidedProblem.
func GuidedProblem(raw string) domain.GuidedProblem {
	var out struct {
		Problem string   `json:"problem"`
		Steps   []string `json:"steps"`
	}
	if err := json.Unmarshal(extractJSON(raw), &out); err != nil {
		return FallbackGuidedProblem()
	}
	if out.Problem == "" || len(out.Steps) < minGuidedSteps || len(out.Steps) > maxGuidedSteps {
		return FallbackGuidedProblem()
	}
	for _, s := range out.Steps {
		if s == "" {
			return FallbackGuidedProblem()
		}
	}
	return domain.GuidedProblem{Problem: out.Problem, Steps: out.Steps}
}

// extractJSON pulls the first top-level JSON object out of raw text.
// Models sometimes wrap JSON in markdown fences or prose; unwrapping here
// keeps the decoders strict.
func extractJSON(raw string) []byte {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return []byte(s)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return []byte(s[start : i+1])
			}
		}
	}
	return []byte(s[start:])
}
