package quiz

import (
	"fmt"
	"strings"
)

// Result is the outcome of checking a student's answer.
type Result struct {
	Correct       bool
	Explanation   string
	CorrectAnswer string
}

// Normalize canonicalizes an answer for comparison: leading and trailing
// whitespace is removed, internal whitespace runs collapse to a single
// space, and the result is lowercased. Normalize is idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Check compares the student's answer against the recorded correct answer
// text. Both sides are normalized before comparison.
func Check(userAnswer, correctAnswer string) Result {
	if Normalize(userAnswer) == Normalize(correctAnswer) {
		return Result{
			Correct:       true,
			Explanation:   "Great job! That's the right answer.",
			CorrectAnswer: correctAnswer,
		}
	}
	return Result{
		Correct:       false,
		Explanation:   fmt.Sprintf("Not quite! The correct answer is %s. Keep practicing!", correctAnswer),
		CorrectAnswer: correctAnswer,
	}
}
