// Package prompt assembles system and user instructions for the
// generation client from persona, reply mode, grade and topic.
package prompt

import (
	"fmt"
	"strings"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"
)

// DefaultGradeLevel is assumed when a request carries no grade.
const DefaultGradeLevel = "1st grade"

// Topic defaults differ by call site and both must be preserved:
// greetings use WelcomeTopic, open chat uses ChatTopic.
const (
	WelcomeTopic = "Welcome"
	ChatTopic    = "General math practice"
)

const tutorRules = `Rules:
- Explain step by step using simple language.
- Focus only on math appropriate for the student's grade.
- Encourage the student and be positive.
- If the student asks about something non-math, gently redirect back to math.`

const miniLectureRules = `The student asked for a mini-lecture on the current topic. Ignore any free-form question and produce a short lesson with exactly this structure:
1. A title line.
2. One sentence stating the learning goal.
3. Three short bullet points explaining the idea.
4. One worked example.
5. One practice question for the student.
Do not ask a follow-up question. Keep the whole lesson under 10 sentences.`

const stepByStepRules = `Work through the problem one small step at a time. After each step, ask a small check-in question and wait for the student before moving on. Never give the full solution at once.`

const plainRules = `Answer the student's question directly in a few short sentences. Ask one follow-up question sometimes to check understanding. Never go above the student's grade level.`

// Input carries everything the builder needs for one exchange.
type Input struct {
	Persona     domain.Persona
	StepByStep  bool
	MiniLecture bool
	GradeLevel  string
	Topic       string
	Message     string
}

// Build maps an Input to the (system, user) instruction pair for the
// generation client. It is pure and never returns an empty string for
// either side. Reply modes are mutually exclusive: a mini-lecture wins
// over step-by-step, which wins over a plain answer.
func Build(in Input) (system, user string) {
	grade := in.GradeLevel
	if strings.TrimSpace(grade) == "" {
		grade = DefaultGradeLevel
	}

	var sys strings.Builder
	sys.WriteString(personaPreamble(in.Persona))
	sys.WriteString("\n\n")
	sys.WriteString(tutorRules)
	sys.WriteString("\n\n")

	switch {
	case in.MiniLecture:
		sys.WriteString(miniLectureRules)
	case in.StepByStep:
		sys.WriteString(stepByStepRules)
	default:
		sys.WriteString(plainRules)
	}

	var usr strings.Builder
	fmt.Fprintf(&usr, "Student grade level: %s\n", grade)
	fmt.Fprintf(&usr, "Current topic / mission: %s\n", in.Topic)

	if in.MiniLecture {
		fmt.Fprintf(&usr, "\nGive a mini-lecture on: %s\n", in.Topic)
	} else {
		fmt.Fprintf(&usr, "\nStudent message: %s\n", in.Message)
	}

	return sys.String(), usr.String()
}

// WelcomeInstruction is the internal, never-stored prompt used to produce
// the greeting turn of a new session.
func WelcomeInstruction(gradeLevel string) string {
	if strings.TrimSpace(gradeLevel) == "" {
		gradeLevel = DefaultGradeLevel
	}
	return fmt.Sprintf(
		"Please introduce yourself as LearnBot, a friendly %s math tutor, and invite the student to ask a math question.",
		gradeLevel,
	)
}
