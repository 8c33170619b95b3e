package domain

// Mode is the coarse session category.
type Mode string

const (
	ModeTeacher Mode = "teacher" // chat-driven tutoring
	ModeGame    Mode = "game"    // practice-driven play
)

// ParseMode resolves a mode string leniently. Unknown or blank input maps
// to ModeTeacher rather than failing.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTeacher, ModeGame:
		return Mode(s)
	default:
		return ModeTeacher
	}
}

// Difficulty selects how much scaffolding replies carry.
type Difficulty string

const (
	DifficultyGuided Difficulty = "guided"
	DifficultyNormal Difficulty = "normal"
	DifficultyEasy   Difficulty = "easy"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty resolves a difficulty string leniently, defaulting to
// DifficultyNormal.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyGuided, DifficultyNormal, DifficultyEasy, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyNormal
	}
}

// Persona is the stylistic voice applied to generated replies.
type Persona string

const (
	PersonaCoach  Persona = "coach"
	PersonaWizard Persona = "wizard"
	PersonaSpace  Persona = "space"
)

// ParsePersona resolves a persona string leniently, defaulting to
// PersonaCoach.
func ParsePersona(s string) Persona {
	switch Persona(s) {
	case PersonaCoach, PersonaWizard, PersonaSpace:
		return Persona(s)
	default:
		return PersonaCoach
	}
}
