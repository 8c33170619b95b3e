package domain

// ChoiceCount is the number of options every multiple-choice challenge carries.
const ChoiceCount = 4

// Challenge is a generated multiple-choice question. It is ephemeral: the
// question and correct answer are copied onto the owning session for the
// answer check, the choices live only in the response to the caller.
type Challenge struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Correct  string   `json:"correct"`
}

// GuidedProblem is a practice problem decomposed into ordered steps the
// student works through one at a time.
type GuidedProblem struct {
	Problem string   `json:"problem"`
	Steps   []string `json:"steps"`
}
