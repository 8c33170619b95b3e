package tutor

import "errors"

var (
	// ErrUnauthorized means no identity could be resolved for the request.
	ErrUnauthorized = errors.New("user must be signed in")

	// ErrNotFound covers both a missing session and one owned by another
	// user; the two causes are deliberately indistinguishable.
	ErrNotFound = errors.New("session not found for this user")

	// ErrNoChallenge means an answer check arrived with no challenge
	// outstanding on the session.
	ErrNoChallenge = errors.New("no active challenge for this session")

	// ErrNoProblem means a step submission arrived with no guided problem
	// active on the session.
	ErrNoProblem = errors.New("no active guided problem for this session")

	// ErrUpstream means the generation client failed outright. Callers
	// should surface a generic retry-later message.
	ErrUpstream = errors.New("the tutor is unavailable right now, please try again")
)
